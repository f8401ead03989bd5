package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var env environment
	var output string
	var publish bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "PDF output path (defaults to Relatorio_CCI_<name>.pdf in the current directory)",
			Destination: &output,
		},
		&cli.BoolFlag{
			Name:        "publish",
			Usage:       "Upload the PDF to the report bucket instead of writing a file",
			Destination: &publish,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "report",
		Usage:     "Render the PDF rating report of an operation",
		ArgsUsage: "<operation-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := operationIDArg(c)
			if err != nil {
				return err
			}

			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			w := c.Root().Writer
			if publish {
				location, err := uc.Report.Publish(ctx, id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "Published %s\n", location)
				return err
			}

			rep, err := uc.Report.Render(ctx, id)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = rep.FileName
			}
			if err := os.WriteFile(path, rep.Data, 0o600); err != nil {
				return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
			}
			_, err = fmt.Fprintf(w, "Wrote %s\n", path)
			return err
		},
	}
}
