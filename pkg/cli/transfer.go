package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/service/transfer"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/secmon-lab/ccirating/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// resolveFormat prefers an explicit --format and falls back to the file extension
func resolveFormat(flag, path string) (transfer.Format, error) {
	if flag != "" {
		return transfer.ParseFormat(flag)
	}
	return transfer.FormatFromPath(path), nil
}

func cmdExport() *cli.Command {
	var env environment
	var output string
	var format string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file (stdout when omitted)",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Document format (json or yaml). Defaults to the output file extension",
			Destination: &format,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "export",
		Usage:     "Export an operation with its analysis as a JSON or YAML document",
		ArgsUsage: "<operation-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := operationIDArg(c)
			if err != nil {
				return err
			}
			f, err := resolveFormat(format, output)
			if err != nil {
				return err
			}

			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			doc, err := uc.Transfer.Export(ctx, id)
			if err != nil {
				return err
			}

			if output == "" {
				return transfer.Encode(c.Root().Writer, doc, f)
			}

			// #nosec G304 - path is expected to be provided by CLI argument
			file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return goerr.Wrap(err, "failed to create export file", goerr.V("path", output))
			}

			if err := transfer.Encode(file, doc, f); err != nil {
				safe.Close(ctx, file, "export file")
				return err
			}
			if err := file.Close(); err != nil {
				return goerr.Wrap(err, "failed to close export file", goerr.V("path", output))
			}
			logging.Default().Info("Operation exported", "id", id, "path", output, "format", f)
			return nil
		},
	}
}

func cmdImport() *cli.Command {
	var env environment
	var format string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Document format (json or yaml). Defaults to the file extension",
			Destination: &format,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "import",
		Usage:     "Import an operation from a JSON or YAML document. Use - to read stdin",
		ArgsUsage: "<path>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("document path is required")
			}
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			var r io.Reader = c.Root().Reader
			if path != "-" {
				// #nosec G304 - path is expected to be provided by CLI argument
				file, err := os.Open(path)
				if err != nil {
					return goerr.Wrap(err, "failed to open document", goerr.V("path", path))
				}
				defer safe.Close(ctx, file, "import document")
				r = file
			}

			doc, err := transfer.Decode(r, f)
			if err != nil {
				return err
			}

			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			result, err := uc.Transfer.Import(ctx, doc)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Imported %s (%s): %s\n", result.Operation.ID, result.Operation.Name, colorRating(result.Operation.Rating()))
			if result.Mismatch {
				fmt.Fprintln(w, "Warning: the rating stored in the document differs from the recalculated one; the recalculated rating was kept")
			}
			return nil
		},
	}
}
