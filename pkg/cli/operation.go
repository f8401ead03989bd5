package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

var errOperationIDRequired = goerr.New("operation ID is required")

// operationIDArg returns the first positional argument as an operation ID
func operationIDArg(c *cli.Command) (model.OperationID, error) {
	id := c.Args().First()
	if id == "" {
		return "", goerr.Wrap(errOperationIDRequired, "missing argument", goerr.V("command", c.Name))
	}
	return model.OperationID(id), nil
}

func cmdList() *cli.Command {
	var env environment
	var ratingFilter string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "rating",
			Usage:       "Show only operations with this rating (A+, A, A-, B, C or N/A)",
			Destination: &ratingFilter,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored operations, most recently updated first",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var opts []interfaces.ListOperationOption
			if ratingFilter != "" {
				r := types.Rating(strings.ToUpper(ratingFilter))
				if r != types.RatingNA && !r.IsValid() {
					return goerr.New("invalid rating filter", goerr.V("rating", ratingFilter))
				}
				opts = append(opts, interfaces.WithRating(r))
			}

			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			ops, err := uc.Operation.ListOperations(ctx, opts...)
			if err != nil {
				return err
			}
			return printOperations(c.Root().Writer, ops)
		},
	}
}

func cmdShow() *cli.Command {
	var env environment

	return &cli.Command{
		Name:      "show",
		Usage:     "Print the registration and scorecard of an operation as Markdown",
		ArgsUsage: "<operation-id>",
		Flags:     env.Flags(),
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

			md, err := uc.Report.Markdown(ctx, id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.Root().Writer, md)
			return err
		},
	}
}

func cmdDelete() *cli.Command {
	var env environment

	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a stored operation",
		ArgsUsage: "<operation-id>",
		Flags:     env.Flags(),
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

			if err := uc.Operation.DeleteOperation(ctx, id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
			return err
		},
	}
}

func cmdRecalc() *cli.Command {
	var env environment

	return &cli.Command{
		Name:  "recalc",
		Usage: "Re-rate every rated operation from its saved inputs",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.UseCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			summary, err := uc.Rating.Recalculate(ctx)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Operations: %d, rated: %d, changed: %d\n", summary.Total, summary.Rated, len(summary.Changed))
			for _, id := range summary.Changed {
				fmt.Fprintf(w, "  %s\n", id)
			}
			return nil
		},
	}
}
