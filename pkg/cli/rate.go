package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/rating"
	"github.com/secmon-lab/ccirating/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// riskInputFlags binds one flag per rating driver. Unset flags keep the base value.
type riskInputFlags struct {
	ltv             float64
	demanda         int64
	behavior30To60  int
	behavior60To90  int
	behavior90Plus  int
	comprometimento float64
	inad30To60      int
	inad60To90      int
	inad90Plus      int
}

func (f *riskInputFlags) Flags() []cli.Flag {
	count := func(name, usage string, dst *int) cli.Flag {
		return &cli.IntFlag{Name: name, Usage: usage, Category: "Risk inputs", Destination: dst}
	}
	return []cli.Flag{
		&cli.FloatFlag{Name: "ltv", Usage: "Loan-to-value in percent", Category: "Risk inputs", Destination: &f.ltv},
		&cli.Int64Flag{Name: "demanda", Usage: "Demand amount", Category: "Risk inputs", Destination: &f.demanda},
		count("behavior-30-60", "Payment delays of 30-60 days", &f.behavior30To60),
		count("behavior-60-90", "Payment delays of 60-90 days", &f.behavior60To90),
		count("behavior-90-plus", "Payment delays over 90 days", &f.behavior90Plus),
		&cli.FloatFlag{Name: "comprometimento", Usage: "Income commitment in percent", Category: "Risk inputs", Destination: &f.comprometimento},
		count("inad-30-60", "Defaults of 30-60 days", &f.inad30To60),
		count("inad-60-90", "Defaults of 60-90 days", &f.inad60To90),
		count("inad-90-plus", "Defaults over 90 days", &f.inad90Plus),
	}
}

// Apply overrides base with every flag given on the command line
func (f *riskInputFlags) Apply(c *cli.Command, base model.RiskInputs) model.RiskInputs {
	in := base
	if c.IsSet("ltv") {
		in.LTV = f.ltv
	}
	if c.IsSet("demanda") {
		in.Demanda = f.demanda
	}
	if c.IsSet("behavior-30-60") {
		in.Behavior30To60 = f.behavior30To60
	}
	if c.IsSet("behavior-60-90") {
		in.Behavior60To90 = f.behavior60To90
	}
	if c.IsSet("behavior-90-plus") {
		in.Behavior90Plus = f.behavior90Plus
	}
	if c.IsSet("comprometimento") {
		in.Comprometimento = f.comprometimento
	}
	if c.IsSet("inad-30-60") {
		in.Inad30To60 = f.inad30To60
	}
	if c.IsSet("inad-60-90") {
		in.Inad60To90 = f.inad60To90
	}
	if c.IsSet("inad-90-plus") {
		in.Inad90Plus = f.inad90Plus
	}
	return in
}

func cmdRate() *cli.Command {
	var inputs riskInputFlags
	var env environment
	var operationID string
	var justification string
	var reference string
	var asJSON bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "operation",
			Aliases:     []string{"o"},
			Usage:       "Rate the stored operation and save the result. Its inputs are the base for unset flags",
			Destination: &operationID,
		},
		&cli.StringFlag{
			Name:        "justification",
			Usage:       "Justification saved with the rating (with --operation)",
			Destination: &justification,
		},
		&cli.StringFlag{
			Name:        "reference",
			Usage:       "Analysis reference saved with the rating (with --operation)",
			Destination: &reference,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the result as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, inputs.Flags()...)
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:  "rate",
		Usage: "Calculate the rating of a CCI from risk inputs",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			var res *rating.Result

			if operationID == "" {
				appConfig, err := env.appCfg.Configure()
				if err != nil {
					return goerr.Wrap(err, "failed to load application config")
				}

				in := inputs.Apply(c, appConfig.OperationDefaults().Inputs)
				res, err = usecase.NewRatingUseCase(nil, 0).Calculate(in)
				if err != nil {
					return err
				}
			} else {
				saved, err := rateAndSave(ctx, c, &env, &inputs, model.OperationID(operationID), justification, reference)
				if err != nil {
					return err
				}
				res = &rating.Result{Scores: saved.Analysis.Scores, Final: saved.Analysis.Result}
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return goerr.Wrap(err, "failed to encode rating")
				}
				return nil
			}
			return printScorecard(w, res.Scores, res.Final)
		},
	}
}

func rateAndSave(ctx context.Context, c *cli.Command, env *environment, inputs *riskInputFlags, id model.OperationID, justification, reference string) (*model.Operation, error) {
	uc, closer, err := env.UseCases(ctx)
	if err != nil {
		return nil, err
	}
	defer closer()

	op, err := uc.Operation.GetOperation(ctx, id)
	if err != nil {
		return nil, err
	}

	in := inputs.Apply(c, op.Inputs)
	if !c.IsSet("justification") {
		justification = op.Justification
	}

	return uc.Rating.CalculateAndSave(ctx, id, usecase.SaveRequest{
		Inputs:        &in,
		Justification: justification,
		Reference:     reference,
	})
}
