package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/secmon-lab/ccirating/pkg/service/report"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Report   ReportConfig   `toml:"report"`
}

// DefaultsConfig overrides the values a new operation starts with
type DefaultsConfig struct {
	Name            string          `toml:"name"`
	Code            string          `toml:"code"`
	Issuer          string          `toml:"issuer"`
	Volume          string          `toml:"volume"`
	Rate            *float64        `toml:"rate"`
	Indexer         string          `toml:"indexer"`
	TermMonths      *int            `toml:"term_months"`
	Amortization    string          `toml:"amortization"`
	IssueDate       *toml.LocalDate `toml:"issue_date"`
	LTV             *float64        `toml:"ltv"`
	Demanda         *int64          `toml:"demanda"`
	Comprometimento *float64        `toml:"comprometimento"`
}

// ReportConfig customizes rendered reports
type ReportConfig struct {
	Title string `toml:"title"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	d := a.Defaults
	if d.Volume != "" {
		v, err := decimal.NewFromString(d.Volume)
		if err != nil {
			return goerr.Wrap(ErrInvalidConfig, "defaults.volume is not a number", goerr.V(FieldKey, "defaults.volume"), goerr.V("value", d.Volume))
		}
		if v.IsNegative() {
			return goerr.Wrap(ErrInvalidConfig, "defaults.volume must not be negative", goerr.V(FieldKey, "defaults.volume"))
		}
	}
	if d.Indexer != "" && !types.Indexer(d.Indexer).IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "invalid defaults.indexer", goerr.V(FieldKey, "defaults.indexer"), goerr.V("value", d.Indexer))
	}
	if d.Amortization != "" && !types.Amortization(d.Amortization).IsValid() {
		return goerr.Wrap(ErrInvalidConfig, "invalid defaults.amortization", goerr.V(FieldKey, "defaults.amortization"), goerr.V("value", d.Amortization))
	}
	if d.TermMonths != nil && *d.TermMonths < 0 {
		return goerr.Wrap(ErrInvalidConfig, "defaults.term_months must not be negative", goerr.V(FieldKey, "defaults.term_months"))
	}
	if d.LTV != nil && *d.LTV < 0 {
		return goerr.Wrap(ErrInvalidConfig, "defaults.ltv must not be negative", goerr.V(FieldKey, "defaults.ltv"))
	}
	if d.Demanda != nil && *d.Demanda < 0 {
		return goerr.Wrap(ErrInvalidConfig, "defaults.demanda must not be negative", goerr.V(FieldKey, "defaults.demanda"))
	}
	if d.Comprometimento != nil && *d.Comprometimento < 0 {
		return goerr.Wrap(ErrInvalidConfig, "defaults.comprometimento must not be negative", goerr.V(FieldKey, "defaults.comprometimento"))
	}
	return nil
}

// OperationDefaults merges the configured overrides onto the built-in defaults
func (a *AppConfig) OperationDefaults() model.OperationDefaults {
	out := model.DefaultOperationDefaults()
	d := a.Defaults

	if d.Name != "" {
		out.Name = d.Name
	}
	if d.Code != "" {
		out.Code = d.Code
	}
	if d.Issuer != "" {
		out.Issuer = d.Issuer
	}
	if v, err := decimal.NewFromString(d.Volume); err == nil {
		out.Volume = v
	}
	if d.Rate != nil {
		out.Rate = *d.Rate
	}
	if d.Indexer != "" {
		out.Indexer = types.Indexer(d.Indexer)
	}
	if d.TermMonths != nil {
		out.TermMonths = *d.TermMonths
	}
	if d.Amortization != "" {
		out.Amortization = types.Amortization(d.Amortization)
	}
	if d.IssueDate != nil {
		out.IssueDate = d.IssueDate.AsTime(time.UTC)
	}
	if d.LTV != nil {
		out.Inputs.LTV = *d.LTV
	}
	if d.Demanda != nil {
		out.Inputs.Demanda = *d.Demanda
	}
	if d.Comprometimento != nil {
		out.Inputs.Comprometimento = *d.Comprometimento
	}
	return out
}

// ReportTitle returns the configured report title or the built-in one
func (a *AppConfig) ReportTitle() string {
	if a.Report.Title != "" {
		return a.Report.Title
	}
	return report.DefaultTitle
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the CLI flag pointing at the application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for application configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML application config (optional)",
			Sources:     cli.EnvVars("CCIRATING_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the configuration file. Without --config the built-in defaults apply.
func (a *App) Configure() (*AppConfig, error) {
	if a.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(a.path)
}
