package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/cli/config"
	"github.com/secmon-lab/ccirating/pkg/usecase"
	"github.com/secmon-lab/ccirating/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// environment groups the configuration every storage-backed command shares
type environment struct {
	appCfg     config.App
	repoCfg    config.Repository
	storageCfg config.ReportStorage
}

func (e *environment) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, e.appCfg.Flags()...)
	flags = append(flags, e.repoCfg.Flags()...)
	flags = append(flags, e.storageCfg.Flags()...)
	return flags
}

// UseCases loads the app config, opens the repository and report storage, and
// returns the use cases built on them. The returned function releases both.
func (e *environment) UseCases(ctx context.Context) (*usecase.UseCases, func(), error) {
	appConfig, err := e.appCfg.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load application config")
	}

	repo, err := e.repoCfg.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closeRepo := func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}

	reportStorage, closeStorage, err := e.storageCfg.Configure(ctx)
	if err != nil {
		closeRepo()
		return nil, nil, goerr.Wrap(err, "failed to initialize report storage")
	}

	opts := []usecase.Option{
		usecase.WithDefaults(appConfig.OperationDefaults()),
		usecase.WithReportTitle(appConfig.ReportTitle()),
	}
	if reportStorage != nil {
		opts = append(opts, usecase.WithReportStorage(reportStorage))
	}

	uc := usecase.New(repo, opts...)
	return uc, func() {
		closeStorage()
		closeRepo()
	}, nil
}
