package usecase

import (
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/report"
)

const defaultRecalcConcurrency = 8

type UseCases struct {
	repo              interfaces.Repository
	defaults          model.OperationDefaults
	reportStorage     interfaces.ReportStorage
	reportTitle       string
	recalcConcurrency int

	Operation *OperationUseCase
	Rating    *RatingUseCase
	Report    *ReportUseCase
	Transfer  *TransferUseCase
}

type Option func(*UseCases)

// WithDefaults sets the values new operations start with
func WithDefaults(d model.OperationDefaults) Option {
	return func(uc *UseCases) {
		uc.defaults = d
	}
}

func WithReportStorage(s interfaces.ReportStorage) Option {
	return func(uc *UseCases) {
		uc.reportStorage = s
	}
}

func WithReportTitle(title string) Option {
	return func(uc *UseCases) {
		uc.reportTitle = title
	}
}

// WithRecalcConcurrency bounds the number of operations re-rated in parallel
func WithRecalcConcurrency(n int) Option {
	return func(uc *UseCases) {
		if n > 0 {
			uc.recalcConcurrency = n
		}
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:              repo,
		defaults:          model.DefaultOperationDefaults(),
		reportTitle:       report.DefaultTitle,
		recalcConcurrency: defaultRecalcConcurrency,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Operation = NewOperationUseCase(repo, uc.defaults)
	uc.Rating = NewRatingUseCase(repo, uc.recalcConcurrency)
	uc.Report = NewReportUseCase(repo, uc.reportStorage, uc.reportTitle)
	uc.Transfer = NewTransferUseCase(repo, uc.defaults)

	return uc
}
