package usecase

import (
	"context"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/service/report"
)

const pdfContentType = "application/pdf"

type ReportUseCase struct {
	repo    interfaces.Repository
	storage interfaces.ReportStorage
	title   string
}

func NewReportUseCase(repo interfaces.Repository, storage interfaces.ReportStorage, title string) *ReportUseCase {
	return &ReportUseCase{
		repo:    repo,
		storage: storage,
		title:   title,
	}
}

// Report is a rendered PDF ready for download
type Report struct {
	FileName string
	Data     []byte
}

func (uc *ReportUseCase) Render(ctx context.Context, id model.OperationID) (*Report, error) {
	op, err := getOperation(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	data, err := report.PDF(op, report.WithTitle(uc.title))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render report", goerr.V(OperationIDKey, id))
	}

	return &Report{
		FileName: report.FileName(op),
		Data:     data,
	}, nil
}

// Markdown renders the scorecard of an operation as Markdown text
func (uc *ReportUseCase) Markdown(ctx context.Context, id model.OperationID) (string, error) {
	op, err := getOperation(ctx, uc.repo, id)
	if err != nil {
		return "", err
	}

	return report.Markdown(op), nil
}

// Publish renders the report and uploads it to the report storage, returning its location
func (uc *ReportUseCase) Publish(ctx context.Context, id model.OperationID) (string, error) {
	if uc.storage == nil {
		return "", goerr.Wrap(ErrReportStorageNotConfigured, "cannot publish report", goerr.V(OperationIDKey, id))
	}

	r, err := uc.Render(ctx, id)
	if err != nil {
		return "", err
	}

	location, err := uc.storage.Put(ctx, path.Join(id.String(), r.FileName), pdfContentType, r.Data)
	if err != nil {
		return "", goerr.Wrap(err, "failed to publish report", goerr.V(OperationIDKey, id))
	}

	return location, nil
}
