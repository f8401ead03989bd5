package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrOperationNotFound = errors.New("operation not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Configuration errors
	ErrReportStorageNotConfigured = errors.New("report storage is not configured")
)

// Context keys for error values
const (
	OperationIDKey = "operation_id"
)

// invalidInput marks err as a client error while keeping its own chain
func invalidInput(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(errors.Join(ErrInvalidInput, err), msg, opts...)
}
