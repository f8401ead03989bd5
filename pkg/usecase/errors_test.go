package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ccirating/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrOperationNotFound", usecase.ErrOperationNotFound},
		{"ErrInvalidInput", usecase.ErrInvalidInput},
		{"ErrReportStorageNotConfigured", usecase.ErrReportStorageNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrOperationNotFound, usecase.ErrInvalidInput)).False()
	gt.Bool(t, errors.Is(usecase.ErrInvalidInput, usecase.ErrReportStorageNotConfigured)).False()
}
