package memory

import "github.com/secmon-lab/ccirating/pkg/domain/interfaces"

// ErrNotFound is interfaces.ErrNotFound, re-exported for callers of this backend
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	operation *operationRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		operation: newOperationRepository(),
	}
}

func (m *Memory) Operation() interfaces.OperationRepository {
	return m.operation
}

func (m *Memory) Close() error {
	return nil
}
