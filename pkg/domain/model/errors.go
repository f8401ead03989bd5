package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidInput     = goerr.New("invalid risk input")
	ErrInvalidOperation = goerr.New("invalid operation")
)

// Context keys for error values
const (
	InputKey       = "input"
	InputValueKey  = "input_value"
	OperationIDKey = "operation_id"
	FieldKey       = "field"
)
