package interfaces

import "github.com/m-mizutani/goerr/v2"

// Repository defines the interface for data persistence
type Repository interface {
	Operation() OperationRepository

	Close() error
}

// ErrNotFound is returned by every repository backend when the requested entity does not exist
var ErrNotFound = goerr.New("not found")
