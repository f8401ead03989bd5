package interfaces

import "context"

// ReportStorage keeps rendered reports outside the operation store
type ReportStorage interface {
	// Put stores data under name and returns a location the report can be fetched from
	Put(ctx context.Context, name string, contentType string, data []byte) (string, error)
}
