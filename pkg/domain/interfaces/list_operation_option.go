package interfaces

import "github.com/secmon-lab/ccirating/pkg/domain/types"

// ListOperationOption is a functional option for filtering operations in List
type ListOperationOption func(*listOperationConfig)

type listOperationConfig struct {
	rating *types.Rating
}

// WithRating filters operations by their saved letter rating
func WithRating(rating types.Rating) ListOperationOption {
	return func(c *listOperationConfig) {
		c.rating = &rating
	}
}

// BuildListOperationConfig builds a listOperationConfig from options
func BuildListOperationConfig(opts ...ListOperationOption) *listOperationConfig {
	cfg := &listOperationConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Rating returns the rating filter value, or nil if not set
func (c *listOperationConfig) Rating() *types.Rating {
	return c.rating
}
