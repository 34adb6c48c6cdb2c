package discount

import (
	"context"

	"mercadito/internal/model"
)

// Validation failures are domain errors so handlers map them to 422.
var (
	// ErrCodeLength is returned when a discount code has an invalid length.
	ErrCodeLength = model.InvalidArgument("discount code must be between 8 and 10 characters")

	// ErrCodeUnknown is returned when a discount code is not recognised.
	ErrCodeUnknown = model.InvalidArgument("discount code is not recognised")
)

// Validator authorises discount codes supplied on direct order creation.
type Validator interface {
	// Validate checks whether a discount code is valid.
	// A valid code must:
	// - Be between 8 and 10 characters in length
	// - Appear in at least MinMatchCount of the configured code files
	Validate(ctx context.Context, code string) error

	// Close releases resources held by the validator.
	Close() error
}

// CodeSet is a set of discount codes for fast membership checks.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}

// Loader reads a code file and returns a CodeSet.
type Loader interface {
	// Load reads a gzipped code file and returns a CodeSet.
	Load(ctx context.Context, filePath string) (CodeSet, error)
}
