package gmm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a model parameter is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyDataset is returned by Fit when the dataset yields no vectors.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrSerialization is returned when a persisted model record is corrupt or inconsistent.
	ErrSerialization = errors.New("serialization error")
)

// ErrDimensionMismatch indicates that a vector or parameter row does not have
// the model's feature dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func serializationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSerialization, fmt.Sprintf(format, args...))
}
