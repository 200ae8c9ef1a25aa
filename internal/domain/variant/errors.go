package variant

import "errors"

var (
	// ErrUnknownColumn indicates a sort request for a column the dataset does not have.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidDirection indicates an unrecognized sort direction.
	ErrInvalidDirection = errors.New("invalid sort direction")
)
