package inventory

import "errors"

var (
	// ErrUnknownShape is returned when a piece references a shape id
	// that has no entry in the shape table.
	ErrUnknownShape = errors.New("inventory: unknown shape id")
)
