package catalog

import "errors"

var (
	// ErrLoad is returned when the mapping table cannot be loaded at all.
	ErrLoad = errors.New("catalog: load failed")

	// ErrNotFound is returned when a label lookup misses.
	ErrNotFound = errors.New("catalog: label not found")

	// ErrEmpty is returned when a loaded table contains no usable rows.
	ErrEmpty = errors.New("catalog: no usable actions")
)
