package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates no decoder handles the given file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidGeometry indicates a bounding box with inverted coordinates.
	// Only reported when geometry validation is enabled.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// PageError reports a failure tied to a single page of a document.
type PageError struct {
	// Page is the 1-based page number.
	Page int

	// Err is the underlying cause.
	Err error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PageError) Unwrap() error {
	return e.Err
}

// BlockError reports a failure tied to one block of a page.
type BlockError struct {
	// Page is the 1-based page number.
	Page int

	// Block is the 0-based index of the block within the page as decoded.
	Block int

	// Err is the underlying cause.
	Err error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("page %d, block %d: %v", e.Page, e.Block, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BlockError) Unwrap() error {
	return e.Err
}
