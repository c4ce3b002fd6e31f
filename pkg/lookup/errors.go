// Package lookup implements the multi-source barcode lookup and aggregation engine.
package lookup

import "errors"

var (
	// ErrInvalidBarcode indicates that the barcode is empty after normalization.
	ErrInvalidBarcode = errors.New("invalid barcode")
	// ErrNotFound indicates that no source produced a usable record.
	ErrNotFound = errors.New("product not found in any database")
)
