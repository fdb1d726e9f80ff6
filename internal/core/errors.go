package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPrices is returned when a load yields no usable row at all.
	ErrNoPrices = errors.New("no usable price rows")

	// ErrNotLoaded is returned by Service queries before the first load.
	ErrNotLoaded = errors.New("price list not loaded")

	errFileTooLarge   = errors.New("file too large")
	errZeroWeight     = errors.New("weight is zero")
	errNegativeWeight = errors.New("weight is negative")
	errNotFinite      = errors.New("unit price is not finite")
)

// UnreadableFileError reports a file that could not be parsed as CSV.
// The file is skipped.
type UnreadableFileError struct {
	File string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable file %s: %v", e.File, e.Err)
}

func (e *UnreadableFileError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a file whose headers did not supply a canonical
// field. All of its rows are excluded.
type MissingFieldError struct {
	File  string
	Field Field
	Rows  int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required column %s in %s (%d rows excluded)", e.Field, e.File, e.Rows)
}

// InvalidValueError reports a single row whose value cannot take part in the
// unit price computation. The row is excluded.
type InvalidValueError struct {
	File   string
	Line   int
	Field  Field
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value for %s %q in %s line %d: %s", e.Field, e.Value, e.File, e.Line, e.Reason)
}
