package ftwire

import "github.com/kailas-cloud/ftwire/internal/db"

// Sentinel errors returned by commands. Use errors.Is to match them.
var (
	// ErrIndexNotFound is returned when the server does not know the index.
	ErrIndexNotFound = db.ErrIndexNotFound
	// ErrCursorNotFound is returned when an aggregate cursor expired or never existed.
	ErrCursorNotFound = db.ErrCursorNotFound
	// ErrNotImplemented is returned by FTCreate and FTAlter.
	ErrNotImplemented = db.ErrNotImplemented
	// ErrConversion matches every ConversionError.
	ErrConversion = db.ErrConversion
)

// ConversionError reports an option value with no wire representation.
// It is returned before anything is sent.
type ConversionError = db.ConversionError

// Error wraps a command failure with the wire command name.
type Error = db.Error
