package domain

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported operation")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// Specific errors.
var (
	ErrLayoutNotFound     = fmt.Errorf("layout: %w", ErrNotFound)
	ErrCellNotFound       = fmt.Errorf("cell: %w", ErrNotFound)
	ErrNotReady           = fmt.Errorf("service not ready: %w", ErrUnavailable)
	ErrStorageUnavailable = fmt.Errorf("storage: %w", ErrUnavailable)

	// ErrUnexpectedEOF marks a GDS stream truncated mid-header or
	// mid-payload. Distinct from clean end-of-stream, which is not an
	// error.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")
)

// MalformedRecordError reports a GDS record whose declared total length is
// shorter than its own header.
type MalformedRecordError struct {
	Offset     int64 // Stream offset just past the record header
	Length     uint16
	RecordType byte
	DataType   byte
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at offset %d (len=%d, rectype=%#04x, dtype=%#04x)",
		e.Offset, e.Length, e.RecordType, e.DataType)
}

// Unwrap returns the underlying error type.
func (e *MalformedRecordError) Unwrap() error {
	return ErrInvalidInput
}

// DecodeError represents a failed decode of a layout file.
type DecodeError struct {
	Path string // Source file
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StorageError represents an error during storage operations.
type StorageError struct {
	Operation string // Operation that failed (download, list, etc.)
	Key       string // Object key
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error during %s for %s: %v",
			e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IndexError represents an error during layout index operations.
type IndexError struct {
	LayoutID string // Layout identifier
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index error for layout %s: %v", e.LayoutID, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string // Configuration field
	Message string // Error message
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error type.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidInput
}
