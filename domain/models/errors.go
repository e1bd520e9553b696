package models

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind marks a chart config whose type no renderer handles.
var ErrUnsupportedKind = errors.New("unsupported chart type")

// ValidationError is bad caller input: file size, header, missing fields.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TransportError is a failed network call during upload or finalize.
type TransportError struct {
	Op         string
	ChunkIndex int
	Err        error
}

func (e *TransportError) Error() string {
	if e.ChunkIndex >= 0 {
		return fmt.Sprintf("%s chunk %d: %v", e.Op, e.ChunkIndex, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConsistencyError is a finalize that did not find the expected number of chunks.
type ConsistencyError struct {
	Expected int
	Actual   int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("Missing chunks. Expected %d, got %d", e.Expected, e.Actual)
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrTransport wraps err as a failure of op. Use chunkIndex -1 when no batch is involved.
func ErrTransport(op string, chunkIndex int, err error) *TransportError {
	return &TransportError{Op: op, ChunkIndex: chunkIndex, Err: err}
}

// ErrMissingChunks creates a ConsistencyError for a finalize count mismatch.
func ErrMissingChunks(expected, actual int) *ConsistencyError {
	return &ConsistencyError{Expected: expected, Actual: actual}
}

// Error codes carried in API error bodies.
const (
	CodeValidation  = "validation"
	CodeConsistency = "consistency"
	CodeNotFound    = "not_found"
	CodeInternal    = "internal"
)

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Expected int    `json:"expected,omitempty"`
	Actual   int    `json:"actual,omitempty"`
}

// NewErrorResponse describes err for an API client.
func NewErrorResponse(err error) ErrorResponse {
	var (
		ve *ValidationError
		ce *ConsistencyError
		ne *NotFoundError
	)
	switch {
	case errors.As(err, &ce):
		return ErrorResponse{Error: ce.Error(), Code: CodeConsistency, Expected: ce.Expected, Actual: ce.Actual}
	case errors.As(err, &ve):
		return ErrorResponse{Error: ve.Error(), Code: CodeValidation}
	case errors.As(err, &ne):
		return ErrorResponse{Error: ne.Error(), Code: CodeNotFound}
	}
	return ErrorResponse{Error: err.Error(), Code: CodeInternal}
}

// Err turns a decoded error body back into the typed error it was made from.
func (r ErrorResponse) Err() error {
	switch r.Code {
	case CodeConsistency:
		return ErrMissingChunks(r.Expected, r.Actual)
	case CodeValidation:
		return &ValidationError{Message: r.Error}
	case CodeNotFound:
		return &NotFoundError{Message: r.Error}
	}
	return errors.New(r.Error)
}
