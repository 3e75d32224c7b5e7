// Package status defines the failure taxonomy shared by every pipeline
// component and its mapping to process exit codes.
//
// Three kinds of fatal error exist: validation (bad input, reported before any
// destructive work), processing (the external engine failed mid-transform),
// and output (the transform succeeded but an artifact or the ledger could not
// be written). Each maps to a distinct exit code so callers and scripts can
// tell them apart.
package status

import (
	"errors"
	"fmt"
)

// Exit codes returned by the trackweave process.
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitProcessing = 2
	ExitOutput     = 3
)

// Kind classifies a fatal pipeline error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindProcessing
	KindOutput
)

// String returns the lowercase label used in logs and the ledger.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProcessing:
		return "processing"
	case KindOutput:
		return "output"
	}
	return "unknown"
}

// Error is a classified pipeline error. It wraps an optional cause so that
// errors.Is/As keep working through the classification layer.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf builds a validation-kind error.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Processingf builds a processing-kind error.
func Processingf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindProcessing, Msg: fmt.Sprintf(format, args...)}
}

// Outputf builds an output-kind error.
func Outputf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindOutput, Msg: fmt.Sprintf(format, args...)}
}

// WrapValidation wraps err with a validation classification.
func WrapValidation(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WrapProcessing wraps err with a processing classification.
func WrapProcessing(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindProcessing, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WrapOutput wraps err with an output classification.
func WrapOutput(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindOutput, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the classification of err, or KindProcessing for anything
// unclassified: an unexpected error mid-run is by definition a processing
// failure, never a validation one.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindProcessing
}

// ExitCode maps err to its process exit code. A nil err is success.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch KindOf(err) {
	case KindValidation:
		return ExitValidation
	case KindOutput:
		return ExitOutput
	default:
		return ExitProcessing
	}
}
