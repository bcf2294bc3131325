// Package domainerrors carries the error taxonomy shared by services and the
// HTTP boundary. Every failure that reaches a handler is one of these codes;
// the code doubles as the "err_type" of the response envelope.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks payloads rejected by structural validation.
	CodeValidation Code = "ValidationError"
	// CodeInvalidInput marks malformed identifiers in paths or arguments.
	CodeInvalidInput Code = "InvalidInput"
	// CodeRelations marks batches failing the referential or symmetry check.
	CodeRelations Code = "RelationsError"
	// CodeInsert marks store writes failing after validation passed.
	CodeInsert Code = "InsertError"
	// CodeImportNotFound marks an import id with no citizens.
	CodeImportNotFound Code = "ImportIdNotFound"
	// CodePatchCitizen marks an unknown citizen or relative within a known import.
	CodePatchCitizen Code = "PatchCitizenError"
	// CodeSelect marks an unexpected store read failure.
	CodeSelect Code = "SelectError"
	// CodeTimeout marks operations aborted by a cancelled or expired context.
	CodeTimeout Code = "Timeout"
	// CodeInternal marks anything not covered above.
	CodeInternal Code = "InternalError"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
// A nil err still produces a coded error so callers can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost coded error carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// Message returns the client-facing message of a coded error, or the plain
// error text for uncoded errors.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
