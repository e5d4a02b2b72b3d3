// Package errors is the coded error type shared by every layer
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing class of an error
// values go out on the wire, append new codes at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified
	ErrorCodePanic                            // recovered handler panic
	ErrorCodeUnavailable                      // transient, a retry may succeed
	ErrorCodeTooManyRequests                  // admission control
	ErrorCodeConflict                         // state conflict other than a duplicate key
	ErrorCodeUnauthorized                     // caller identity rejected
	ErrorCodeForbidden                        // caller known but not allowed
	ErrorCodeInvalidArgument                  // well formed input the store refused
	ErrorCodeValidation                       // request parameters failed validation
	ErrorCodeJSON                             // body is not the expected JSON
	ErrorCodeNotFound                         // owner, repository or row missing
	ErrorCodeDuplicateKey                     // unique constraint
	ErrorCodeDB                               // database failure
	ErrorCodeUpstream                         // a collaborator the request depends on failed
)

type codeInfo struct {
	name   string
	status int
}

var codes = [...]codeInfo{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:        {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:       {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:    {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:              {"db", http.StatusInternalServerError},
	ErrorCodeUpstream:        {"upstream", http.StatusBadGateway},
}

func (c ErrorCode) info() codeInfo {
	if int(c) < len(codes) {
		return codes[c]
	}
	return codes[ErrorCodeUnknown]
}

// String is the snake case name used in logs
func (c ErrorCode) String() string { return c.info().name }

// HTTPStatusCode maps a code to its http status, unknown codes are 500
func HTTPStatusCode(c ErrorCode) int { return c.info().status }

// ErrNotFound is the sentinel for a missing row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a public message and optional context
// Error() appends the wrapped cause, the wire form never does
type Error struct {
	code   ErrorCode
	msg    string
	orig   error
	field  string
	op     string
	fields map[string][]string
}

// Wire is the serializable view of an *Error
type Wire struct {
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	Field   string              `json:"field,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig != nil:
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error class
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending parameter, empty when none
func (e *Error) Field() string { return e.field }

// Op is the operation label set by WithOp
func (e *Error) Op() string { return e.op }

// Fields returns a copy of the per field messages
func (e *Error) Fields() map[string][]string { return copyFields(e.fields) }

// ToWire drops the cause and keeps what callers may see
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Message: e.msg, Field: e.field, Fields: copyFields(e.fields)}
}

func copyFields(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns err's code, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps err to an http status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom converts any error, foreign errors become ErrorCodeUnknown
// with their message, nil is the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// Root returns the innermost cause of err
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// FieldsOf returns the per field messages in err's chain
func FieldsOf(err error) map[string][]string {
	if e, ok := As(err); ok {
		return e.Fields()
	}
	return nil
}

// with copies the first *Error in err and applies fn, foreign errors pass through
func with(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

// WithField returns a copy of err naming the offending parameter
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp returns a copy of err labelled with the failing operation
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

// New returns an *Error
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with formatting
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig as the cause behind a coded message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Validation collects every failing parameter in one error
// returns nil for an empty map so callers can return it unconditionally
func Validation(fields map[string][]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{code: ErrorCodeValidation, msg: "validation failed", fields: copyFields(fields)}
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func Upstreamf(format string, a ...any) error     { return Newf(ErrorCodeUpstream, format, a...) }
