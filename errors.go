// Package jsonkv provides an embedded key-value store that keeps each named
// document as a single JSON object file. A document maps string keys to
// arbitrary JSON values; the store loads it, lets one operation mutate an
// in-memory copy and writes the whole object back.
//
// Two knobs shape persistence. Config.Cache keeps every loaded document in
// memory so later operations skip the disk read; the cached copy is the
// authoritative snapshot and is only re-read from disk once its entry is gone.
// Config.Write chooses between write-through (every mutation rewrites the
// file atomically via a temp file and rename) and deferred writes, where
// mutations stay in the cache until Flush or Close.
//
// Values are modelled as a closed variant (Value, Kind) rather than any, so
// equality (Equal) and type introspection switch over a fixed set of kinds.
// Objects keep insertion order, and that order is what lands on disk.
package jsonkv

import (
	"errors"
	"fmt"
)

// Code classifies a failure. Every error returned by this package is an
// *Error carrying one of these codes.
type Code int

const (
	CodeMissingInput Code = iota + 1
	CodeInvalidInput
	CodeNotArray
	CodeNotNumber
	CodeNegativeNumber
	CodeDivideByZero
	CodeMissingFile
	CodeAlreadyExists
	CodeConfiguration
	CodeCorruptDocument
	CodeIO
	CodeClosed
)

var codeNames = map[Code]string{
	CodeMissingInput:    "missing input",
	CodeInvalidInput:    "invalid input",
	CodeNotArray:        "not an array",
	CodeNotNumber:       "not a number",
	CodeNegativeNumber:  "negative number",
	CodeDivideByZero:    "divide by zero",
	CodeMissingFile:     "missing file",
	CodeAlreadyExists:   "already exists",
	CodeConfiguration:   "invalid configuration",
	CodeCorruptDocument: "corrupt document",
	CodeIO:              "i/o failure",
	CodeClosed:          "store is closed",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is the single error type of the package. Op names the operation
// that failed and Err, when set, is the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		return "jsonkv: " + e.Op + ": " + msg
	}
	return "jsonkv: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code, so the
// sentinels below match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinel errors for programmatic handling with errors.Is.
var (
	ErrMissingInput    = &Error{Code: CodeMissingInput}
	ErrInvalidInput    = &Error{Code: CodeInvalidInput}
	ErrNotArray        = &Error{Code: CodeNotArray}
	ErrNotNumber       = &Error{Code: CodeNotNumber}
	ErrNegativeNumber  = &Error{Code: CodeNegativeNumber}
	ErrDivideByZero    = &Error{Code: CodeDivideByZero}
	ErrMissingFile     = &Error{Code: CodeMissingFile}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
	ErrConfiguration   = &Error{Code: CodeConfiguration}
	ErrCorruptDocument = &Error{Code: CodeCorruptDocument}
	ErrIO              = &Error{Code: CodeIO}
	ErrClosed          = &Error{Code: CodeClosed}
)

// fail builds an *Error. A plain message is turned into the cause so the
// rendered text reads "jsonkv: op: code: message".
func fail(code Code, op, format string, args ...any) *Error {
	var cause error
	if format != "" {
		cause = fmt.Errorf(format, args...)
	}
	return &Error{Code: code, Op: op, Err: cause}
}

// wrap attaches op to err. Errors that are already *Error keep their code;
// anything else becomes an IO failure.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			return &Error{Code: e.Code, Op: op, Err: e.Err}
		}
		return err
	}
	return &Error{Code: CodeIO, Op: op, Err: err}
}
