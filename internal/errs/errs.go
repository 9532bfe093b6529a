// Package errs defines the error-kind taxonomy used across the analysis
// engine, following the same small-struct-with-Unwrap idiom as
// internal/parser's ParseError/FileReadError.
package errs

import "fmt"

// Kind names one of the engine's error categories.
type Kind string

const (
	Configuration      Kind = "configuration"
	FileAccess         Kind = "file_access"
	TagExtraction      Kind = "tag_extraction"
	Matcher            Kind = "matcher"
	Cache              Kind = "cache"
	Validation         Kind = "validation"
	Search             Kind = "search"
	ProjectAnalysis    Kind = "project_analysis"
	Memory             Kind = "memory"
	Network            Kind = "network"
	Timeout            Kind = "timeout"
	ParallelProcessing Kind = "parallel_processing"
)

// Error wraps an underlying cause with one of the engine's error kinds.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap returns the underlying error so errors.Is/As work through it.
func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
