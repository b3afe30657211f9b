package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrQueryFailed      = errors.New("git query failed")
	ErrInvalidRef       = errors.New("invalid commit reference")
	ErrNotRepository    = errors.New("not a git repository")
	ErrMissingGroup     = errors.New("pattern is missing a required named group")
	ErrInvalidLocation  = errors.New("captured location is not a positive integer")
	ErrOutcomeNotFound  = errors.New("outcome not found")
	ErrEmptyCommand     = errors.New("tool command cannot be empty")
	ErrUnknownPattern   = errors.New("unknown diagnostic pattern")
	ErrInvalidOutStream = errors.New("invalid output stream")
)

// QueryError reports a plumbing process that failed or a repository that
// could not be queried. Stderr is kept verbatim for the operator.
type QueryError struct {
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *QueryError) Error() string {
	var b strings.Builder
	b.WriteString("git")
	if len(e.Args) > 0 {
		b.WriteString(" ")
		b.WriteString(e.Args[0])
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrQueryFailed) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if msg := strings.TrimRight(e.Stderr, "\n"); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e *QueryError) Unwrap() error {
	if e.Err == nil {
		return ErrQueryFailed
	}
	return e.Err
}

// PatternError is raised when a diagnostic pattern is malformed or when it
// matched a line but captured a location that cannot be used.
type PatternError struct {
	Pattern string
	Line    string
	Field   string
	Value   string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("pattern `%s`: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("pattern `%s` captured %s=%q from line %q: %v",
		e.Pattern, e.Field, e.Value, e.Line, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// AmbiguousRegistrationError describes a submodule path declared by more than
// one .gitmodules section. It is recoverable: the last declaration wins.
type AmbiguousRegistrationError struct {
	Path   string
	Names  []string
	Chosen string
}

func (e *AmbiguousRegistrationError) Error() string {
	return fmt.Sprintf("submodule path %q registered by %d sections (%s), using %q",
		e.Path, len(e.Names), strings.Join(e.Names, ", "), e.Chosen)
}
