package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutcome_CopiesDiagnostics(t *testing.T) {
	diags := []Diagnostic{{File: "a.xml", Line: 1, Severity: SeverityError, Message: "a.xml:1: bad"}}

	outcome := NewOutcome(StatusFail, diags, "a.xml:1: bad")
	diags[0].Line = 99

	require.Len(t, outcome.Diagnostics, 1)
	assert.Equal(t, 1, outcome.Diagnostics[0].Line)
	assert.Equal(t, StatusFail, outcome.Status)
	assert.False(t, outcome.Passed())
}

func TestNewOutcome_EmptyDiagnostics(t *testing.T) {
	outcome := NewOutcome(StatusPass, nil, "")

	assert.NotNil(t, outcome.Diagnostics)
	assert.Empty(t, outcome.Diagnostics)
	assert.True(t, outcome.Passed())
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []string{"pass", "warn", "fail", "error"} {
		got, err := ValidateStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), got)
	}

	_, err := ValidateStatus("skipped")
	assert.Error(t, err)
}

func TestNewOutcomeRecord(t *testing.T) {
	rec := NewOutcomeRecord("XmlLint", NewOutcome(StatusPass, nil, ""))

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "XmlLint", rec.Hook)
	assert.False(t, rec.RecordedAt.IsZero())
}

func TestDiagnostic_Location(t *testing.T) {
	col := 7
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{"line only", Diagnostic{File: "path/to/file.xml", Line: 12}, "path/to/file.xml:12:"},
		{"with column", Diagnostic{File: "main.go", Line: 3, Column: &col}, "main.go:3:7:"},
		{"spaces in path", Diagnostic{File: "some dir/f.xml", Line: 1}, "some dir/f.xml:1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.Location())
		})
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarning, ParseSeverity("warning"))
	assert.Equal(t, SeverityWarning, ParseSeverity("WARN"))
	assert.Equal(t, SeverityError, ParseSeverity("error"))
	assert.Equal(t, SeverityError, ParseSeverity(""))
}

func TestQueryError(t *testing.T) {
	t.Run("carries stderr verbatim", func(t *testing.T) {
		err := &QueryError{
			Args:     []string{"ls-files", "-z"},
			ExitCode: 128,
			Stderr:   "fatal: not a git repository (or any of the parent directories): .git\n",
		}

		assert.Equal(t, "git ls-files (exit 128): fatal: not a git repository (or any of the parent directories): .git", err.Error())
		assert.ErrorIs(t, err, ErrQueryFailed)
	})

	t.Run("unwraps cause", func(t *testing.T) {
		err := &QueryError{Args: []string{"for-each-ref"}, Err: context.DeadlineExceeded}

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "deadline exceeded")

		var qe *QueryError
		assert.True(t, errors.As(error(err), &qe))
	})
}

func TestPatternError(t *testing.T) {
	err := &PatternError{
		Pattern: `^(?P<file>[^:]+):(?P<line>\w+):`,
		Line:    "a.xml:abc: oops",
		Field:   "line",
		Value:   "abc",
		Err:     ErrInvalidLocation,
	}

	assert.ErrorIs(t, err, ErrInvalidLocation)
	assert.Contains(t, err.Error(), `"a.xml:abc: oops"`)
	assert.Contains(t, err.Error(), "pattern `^(?P<file>[^:]+):(?P<line>\\w+):`")

	bare := &PatternError{Pattern: `\d+(`, Err: ErrMissingGroup}
	assert.Equal(t, "pattern `\\d+(`: "+ErrMissingGroup.Error(), bare.Error())
}

func TestAmbiguousRegistrationError(t *testing.T) {
	err := &AmbiguousRegistrationError{Path: "lib", Names: []string{"old", "new"}, Chosen: "new"}

	assert.Equal(t, `submodule path "lib" registered by 2 sections (old, new), using "new"`, err.Error())
}
