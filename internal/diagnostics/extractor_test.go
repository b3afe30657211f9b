package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/hookscope/internal/domain"
)

const xmllintOutput = `path/to/file.xml:1: parser error : Start tag expected, '<' not found
not xml
^
some dir/other.xml:42: namespace error : Namespace prefix x on y is not defined
`

func TestExtract_XMLLint(t *testing.T) {
	diags, err := Extract(SplitLines(xmllintOutput), MustPattern(XMLLintPattern))
	require.NoError(t, err)

	require.Len(t, diags, 2)
	assert.Equal(t, domain.Diagnostic{
		File:     "path/to/file.xml",
		Line:     1,
		Severity: domain.SeverityError,
		Message:  "path/to/file.xml:1: parser error : Start tag expected, '<' not found",
	}, diags[0])
	assert.Equal(t, "some dir/other.xml", diags[1].File)
	assert.Equal(t, 42, diags[1].Line)
}

func TestExtract_LocationRoundTrip(t *testing.T) {
	lines := []string{
		"a.xml:1: first",
		"deep/dir/b.xml:1234: second",
		"c d.xml:9:",
	}

	diags, err := Extract(lines, MustPattern(XMLLintPattern))
	require.NoError(t, err)

	require.Len(t, diags, len(lines))
	for i, d := range diags {
		assert.Equal(t, lines[i], d.Message)
		assert.True(t, strings.HasPrefix(lines[i], d.Location()), "%q does not start with %q", lines[i], d.Location())
	}
}

func TestExtract_ColumnAndSeverity(t *testing.T) {
	p := MustPattern(`^(?P<file>[^:]+):(?P<line>\d+):(?:(?P<column>\d+):)? (?P<severity>\w+):`)
	lines := []string{
		"main.go:10:4: warning: unused variable",
		"main.go:12: error: undefined: x",
	}

	diags, err := Extract(lines, p)
	require.NoError(t, err)

	require.Len(t, diags, 2)
	require.NotNil(t, diags[0].Column)
	assert.Equal(t, 4, *diags[0].Column)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "main.go:10:4:", diags[0].Location())
	assert.Nil(t, diags[1].Column)
	assert.Equal(t, domain.SeverityError, diags[1].Severity)
}

func TestExtract_ZeroColumn(t *testing.T) {
	p := MustPattern(`^(?P<file>[^:]+):(?P<line>\d+):(?P<column>\d+):`)

	diags, err := Extract([]string{"mod.py:12:0: C0114: Missing module docstring"}, p)
	require.NoError(t, err)

	require.Len(t, diags, 1)
	require.NotNil(t, diags[0].Column)
	assert.Equal(t, 0, *diags[0].Column)
	assert.Equal(t, "mod.py:12:0:", diags[0].Location())
}

func TestExtract_InvalidLocationFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		field   string
	}{
		{"non-numeric line", `^(?P<file>[^:]+):(?P<line>[^:]+):`, "a.xml:abc: oops", "line"},
		{"zero line", `^(?P<file>[^:]+):(?P<line>\d+):`, "a.xml:0: oops", "line"},
		{"empty line", `^(?P<file>[^:]+):(?P<line>\d*):`, "a.xml:: oops", "line"},
		{"empty file", `^(?P<file>[^:]*):(?P<line>\d+):`, ":3: oops", "file"},
		{"bad column", `^(?P<file>[^:]+):(?P<line>\d+):(?P<column>\w+):`, "a.xml:3:x: oops", "column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, err := Extract([]string{"banner", tt.line}, MustPattern(tt.pattern))

			assert.Nil(t, diags)
			var pe *domain.PatternError
			require.ErrorAs(t, err, &pe)
			assert.ErrorIs(t, err, domain.ErrInvalidLocation)
			assert.Equal(t, tt.pattern, pe.Pattern)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestNewPattern_Errors(t *testing.T) {
	_, err := NewPattern(`^(?P<file>[^:]+):`)
	assert.ErrorIs(t, err, domain.ErrMissingGroup)

	_, err = NewPattern(`^(?P<line>\d+):`)
	assert.ErrorIs(t, err, domain.ErrMissingGroup)

	_, err = NewPattern(`^(?P<file>[^:]+:(?P<line>\d+)`)
	var pe *domain.PatternError
	assert.ErrorAs(t, err, &pe)

	assert.Panics(t, func() { MustPattern("(") })
}

func TestResolve(t *testing.T) {
	custom := map[string]string{"eslint": `^(?P<file>.+?):(?P<line>\d+):(?P<column>\d+)`}

	p, err := Resolve("xmllint", nil)
	require.NoError(t, err)
	assert.Equal(t, XMLLintPattern, p.String())

	p, err = Resolve("eslint", custom)
	require.NoError(t, err)
	diags, err := Extract([]string{"a.js:1:2"}, p)
	require.NoError(t, err)
	assert.Len(t, diags, 1)

	_, err = Resolve("ESLint", custom)
	require.NoError(t, err)

	p, err = Resolve(`(?P<file>\S+) line (?P<line>\d+)`, nil)
	require.NoError(t, err)
	diags, err = Extract([]string{"x.rb line 3"}, p)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)

	_, err = Resolve("rubocop", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownPattern)
}

func TestExtraction_Outcome(t *testing.T) {
	p := MustPattern(`^(?P<file>[^:]+):(?P<line>\d+): (?P<severity>\w+)`)

	tests := []struct {
		name      string
		output    string
		success   bool
		want      domain.Status
		wantDiags int
	}{
		{"clean pass", "", true, domain.StatusPass, 0},
		{"success with banner only", "xmllint version 20913\n", true, domain.StatusPass, 0},
		{"crash without locations", "usage: xmllint [options]\n", false, domain.StatusError, 0},
		{"errors", "a.xml:1: error bad\nb.xml:2: warning meh\n", false, domain.StatusFail, 2},
		{"warnings only", "a.xml:1: warning meh\n", true, domain.StatusWarn, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ExtractOutput(tt.output, tt.success, p)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDiags, ext.Matched)
			assert.Equal(t, tt.success, ext.Success)

			outcome := ext.Outcome()
			assert.Equal(t, tt.want, outcome.Status)
			assert.Len(t, outcome.Diagnostics, tt.wantDiags)
			assert.Equal(t, tt.output, outcome.Output)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Nil(t, SplitLines("\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}
