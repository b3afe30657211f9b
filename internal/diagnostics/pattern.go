// Package diagnostics turns loosely structured tool output into located
// diagnostics using a caller supplied regular expression.
package diagnostics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xvierd/hookscope/internal/domain"
)

// Named capture groups understood by the extractor.
const (
	GroupFile     = "file"
	GroupLine     = "line"
	GroupColumn   = "column"
	GroupSeverity = "severity"
)

// XMLLintPattern matches xmllint's "path:line: message" output.
const XMLLintPattern = `^(?P<file>[^:]+):(?P<line>\d+):`

// BuiltinPatterns are available by name without configuration.
var BuiltinPatterns = map[string]string{
	"xmllint": XMLLintPattern,
}

// Pattern is a compiled diagnostic pattern. It always has the file and line
// groups; column and severity are optional.
type Pattern struct {
	re       *regexp.Regexp
	file     int
	line     int
	column   int
	severity int
}

// NewPattern compiles expr and checks its named groups.
func NewPattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &domain.PatternError{Pattern: expr, Err: err}
	}

	p := &Pattern{
		re:       re,
		file:     re.SubexpIndex(GroupFile),
		line:     re.SubexpIndex(GroupLine),
		column:   re.SubexpIndex(GroupColumn),
		severity: re.SubexpIndex(GroupSeverity),
	}
	for _, g := range []struct {
		name  string
		index int
	}{{GroupFile, p.file}, {GroupLine, p.line}} {
		if g.index < 0 {
			return nil, &domain.PatternError{
				Pattern: expr,
				Err:     fmt.Errorf("%w: %q", domain.ErrMissingGroup, g.name),
			}
		}
	}
	return p, nil
}

// MustPattern is like NewPattern but panics on error.
func MustPattern(expr string) *Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Resolve looks name up in patterns, then in BuiltinPatterns. Anything that
// is not a known name is compiled as an expression when it has the required
// groups. Configured names are matched case-insensitively since the config
// layer lowercases keys.
func Resolve(name string, patterns map[string]string) (*Pattern, error) {
	if expr, ok := patterns[name]; ok {
		return NewPattern(expr)
	}
	if expr, ok := patterns[strings.ToLower(name)]; ok {
		return NewPattern(expr)
	}
	if expr, ok := BuiltinPatterns[name]; ok {
		return NewPattern(expr)
	}
	p, err := NewPattern(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", domain.ErrUnknownPattern, name, err)
	}
	return p, nil
}
