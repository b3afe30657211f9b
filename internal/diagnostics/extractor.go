package diagnostics

import (
	"strconv"
	"strings"

	"github.com/xvierd/hookscope/internal/domain"
)

// Extract returns one diagnostic per line matching p. Lines that do not
// match are treated as noise and dropped. A match whose location cannot be
// parsed is a defect in the pattern and fails the whole extraction.
func Extract(lines []string, p *Pattern) ([]domain.Diagnostic, error) {
	diags := []domain.Diagnostic{}
	for _, line := range lines {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d, err := p.diagnostic(line, m)
		if err != nil {
			return nil, err
		}
		diags = append(diags, d)
	}
	return diags, nil
}

func (p *Pattern) diagnostic(line string, m []string) (domain.Diagnostic, error) {
	d := domain.Diagnostic{
		File:     m[p.file],
		Severity: domain.SeverityError,
		Message:  line,
	}
	if d.File == "" {
		return d, p.locationError(line, GroupFile, "")
	}

	n, err := positive(m[p.line])
	if err != nil {
		return d, p.locationError(line, GroupLine, m[p.line])
	}
	d.Line = n

	if p.column >= 0 && m[p.column] != "" {
		col, err := nonNegative(m[p.column])
		if err != nil {
			return d, p.locationError(line, GroupColumn, m[p.column])
		}
		d.Column = &col
	}
	if p.severity >= 0 {
		d.Severity = domain.ParseSeverity(m[p.severity])
	}
	return d, nil
}

func (p *Pattern) locationError(line, field, value string) error {
	return &domain.PatternError{
		Pattern: p.String(),
		Line:    line,
		Field:   field,
		Value:   value,
		Err:     domain.ErrInvalidLocation,
	}
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, domain.ErrInvalidLocation
	}
	return n, nil
}

// nonNegative parses a column. Some tools count columns from zero.
func nonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, domain.ErrInvalidLocation
	}
	return n, nil
}

// Extraction is the result of parsing one tool run. It keeps the process
// success flag and the match count so a clean pass can be told apart from a
// tool that crashed without printing any location.
type Extraction struct {
	Diagnostics []domain.Diagnostic
	Matched     int
	Success     bool
	Output      string
}

// ExtractOutput splits raw output into lines and extracts diagnostics.
func ExtractOutput(output string, success bool, p *Pattern) (*Extraction, error) {
	diags, err := Extract(SplitLines(output), p)
	if err != nil {
		return nil, err
	}
	return &Extraction{
		Diagnostics: diags,
		Matched:     len(diags),
		Success:     success,
		Output:      output,
	}, nil
}

// Outcome maps the extraction onto the hook result vocabulary.
func (e *Extraction) Outcome() domain.HookOutcome {
	if e.Matched == 0 {
		if e.Success {
			return domain.NewOutcome(domain.StatusPass, nil, e.Output)
		}
		return domain.NewOutcome(domain.StatusError, nil, e.Output)
	}

	status := domain.StatusWarn
	for _, d := range e.Diagnostics {
		if d.Severity == domain.SeverityError {
			status = domain.StatusFail
			break
		}
	}
	return domain.NewOutcome(status, e.Diagnostics, e.Output)
}

// SplitLines splits output on newlines, tolerating CRLF and dropping the
// final empty line left by a trailing newline.
func SplitLines(output string) []string {
	output = strings.TrimRight(output, "\r\n")
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
