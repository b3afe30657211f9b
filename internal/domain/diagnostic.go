package domain

import (
	"strconv"
	"strings"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity maps a captured severity word onto a Severity. Anything that
// does not mention a warning is treated as an error.
func ParseSeverity(s string) Severity {
	if strings.Contains(strings.ToLower(s), "warn") {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic is one located message from tool output.
type Diagnostic struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   *int     `json:"column,omitempty"`
	Severity Severity `json:"severity"`
	// Message is the full original output line.
	Message string `json:"message"`
}

// Location renders the "file:line:" prefix the diagnostic was parsed from.
func (d Diagnostic) Location() string {
	var b strings.Builder
	b.WriteString(d.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(d.Line))
	b.WriteByte(':')
	if d.Column != nil {
		b.WriteString(strconv.Itoa(*d.Column))
		b.WriteByte(':')
	}
	return b.String()
}
