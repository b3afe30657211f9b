package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the result of running a hook.
type Status string

const (
	StatusPass  Status = "pass"
	StatusWarn  Status = "warn"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

// ValidateStatus checks that s names a known status.
func ValidateStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPass, StatusWarn, StatusFail, StatusError:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// HookOutcome is the uniform result handed to the scheduling layer.
type HookOutcome struct {
	Status      Status       `json:"status"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	// Output is the raw captured tool output, kept for audit.
	Output string `json:"output"`
}

// NewOutcome combines a status and diagnostics into an outcome. The slice is
// copied so later changes by the caller do not leak into the outcome.
func NewOutcome(status Status, diagnostics []Diagnostic, output string) HookOutcome {
	diags := make([]Diagnostic, len(diagnostics))
	copy(diags, diagnostics)
	return HookOutcome{
		Status:      status,
		Diagnostics: diags,
		Output:      output,
	}
}

// Passed returns true for pass and warn.
func (o HookOutcome) Passed() bool {
	return o.Status == StatusPass || o.Status == StatusWarn
}

// OutcomeRecord is an audited outcome.
type OutcomeRecord struct {
	ID         string
	Hook       string
	Outcome    HookOutcome
	RecordedAt time.Time
}

// NewOutcomeRecord wraps an outcome for storage under a fresh random ID.
func NewOutcomeRecord(hook string, outcome HookOutcome) *OutcomeRecord {
	return &OutcomeRecord{
		ID:         uuid.NewString(),
		Hook:       hook,
		Outcome:    outcome,
		RecordedAt: time.Now(),
	}
}
