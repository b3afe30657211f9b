// Package ports defines the interfaces (driven and driving ports) between the
// hookscope core and its infrastructure, following hexagonal architecture.
package ports

import "context"

// ProcessResult is the captured result of an external command.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports a zero exit status.
func (r *ProcessResult) Success() bool {
	return r.ExitCode == 0
}

// ProcessRunner executes an external command.
// This is a driven port (implemented by adapters).
type ProcessRunner interface {
	// Run executes name with args in dir and waits for it to exit. Arguments
	// are passed as a vector and are never interpreted by a shell. A non-zero
	// exit is reported in the result; err is only set when the process could
	// not be started or the context expired.
	Run(ctx context.Context, dir string, name string, args ...string) (*ProcessResult, error)
}
