// Package process runs external commands with argument vectors.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/xvierd/hookscope/internal/ports"
)

// ExecRunner implements ports.ProcessRunner with os/exec. Commands never go
// through a shell, so spaces and metacharacters in arguments are preserved.
type ExecRunner struct {
	// Env is appended to the current environment of every command.
	Env []string
}

// NewExecRunner creates a runner that adds env to each command's environment.
func NewExecRunner(env ...string) *ExecRunner {
	return &ExecRunner{Env: env}
}

// Ensure ExecRunner implements ports.ProcessRunner.
var _ ports.ProcessRunner = (*ExecRunner)(nil)

// Run executes name with args in dir.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (*ports.ProcessResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &ports.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("failed to start %s: %w", name, err)
	}
}
