package git

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/logging"
	"github.com/xvierd/hookscope/internal/ports"
)

// globalArgs precede every subcommand. Queries must never take the index
// lock or refresh stat info, and pathspecs are matched literally so
// directory names with glob characters are not expanded.
var globalArgs = []string{"--no-optional-locks", "--literal-pathspecs", "-c", "core.quotePath=false"}

// Engine runs read-only plumbing queries against one repository.
type Engine struct {
	runner  ports.ProcessRunner
	repo    *domain.Repository
	gitBin  string
	timeout time.Duration
	logger  logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithGitBinary sets the git executable. Empty keeps "git".
func WithGitBinary(bin string) Option {
	return func(e *Engine) {
		if strings.TrimSpace(bin) != "" {
			e.gitBin = bin
		}
	}
}

// WithTimeout bounds each plumbing invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine bound to repo.
func NewEngine(runner ports.ProcessRunner, repo *domain.Repository, opts ...Option) *Engine {
	e := &Engine{
		runner: runner,
		repo:   repo,
		gitBin: "git",
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ensure Engine implements ports.GitQuery.
var _ ports.GitQuery = (*Engine)(nil)

// Repository returns the handle the engine is bound to.
func (e *Engine) Repository() *domain.Repository {
	return e.repo
}

// exec runs one git subcommand in the repository root. Failures to start the
// process or an expired deadline are returned as a QueryError; a non-zero
// exit is left to the caller.
func (e *Engine) exec(ctx context.Context, args ...string) (*ports.ProcessResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	full := make([]string, 0, len(globalArgs)+len(args))
	full = append(full, globalArgs...)
	full = append(full, args...)

	e.logger.Debug("git query", "dir", e.repo.Root, "args", args)
	res, err := e.runner.Run(ctx, e.repo.Root, e.gitBin, full...)
	if err != nil {
		qe := &domain.QueryError{Args: args, Dir: e.repo.Root, ExitCode: -1, Err: err}
		if res != nil {
			qe.Stderr = res.Stderr
		}
		return nil, qe
	}
	return res, nil
}

// git runs a subcommand and returns its stdout, failing on non-zero exit.
func (e *Engine) git(ctx context.Context, args ...string) (string, error) {
	res, err := e.exec(ctx, args...)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", &domain.QueryError{
			Args:     args,
			Dir:      e.repo.Root,
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
		}
	}
	return res.Stdout, nil
}

// resolveCommit peels ref to a commit id. ok is false when the ref does not
// name a commit; other failures, such as a missing repository, are errors.
func (e *Engine) resolveCommit(ctx context.Context, ref string) (sha string, ok bool, err error) {
	args := []string{"rev-parse", "--verify", "-q", ref + "^{commit}"}
	res, err := e.exec(ctx, args...)
	if err != nil {
		return "", false, err
	}
	switch {
	case res.Success():
		return strings.TrimSpace(res.Stdout), true, nil
	case res.ExitCode == 1 && strings.TrimSpace(res.Stderr) == "":
		return "", false, nil
	}
	return "", false, &domain.QueryError{
		Args:     args,
		Dir:      e.repo.Root,
		ExitCode: res.ExitCode,
		Stderr:   res.Stderr,
	}
}

// commonDir returns the absolute git directory shared by all worktrees.
func (e *Engine) commonDir(ctx context.Context) (string, error) {
	out, err := e.git(ctx, "rev-parse", "--git-common-dir")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(e.repo.Root, dir)
	}
	return dir, nil
}

// validateRef rejects refs that git would parse as options.
func validateRef(ref string) error {
	if strings.TrimSpace(ref) == "" || strings.HasPrefix(ref, "-") {
		return &domain.QueryError{
			Args: []string{"rev-parse", ref},
			Err:  fmt.Errorf("%w: %q", domain.ErrInvalidRef, ref),
		}
	}
	return nil
}

// splitNul splits -z output into records, dropping empty ones.
func splitNul(out string) []string {
	var records []string
	for _, rec := range bytes.Split([]byte(out), []byte{0}) {
		if len(rec) > 0 {
			records = append(records, string(rec))
		}
	}
	return records
}
