// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/hookscope/internal/diagnostics"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/logging"
	"github.com/xvierd/hookscope/internal/ports"
)

// Stream selects which output of a tool is scanned for diagnostics.
type Stream string

const (
	StreamStdout   Stream = "stdout"
	StreamStderr   Stream = "stderr"
	StreamCombined Stream = "combined"
)

// ParseStream validates a stream name. Empty means combined.
func ParseStream(s string) (Stream, error) {
	switch Stream(strings.ToLower(strings.TrimSpace(s))) {
	case "", StreamCombined:
		return StreamCombined, nil
	case StreamStdout:
		return StreamStdout, nil
	case StreamStderr:
		return StreamStderr, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidOutStream, s)
}

func (s Stream) pick(res *ports.ProcessResult) string {
	switch s {
	case StreamStdout:
		return res.Stdout
	case StreamStderr:
		return res.Stderr
	}
	if res.Stdout == "" || strings.HasSuffix(res.Stdout, "\n") {
		return res.Stdout + res.Stderr
	}
	return res.Stdout + "\n" + res.Stderr
}

// HookConfig holds the settings a HookService runs with.
type HookConfig struct {
	// Patterns maps names to diagnostic expressions, on top of the builtins.
	Patterns map[string]string
	// DefaultPattern is used when a request names none.
	DefaultPattern string
	// Timeout bounds each tool run. Zero disables the bound.
	Timeout time.Duration
}

// HookService runs tools and turns their output into hook outcomes.
type HookService struct {
	runner  ports.ProcessRunner
	storage ports.Storage
	root    string
	config  HookConfig
	logger  logging.Logger
}

// NewHookService creates a hook service that runs tools in root. storage may
// be nil, in which case outcomes are not audited.
func NewHookService(runner ports.ProcessRunner, storage ports.Storage, root string, cfg HookConfig, logger logging.Logger) *HookService {
	if logger == nil {
		logger = logging.Nop()
	}
	if cfg.DefaultPattern == "" {
		cfg.DefaultPattern = "xmllint"
	}
	return &HookService{
		runner:  runner,
		storage: storage,
		root:    root,
		config:  cfg,
		logger:  logger,
	}
}

// ToolRequest describes one hook invocation.
type ToolRequest struct {
	Hook    string
	Command []string
	Files   []string
	Stream  Stream
	Pattern string
}

// Run executes the tool with the files appended to its command line and
// evaluates what it printed.
func (s *HookService) Run(ctx context.Context, req ToolRequest) (*domain.HookOutcome, error) {
	if len(req.Command) == 0 || strings.TrimSpace(req.Command[0]) == "" {
		return nil, domain.ErrEmptyCommand
	}
	stream := req.Stream
	if stream == "" {
		stream = StreamCombined
	}
	if _, err := ParseStream(string(stream)); err != nil {
		return nil, err
	}
	pattern, err := s.pattern(req.Pattern)
	if err != nil {
		return nil, err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(req.Command)-1+len(req.Files))
	args = append(args, req.Command[1:]...)
	args = append(args, req.Files...)

	s.logger.Debug("running hook", "hook", req.Hook, "command", req.Command[0], "files", len(req.Files))
	res, err := s.runner.Run(ctx, s.root, req.Command[0], args...)
	if err != nil {
		s.logger.Warn("hook did not run", "hook", req.Hook, "error", err)
		outcome := domain.NewOutcome(domain.StatusError, nil, err.Error())
		s.record(ctx, req.Hook, outcome)
		return &outcome, nil
	}

	return s.evaluate(ctx, req.Hook, stream.pick(res), res.Success(), pattern)
}

// Evaluate extracts diagnostics from output captured elsewhere.
func (s *HookService) Evaluate(ctx context.Context, hook, output string, success bool, pattern string) (*domain.HookOutcome, error) {
	p, err := s.pattern(pattern)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, hook, output, success, p)
}

// RecentOutcomes lists audited outcomes, newest first.
func (s *HookService) RecentOutcomes(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error) {
	if s.storage == nil {
		return []*domain.OutcomeRecord{}, nil
	}
	records, err := s.storage.Outcomes().FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes: %w", err)
	}
	return records, nil
}

// HookOutcomes lists the audited outcomes of one hook, newest first.
func (s *HookService) HookOutcomes(ctx context.Context, hook string) ([]*domain.OutcomeRecord, error) {
	if s.storage == nil {
		return []*domain.OutcomeRecord{}, nil
	}
	records, err := s.storage.Outcomes().FindByHook(ctx, hook)
	if err != nil {
		return nil, fmt.Errorf("failed to load outcomes for %s: %w", hook, err)
	}
	return records, nil
}

// StatusOutcomes lists the audited outcomes with the named status, newest
// first. An unknown status name is an error.
func (s *HookService) StatusOutcomes(ctx context.Context, status string) ([]*domain.OutcomeRecord, error) {
	st, err := domain.ValidateStatus(status)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return []*domain.OutcomeRecord{}, nil
	}
	records, err := s.storage.Outcomes().FindByStatus(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s outcomes: %w", st, err)
	}
	return records, nil
}

func (s *HookService) evaluate(ctx context.Context, hook, output string, success bool, p *diagnostics.Pattern) (*domain.HookOutcome, error) {
	extraction, err := diagnostics.ExtractOutput(output, success, p)
	if err != nil {
		return nil, err
	}
	outcome := extraction.Outcome()
	s.logger.Debug("hook evaluated", "hook", hook, "status", outcome.Status, "diagnostics", len(outcome.Diagnostics))
	s.record(ctx, hook, outcome)
	return &outcome, nil
}

func (s *HookService) pattern(name string) (*diagnostics.Pattern, error) {
	if strings.TrimSpace(name) == "" {
		name = s.config.DefaultPattern
	}
	return diagnostics.Resolve(name, s.config.Patterns)
}

// record audits an outcome. A storage failure is logged and does not change
// the outcome handed back to the caller.
func (s *HookService) record(ctx context.Context, hook string, outcome domain.HookOutcome) {
	if s.storage == nil {
		return
	}
	if hook == "" {
		hook = "adhoc"
	}
	if err := s.storage.Outcomes().Save(ctx, domain.NewOutcomeRecord(hook, outcome)); err != nil {
		s.logger.Warn("failed to record outcome", "hook", hook, "error", err)
	}
}
