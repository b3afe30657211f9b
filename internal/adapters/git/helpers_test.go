package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xvierd/hookscope/internal/adapters/process"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}

// fixture is a throwaway repository driven through the git CLI.
type fixture struct {
	t    *testing.T
	dir  string
	home string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	requireGit(t)
	f := &fixture{t: t, dir: t.TempDir(), home: t.TempDir()}
	f.git("init", "-q")
	f.git("symbolic-ref", "HEAD", "refs/heads/master")
	f.git("config", "user.email", "hooks@example.com")
	f.git("config", "user.name", "Hook Tester")
	return f
}

func (f *fixture) env() []string {
	return append(os.Environ(),
		"HOME="+f.home,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CEILING_DIRECTORIES="+filepath.Dir(f.dir),
	)
}

func (f *fixture) git(args ...string) string {
	f.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = f.dir
	cmd.Env = f.env()
	out, err := cmd.CombinedOutput()
	if err != nil {
		f.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func (f *fixture) commit(msg string) {
	f.t.Helper()
	f.git("commit", "-q", "--allow-empty", "-m", msg)
}

func (f *fixture) write(rel, content string) string {
	f.t.Helper()
	p := filepath.Join(f.dir, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(f.t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func (f *fixture) addSubmodule(src *fixture, path string) {
	f.t.Helper()
	f.git("-c", "protocol.file.allow=always", "submodule", "add", "-q", src.dir, path)
}

func (f *fixture) engine() *Engine {
	runner := process.NewExecRunner("HOME="+f.home, "GIT_CONFIG_NOSYSTEM=1", "GIT_CEILING_DIRECTORIES="+filepath.Dir(f.dir))
	return NewEngine(runner, &domain.Repository{Root: f.dir})
}

// scriptedRunner answers each call with the next scripted response.
type scriptedRunner struct {
	responses []scriptedResponse
	calls     [][]string
}

type scriptedResponse struct {
	result *ports.ProcessResult
	err    error
}

func (s *scriptedRunner) Run(ctx context.Context, dir string, name string, args ...string) (*ports.ProcessResult, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if len(s.responses) == 0 {
		return &ports.ProcessResult{}, nil
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	return next.result, next.err
}

func ok(stdout string) scriptedResponse {
	return scriptedResponse{result: &ports.ProcessResult{Stdout: stdout}}
}

func exit(code int, stderr string) scriptedResponse {
	return scriptedResponse{result: &ports.ProcessResult{ExitCode: code, Stderr: stderr}}
}
