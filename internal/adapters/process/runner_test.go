package process

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available in PATH")
	}
}

func TestExecRunner_CapturesStreams(t *testing.T) {
	requireShell(t)
	r := NewExecRunner()

	res, err := r.Run(context.Background(), "", "sh", "-c", "echo out; echo err 1>&2; exit 3")
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecRunner_ArgumentsAreNotSplit(t *testing.T) {
	requireShell(t)
	dir := filepath.Join(t.TempDir(), "some dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	res, err := NewExecRunner().Run(context.Background(), dir, "sh", "-c", `printf '%s|' "$@"`, "sh", "a b", "c")
	require.NoError(t, err)

	assert.Equal(t, "a b|c|", res.Stdout)
}

func TestExecRunner_RunsInDirWithEnv(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	res, err := NewExecRunner("HOOKSCOPE_TEST=yes").Run(context.Background(), dir, "sh", "-c", "pwd; echo $HOOKSCOPE_TEST")
	require.NoError(t, err)

	assert.Contains(t, res.Stdout, filepath.Base(dir))
	assert.Contains(t, res.Stdout, "yes")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "", "hookscope-no-such-binary")

	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecRunner_Deadline(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := NewExecRunner().Run(ctx, "", "sh", "-c", "sleep 5")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, res.ExitCode)
}
