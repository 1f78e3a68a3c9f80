package command

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Echo(t *testing.T) {
	r := NewRunner(t.TempDir(), DefaultBashTimeout)

	out, timedOut := r.Run(context.Background(), "echo hello")
	assert.False(t, timedOut)
	assert.Equal(t, "hello", out)
}

func TestRunner_RunsInWorkDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell test")
	}
	dir := t.TempDir()
	r := NewRunner(dir, DefaultBashTimeout)

	out, _ := r.Run(context.Background(), "pwd")
	require.NotEmpty(t, out)
	// macOS tempdirs resolve through /private, so compare the basename.
	assert.True(t, strings.HasSuffix(out, dir[strings.LastIndex(dir, "/"):]), "got %q", out)
}

func TestRunner_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell test")
	}
	r := NewRunner(t.TempDir(), DefaultBashTimeout)

	out, timedOut := r.Run(context.Background(), "echo before; exit 3")
	assert.False(t, timedOut)
	assert.Contains(t, out, "[Command exited with code 3]")
	assert.Contains(t, out, "before")
}

func TestRunner_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix shell test")
	}
	r := NewRunner(t.TempDir(), 100*time.Millisecond)

	out, timedOut := r.Run(context.Background(), "sleep 5")
	assert.True(t, timedOut)
	assert.Contains(t, out, "[Command timed out after")
}

func TestNewRunner_DefaultsTimeout(t *testing.T) {
	r := NewRunner(t.TempDir(), 0)
	assert.Equal(t, DefaultBashTimeout, r.timeout)
}
