package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBashTimeout bounds each template shell snippet. Each snippet gets
// its own budget; nested compositions do not share a deadline.
const DefaultBashTimeout = 30 * time.Second

// Runner executes template shell snippets as bounded subprocesses.
type Runner struct {
	shell   string
	workDir string
	timeout time.Duration
}

// NewRunner creates a runner rooted at workDir.
func NewRunner(workDir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultBashTimeout
	}
	return &Runner{
		shell:   detectShell(),
		workDir: workDir,
		timeout: timeout,
	}
}

func detectShell() string {
	if s := os.Getenv("SHELL"); s != "" {
		// Exclude unsupported shells
		if s != "/bin/fish" && s != "/usr/bin/fish" &&
			s != "/bin/nu" && s != "/usr/bin/nu" {
			return s
		}
	}

	if runtime.GOOS == "darwin" {
		return "/bin/zsh"
	}
	if runtime.GOOS == "windows" {
		if comspec := os.Getenv("COMSPEC"); comspec != "" {
			return comspec
		}
		return "cmd.exe"
	}

	if bash, err := exec.LookPath("bash"); err == nil {
		return bash
	}

	return "/bin/sh"
}

// Run executes one shell snippet and returns the text to substitute in its
// place. Failures never propagate as errors: a non-zero exit folds an exit
// marker into the output, and a timeout yields a timeout marker with
// timedOut set so the caller can record a warning.
func (r *Runner) Run(ctx context.Context, command string) (output string, timedOut bool) {
	log.Debug().Str("command", truncateForLog(command)).Msg("executing template shell snippet")

	cmdCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(cmdCtx, r.shell, "/c", command)
	} else {
		cmd = exec.CommandContext(cmdCtx, r.shell, "-c", command)
	}
	cmd.Dir = r.workDir
	cmd.Env = os.Environ()

	out, err := cmd.CombinedOutput()
	if cmdCtx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("[Command timed out after %v]", r.timeout), true
	}

	result := strings.TrimRight(string(out), "\n")
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Sprintf("[Command exited with code %d]\n%s", exitErr.ExitCode(), result), false
		}
		return fmt.Sprintf("[Command failed: %v]", err), false
	}
	return result, false
}

func truncateForLog(s string) string {
	if len(s) > 100 {
		return s[:100] + "..."
	}
	return s
}
