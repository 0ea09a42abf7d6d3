package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// defaultTimeout caps a single CLI invocation. The commands under test are
// short-lived; anything still running after this is stuck.
const defaultTimeout = 30 * time.Second

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
)

// CommandResult captures one CLI invocation for assertions
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// BuildBinary compiles the grove binary into a temp directory, once per
// test process. Call from TestMain before m.Run.
func BuildBinary() (string, error) {
	buildOnce.Do(func() {
		binaryPath, buildErr = build()
	})
	return binaryPath, buildErr
}

func build() (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "grove-integration-*")
	if err != nil {
		return "", err
	}

	target := filepath.Join(dir, "grove")
	cmd := exec.Command("go", "build", "-o", target, ".")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build failed: %w\n%s", err, out)
	}
	return target, nil
}

// CleanupBinary removes the compiled binary and its temp directory.
// Call from TestMain after m.Run.
func CleanupBinary() {
	if binaryPath == "" {
		return
	}
	if err := os.RemoveAll(filepath.Dir(binaryPath)); err != nil {
		log.Printf("Warning: failed to clean up test binary: %v", err)
	}
}

// RunCommand runs the grove binary against the environment with the default
// timeout
func RunCommand(tb testing.TB, env *TestEnvironment, args ...string) CommandResult {
	tb.Helper()
	return RunCommandWithTimeout(tb, env, defaultTimeout, args...)
}

// RunCommandWithTimeout runs the grove binary and captures its outcome. A
// timed-out or unstartable command reports exit code -1.
func RunCommandWithTimeout(tb testing.TB, env *TestEnvironment, timeout time.Duration, args ...string) CommandResult {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = env.Environ()

	err := cmd.Run()

	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		tb.Logf("grove %s timed out after %v", strings.Join(args, " "), timeout)
		result.ExitCode = -1
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err != nil:
		tb.Logf("grove %s failed to run: %v", strings.Join(args, " "), err)
		result.ExitCode = -1
	}
	return result
}

// moduleRoot resolves the module directory so the harness works regardless
// of the test package's depth
func moduleRoot() (string, error) {
	out, err := exec.Command("go", "list", "-m", "-f", "{{.Dir}}").Output()
	if err != nil {
		return "", fmt.Errorf("failed to locate module root: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
