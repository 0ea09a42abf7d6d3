package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGitNotFound        = errors.New("git executable not found")
	ErrNotARepository     = errors.New("path is not a git repository")
	ErrRepositoryExists   = errors.New("repository already registered")
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrUnsafeSessionID    = errors.New("session id contains unsafe characters")
)

// CommandError reports a git invocation that exited non-zero.
// Output carries the combined stdout and stderr of the command.
type CommandError struct {
	Args   []string
	Output string
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Output)
	if msg == "" {
		msg = "command failed"
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}
