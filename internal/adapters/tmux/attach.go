package tmux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
)

var (
	ErrAlreadyAttached = errors.New("already attached to session")
	ErrNotAttached     = errors.New("not attached to session")
)

// attachmentState tracks a client attached through Attach
type attachmentState struct {
	ptmx     *os.File
	attachCh chan struct{}
	mu       sync.Mutex
}

// Attach attaches the current terminal to the grove session through a
// PTY. Returns a channel closed on detach. Ctrl+Q detaches.
func (h *Host) Attach() (chan struct{}, error) {
	h.attach.mu.Lock()
	defer h.attach.mu.Unlock()

	if h.attach.attachCh != nil {
		return nil, ErrAlreadyAttached
	}

	cmd := exec.Command("tmux", "attach-session", "-t", h.session)
	cmd.Env = environWithoutTmux()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to attach to session: %w", err)
	}

	h.attach.ptmx = ptmx
	h.attach.attachCh = make(chan struct{})

	// Copy tmux output to stdout
	go func() {
		io.Copy(os.Stdout, ptmx)
	}()

	// Forward stdin to tmux, watching for Ctrl+Q (ASCII 17) to detach
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				break
			}

			for i := 0; i < n; i++ {
				if buf[i] == 17 { // Ctrl+Q
					h.Detach()
					return
				}
			}

			ptmx.Write(buf[:n])
		}
	}()

	return h.attach.attachCh, nil
}

// Detach detaches the client started by Attach
func (h *Host) Detach() error {
	h.attach.mu.Lock()
	defer h.attach.mu.Unlock()

	if h.attach.attachCh == nil {
		return ErrNotAttached
	}

	if h.attach.ptmx != nil {
		h.attach.ptmx.Close()
		h.attach.ptmx = nil
	}

	close(h.attach.attachCh)
	h.attach.attachCh = nil

	return nil
}

// environWithoutTmux strips TMUX variables so attaching works from
// inside another tmux session
func environWithoutTmux() []string {
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "TMUX=") && !strings.HasPrefix(e, "TMUX_PANE=") {
			env = append(env, e)
		}
	}
	return env
}
