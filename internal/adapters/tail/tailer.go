// Package tail turns the append-only agent event log into an ordered stream
// of lifecycle events using kernel-level file-change notification.
package tail

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"grove/internal/domain"
	"grove/internal/logging"
	"grove/internal/ports"
)

// maxLogSize is the cap applied once at Start. A larger file is truncated
// to zero, discarding history: only forward-looking events matter to the
// subscriber, so there is no rotation.
const maxLogSize = 1 << 20 // 1 MiB

// eventBuffer bounds in-flight decoded events between the watch and
// delivery goroutines
const eventBuffer = 64

// Tailer watches one append-only file and decodes newline-delimited JSON
// records into lifecycle events. Events are delivered to the handler one at
// a time, in file order, from a single goroutine.
//
// Known gap: a file that is renamed or deleted out from under the tailer
// stops being tailed until the next Start; the tailer logs this rather than
// reopening automatically.
type Tailer struct {
	path string

	mu       sync.Mutex
	watching bool
	watcher  *fsnotify.Watcher
	file     *os.File
	done     chan struct{}
	wg       sync.WaitGroup

	// offset is owned by the watch goroutine after Start returns
	offset int64
}

// Verify interface compliance at compile time
var _ ports.EventSource = (*Tailer)(nil)

// New creates a Tailer for the log file at path. Nothing happens until
// Start is called.
func New(path string) *Tailer {
	return &Tailer{path: path}
}

// Start transitions the tailer from Stopped to Watching: it ensures the
// file and its parent directory exist, applies the truncation policy, seeks
// to end-of-file and registers for change notification. Only events
// appended after Start are delivered. Calling Start while watching is a
// no-op.
func (t *Tailer) Start(handler ports.EventHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.watching {
		logging.Logger.Debug("Tailer already watching", "path", t.path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Truncation policy, evaluated once per Start
	if info, err := os.Stat(t.path); err == nil && info.Size() > maxLogSize {
		if err := os.Truncate(t.path, 0); err != nil {
			return fmt.Errorf("failed to truncate oversized log: %w", err)
		}
		logging.Logger.Info("Event log truncated", "path", t.path, "previous_size", info.Size())
	}

	file, err := os.OpenFile(t.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to seek event log: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(t.path); err != nil {
		watcher.Close()
		file.Close()
		return fmt.Errorf("failed to watch event log: %w", err)
	}

	t.file = file
	t.offset = offset
	t.watcher = watcher
	t.done = make(chan struct{})
	t.watching = true

	events := make(chan domain.LifecycleEvent, eventBuffer)
	t.wg.Add(2)
	go t.watchLoop(events)
	go t.deliverLoop(events, handler)

	logging.Logger.Info("Tailer started", "path", t.path, "offset", offset)
	return nil
}

// Stop cancels the watch and closes the log handle. Safe to call multiple
// times and from any goroutine.
func (t *Tailer) Stop() {
	t.mu.Lock()
	if !t.watching {
		t.mu.Unlock()
		return
	}
	t.watching = false
	close(t.done)
	if err := t.watcher.Close(); err != nil {
		logging.Logger.Warn("Failed to close watcher", "error", err)
	}
	t.mu.Unlock()

	// Loops exit on done/channel close; the file handle is only closed
	// once the watch goroutine can no longer read from it
	t.wg.Wait()
	if err := t.file.Close(); err != nil {
		logging.Logger.Warn("Failed to close event log", "error", err)
	}

	logging.Logger.Info("Tailer stopped", "path", t.path)
}

// watchLoop reacts to change notifications until Stop
func (t *Tailer) watchLoop(events chan<- domain.LifecycleEvent) {
	defer t.wg.Done()
	defer close(events)

	for {
		select {
		case <-t.done:
			return
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Write != 0 {
				if !t.readNew(events) {
					return
				}
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// Known gap: the file is not reopened; tailing stays dark
				// until the next Start
				logging.Logger.Warn("Event log renamed or removed, tailing suspended until restart",
					"path", t.path, "op", ev.Op.String())
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn("Watcher error", "error", err)
		}
	}
}

// deliverLoop invokes the handler sequentially, preserving file order
func (t *Tailer) deliverLoop(events <-chan domain.LifecycleEvent, handler ports.EventHandler) {
	defer t.wg.Done()
	for event := range events {
		handler(event)
	}
}

// readNew reads everything appended since the stored offset and decodes it
// line by line. A line that fails to decode is dropped with a warning; it
// never stops the tailer or corrupts the offset for subsequent lines.
// Returns false when the tailer is stopping.
func (t *Tailer) readNew(events chan<- domain.LifecycleEvent) bool {
	// A file shorter than the stored offset was truncated out of band;
	// rereading from the start beats waiting at an offset past EOF forever
	if info, err := t.file.Stat(); err == nil && info.Size() < t.offset {
		logging.Logger.Info("Event log shrank, rereading from start",
			"path", t.path, "size", info.Size(), "previous_offset", t.offset)
		t.offset = 0
	}

	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		logging.Logger.Warn("Failed to seek event log", "error", err, "offset", t.offset)
		return true
	}

	data, err := io.ReadAll(t.file)
	if err != nil {
		logging.Logger.Warn("Failed to read event log", "error", err)
		return true
	}
	if len(data) == 0 {
		return true
	}
	t.offset += int64(len(data))

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var event domain.LifecycleEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			logging.Logger.Warn("Dropping undecodable event log line", "error", err, "line", line)
			continue
		}
		if !event.EventType.Valid() {
			logging.Logger.Warn("Dropping event with unknown type", "event_type", event.EventType)
			continue
		}

		select {
		case events <- event:
		case <-t.done:
			return false
		}
	}
	return true
}
