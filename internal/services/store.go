package services

import "grove/internal/domain"

// SessionStore owns the per-worktree layout and focus caches. It is an
// explicit object passed to every operation; there is no ambient state.
// All access happens on the state goroutine, so no locking is needed.
type SessionStore struct {
	layouts map[string]*domain.SessionLayout
	focus   map[string]string
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		layouts: make(map[string]*domain.SessionLayout),
		focus:   make(map[string]string),
	}
}

// Layout returns the cached layout for a worktree, or nil
func (s *SessionStore) Layout(worktreePath string) *domain.SessionLayout {
	return s.layouts[worktreePath]
}

// SetLayout caches a layout for a worktree
func (s *SessionStore) SetLayout(worktreePath string, layout *domain.SessionLayout) {
	s.layouts[worktreePath] = layout
}

// Focus returns the recorded focus handle for a worktree
func (s *SessionStore) Focus(worktreePath string) (string, bool) {
	handle, ok := s.focus[worktreePath]
	return handle, ok
}

// SetFocus records the focused handle for a worktree
func (s *SessionStore) SetFocus(worktreePath, handle string) {
	if handle == "" {
		delete(s.focus, worktreePath)
		return
	}
	s.focus[worktreePath] = handle
}

// Delete drops both caches for a worktree. Callers run this synchronously
// with worktree removal so no orphaned caches persist in read paths.
func (s *SessionStore) Delete(worktreePath string) {
	delete(s.layouts, worktreePath)
	delete(s.focus, worktreePath)
}

// Paths returns every worktree path with a cache entry
func (s *SessionStore) Paths() []string {
	paths := make([]string, 0, len(s.layouts))
	for path := range s.layouts {
		paths = append(paths, path)
	}
	return paths
}
