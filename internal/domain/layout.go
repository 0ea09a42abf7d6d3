package domain

import "slices"

// SessionLayout is the split arrangement of terminal session handles for one
// worktree. Handles are opaque identifiers owned by the terminal engine;
// grove only tracks membership and order. Exactly one layout is live at any
// time; cached layouts keep their processes running but render nothing.
type SessionLayout struct {
	Handles []string
}

// NewSingletonLayout returns a layout holding a single handle
func NewSingletonLayout(handle string) *SessionLayout {
	return &SessionLayout{Handles: []string{handle}}
}

// Contains reports whether the layout holds the given handle
func (l *SessionLayout) Contains(handle string) bool {
	return slices.Contains(l.Handles, handle)
}

// InsertAfter adds a handle immediately after the given sibling, or appends
// when the sibling is not present
func (l *SessionLayout) InsertAfter(sibling, handle string) {
	idx := slices.Index(l.Handles, sibling)
	if idx < 0 {
		l.Handles = append(l.Handles, handle)
		return
	}
	l.Handles = slices.Insert(l.Handles, idx+1, handle)
}

// Remove drops a handle from the layout if present
func (l *SessionLayout) Remove(handle string) {
	idx := slices.Index(l.Handles, handle)
	if idx >= 0 {
		l.Handles = slices.Delete(l.Handles, idx, idx+1)
	}
}

// Empty reports whether the layout holds no handles
func (l *SessionLayout) Empty() bool {
	return l == nil || len(l.Handles) == 0
}

// Clone returns a deep copy of the layout
func (l *SessionLayout) Clone() *SessionLayout {
	if l == nil {
		return nil
	}
	return &SessionLayout{Handles: slices.Clone(l.Handles)}
}
