package domain

// Repository is a user-registered git repository whose worktrees grove manages.
// Removal only forgets the entry; the filesystem is never touched.
type Repository struct {
	ID   string
	Name string
	Path string
}
