package domain

import "time"

// Folder is a user-curated shelf of bookmark IDs.
type Folder struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a random UUID assigned at creation.
	ID string `json:"id"`

	// ─────────────────────────────
	// User-editable
	// ─────────────────────────────

	// Name is the display name. Mutable via rename.
	Name string `json:"name"`

	// BookmarkIDs holds member status IDs in insertion order, without
	// duplicates. Entries are weak references: an ID may outlive the
	// status it points at, and consumers must treat a missing status as
	// "absent", not as an error.
	BookmarkIDs []string `json:"bookmark_ids"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is when the folder was created.
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether id is a member of the folder.
func (f *Folder) Contains(id string) bool {
	for _, bid := range f.BookmarkIDs {
		if bid == id {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the folder has no members.
func (f *Folder) IsEmpty() bool {
	return len(f.BookmarkIDs) == 0
}
