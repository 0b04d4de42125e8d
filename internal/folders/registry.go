package folders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fedimark/fedimark/internal/domain"
	"github.com/fedimark/fedimark/internal/logger"
)

// ErrEmptyName rejects folder creation or renaming with a blank name.
var ErrEmptyName = errors.New("folder name must not be empty")

// Store persists the entire folder list as one unit.
type Store interface {
	SaveFolders(ctx context.Context, folders []*domain.Folder) error
	LoadFolders(ctx context.Context) ([]*domain.Folder, error)
}

// Registry holds user-defined bookmark folders. Folders reference bookmarks
// by status ID only, so a folder member may no longer exist in the synced
// collection; membership queries simply skip those.
type Registry struct {
	store  Store
	logger logger.Logger

	mu      sync.RWMutex
	folders []*domain.Folder
}

func New(store Store, log logger.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: log,
	}
}

// Load replaces the in-memory folder list with the persisted one.
func (r *Registry) Load(ctx context.Context) error {
	folders, err := r.store.LoadFolders(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.folders = folders
	r.mu.Unlock()

	r.logger.Info("loaded folders",
		logger.Int("count", len(folders)))
	return nil
}

// Create appends a new folder with a generated ID and persists the list.
func (r *Registry) Create(ctx context.Context, name string) (*domain.Folder, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	folder := &domain.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.folders = append(r.folders, folder)
	if err := r.persist(ctx); err != nil {
		r.folders = r.folders[:len(r.folders)-1]
		return nil, err
	}
	return folder, nil
}

// Rename changes a folder's name. An unknown ID is a silent no-op.
func (r *Registry) Rename(ctx context.Context, folderID, name string) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.folders {
		if f.ID != folderID {
			continue
		}
		previous := f.Name
		f.Name = name
		if err := r.persist(ctx); err != nil {
			f.Name = previous
			return err
		}
		return nil
	}
	return nil
}

// DeleteAt removes the folders at the given positions. Out-of-range
// positions are ignored.
func (r *Registry) DeleteAt(ctx context.Context, positions []int) error {
	if len(positions) == 0 {
		return nil
	}

	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		drop[p] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]*domain.Folder, 0, len(r.folders))
	for i, f := range r.folders {
		if _, ok := drop[i]; ok {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == len(r.folders) {
		return nil
	}

	previous := r.folders
	r.folders = kept
	if err := r.persist(ctx); err != nil {
		r.folders = previous
		return err
	}
	return nil
}

// AddBookmark adds a status ID to a folder. Adding an ID that is already a
// member, or targeting an unknown folder, is a silent no-op.
func (r *Registry) AddBookmark(ctx context.Context, folderID, statusID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.folders {
		if f.ID != folderID {
			continue
		}
		if f.Contains(statusID) {
			return nil
		}
		f.BookmarkIDs = append(f.BookmarkIDs, statusID)
		if err := r.persist(ctx); err != nil {
			f.BookmarkIDs = f.BookmarkIDs[:len(f.BookmarkIDs)-1]
			return err
		}
		return nil
	}
	return nil
}

// RemoveBookmark removes a status ID from a folder. A missing member or an
// unknown folder is a silent no-op.
func (r *Registry) RemoveBookmark(ctx context.Context, folderID, statusID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.folders {
		if f.ID != folderID {
			continue
		}
		idx := -1
		for i, id := range f.BookmarkIDs {
			if id == statusID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		previous := f.BookmarkIDs
		f.BookmarkIDs = append(append([]string{}, previous[:idx]...), previous[idx+1:]...)
		if err := r.persist(ctx); err != nil {
			f.BookmarkIDs = previous
			return err
		}
		return nil
	}
	return nil
}

// MembersOf resolves a folder's members against the synced collection,
// preserving the collection's order and skipping IDs that no longer exist.
func (r *Registry) MembersOf(folderID string, collection []*domain.Status) []*domain.Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var folder *domain.Folder
	for _, f := range r.folders {
		if f.ID == folderID {
			folder = f
			break
		}
	}
	if folder == nil {
		return nil
	}

	members := make([]*domain.Status, 0, len(folder.BookmarkIDs))
	for _, status := range collection {
		if folder.Contains(status.ID) {
			members = append(members, status)
		}
	}
	return members
}

// Contains reports whether the folder holds the status ID. Unknown folders
// report false.
func (r *Registry) Contains(folderID, statusID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.folders {
		if f.ID == folderID {
			return f.Contains(statusID)
		}
	}
	return false
}

// Get returns the folder with the given ID, or nil.
func (r *Registry) Get(folderID string) *domain.Folder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.folders {
		if f.ID == folderID {
			return f
		}
	}
	return nil
}

// Folders returns a snapshot of the folder list in creation order.
func (r *Registry) Folders() []*domain.Folder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Folder, len(r.folders))
	copy(out, r.folders)
	return out
}

// persist writes the current list. Callers hold the write lock.
func (r *Registry) persist(ctx context.Context) error {
	if err := r.store.SaveFolders(ctx, r.folders); err != nil {
		r.logger.Error("failed to persist folders",
			logger.Error(err))
		return err
	}
	return nil
}
