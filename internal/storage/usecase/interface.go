// Package usecase implements per-subject file operations on top of a content store.
package usecase

import (
	"context"

	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// ContentStore is the remote content store. Paths are full store paths; the use
// case has already confined them to the caller's namespace.
type ContentStore interface {
	// Put creates or replaces the file at path and returns its new revision ID.
	Put(ctx context.Context, path string, content []byte) (string, error)

	// Get returns the file content, or ErrFileNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// List returns the direct children of dir. A directory that does not exist
	// yields an empty list.
	List(ctx context.Context, dir string) ([]storageDomain.FileEntry, error)

	// Stat returns the entry at path, or ErrFileNotFound.
	Stat(ctx context.Context, path string) (*storageDomain.FileEntry, error)

	// Delete removes the file at path. A non-empty revisionID must match the
	// current revision, otherwise ErrRevisionConflict is returned.
	Delete(ctx context.Context, path, revisionID string) error
}

// FileUseCase performs file operations on behalf of an authenticated subject.
// Every path argument is checked against the subject's namespace before the
// content store is contacted.
type FileUseCase interface {
	// Upload stores a file in the subject's namespace. The extension allow-list and
	// size limit are enforced before any content store call.
	Upload(ctx context.Context, subject string, upload *storageDomain.Upload) (*storageDomain.FileEntry, error)

	// List returns the entries of dir, or of the namespace root when dir is empty.
	List(ctx context.Context, subject, dir string) ([]storageDomain.FileEntry, error)

	// Download returns the entry and content of the file at path.
	Download(ctx context.Context, subject, path string) (*storageDomain.FileEntry, []byte, error)

	// Delete removes the file at path.
	Delete(ctx context.Context, subject, path string) error
}
