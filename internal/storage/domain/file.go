// Package domain defines the per-subject file storage domain: file entries,
// subject namespaces and storage errors.
package domain

import (
	"path"
	"strings"
)

// FileEntry describes a stored file. Path is the full content store path and is
// what callers pass back to download or delete the file.
type FileEntry struct {
	Name       string
	Path       string
	RevisionID string
	Size       int64
	IsDir      bool
}

// Upload is a file submitted for storage.
type Upload struct {
	// Dir is a full content store directory path; empty means the namespace root.
	Dir      string
	FileName string
	Content  []byte
}

// Extension returns the lowercased extension of name including the dot, or "".
func Extension(name string) string {
	return strings.ToLower(path.Ext(name))
}
