package dto

import (
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// FileResponse represents a stored file or directory in API responses.
type FileResponse struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	RevisionID string `json:"revision_id,omitempty"`
	Size       int64  `json:"size"`
	IsDir      bool   `json:"is_dir"`
}

// ListFilesResponse represents a page of directory entries.
type ListFilesResponse struct {
	Dir  string         `json:"dir"`
	Data []FileResponse `json:"data"`
}

// MapFileToResponse converts a domain file entry to an API response.
func MapFileToResponse(entry *storageDomain.FileEntry) FileResponse {
	return FileResponse{
		Name:       entry.Name,
		Path:       entry.Path,
		RevisionID: entry.RevisionID,
		Size:       entry.Size,
		IsDir:      entry.IsDir,
	}
}

// MapFilesToListResponse converts directory entries to a list response.
// Returns an empty list instead of null when the directory is empty.
func MapFilesToListResponse(dir string, entries []storageDomain.FileEntry) ListFilesResponse {
	data := make([]FileResponse, 0, len(entries))
	for i := range entries {
		data = append(data, MapFileToResponse(&entries[i]))
	}
	return ListFilesResponse{Dir: dir, Data: data}
}
