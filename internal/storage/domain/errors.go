package domain

import (
	"github.com/allisson/linkvault/internal/errors"
)

// Storage errors.
var (
	// ErrFileNotFound indicates the path does not exist in the caller's namespace.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrForbiddenPath indicates a path outside the caller's namespace.
	ErrForbiddenPath = errors.Wrap(errors.ErrForbidden, "path is outside your storage namespace")

	// ErrInvalidPath indicates a malformed path or file name.
	ErrInvalidPath = errors.Wrap(errors.ErrInvalidInput, "invalid path")

	// ErrFileTypeNotAllowed indicates the upload extension is not on the allow-list.
	ErrFileTypeNotAllowed = errors.Wrap(errors.ErrInvalidInput, "file type not allowed")

	// ErrFileTooLarge indicates the upload exceeds the size limit.
	ErrFileTooLarge = errors.Wrap(errors.ErrInvalidInput, "file too large")

	// ErrRevisionConflict indicates the file changed since its revision was read.
	ErrRevisionConflict = errors.Wrap(errors.ErrConflict, "file was modified concurrently")

	// ErrStorageUnavailable indicates the content store failed or timed out.
	ErrStorageUnavailable = errors.Wrap(errors.ErrUnavailable, "storage unavailable")
)
