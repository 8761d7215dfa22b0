// Package dto provides data transfer objects for the file endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/linkvault/internal/validation"
)

// MaxPathLength bounds every path accepted from a client.
const MaxPathLength = 1024

// ListFilesRequest selects the directory to list. Empty means the caller's
// namespace root.
type ListFilesRequest struct {
	Dir string `form:"dir"`
}

// Validate checks the directory syntax.
func (r *ListFilesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Dir,
			validation.Length(0, MaxPathLength),
			customValidation.RelativePath,
		),
	)
}

// FilePathRequest names a single file by its full store path.
type FilePathRequest struct {
	Path string `form:"path"`
}

// Validate checks the path syntax.
func (r *FilePathRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, MaxPathLength),
			customValidation.RelativePath,
		),
	)
}

// UploadFileRequest holds the non-file parts of an upload form.
type UploadFileRequest struct {
	Dir      string `form:"dir"`
	FileName string `form:"-"`
}

// Validate checks the target directory and the submitted file name.
func (r *UploadFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Dir,
			validation.Length(0, MaxPathLength),
			customValidation.RelativePath,
		),
		validation.Field(&r.FileName,
			validation.Required,
			validation.Length(1, 255),
			customValidation.FileName,
		),
	)
}
