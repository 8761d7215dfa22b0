package usecase

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	apperrors "github.com/allisson/linkvault/internal/errors"
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// DefaultStorageTimeout bounds every content store call.
const DefaultStorageTimeout = 10 * time.Second

// FileConfig configures a FileUseCase.
type FileConfig struct {
	// Root is the store directory under which every subject namespace lives.
	Root string
	// MaxBytes is the largest accepted upload. Zero disables the limit.
	MaxBytes int64
	// AllowedExtensions lists accepted upload extensions such as ".pdf".
	// Empty accepts any extension.
	AllowedExtensions []string
	Timeout           time.Duration
}

type fileUseCase struct {
	config FileConfig
	store  ContentStore
	logger *slog.Logger
}

// NewFileUseCase creates a FileUseCase.
func NewFileUseCase(config FileConfig, store ContentStore, logger *slog.Logger) FileUseCase {
	if config.Timeout <= 0 {
		config.Timeout = DefaultStorageTimeout
	}
	allowed := make([]string, 0, len(config.AllowedExtensions))
	for _, ext := range config.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed = append(allowed, ext)
	}
	config.AllowedExtensions = allowed

	return &fileUseCase{config: config, store: store, logger: logger}
}

// Upload stores upload under the subject's namespace.
func (f *fileUseCase) Upload(
	ctx context.Context,
	subject string,
	upload *storageDomain.Upload,
) (*storageDomain.FileEntry, error) {
	if len(f.config.AllowedExtensions) > 0 &&
		!slices.Contains(f.config.AllowedExtensions, storageDomain.Extension(upload.FileName)) {
		return nil, storageDomain.ErrFileTypeNotAllowed
	}
	if f.config.MaxBytes > 0 && int64(len(upload.Content)) > f.config.MaxBytes {
		return nil, storageDomain.ErrFileTooLarge
	}

	target, err := f.namespace(subject).Join(upload.Dir, upload.FileName)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	revision, err := f.store.Put(ctx, target, upload.Content)
	if err != nil {
		return nil, f.storeError("put", target, err)
	}

	return &storageDomain.FileEntry{
		Name:       upload.FileName,
		Path:       target,
		RevisionID: revision,
		Size:       int64(len(upload.Content)),
	}, nil
}

// List returns the entries of dir inside the subject's namespace.
func (f *fileUseCase) List(ctx context.Context, subject, dir string) ([]storageDomain.FileEntry, error) {
	resolved, err := f.namespace(subject).ResolveDir(dir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	entries, err := f.store.List(ctx, resolved)
	if err != nil {
		return nil, f.storeError("list", resolved, err)
	}
	return entries, nil
}

// Download returns the file at p.
func (f *fileUseCase) Download(
	ctx context.Context,
	subject, p string,
) (*storageDomain.FileEntry, []byte, error) {
	resolved, err := f.namespace(subject).ResolveFile(p)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	content, err := f.store.Get(ctx, resolved)
	if err != nil {
		return nil, nil, f.storeError("get", resolved, err)
	}

	return &storageDomain.FileEntry{
		Name: path.Base(resolved),
		Path: resolved,
		Size: int64(len(content)),
	}, content, nil
}

// Delete removes the file at p.
func (f *fileUseCase) Delete(ctx context.Context, subject, p string) error {
	resolved, err := f.namespace(subject).ResolveFile(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	if err := f.store.Delete(ctx, resolved, ""); err != nil {
		return f.storeError("delete", resolved, err)
	}
	return nil
}

func (f *fileUseCase) namespace(subject string) storageDomain.Namespace {
	return storageDomain.NewNamespace(f.config.Root, subject)
}

// storeError keeps the domain errors a store reports and turns everything else,
// timeouts included, into ErrStorageUnavailable. The cause is only logged.
func (f *fileUseCase) storeError(op, target string, err error) error {
	switch {
	case apperrors.Is(err, storageDomain.ErrFileNotFound),
		apperrors.Is(err, storageDomain.ErrRevisionConflict),
		apperrors.Is(err, storageDomain.ErrInvalidPath):
		return err
	}

	f.logger.Error("content store call failed",
		slog.String("operation", op),
		slog.String("path", target),
		slog.Any("error", err),
	)
	return storageDomain.ErrStorageUnavailable
}
