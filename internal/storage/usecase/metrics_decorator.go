package usecase

import (
	"context"
	"time"

	"github.com/allisson/linkvault/internal/metrics"
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{next: useCase, metrics: m}
}

func (f *fileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, f.metrics, "storage", operation, start, err)
}

// Upload records metrics for uploads.
func (f *fileUseCaseWithMetrics) Upload(
	ctx context.Context,
	subject string,
	upload *storageDomain.Upload,
) (*storageDomain.FileEntry, error) {
	start := time.Now()
	entry, err := f.next.Upload(ctx, subject, upload)
	f.record(ctx, "file_upload", start, err)
	return entry, err
}

// List records metrics for listings.
func (f *fileUseCaseWithMetrics) List(ctx context.Context, subject, dir string) ([]storageDomain.FileEntry, error) {
	start := time.Now()
	entries, err := f.next.List(ctx, subject, dir)
	f.record(ctx, "file_list", start, err)
	return entries, err
}

// Download records metrics for downloads.
func (f *fileUseCaseWithMetrics) Download(
	ctx context.Context,
	subject, path string,
) (*storageDomain.FileEntry, []byte, error) {
	start := time.Now()
	entry, content, err := f.next.Download(ctx, subject, path)
	f.record(ctx, "file_download", start, err)
	return entry, content, err
}

// Delete records metrics for deletions.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, subject, path string) error {
	start := time.Now()
	err := f.next.Delete(ctx, subject, path)
	f.record(ctx, "file_delete", start, err)
	return err
}
