package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/linkvault/internal/metrics"
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
	"github.com/allisson/linkvault/internal/storage/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectStorageMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "storage", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "storage", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

func TestFileUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload_Success", func(t *testing.T) {
		next := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		upload := &storageDomain.Upload{FileName: "a.txt"}
		next.On("Upload", ctx, alice, upload).Return(&storageDomain.FileEntry{Name: "a.txt"}, nil).Once()
		expectStorageMetrics(ctx, m, "file_upload", "success")

		entry, err := NewFileUseCaseWithMetrics(next, m).Upload(ctx, alice, upload)
		require.NoError(t, err)
		assert.Equal(t, "a.txt", entry.Name)
		m.AssertExpectations(t)
	})

	t.Run("List_Error", func(t *testing.T) {
		next := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		next.On("List", ctx, alice, bobDir).Return(nil, storageDomain.ErrForbiddenPath).Once()
		expectStorageMetrics(ctx, m, "file_list", "error")

		_, err := NewFileUseCaseWithMetrics(next, m).List(ctx, alice, bobDir)
		assert.ErrorIs(t, err, storageDomain.ErrForbiddenPath)
		m.AssertExpectations(t)
	})

	t.Run("Download_Success", func(t *testing.T) {
		next := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Download", ctx, alice, aliceDir+"/a.txt").
			Return(&storageDomain.FileEntry{Name: "a.txt"}, []byte("a"), nil).
			Once()
		expectStorageMetrics(ctx, m, "file_download", "success")

		_, content, err := NewFileUseCaseWithMetrics(next, m).Download(ctx, alice, aliceDir+"/a.txt")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), content)
		m.AssertExpectations(t)
	})

	t.Run("Delete_Error", func(t *testing.T) {
		next := &mocks.MockFileUseCase{}
		m := &mockBusinessMetrics{}
		next.On("Delete", ctx, alice, aliceDir+"/a.txt").Return(storageDomain.ErrStorageUnavailable).Once()
		expectStorageMetrics(ctx, m, "file_delete", "error")

		err := NewFileUseCaseWithMetrics(next, m).Delete(ctx, alice, aliceDir+"/a.txt")
		assert.ErrorIs(t, err, storageDomain.ErrStorageUnavailable)
		m.AssertExpectations(t)
	})
}
