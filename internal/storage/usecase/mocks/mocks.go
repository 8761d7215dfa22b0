// Package mocks provides testify mocks for the storage use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// MockContentStore is a mock implementation of usecase.ContentStore.
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Put(ctx context.Context, path string, content []byte) (string, error) {
	args := m.Called(ctx, path, content)
	return args.String(0), args.Error(1)
}

func (m *MockContentStore) Get(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentStore) List(ctx context.Context, dir string) ([]storageDomain.FileEntry, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storageDomain.FileEntry), args.Error(1)
}

func (m *MockContentStore) Stat(ctx context.Context, path string) (*storageDomain.FileEntry, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.FileEntry), args.Error(1)
}

func (m *MockContentStore) Delete(ctx context.Context, path, revisionID string) error {
	args := m.Called(ctx, path, revisionID)
	return args.Error(0)
}

// MockFileUseCase is a mock implementation of usecase.FileUseCase.
type MockFileUseCase struct {
	mock.Mock
}

func (m *MockFileUseCase) Upload(
	ctx context.Context,
	subject string,
	upload *storageDomain.Upload,
) (*storageDomain.FileEntry, error) {
	args := m.Called(ctx, subject, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageDomain.FileEntry), args.Error(1)
}

func (m *MockFileUseCase) List(ctx context.Context, subject, dir string) ([]storageDomain.FileEntry, error) {
	args := m.Called(ctx, subject, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storageDomain.FileEntry), args.Error(1)
}

func (m *MockFileUseCase) Download(
	ctx context.Context,
	subject, path string,
) (*storageDomain.FileEntry, []byte, error) {
	args := m.Called(ctx, subject, path)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*storageDomain.FileEntry), args.Get(1).([]byte), args.Error(2)
}

func (m *MockFileUseCase) Delete(ctx context.Context, subject, path string) error {
	args := m.Called(ctx, subject, path)
	return args.Error(0)
}
