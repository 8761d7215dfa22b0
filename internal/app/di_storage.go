package app

import (
	"context"
	"fmt"

	storageHTTP "github.com/allisson/linkvault/internal/storage/http"
	storageService "github.com/allisson/linkvault/internal/storage/service"
	storageUseCase "github.com/allisson/linkvault/internal/storage/usecase"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageDriverGitHub = "github"
	StorageDriverBlob   = "blob"
)

// ContentStore returns the remote content store selected by STORAGE_DRIVER.
func (c *Container) ContentStore() (storageUseCase.ContentStore, error) {
	var err error
	c.contentStoreInit.Do(func() {
		c.contentStore, err = c.initContentStore()
		if err != nil {
			c.initErrors["contentStore"] = err
		}
	})
	if storedErr, exists := c.initErrors["contentStore"]; exists {
		return nil, storedErr
	}
	return c.contentStore, nil
}

// FileUseCase returns the per-subject file use case.
func (c *Container) FileUseCase() (storageUseCase.FileUseCase, error) {
	var err error
	c.fileUseCaseInit.Do(func() {
		c.fileUseCase, err = c.initFileUseCase()
		if err != nil {
			c.initErrors["fileUseCase"] = err
		}
	})
	if storedErr, exists := c.initErrors["fileUseCase"]; exists {
		return nil, storedErr
	}
	return c.fileUseCase, nil
}

// FileHandler returns the HTTP handler for the file endpoints.
func (c *Container) FileHandler() (*storageHTTP.FileHandler, error) {
	var err error
	c.fileHandlerInit.Do(func() {
		var fileUseCase storageUseCase.FileUseCase
		fileUseCase, err = c.FileUseCase()
		if err != nil {
			c.initErrors["fileHandler"] = fmt.Errorf("failed to get file use case for file handler: %w", err)
			return
		}
		c.fileHandler = storageHTTP.NewFileHandler(fileUseCase, c.config.UploadMaxBytes, c.Logger())
	})
	if storedErr, exists := c.initErrors["fileHandler"]; exists {
		return nil, storedErr
	}
	return c.fileHandler, nil
}

func (c *Container) initContentStore() (storageUseCase.ContentStore, error) {
	switch c.config.StorageDriver {
	case StorageDriverGitHub:
		if c.config.GitHubOwner == "" || c.config.GitHubRepo == "" {
			return nil, fmt.Errorf("GITHUB_OWNER and GITHUB_REPO are required for the %q storage driver", StorageDriverGitHub)
		}
		return storageService.NewGitHubStore(storageService.GitHubConfig{
			APIURL:         c.config.GitHubAPIURL,
			Token:          c.config.GitHubToken,
			Owner:          c.config.GitHubOwner,
			Repo:           c.config.GitHubRepo,
			Branch:         c.config.GitHubBranch,
			CommitterName:  c.config.GitHubCommitterName,
			CommitterEmail: c.config.GitHubCommitterEmail,
			Timeout:        c.config.StorageTimeout,
		}, c.Logger()), nil
	case StorageDriverBlob:
		store, err := storageService.OpenBlobStore(context.Background(), c.config.BlobBucketURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open blob content store: %w", err)
		}
		c.mu.Lock()
		c.contentStoreClose = store
		c.mu.Unlock()
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", c.config.StorageDriver)
	}
}

func (c *Container) initFileUseCase() (storageUseCase.FileUseCase, error) {
	store, err := c.ContentStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get content store for file use case: %w", err)
	}

	baseUseCase := storageUseCase.NewFileUseCase(storageUseCase.FileConfig{
		Root:              c.config.StorageRoot,
		MaxBytes:          c.config.UploadMaxBytes,
		AllowedExtensions: c.config.UploadAllowedExtensions,
		Timeout:           c.config.StorageTimeout,
	}, store, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for file use case: %w", err)
		}
		return storageUseCase.NewFileUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}
	return baseUseCase, nil
}
