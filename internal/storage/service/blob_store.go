package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"

	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
)

// BlobStore keeps files in a gocloud.dev bucket: mem://, file:///path,
// s3://bucket or gs://bucket. The object MD5, or its ETag when the driver reports
// no MD5, is the revision ID.
type BlobStore struct {
	bucket *blob.Bucket
}

// OpenBlobStore opens the bucket at bucketURL.
func OpenBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	return &BlobStore{bucket: bucket}, nil
}

// NewBlobStore wraps an already opened bucket.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Put writes content to path and returns the new revision.
func (b *BlobStore) Put(ctx context.Context, p string, content []byte) (string, error) {
	if err := b.bucket.WriteAll(ctx, p, content, nil); err != nil {
		return "", mapBlobError(err)
	}

	attrs, err := b.bucket.Attributes(ctx, p)
	if err != nil {
		return "", mapBlobError(err)
	}
	return revisionOf(attrs.ETag, attrs.MD5), nil
}

// Get reads the content at path.
func (b *BlobStore) Get(ctx context.Context, p string) ([]byte, error) {
	content, err := b.bucket.ReadAll(ctx, p)
	if err != nil {
		return nil, mapBlobError(err)
	}
	return content, nil
}

// List returns the direct children of dir, with subdirectories flagged IsDir.
func (b *BlobStore) List(ctx context.Context, dir string) ([]storageDomain.FileEntry, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	iter := b.bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})

	entries := []storageDomain.FileEntry{}
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapBlobError(err)
		}

		key := strings.TrimSuffix(obj.Key, "/")
		entries = append(entries, storageDomain.FileEntry{
			Name:       path.Base(key),
			Path:       key,
			RevisionID: revisionOf("", obj.MD5),
			Size:       obj.Size,
			IsDir:      obj.IsDir,
		})
	}
	return entries, nil
}

// Stat returns the metadata of the object at path.
func (b *BlobStore) Stat(ctx context.Context, p string) (*storageDomain.FileEntry, error) {
	attrs, err := b.bucket.Attributes(ctx, p)
	if err != nil {
		return nil, mapBlobError(err)
	}
	return &storageDomain.FileEntry{
		Name:       path.Base(p),
		Path:       p,
		RevisionID: revisionOf(attrs.ETag, attrs.MD5),
		Size:       attrs.Size,
	}, nil
}

// Delete removes the object at path. The revision check and the delete are two
// calls, so a concurrent writer can slip in between them.
func (b *BlobStore) Delete(ctx context.Context, p, revisionID string) error {
	if revisionID != "" {
		entry, err := b.Stat(ctx, p)
		if err != nil {
			return err
		}
		if entry.RevisionID != revisionID {
			return storageDomain.ErrRevisionConflict
		}
	}

	if err := b.bucket.Delete(ctx, p); err != nil {
		return mapBlobError(err)
	}
	return nil
}

// Close releases the bucket.
func (b *BlobStore) Close() error {
	return b.bucket.Close()
}

// revisionOf prefers the content MD5, which List reports too, over the ETag.
func revisionOf(etag string, md5 []byte) string {
	if len(md5) > 0 {
		return hex.EncodeToString(md5)
	}
	return strings.Trim(etag, `"`)
}

func mapBlobError(err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return storageDomain.ErrFileNotFound
	}
	return err
}
