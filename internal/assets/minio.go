package assets

import (
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
)

// MinIOSource serves assets stored in a bucket, under an optional key prefix.
type MinIOSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOSource creates a Source reading from bucket/prefix.
func NewMinIOSource(client *minio.Client, bucket, prefix string) *MinIOSource {
	return &MinIOSource{client: client, bucket: bucket, prefix: prefix}
}

// Open implements Source.
func (s *MinIOSource) Open(ctx context.Context, name string) (Object, error) {
	key := path.Join(s.prefix, name)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Object{}, fmt.Errorf("get object %q: %w", key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("stat object %q: %w", key, err)
	}

	ct := info.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = contentType(name)
	}

	return Object{
		Body:        obj,
		Size:        info.Size,
		ContentType: ct,
		ModTime:     info.LastModified,
	}, nil
}
