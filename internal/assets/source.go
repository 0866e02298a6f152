// Package assets serves the front-end's static files from the binary or from MinIO.
package assets

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when no asset exists under the requested name.
var ErrNotFound = errors.New("asset not found")

// Object is an opened asset. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Source resolves asset names such as "mentoria.css".
type Source interface {
	Open(ctx context.Context, name string) (Object, error)
}
