package assets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
)

//go:embed static
var staticFiles embed.FS

// EmbeddedSource serves the assets compiled into the binary.
type EmbeddedSource struct {
	files fs.FS
}

// Embedded returns the source backed by the bundled static directory.
func Embedded() *EmbeddedSource {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("assets: embedded static dir: %v", err))
	}
	return &EmbeddedSource{files: sub}
}

// Open implements Source.
func (s *EmbeddedSource) Open(_ context.Context, name string) (Object, error) {
	f, err := s.files.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return Object{}, ErrNotFound
		}
		return Object{}, fmt.Errorf("open embedded asset %q: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return Object{}, fmt.Errorf("stat embedded asset %q: %w", name, err)
	}
	if info.IsDir() {
		f.Close()
		return Object{}, ErrNotFound
	}

	return Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: contentType(name),
		ModTime:     info.ModTime(),
	}, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
