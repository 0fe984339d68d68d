package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"
)

// FileBackend keeps snapshots on the local filesystem.
type FileBackend struct {
	Now func() time.Time
}

func NewFileBackend() *FileBackend {
	return &FileBackend{Now: time.Now}
}

// Save writes the snapshot through a temporary file in the destination
// directory and renames it into place, creating parent directories.
func (b *FileBackend) Save(ctx context.Context, g *kg.Graph, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".kg-*.json")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, g, b.Now()); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func (b *FileBackend) Load(ctx context.Context, path string) (*kg.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return g, nil
}
