package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBlobs stores each value in a "<key>.json" file of a directory.
//
// Files are human readable and git friendly, a value is replaced atomically
// by writing a temporary file first.
type FileBlobs struct {
	dir string
}

// NewFileBlobs creates dir if needed.
func NewFileBlobs(dir string) (*FileBlobs, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create storage directory: %w", err)
	}
	return &FileBlobs{dir: dir}, nil
}

// Path returns the file holding key.
func (f *FileBlobs) Path(key string) string { return filepath.Join(f.dir, key+".json") }

func (f *FileBlobs) Get(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", key, err)
	}
	return data, nil
}

func (f *FileBlobs) Put(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(key)); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}

// Close does nothing.
func (f *FileBlobs) Close() error { return nil }
