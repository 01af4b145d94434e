package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes uploads into a flat directory and reads them back by
// name. This is the default backend and matches the legacy layout of
// public/images/users on local disk.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("can not create media dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (d *DiskStore) Save(_ context.Context, name string, r io.Reader, size int64, _ string) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if size > 0 && written != size {
		return fmt.Errorf("short write for %s: %d of %d bytes", name, written, size)
	}
	return nil
}

func (d *DiskStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectMissing
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// path rejects names that would escape the media directory. The store only
// ever generates flat names, but the retrieve endpoint takes the name from
// the URL.
func (d *DiskStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", ErrObjectMissing
	}
	return filepath.Join(d.dir, name), nil
}
