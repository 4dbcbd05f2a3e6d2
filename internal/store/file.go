package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/weekgrid/internal/filelock"
)

const (
	fileMode     = 0o600
	dirMode      = 0o750
	lockFileName = ".lock"
	fileExt      = ".json"
)

// FileStore keeps each key in its own file under a directory. Writes go to a
// temporary file that is renamed into place while holding an advisory lock,
// so readers never observe a partial value.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the stored files.
func (f *FileStore) Dir() string {
	return f.dir
}

// Path returns the file that holds key.
func (f *FileStore) Path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

// Save implements Store.
func (f *FileStore) Save(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return filelock.With(filepath.Join(f.dir, lockFileName), func() error {
		tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("writing %s: %w", key, err)
		}
		if err := tmp.Chmod(fileMode); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("setting mode on %s: %w", key, err)
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", key, err)
		}
		if err := os.Rename(tmpName, f.Path(key)); err != nil {
			return fmt.Errorf("replacing %s: %w", key, err)
		}
		return nil
	})
}

// Load implements Store.
func (f *FileStore) Load(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}
