package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps uploaded image bytes in a single flat directory,
// keyed by filename. Filenames carry an owner prefix, so uniqueness is
// the caller's concern, not the store's.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

// Save writes data under filename and returns the number of bytes written.
// The write goes through a temp file and a rename, so a crash mid-write
// never leaves a truncated file under the final name. An existing file
// with the same name is replaced.
func (s *LocalStorage) Save(filename string, data io.Reader) (int64, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return 0, err
	}

	tmpPath := filepath.Join(s.basePath, fmt.Sprintf("temp-%d", time.Now().UnixNano()))
	defer os.Remove(tmpPath)

	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(f, data)
	f.Close()
	if err != nil {
		return 0, err
	}

	if err := os.Rename(tmpPath, s.filePath(filename)); err != nil {
		return 0, err
	}

	return size, nil
}

// Open returns a reader over a previously saved file. A missing file
// reports os.ErrNotExist.
func (s *LocalStorage) Open(filename string) (io.ReadCloser, error) {
	return os.Open(s.filePath(filename))
}

func (s *LocalStorage) filePath(filename string) string {
	return filepath.Join(s.basePath, filename)
}
