// Package storage persists uploaded files on local disk, optionally
// mirroring them to S3 for durability.
package storage

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore writes uploads under a single directory with collision-proof
// generated names.
type FileStore struct {
	dir string
}

// NewFileStore ensures the upload directory exists.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes one multipart upload to disk and returns the stored file name
// and its absolute path.
func (fs *FileStore) Save(file multipart.File, originalName string) (string, string, error) {
	name := generateName(originalName)
	path := filepath.Join(fs.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return name, path, nil
}

// Remove deletes a stored file; used for cleanup when a later pipeline stage
// fails.
func (fs *FileStore) Remove(name string) error {
	return os.Remove(filepath.Join(fs.dir, name))
}

// Path returns the absolute path of a stored file.
func (fs *FileStore) Path(name string) string {
	return filepath.Join(fs.dir, name)
}

// RelPath returns the URL path the API serves the file under.
func (fs *FileStore) RelPath(name string) string {
	return "/uploads/" + name
}

// generateName builds a unique stored name preserving the original
// extension: <unix-nanos>-<random><ext>.
func generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000), ext)
}
