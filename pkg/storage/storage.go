// Package storage persists task attachments on the local filesystem under
// collision-resistant generated names. Uploaded base names are never trusted;
// only a sanitized extension of the original filename survives.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxExtLen = 12

var ErrInvalidName = errors.New("storage: invalid file name")

// Store is the interface the task catalog uses to keep attachments.
type Store interface {
	Save(src io.Reader, originalName string) (string, error)
	Delete(name string) error
	Path(name string) (string, error)
}

// LocalStore keeps files in a single flat directory.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes src under a freshly generated name and returns that name.
// The original filename contributes only its sanitized extension.
func (s *LocalStore) Save(src io.Reader, originalName string) (string, error) {
	name := uuid.New().String() + sanitizeExt(originalName)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	return name, nil
}

// Delete removes a stored file. Deleting a name that no longer exists is not
// an error so cleanup paths can be retried.
func (s *LocalStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// Path resolves a stored name to its on-disk path, rejecting anything that
// could escape the storage directory.
func (s *LocalStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// sanitizeExt extracts the extension of an uploaded filename, keeping only
// ASCII letters, digits and dots.
func sanitizeExt(originalName string) string {
	ext := filepath.Ext(filepath.Base(originalName))
	var b strings.Builder
	for _, r := range ext {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "." || len(clean) < 2 {
		return ""
	}
	if len(clean) > maxExtLen {
		clean = clean[:maxExtLen]
	}
	return clean
}
