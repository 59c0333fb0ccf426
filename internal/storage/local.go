// Package storage writes uploaded files to a local directory that the
// server exposes at /uploads/. It is the "external upload collaborator"
// from the image service's point of view: files are placed here first,
// and only then does an image record pointing at them get created.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStore saves uploads under a single directory on disk.
//
// Stored filenames are the upload's Unix-millisecond timestamp plus the
// original file's extension (e.g. "1717430000123.png"). The original name
// is never used as a path component, so a hostile filename can't escape
// the uploads directory.
type LocalStore struct {
	dir string
	now func() time.Time // injectable for deterministic tests
}

// NewLocalStore creates the uploads directory if needed and returns a
// store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: creating uploads directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are stored in, for the static file server.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the uploaded bytes to disk and returns the public storage
// path ("uploads/<filename>") to record on the image.
func (s *LocalStore) Save(src io.Reader, originalName string) (string, error) {
	filename := strconv.FormatInt(s.now().UnixMilli(), 10) + sanitizeExt(originalName)

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("storage: creating %s: %w", filename, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("storage: writing %s: %w", filename, err)
	}

	return path.Join("uploads", filename), nil
}

// sanitizeExt extracts a lowercased extension from the client-supplied
// filename, or "" when there isn't a usable one.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "." || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
