// Package fileops wraps the read-only filesystem access used while resolving
// roots, dependencies and templates: path cleaning, wrapped errors, and a
// content cache invalidated on modification time and size.
package fileops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/toyz/devbar/internal/errors"
)

type cachedContent struct {
	data    []byte
	modTime time.Time
	size    int64
}

// FileOps provides cached, error-wrapped file reads and existence checks
type FileOps struct {
	mu    sync.RWMutex
	files map[string]cachedContent
}

// NewFileOps creates a new FileOps instance
func NewFileOps() *FileOps {
	return &FileOps{files: make(map[string]cachedContent)}
}

// Default is shared by components that are not handed an explicit FileOps
var Default = NewFileOps()

// Clean normalizes a path and converts slash-separated package names such as
// "@scope/pkg" to the host separator.
func Clean(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// ReadFile reads a file, serving it from cache while its mtime and size are unchanged
func (fo *FileOps) ReadFile(path string) ([]byte, error) {
	cleanPath := Clean(path)
	if cleanPath == "." {
		return nil, errors.WrapFileSystemError("read", path, fs.ErrInvalid)
	}

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	fo.mu.RLock()
	cached, ok := fo.files[cleanPath]
	fo.mu.RUnlock()
	if ok && cached.modTime.Equal(stat.ModTime()) && cached.size == stat.Size() {
		return cached.data, nil
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	fo.mu.Lock()
	fo.files[cleanPath] = cachedContent{data: data, modTime: stat.ModTime(), size: stat.Size()}
	fo.mu.Unlock()

	return data, nil
}

// Exists checks if a path exists
func (fo *FileOps) Exists(path string) bool {
	_, err := os.Stat(Clean(path))
	return err == nil
}

// IsDir checks if a path exists and is a directory
func (fo *FileOps) IsDir(path string) bool {
	info, err := os.Stat(Clean(path))
	return err == nil && info.IsDir()
}

// IsFile checks if a path exists and is a regular file
func (fo *FileOps) IsFile(path string) bool {
	info, err := os.Stat(Clean(path))
	return err == nil && !info.IsDir()
}

// Abs resolves a path to its absolute, cleaned form
func (fo *FileOps) Abs(path string) (string, error) {
	abs, err := filepath.Abs(Clean(path))
	if err != nil {
		return "", errors.WrapFileSystemError("resolve path", path, err)
	}
	return abs, nil
}

// CachedFiles returns the number of cached entries
func (fo *FileOps) CachedFiles() int {
	fo.mu.RLock()
	defer fo.mu.RUnlock()
	return len(fo.files)
}
