// Package roots finds the directories searched for installed framework
// packages: the consuming project's root, this library's root, and the root
// of the integration package that asked for the toolbar app.
package roots

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/utils/fileops"
)

// PackageManifest is the manifest that marks a JS project root
const PackageManifest = "package.json"

// Locator walks upward from a start path to the nearest directory holding a manifest
type Locator struct {
	manifests []string
	files     *fileops.FileOps
}

// NewLocator creates a locator for the given manifest names, package.json by default
func NewLocator(manifests ...string) *Locator {
	if len(manifests) == 0 {
		manifests = []string{PackageManifest}
	}
	return &Locator{manifests: manifests, files: fileops.Default}
}

// WithFileOps swaps the filesystem access used for existence checks
func (l *Locator) WithFileOps(files *fileops.FileOps) *Locator {
	l.files = files
	return l
}

// Locate returns the closest ancestor of start (start itself when it is a
// directory) containing one of the locator's manifests. start may be a file
// path, a directory path or a file:// URL.
func (l *Locator) Locate(start string) (string, error) {
	path, err := normalizeStart(start)
	if err != nil {
		return "", err
	}

	abs, err := l.files.Abs(path)
	if err != nil {
		return "", err
	}

	dir := abs
	if !l.files.IsDir(abs) {
		dir = filepath.Dir(abs)
	}

	for {
		for _, manifest := range l.manifests {
			if l.files.IsFile(filepath.Join(dir, manifest)) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.NewManifestNotFoundError(start, l.manifests)
		}
		dir = parent
	}
}

func normalizeStart(start string) (string, error) {
	if start == "" {
		return "", errors.ValidationError("start path", "must not be empty")
	}
	if !strings.HasPrefix(start, "file://") {
		return start, nil
	}

	u, err := url.Parse(start)
	if err != nil {
		return "", errors.WrapFileSystemError("parse file URL", start, err)
	}
	return filepath.FromSlash(u.Path), nil
}
