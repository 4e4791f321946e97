package roots

import (
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/mod/modfile"

	"github.com/toyz/devbar/internal/utils/fileops"
)

// ModulePath is the Go module path of this library
const ModulePath = "github.com/toyz/devbar"

var (
	libraryOnce sync.Once
	libraryRoot string
	libraryOK   bool
)

// LibraryRoot returns this library's own module root, found by walking up
// from this source file to a go.mod declaring ModulePath. ok is false when
// the source tree is not available at runtime, e.g. for an installed binary.
func LibraryRoot() (string, bool) {
	libraryOnce.Do(func() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			return
		}
		libraryRoot, libraryOK = findModuleRoot(filepath.Dir(file), ModulePath, fileops.Default)
	})
	return libraryRoot, libraryOK
}

// findModuleRoot walks up from start until it finds a go.mod declaring
// modulePath. Nested modules with another path are skipped.
func findModuleRoot(start, modulePath string, files *fileops.FileOps) (string, bool) {
	locator := NewLocator("go.mod").WithFileOps(files)
	dir := start
	for {
		root, err := locator.Locate(dir)
		if err != nil {
			return "", false
		}

		goModPath := filepath.Join(root, "go.mod")
		if content, err := files.ReadFile(goModPath); err == nil {
			if mod, err := modfile.ParseLax(goModPath, content, nil); err == nil &&
				mod.Module != nil && mod.Module.Mod.Path == modulePath {
				return root, true
			}
		}

		parent := filepath.Dir(root)
		if parent == root {
			return "", false
		}
		dir = parent
	}
}
