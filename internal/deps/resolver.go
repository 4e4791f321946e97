package deps

import (
	"github.com/toyz/devbar/internal/roots"
	"github.com/toyz/devbar/internal/utils/fileops"
)

// AliasMap maps a package name to the absolute directory the bundler must
// resolve it to.
type AliasMap map[string]string

// Resolver builds alias maps that force the bundler onto a single copy of a
// framework's runtime.
type Resolver struct {
	files       *fileops.FileOps
	requireLoad bool
}

// NewResolver creates a resolver backed by the given filesystem access
func NewResolver(files *fileops.FileOps) *Resolver {
	if files == nil {
		files = fileops.Default
	}
	return &Resolver{files: files}
}

// RequireLoadable makes the resolver skip copies whose manifest or entry
// point cannot be read, matching Checker.LoadAll.
func (r *Resolver) RequireLoadable() *Resolver {
	r.requireLoad = true
	return r
}

func (r *Resolver) usable(dir string) bool {
	if !r.requireLoad {
		return r.files.Exists(dir)
	}
	_, err := ReadPackage(r.files, dir)
	return err == nil
}

// ResolvePaths maps each package of fw to its installation directory,
// preferring the consumer's copy, then the integration's, then the
// library's. Packages installed nowhere are left out, so every returned path
// exists. With RequireLoadable only loadable copies are chosen.
func (r *Resolver) ResolvePaths(fw Framework, rt roots.Roots) AliasMap {
	order := []string{rt.Consumer, rt.Integration, rt.Library}

	aliases := make(AliasMap)
	for _, pkg := range fw.Packages() {
		for _, root := range order {
			if root == "" {
				continue
			}
			dir := PackageDir(root, pkg)
			if r.usable(dir) {
				aliases[pkg] = dir
				break
			}
		}
	}
	return aliases
}
