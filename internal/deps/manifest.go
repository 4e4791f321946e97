package deps

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/toyz/devbar/internal/utils/fileops"
)

// NodeModules is the installation directory searched under each root
const NodeModules = "node_modules"

// conditionOrder is the export condition preference for a browser bundle
var conditionOrder = []string{"browser", "import", "module", "default", "require", "node"}

// PackageInfo describes an installed package after its manifest was read
type PackageInfo struct {
	Name    string
	Version string
	Dir     string
	Entry   string
}

// PackageDir returns where pkg would be installed under root
func PackageDir(root, pkg string) string {
	return filepath.Join(root, NodeModules, fileops.Clean(pkg))
}

// ReadPackage reads dir/package.json and resolves the package entry point,
// failing when the manifest is unreadable or the entry file does not exist.
func ReadPackage(files *fileops.FileOps, dir string) (*PackageInfo, error) {
	data, err := files.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid package.json in %s", dir)
	}

	manifest := gjson.ParseBytes(data)
	info := &PackageInfo{
		Name:    manifest.Get("name").String(),
		Version: manifest.Get("version").String(),
		Dir:     dir,
	}

	for _, candidate := range entryCandidates(manifest) {
		if entry, ok := existingEntry(files, dir, candidate); ok {
			info.Entry = entry
			return info, nil
		}
	}

	return nil, fmt.Errorf("package in %s has no loadable entry point", dir)
}

// entryCandidates lists entry paths in resolution order: exports["."],
// module, main, then index.js.
func entryCandidates(manifest gjson.Result) []string {
	var candidates []string

	exports := manifest.Get("exports")
	if exports.Exists() {
		root := exports
		if exports.IsObject() && exports.Get(`\.`).Exists() {
			root = exports.Get(`\.`)
		}
		if entry := pickCondition(root); entry != "" {
			candidates = append(candidates, entry)
		}
	}

	for _, field := range []string{"module", "main"} {
		if v := manifest.Get(field).String(); v != "" {
			candidates = append(candidates, v)
		}
	}

	return append(candidates, "index.js")
}

// pickCondition walks nested export conditions until it reaches a path
func pickCondition(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.String()
	case v.IsArray():
		for _, item := range v.Array() {
			if entry := pickCondition(item); entry != "" {
				return entry
			}
		}
	case v.IsObject():
		for _, cond := range conditionOrder {
			if entry := pickCondition(v.Get(cond)); entry != "" {
				return entry
			}
		}
	}
	return ""
}

func existingEntry(files *fileops.FileOps, dir, entry string) (string, bool) {
	entry = strings.TrimPrefix(entry, "./")
	base := filepath.Join(dir, fileops.Clean(entry))
	for _, candidate := range []string{base, base + ".js", base + ".mjs", filepath.Join(base, "index.js")} {
		if files.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}
