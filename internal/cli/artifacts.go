package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/pkg/devbar"
)

// LockFileName is written next to the generated modules
const LockFileName = "devbar.lock.yaml"

// LockEntry records one app of an inject run
type LockEntry struct {
	ID        string            `yaml:"id"`
	Framework string            `yaml:"framework"`
	Module    string            `yaml:"module"`
	File      string            `yaml:"file,omitempty"`
	State     string            `yaml:"state"`
	Missing   []string          `yaml:"missing,omitempty"`
	Aliases   map[string]string `yaml:"aliases,omitempty"`
}

// LockFile lists everything an inject run wrote
type LockFile struct {
	Session string         `yaml:"session"`
	Command devbar.Command `yaml:"command"`
	Root    string         `yaml:"root"`
	Apps    []LockEntry    `yaml:"apps"`
	Scripts []string       `yaml:"scripts,omitempty"`
}

// ModuleFileName maps a module name to a file name, dropping the
// "virtual:" scheme.
func ModuleFileName(moduleName string) string {
	name := strings.TrimPrefix(moduleName, "virtual:")
	name = strings.NewReplacer("/", "_", ":", "_").Replace(name)
	return name + ".js"
}

// WriteArtifacts writes every registered module, each page script and the
// lock file into dir.
func WriteArtifacts(dir string, result *InjectResult) (*LockFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapFileSystemError("create", dir, err)
	}

	lock := &LockFile{
		Session: result.Host.SessionID(),
		Command: result.Command,
		Root:    result.Host.Snapshot().Root,
	}

	for _, inj := range result.Injections {
		entry := LockEntry{
			ID:        inj.Request.ID,
			Framework: inj.Request.Framework.String(),
			Module:    inj.ModuleName,
			State:     inj.State().String(),
			Missing:   inj.Missing,
			Aliases:   inj.Aliases,
		}

		if source, ok := result.Host.Module(inj.ModuleName); ok && inj.Registered() {
			entry.File = ModuleFileName(inj.ModuleName)
			if err := writeFile(filepath.Join(dir, entry.File), source); err != nil {
				return nil, err
			}
		}
		lock.Apps = append(lock.Apps, entry)
	}

	for i, script := range result.Host.Scripts() {
		name := fmt.Sprintf("script-%d-%s.js", i, script.Stage)
		if err := writeFile(filepath.Join(dir, name), script.Content); err != nil {
			return nil, err
		}
		lock.Scripts = append(lock.Scripts, name)
	}

	data, err := yaml.Marshal(lock)
	if err != nil {
		return nil, errors.WrapConfigurationError("lock file", "encode", err)
	}
	if err := writeFile(filepath.Join(dir, LockFileName), string(data)); err != nil {
		return nil, err
	}

	return lock, nil
}

// ReadLockFile reads the lock file from dir
func ReadLockFile(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}

	var lock LockFile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, errors.WrapConfigurationError("lock file", "decode", err)
	}
	return &lock, nil
}

// CleanArtifacts removes the files listed in dir's lock file and the lock
// file itself. A directory without a lock file is left alone.
func CleanArtifacts(dir string) ([]string, error) {
	lock, err := ReadLockFile(dir)
	if err != nil {
		if os.IsNotExist(errorsCause(err)) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, app := range lock.Apps {
		if app.File != "" {
			files = append(files, app.File)
		}
	}
	files = append(files, lock.Scripts...)
	files = append(files, LockFileName)
	sort.Strings(files)

	var removed []string
	for _, name := range files {
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, errors.WrapFileSystemError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

func errorsCause(err error) error {
	if be, ok := err.(*errors.BaseError); ok && be.Cause != nil {
		return be.Cause
	}
	return err
}
