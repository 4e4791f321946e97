package fileops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/devbar/internal/errors"
)

func TestFileOps_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"a"}`), 0644))

	fo := NewFileOps()

	t.Run("reads and caches", func(t *testing.T) {
		data, err := fo.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"a"}`, string(data))
		assert.Equal(t, 1, fo.CachedFiles())
	})

	t.Run("reloads modified file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"bb"}`), 0644))
		future := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, future, future))

		data, err := fo.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, `{"name":"bb"}`, string(data))
	})

	t.Run("missing file is a filesystem error", func(t *testing.T) {
		_, err := fo.ReadFile(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
		assert.True(t, os.IsNotExist(unwrapAll(err)))
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := fo.ReadFile("")
		assert.Error(t, err)
	})
}

func TestFileOps_Checks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.js")
	require.NoError(t, os.WriteFile(file, []byte("export {}"), 0644))

	fo := NewFileOps()
	assert.True(t, fo.Exists(dir))
	assert.True(t, fo.IsDir(dir))
	assert.False(t, fo.IsFile(dir))
	assert.True(t, fo.IsFile(file))
	assert.False(t, fo.Exists(filepath.Join(dir, "missing")))
	assert.Equal(t, 0, fo.CachedFiles())
}

func TestClean_ScopedPackage(t *testing.T) {
	got := Clean("node_modules/@vitejs/plugin-react")
	assert.Equal(t, filepath.Join("node_modules", "@vitejs", "plugin-react"), got)
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok || u.Unwrap() == nil {
			return err
		}
		err = u.Unwrap()
	}
}
