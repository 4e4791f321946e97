package roots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/devbar/internal/errors"
)

func writeManifest(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PackageManifest), []byte(`{"name":"x"}`), 0644))
}

func TestLocator_Locate(t *testing.T) {
	base := t.TempDir()
	project := filepath.Join(base, "project")
	writeManifest(t, project)
	nested := filepath.Join(project, "src", "integration")
	require.NoError(t, os.MkdirAll(nested, 0755))
	file := filepath.Join(nested, "index.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {}"), 0644))

	locator := NewLocator()

	t.Run("from a file path", func(t *testing.T) {
		root, err := locator.Locate(file)
		require.NoError(t, err)
		assert.Equal(t, project, root)
	})

	t.Run("from a directory path", func(t *testing.T) {
		root, err := locator.Locate(nested)
		require.NoError(t, err)
		assert.Equal(t, project, root)
	})

	t.Run("from the root itself", func(t *testing.T) {
		root, err := locator.Locate(project)
		require.NoError(t, err)
		assert.Equal(t, project, root)
	})

	t.Run("from a file URL", func(t *testing.T) {
		root, err := locator.Locate("file://" + filepath.ToSlash(file))
		require.NoError(t, err)
		assert.Equal(t, project, root)
	})

	t.Run("from a file that does not exist yet", func(t *testing.T) {
		root, err := locator.Locate(filepath.Join(nested, "Missing.vue"))
		require.NoError(t, err)
		assert.Equal(t, project, root)
	})

	t.Run("nearest manifest wins", func(t *testing.T) {
		inner := filepath.Join(project, "packages", "inner")
		writeManifest(t, inner)
		root, err := locator.Locate(filepath.Join(inner, "lib", "x.js"))
		require.NoError(t, err)
		assert.Equal(t, inner, root)
	})

	t.Run("empty start path", func(t *testing.T) {
		_, err := locator.Locate("")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ValidationErrorCode))
	})
}

func TestLocator_ManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	locator := NewLocator("devbar-test-manifest-that-does-not-exist.json")

	_, err := locator.Locate(filepath.Join(dir, "a", "b.js"))
	require.Error(t, err)

	var notFound *errors.ManifestNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, errors.ManifestNotFoundErrorCode, notFound.ErrorCode())
	assert.True(t, notFound.ErrorCode().Fatal())
	assert.Contains(t, err.Error(), "devbar-test-manifest-that-does-not-exist.json")
}

func TestRoots_Candidates(t *testing.T) {
	r := Roots{Consumer: "/a", Library: "", Integration: "/a"}
	assert.Equal(t, []string{"/a"}, r.Candidates())

	r = Roots{Consumer: "/a", Library: "/lib", Integration: "/int"}
	assert.Equal(t, []string{"/a", "/lib", "/int"}, r.Candidates())
}

func TestCompute(t *testing.T) {
	base := t.TempDir()
	consumer := filepath.Join(base, "site")
	integration := filepath.Join(base, "my-integration")
	writeManifest(t, consumer)
	writeManifest(t, integration)

	r, err := Compute(NewLocator(), consumer, filepath.Join(integration, "dist", "index.js"), "/lib")
	require.NoError(t, err)
	assert.Equal(t, Roots{Consumer: consumer, Library: "/lib", Integration: integration}, r)

	_, err = Compute(NewLocator("no-such-manifest"), consumer, filepath.Join(integration, "x.js"), "/lib")
	assert.True(t, errors.HasCode(err, errors.ManifestNotFoundErrorCode))
}

func TestLibraryRoot(t *testing.T) {
	root, ok := LibraryRoot()
	require.True(t, ok, "tests run from the source tree")
	assert.FileExists(t, filepath.Join(root, "go.mod"))
	assert.DirExists(t, filepath.Join(root, "internal", "roots"))
}

func TestFindModuleRoot_SkipsForeignModules(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "go.mod"), []byte("module example.com/outer\n\ngo 1.22\n"), 0644))
	inner := filepath.Join(base, "inner")
	require.NoError(t, os.MkdirAll(filepath.Join(inner, "pkg"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inner, "go.mod"), []byte("module example.com/inner\n\ngo 1.22\n"), 0644))

	root, ok := findModuleRoot(filepath.Join(inner, "pkg"), "example.com/outer", NewLocator().files)
	require.True(t, ok)
	assert.Equal(t, base, root)

	_, ok = findModuleRoot(filepath.Join(inner, "pkg"), "example.com/none", NewLocator().files)
	assert.False(t, ok)
}
