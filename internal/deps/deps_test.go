package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/devbar/internal/roots"
	"github.com/toyz/devbar/internal/utils/fileops"
)

// install writes a minimal loadable package under root/node_modules
func install(t *testing.T, root, pkg, version string) string {
	t.Helper()
	dir := PackageDir(root, pkg)
	require.NoError(t, os.MkdirAll(dir, 0755))
	manifest := `{"name":"` + pkg + `","version":"` + version + `","main":"index.js"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("module.exports = {}"), 0644))
	return dir
}

type fixture struct {
	consumer, library, integration string
}

func newFixture(t *testing.T) fixture {
	base := t.TempDir()
	f := fixture{
		consumer:    filepath.Join(base, "site"),
		library:     filepath.Join(base, "devbar"),
		integration: filepath.Join(base, "integration"),
	}
	for _, dir := range []string{f.consumer, f.library, f.integration} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	return f
}

func (f fixture) roots() roots.Roots {
	return roots.Roots{Consumer: f.consumer, Library: f.library, Integration: f.integration}
}

func TestParseFramework(t *testing.T) {
	for _, fw := range Frameworks() {
		got, err := ParseFramework(string(fw))
		require.NoError(t, err)
		assert.Equal(t, fw, got)
	}

	got, err := ParseFramework(" Vue ")
	require.NoError(t, err)
	assert.Equal(t, Vue, got)

	_, err = ParseFramework("angular")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "react, preact, vue, svelte, solid")
}

func TestFramework_Packages(t *testing.T) {
	assert.Equal(t, []string{"react", "react-dom", "@vitejs/plugin-react"}, React.Packages())
	assert.Equal(t, []string{"preact"}, Preact.Packages())
	assert.Equal(t, []string{"vue"}, Vue.Packages())
	assert.Equal(t, []string{"svelte"}, Svelte.Packages())
	assert.Equal(t, []string{"solid-js"}, Solid.Packages())

	assert.True(t, React.NeedsFastRefresh())
	assert.False(t, Vue.NeedsFastRefresh())
	assert.Equal(t, "React", React.DisplayName())

	reqs := React.Requirements()
	reqs[0].Package = "mutated"
	assert.Equal(t, "react", React.Packages()[0], "requirements are not mutable through copies")
}

func TestChecker_FindMissing(t *testing.T) {
	checker := NewChecker(fileops.NewFileOps())

	t.Run("empty iff every package found under some root", func(t *testing.T) {
		for _, fw := range Frameworks() {
			f := newFixture(t)
			candidates := []string{f.consumer, f.library, f.integration}
			for i, pkg := range fw.Packages() {
				install(t, candidates[i%len(candidates)], pkg, "99.0.0")
			}
			assert.Empty(t, checker.FindMissing(fw, f.roots()), fw)
		}
	})

	t.Run("vue only in consumer root", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.consumer, "vue", "3.4.0")
		assert.Empty(t, checker.FindMissing(Vue, f.roots()))
	})

	t.Run("react installed nowhere", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, []string{"react", "react-dom", "@vitejs/plugin-react"}, checker.FindMissing(React, f.roots()))
	})

	t.Run("partially installed", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.integration, "react", "18.2.0")
		install(t, f.library, "@vitejs/plugin-react", "4.2.0")
		assert.Equal(t, []string{"react-dom"}, checker.FindMissing(React, f.roots()))
	})

	t.Run("absent roots are ignored", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.consumer, "svelte", "5.0.0")
		assert.Empty(t, checker.FindMissing(Svelte, roots.Roots{Consumer: f.consumer}))
		assert.Equal(t, []string{"svelte"}, checker.FindMissing(Svelte, roots.Roots{Integration: f.integration}))
	})
}

func TestChecker_LoadAll(t *testing.T) {
	checker := NewChecker(fileops.NewFileOps())

	t.Run("agrees with FindMissing", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.consumer, "react", "18.2.0")
		install(t, f.integration, "react-dom", "18.2.0")

		report, err := checker.LoadAll(context.Background(), React, f.roots())
		require.NoError(t, err)
		assert.False(t, report.OK())
		assert.Equal(t, checker.FindMissing(React, f.roots()), report.Missing)
		assert.Equal(t, []string{"@vitejs/plugin-react"}, report.Missing)
		assert.Equal(t, "18.2.0", report.Loaded["react"].Version)
		assert.Equal(t, filepath.Join(PackageDir(f.integration, "react-dom"), "index.js"), report.Loaded["react-dom"].Entry)
	})

	t.Run("collects every failure", func(t *testing.T) {
		f := newFixture(t)
		report, err := checker.LoadAll(context.Background(), React, f.roots())
		require.NoError(t, err)
		assert.Equal(t, []string{"react", "react-dom", "@vitejs/plugin-react"}, report.Missing)
		assert.Empty(t, report.Loaded)
	})

	t.Run("directory without loadable entry is missing", func(t *testing.T) {
		f := newFixture(t)
		dir := PackageDir(f.consumer, "vue")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"vue","main":"dist/vue.js"}`), 0644))

		assert.Empty(t, checker.FindMissing(Vue, f.roots()), "the directory exists")
		report, err := checker.LoadAll(context.Background(), Vue, f.roots())
		require.NoError(t, err)
		assert.Equal(t, []string{"vue"}, report.Missing, "but it cannot be loaded")
	})

	t.Run("falls through to a later root", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.MkdirAll(PackageDir(f.consumer, "preact"), 0755))
		install(t, f.integration, "preact", "10.19.0")

		report, err := checker.LoadAll(context.Background(), Preact, f.roots())
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Equal(t, PackageDir(f.integration, "preact"), report.Loaded["preact"].Dir)
	})

	t.Run("incompatible versions are advisory", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.consumer, "vue", "2.7.16")

		report, err := checker.LoadAll(context.Background(), Vue, f.roots())
		require.NoError(t, err)
		assert.True(t, report.OK())
		require.Len(t, report.Incompatible, 1)
		assert.Equal(t, "vue", report.Incompatible[0].Package)
		assert.Equal(t, ">=3.0.0", report.Incompatible[0].Constraint)
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := checker.LoadAll(ctx, React, f.roots())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolver_ResolvePaths(t *testing.T) {
	resolver := NewResolver(fileops.NewFileOps())

	t.Run("prefers consumer copy", func(t *testing.T) {
		f := newFixture(t)
		consumerVue := install(t, f.consumer, "vue", "3.4.0")
		install(t, f.integration, "vue", "3.3.0")

		assert.Equal(t, AliasMap{"vue": consumerVue}, resolver.ResolvePaths(Vue, f.roots()))
	})

	t.Run("falls back to integration copy", func(t *testing.T) {
		f := newFixture(t)
		want := AliasMap{}
		for _, pkg := range React.Packages() {
			want[pkg] = install(t, f.integration, pkg, "18.2.0")
		}
		assert.Equal(t, want, resolver.ResolvePaths(React, f.roots()))
	})

	t.Run("uses library copy last", func(t *testing.T) {
		f := newFixture(t)
		libSolid := install(t, f.library, "solid-js", "1.8.0")
		assert.Equal(t, AliasMap{"solid-js": libSolid}, resolver.ResolvePaths(Solid, f.roots()))
	})

	t.Run("never returns paths that do not exist", func(t *testing.T) {
		f := newFixture(t)
		install(t, f.consumer, "react", "18.2.0")
		aliases := resolver.ResolvePaths(React, f.roots())
		assert.Len(t, aliases, 1)
		for _, path := range aliases {
			assert.DirExists(t, path)
		}
	})

	t.Run("skips unloadable copies when loading is required", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.MkdirAll(PackageDir(f.consumer, "vue"), 0755))
		integrationVue := install(t, f.integration, "vue", "3.4.0")

		assert.Equal(t, AliasMap{"vue": PackageDir(f.consumer, "vue")}, resolver.ResolvePaths(Vue, f.roots()))

		loading := NewResolver(fileops.NewFileOps()).RequireLoadable()
		assert.Equal(t, AliasMap{"vue": integrationVue}, loading.ResolvePaths(Vue, f.roots()))
	})
}
