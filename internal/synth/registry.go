package synth

import (
	"embed"
	"fmt"
	"path/filepath"
	"sync"
	"text/template"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/utils/fileops"
)

//go:embed templates/*.js.tmpl
var templateFS embed.FS

// partials are shared by every framework template
const partials = `{{define "onMount"}}{{if .OnMountModule}}import onMount from {{jsString .OnMountModule}};{{else}}const onMount = () => {};{{end}}{{end}}` +
	`{{define "mountWindow"}}const renderWindow = document.createElement("astro-dev-toolbar-window");
		canvas.appendChild(renderWindow);

		renderWindow.insertAdjacentHTML("beforebegin", ` + "`<style>{{templateLiteral .Style}}</style>`" + `);{{end}}`

// TemplateName returns the file name of a framework's template
func TemplateName(fw deps.Framework) string {
	return fmt.Sprintf("%s.js.tmpl", fw)
}

// readFunc loads raw template text by file name
type readFunc func(name string) ([]byte, string, error)

// Registry loads and caches one parsed template per framework
type Registry struct {
	read      readFunc
	mu        sync.Mutex
	templates map[deps.Framework]*template.Template
}

// NewRegistry creates a registry over the templates bundled with the library
func NewRegistry() *Registry {
	return newRegistry(func(name string) ([]byte, string, error) {
		path := "templates/" + name
		data, err := templateFS.ReadFile(path)
		return data, path, err
	})
}

// NewDirRegistry creates a registry that reads <dir>/<framework>.js.tmpl
// from disk, for integrations shipping their own templates.
func NewDirRegistry(dir string, files *fileops.FileOps) *Registry {
	if files == nil {
		files = fileops.Default
	}
	return newRegistry(func(name string) ([]byte, string, error) {
		path := filepath.Join(dir, name)
		data, err := files.ReadFile(path)
		return data, path, err
	})
}

func newRegistry(read readFunc) *Registry {
	return &Registry{
		read:      read,
		templates: make(map[deps.Framework]*template.Template),
	}
}

// Load returns the parsed template for fw. A missing or unparsable template
// yields a TemplateLoadError.
func (r *Registry) Load(fw deps.Framework) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[fw]; ok {
		return tmpl, nil
	}

	name := TemplateName(fw)
	data, path, err := r.read(name)
	if err != nil {
		return nil, errors.NewTemplateLoadError(fw.String(), path, err)
	}

	tmpl, err := template.New(name).
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(partials)
	if err == nil {
		tmpl, err = tmpl.Parse(string(data))
	}
	if err != nil {
		return nil, errors.NewTemplateLoadError(fw.String(), path, err)
	}

	r.templates[fw] = tmpl
	return tmpl, nil
}
