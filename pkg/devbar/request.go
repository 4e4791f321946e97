package devbar

import (
	"fmt"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/utils"
)

var idValidator = utils.NewValidatorChain(utils.NotEmpty("id"), utils.NoWhitespace("id"))

// Framework identifies the UI framework a toolbar app is written in
type Framework = deps.Framework

const (
	React  = deps.React
	Preact = deps.Preact
	Vue    = deps.Vue
	Svelte = deps.Svelte
	Solid  = deps.Solid
)

// ModulePrefix is prepended to a request ID to form the module name
const ModulePrefix = "virtual:devtoolbar-app-"

// Request describes one toolbar app to inject
type Request struct {
	ID            string    `json:"id" yaml:"id" mapstructure:"id"`
	Name          string    `json:"name" yaml:"name" mapstructure:"name"`
	Icon          string    `json:"icon" yaml:"icon" mapstructure:"icon"`
	Framework     Framework `json:"framework" yaml:"framework" mapstructure:"framework"`
	ComponentPath string    `json:"componentPath" yaml:"component_path" mapstructure:"component_path"`
	Style         string    `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`
	// OnMountModule is imported by the generated module; its default export
	// is called with (canvas, renderWindow) once the component is mounted.
	OnMountModule string `json:"onMountModule,omitempty" yaml:"on_mount_module,omitempty" mapstructure:"on_mount_module"`
	// CallerPath is a file or directory inside the requesting integration.
	// When empty the injector falls back to inspecting the call stack.
	CallerPath string `json:"callerPath,omitempty" yaml:"caller_path,omitempty" mapstructure:"caller_path"`
}

// ModuleName returns the synthetic module name the app is registered under
func (r Request) ModuleName() string {
	return ModulePrefix + r.ID
}

// DisplayName returns Name, or ID when no name was given
func (r Request) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Validate checks the fields every request must carry
func (r Request) Validate() error {
	_, err := r.normalize()
	return err
}

// normalize validates r and returns a copy with a canonical framework name
func (r Request) normalize() (Request, error) {
	if err := idValidator.Validate(r.ID); err != nil {
		return r, err
	}
	fw, err := deps.ParseFramework(r.Framework.String())
	if err != nil {
		return r, errors.ValidationError("framework", fmt.Sprintf("toolbar app %q: %v", r.ID, err))
	}
	r.Framework = fw
	if r.ComponentPath == "" {
		return r, errors.ValidationError("componentPath", fmt.Sprintf("toolbar app %q has no component path", r.ID))
	}
	return r, nil
}
