// Package synth renders toolbar app modules from per-framework templates.
package synth

import (
	"bytes"
	"fmt"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
)

// Substitutions is the typed record a template is rendered against
type Substitutions struct {
	ComponentPath string // import specifier of the author's component
	ID            string
	Name          string
	Icon          string // raw markup, placed inside a JS template literal
	Style         string // optional stylesheet text
	OnMountModule string // optional module whose default export runs after mount
}

// Synthesizer renders framework templates into JS module source
type Synthesizer struct {
	registry *Registry
	validate bool
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithRegistry replaces the bundled template registry
func WithRegistry(r *Registry) Option {
	return func(s *Synthesizer) {
		s.registry = r
	}
}

// WithoutValidation skips the lexical check of rendered output
func WithoutValidation() Option {
	return func(s *Synthesizer) {
		s.validate = false
	}
}

// NewSynthesizer creates a synthesizer over the bundled templates
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		registry: NewRegistry(),
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize renders the module for fw. Identical input always yields
// byte-identical output.
func (s *Synthesizer) Synthesize(fw deps.Framework, subs Substitutions) (string, error) {
	if !fw.Valid() {
		return "", errors.ValidationError("framework", fmt.Sprintf("unsupported framework %q", fw))
	}
	if subs.ComponentPath == "" {
		return "", errors.ValidationError("componentPath", "component path is required")
	}

	tmpl, err := s.registry.Load(fw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, subs); err != nil {
		return "", errors.NewTemplateRenderError(fw.String(), err)
	}

	out := buf.String()
	if s.validate {
		if err := ValidateModule(TemplateName(fw), out); err != nil {
			return "", errors.NewTemplateRenderError(fw.String(), err)
		}
	}
	return out, nil
}
