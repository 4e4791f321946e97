// Package deps knows which packages each supported UI framework needs, and
// answers whether they are installed and where.
package deps

import (
	"fmt"
	"strings"
)

// Framework identifies a supported UI framework
type Framework string

const (
	React  Framework = "react"
	Preact Framework = "preact"
	Vue    Framework = "vue"
	Svelte Framework = "svelte"
	Solid  Framework = "solid"
)

// Requirement is one package a framework needs at runtime. Constraint is an
// npm-style semver range checked only for the advisory compatibility report.
type Requirement struct {
	Package    string
	Constraint string
}

// frameworkRequirements is fixed at compile time; order is significant for reporting.
var frameworkRequirements = map[Framework][]Requirement{
	Preact: {
		{Package: "preact", Constraint: ">=10.0.0"},
	},
	React: {
		{Package: "react", Constraint: ">=18.0.0"},
		{Package: "react-dom", Constraint: ">=18.0.0"},
		{Package: "@vitejs/plugin-react", Constraint: ">=4.0.0"},
	},
	Svelte: {
		{Package: "svelte", Constraint: ">=5.0.0"},
	},
	Solid: {
		{Package: "solid-js", Constraint: ">=1.0.0"},
	},
	Vue: {
		{Package: "vue", Constraint: ">=3.0.0"},
	},
}

// Frameworks returns every supported framework in a stable order
func Frameworks() []Framework {
	return []Framework{React, Preact, Vue, Svelte, Solid}
}

// ParseFramework converts a case-insensitive name to a Framework
func ParseFramework(name string) (Framework, error) {
	fw := Framework(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := frameworkRequirements[fw]; !ok {
		return "", fmt.Errorf("unsupported framework %q (supported: %s)", name, supportedList())
	}
	return fw, nil
}

// String implements fmt.Stringer
func (f Framework) String() string {
	return string(f)
}

// Valid reports whether f is a supported framework
func (f Framework) Valid() bool {
	_, ok := frameworkRequirements[f]
	return ok
}

// DisplayName returns the capitalized framework name used in messages
func (f Framework) DisplayName() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// NeedsFastRefresh reports whether the framework requires a fast-refresh
// preamble on the page before hot reloading works.
func (f Framework) NeedsFastRefresh() bool {
	return f == React
}

// Requirements returns a copy of the framework's requirements
func (f Framework) Requirements() []Requirement {
	reqs := frameworkRequirements[f]
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	return out
}

// Packages returns the framework's required package names in order
func (f Framework) Packages() []string {
	reqs := frameworkRequirements[f]
	out := make([]string, len(reqs))
	for i, req := range reqs {
		out[i] = req.Package
	}
	return out
}

func supportedList() string {
	names := make([]string, 0, len(frameworkRequirements))
	for _, fw := range Frameworks() {
		names = append(names, string(fw))
	}
	return strings.Join(names, ", ")
}
