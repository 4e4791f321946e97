// Package host provides an in-memory build host implementing every devbar
// collaborator. The CLI and preview server run toolbar injections against it.
package host

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/toyz/devbar/pkg/devbar"
)

// Script is a page script injected by a toolbar app
type Script struct {
	Stage   devbar.ScriptStage `json:"stage" yaml:"stage"`
	Content string             `json:"content" yaml:"content"`
}

// Snapshot is a point-in-time copy of the host state
type Snapshot struct {
	SessionID string             `json:"sessionId" yaml:"session_id"`
	Root      string             `json:"root" yaml:"root"`
	Base      string             `json:"base" yaml:"base"`
	Command   devbar.Command     `json:"command" yaml:"command"`
	Modules   []string           `json:"modules" yaml:"modules"`
	Apps      []string           `json:"apps" yaml:"apps"`
	Config    devbar.BuildConfig `json:"config" yaml:"config"`
	Scripts   []Script           `json:"scripts" yaml:"scripts"`
}

// MemoryHost records everything a toolbar injection hands to its host. It is
// safe for concurrent use.
type MemoryHost struct {
	mu sync.RWMutex

	session uuid.UUID
	root    string
	base    string
	command devbar.Command
	current string
	logger  devbar.Logger

	modules     map[string]string
	moduleOrder []string
	config      devbar.BuildConfig
	apps        []string
	scripts     []Script
}

// Option configures a MemoryHost
type Option func(*MemoryHost)

// WithBase sets the public base path
func WithBase(base string) Option {
	return func(h *MemoryHost) {
		h.base = base
	}
}

// WithCommand sets the build command reported to injections
func WithCommand(cmd devbar.Command) Option {
	return func(h *MemoryHost) {
		h.command = cmd
	}
}

// WithLogger sets the logger handed to injections
func WithLogger(logger devbar.Logger) Option {
	return func(h *MemoryHost) {
		h.logger = logger
	}
}

// WithCurrentIntegration names the integration whose setup is running.
// Ordered HasIntegration queries without relativeTo compare against it.
func WithCurrentIntegration(name string) Option {
	return func(h *MemoryHost) {
		h.current = name
	}
}

// WithIntegrations pre-populates the configured integrations
func WithIntegrations(names ...string) Option {
	return func(h *MemoryHost) {
		for _, name := range names {
			h.config.Integrations = append(h.config.Integrations, devbar.Integration{Name: name})
		}
	}
}

// New creates a MemoryHost for the project at root
func New(root string, opts ...Option) *MemoryHost {
	h := &MemoryHost{
		session: uuid.New(),
		root:    root,
		base:    "/",
		command: devbar.CommandDev,
		modules: make(map[string]string),
		config:  devbar.BuildConfig{Aliases: make(map[string]string)},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SessionID identifies this host instance in logs
func (h *MemoryHost) SessionID() string {
	return h.session.String()
}

// Hooks returns collaborators bound to this host
func (h *MemoryHost) Hooks() devbar.Hooks {
	return devbar.Hooks{
		Config:       devbar.HostConfig{Root: h.root, Base: h.base},
		Command:      h.command,
		Modules:      h,
		Updater:      h,
		Toolbar:      h,
		Scripts:      h,
		Integrations: h,
		Logger:       h.logger,
	}
}

// Register stores content under name, replacing any earlier module
func (h *MemoryHost) Register(name, content string, updater devbar.ConfigUpdater) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.modules[name]; !exists {
		h.moduleOrder = append(h.moduleOrder, name)
	}
	h.modules[name] = content
	return nil
}

// UpdateConfig merges cfg: aliases are overwritten per key, exclude entries
// and integrations are appended once.
func (h *MemoryHost) UpdateConfig(cfg devbar.BuildConfig) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for name, path := range cfg.Aliases {
		h.config.Aliases[name] = path
	}
	for _, name := range cfg.OptimizeDepsExclude {
		if !contains(h.config.OptimizeDepsExclude, name) {
			h.config.OptimizeDepsExclude = append(h.config.OptimizeDepsExclude, name)
		}
	}
	h.config.Integrations = append(h.config.Integrations, cfg.Integrations...)
}

// AddDevToolbarApp records a toolbar app entrypoint
func (h *MemoryHost) AddDevToolbarApp(entrypoint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.apps = append(h.apps, entrypoint)
}

// InjectScript records a page script
func (h *MemoryHost) InjectScript(stage devbar.ScriptStage, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scripts = append(h.scripts, Script{Stage: stage, Content: content})
}

// HasIntegration reports whether name is configured, optionally before or
// after relativeTo (the current integration when empty).
func (h *MemoryHost) HasIntegration(name string, order devbar.Order, relativeTo string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx := h.integrationIndex(name)
	if idx < 0 {
		return false
	}
	if order == devbar.OrderAny {
		return true
	}

	if relativeTo == "" {
		relativeTo = h.current
	}
	ref := h.integrationIndex(relativeTo)
	if ref < 0 {
		return false
	}

	switch order {
	case devbar.OrderBefore:
		return idx < ref
	case devbar.OrderAfter:
		return idx > ref
	}
	return false
}

func (h *MemoryHost) integrationIndex(name string) int {
	for i, integration := range h.config.Integrations {
		if integration.Name == name {
			return i
		}
	}
	return -1
}

// Module returns the source registered under name
func (h *MemoryHost) Module(name string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	content, ok := h.modules[name]
	return content, ok
}

// Modules returns module names in registration order
func (h *MemoryHost) Modules() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.moduleOrder...)
}

// Apps returns toolbar app entrypoints in registration order
func (h *MemoryHost) Apps() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.apps...)
}

// Scripts returns injected page scripts
func (h *MemoryHost) Scripts() []Script {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Script(nil), h.scripts...)
}

// Config returns a copy of the merged configuration
func (h *MemoryHost) Config() devbar.BuildConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.configCopy()
}

func (h *MemoryHost) configCopy() devbar.BuildConfig {
	aliases := make(map[string]string, len(h.config.Aliases))
	for k, v := range h.config.Aliases {
		aliases[k] = v
	}
	return devbar.BuildConfig{
		Aliases:             aliases,
		OptimizeDepsExclude: append([]string(nil), h.config.OptimizeDepsExclude...),
		Integrations:        append([]devbar.Integration(nil), h.config.Integrations...),
	}
}

// Snapshot copies the whole host state
func (h *MemoryHost) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return Snapshot{
		SessionID: h.session.String(),
		Root:      h.root,
		Base:      h.base,
		Command:   h.command,
		Modules:   append([]string(nil), h.moduleOrder...),
		Apps:      append([]string(nil), h.apps...),
		Config:    h.configCopy(),
		Scripts:   append([]Script(nil), h.scripts...),
	}
}

// AliasNames returns the configured alias keys sorted
func (h *MemoryHost) AliasNames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.config.Aliases))
	for name := range h.config.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
