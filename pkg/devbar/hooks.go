package devbar

// Command is the host build command the hooks were invoked for
type Command string

const (
	// CommandDev is the long-lived development server
	CommandDev     Command = "dev"
	CommandBuild   Command = "build"
	CommandPreview Command = "preview"
	CommandSync    Command = "sync"
)

// ParseCommand converts a command name, defaulting to CommandDev for ""
func ParseCommand(name string) (Command, bool) {
	switch Command(name) {
	case "":
		return CommandDev, true
	case CommandDev, CommandBuild, CommandPreview, CommandSync:
		return Command(name), true
	}
	return "", false
}

// ScriptStage is the page lifecycle phase an injected script runs in
type ScriptStage string

const (
	StageHeadInline      ScriptStage = "head-inline"
	StageBeforeHydration ScriptStage = "before-hydration"
	StagePage            ScriptStage = "page"
	StagePageSSR         ScriptStage = "page-ssr"
)

// Order positions an integration relative to another one
type Order string

const (
	OrderAny    Order = ""
	OrderBefore Order = "before"
	OrderAfter  Order = "after"
)

// Integration is the minimal description of a host integration
type Integration struct {
	Name string `json:"name" yaml:"name"`
}

// BuildConfig is a partial host configuration merged by a ConfigUpdater.
// Zero fields are left untouched.
type BuildConfig struct {
	Aliases             map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	OptimizeDepsExclude []string          `json:"optimizeDepsExclude,omitempty" yaml:"optimize_deps_exclude,omitempty"`
	Integrations        []Integration     `json:"integrations,omitempty" yaml:"integrations,omitempty"`
}

// ConfigUpdater merges a partial configuration into the host's live config
type ConfigUpdater interface {
	UpdateConfig(cfg BuildConfig)
}

// ModuleRegistrar makes generated source importable under a module name.
// Registering the same name twice replaces the previous content.
type ModuleRegistrar interface {
	Register(name, content string, updater ConfigUpdater) error
}

// ToolbarRegistrar tells the host toolbar to load and mount a module
type ToolbarRegistrar interface {
	AddDevToolbarApp(entrypoint string)
}

// ScriptInjector injects raw script text into rendered pages
type ScriptInjector interface {
	InjectScript(stage ScriptStage, content string)
}

// IntegrationQuery reports whether an integration is already configured.
// With OrderBefore/OrderAfter the match must sit before/after relativeTo,
// or the calling integration when relativeTo is empty.
type IntegrationQuery interface {
	HasIntegration(name string, order Order, relativeTo string) bool
}

// Logger receives every user-visible message
type Logger interface {
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// HostConfig is the part of the host's configuration the injector reads
type HostConfig struct {
	// Root is the consuming project's root directory
	Root string
	// Base is the public base path; "/" when empty
	Base string
}

// Hooks bundles the host collaborators available during setup
type Hooks struct {
	Config  HostConfig
	Command Command

	Modules      ModuleRegistrar
	Updater      ConfigUpdater
	Toolbar      ToolbarRegistrar
	Scripts      ScriptInjector
	Integrations IntegrationQuery
	Logger       Logger
}

func (h Hooks) logger() Logger {
	if h.Logger == nil {
		return nopLogger{}
	}
	return h.Logger
}

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}
