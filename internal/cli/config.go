package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/preview"
	"github.com/toyz/devbar/internal/utils"
	"github.com/toyz/devbar/internal/utils/fileops"
	"github.com/toyz/devbar/pkg/devbar"
)

// ConfigName is the config file looked up in the working directory
const ConfigName = "devbar"

// EnvPrefix prefixes environment overrides, e.g. DEVBAR_BASE
const EnvPrefix = "DEVBAR"

// AppConfig describes one toolbar app in devbar.yaml
type AppConfig struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Framework string `mapstructure:"framework"`
	Component string `mapstructure:"component"`
	Icon      string `mapstructure:"icon"`
	IconFile  string `mapstructure:"icon_file"`
	Style     string `mapstructure:"style"`
	StyleFile string `mapstructure:"style_file"`
	OnMount   string `mapstructure:"on_mount"`
	Caller    string `mapstructure:"caller"`
}

// Config holds the configuration for the CLI
type Config struct {
	// Root is the consuming project's root directory
	Root string `mapstructure:"root"`

	// Base is the public base path substituted into page scripts
	Base string `mapstructure:"base"`

	// IntegrationPath is the default caller path for every app
	IntegrationPath string `mapstructure:"integration_path"`

	// LibraryRoot overrides the library root candidate
	LibraryRoot string `mapstructure:"library_root"`

	// TemplatesDir replaces the embedded framework templates
	TemplatesDir string `mapstructure:"templates_dir"`

	// Server is the preview backend used by serve
	Server string `mapstructure:"server"`

	// Addr is the preview listen address
	Addr string `mapstructure:"addr"`

	Apps []AppConfig `mapstructure:"apps"`
}

// NewViper creates a viper instance with devbar defaults and env binding
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("root", ".")
	v.SetDefault("base", "/")
	v.SetDefault("server", "echo")
	v.SetDefault("addr", "127.0.0.1:4322")
	v.SetDefault("integration_path", "")
	v.SetDefault("library_root", "")
	v.SetDefault("templates_dir", "")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads path, or devbar.yaml from dir when path is empty. A
// missing default config file is not an error.
func LoadConfig(v *viper.Viper, path, dir string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, errors.WrapConfigurationError("config file", "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError("config file", "decode", err)
	}

	base := dir
	if used := v.ConfigFileUsed(); used != "" {
		base = filepath.Dir(used)
	}
	cfg.resolvePaths(base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the top-level settings; apps are checked by Requests
func (c *Config) Validate() error {
	if err := utils.HasPrefix("base", "/")(c.Base); err != nil {
		return err
	}
	return utils.NewValidatorChain(
		utils.NotEmpty("server"),
		utils.IsOneOf("server", preview.Backends()...),
	).Validate(strings.ToLower(c.Server))
}

// resolvePaths makes relative paths relative to the config file directory
func (c *Config) resolvePaths(base string) {
	if absBase, err := filepath.Abs(base); err == nil {
		base = absBase
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	absModule := func(spec string) string {
		if !isFileSpecifier(spec) {
			return spec
		}
		return filepath.ToSlash(filepath.Join(base, filepath.FromSlash(spec)))
	}

	c.Root = abs(c.Root)
	c.IntegrationPath = abs(c.IntegrationPath)
	c.LibraryRoot = abs(c.LibraryRoot)
	c.TemplatesDir = abs(c.TemplatesDir)
	for i := range c.Apps {
		c.Apps[i].IconFile = abs(c.Apps[i].IconFile)
		c.Apps[i].StyleFile = abs(c.Apps[i].StyleFile)
		c.Apps[i].Caller = abs(c.Apps[i].Caller)
		c.Apps[i].Component = absModule(c.Apps[i].Component)
		c.Apps[i].OnMount = absModule(c.Apps[i].OnMount)
	}
}

// isFileSpecifier reports whether an import specifier names a file rather
// than a package: "./x", "../x" or anything with a path separator that is
// not a scoped package or a virtual module.
func isFileSpecifier(spec string) bool {
	switch {
	case spec == "", filepath.IsAbs(spec):
		return false
	case spec == "." || spec == "..":
		return true
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		return true
	case strings.HasPrefix(spec, "@"), strings.Contains(spec, ":"):
		return false
	}
	return strings.ContainsAny(spec, `/\`)
}

// Requests converts the configured apps into injection requests. Icon and
// style files are read through files.
func (c *Config) Requests(files *fileops.FileOps) ([]devbar.Request, error) {
	if len(c.Apps) == 0 {
		return nil, errors.ValidationError("apps", "no toolbar apps configured")
	}

	requests := make([]devbar.Request, 0, len(c.Apps))
	errs := errors.NewMultipleErrors()

	for i, app := range c.Apps {
		req, err := c.request(app, files)
		if err != nil {
			errs.Add(errors.Wrap(errors.ConfigurationErrorCode, fmt.Sprintf("apps[%d]", i), err))
			continue
		}
		requests = append(requests, req)
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Config) request(app AppConfig, files *fileops.FileOps) (devbar.Request, error) {
	fw, err := deps.ParseFramework(app.Framework)
	if err != nil {
		return devbar.Request{}, err
	}

	req := devbar.Request{
		ID:            app.ID,
		Name:          app.Name,
		Framework:     fw,
		ComponentPath: app.Component,
		Icon:          app.Icon,
		Style:         app.Style,
		OnMountModule: app.OnMount,
		CallerPath:    app.Caller,
	}
	if req.CallerPath == "" {
		req.CallerPath = c.IntegrationPath
	}

	if app.IconFile != "" {
		data, err := files.ReadFile(app.IconFile)
		if err != nil {
			return devbar.Request{}, err
		}
		req.Icon = strings.TrimSpace(string(data))
	}
	if app.StyleFile != "" {
		data, err := files.ReadFile(app.StyleFile)
		if err != nil {
			return devbar.Request{}, err
		}
		req.Style = string(data)
	}

	return req, req.Validate()
}
