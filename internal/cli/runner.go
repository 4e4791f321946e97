package cli

import (
	"context"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/host"
	"github.com/toyz/devbar/internal/roots"
	"github.com/toyz/devbar/internal/synth"
	"github.com/toyz/devbar/internal/utils"
	"github.com/toyz/devbar/internal/utils/fileops"
	"github.com/toyz/devbar/pkg/devbar"
)

// Runner executes configured toolbar app requests against an in-memory host
type Runner struct {
	cfg         *Config
	diagnostics *utils.DiagnosticSystem
	files       *fileops.FileOps
	injector    *devbar.Injector
	locator     *roots.Locator
	checker     *deps.Checker
	resolver    *deps.Resolver
}

// NewRunner creates a runner for cfg
func NewRunner(cfg *Config, diagnostics *utils.DiagnosticSystem) *Runner {
	files := fileops.NewFileOps()
	opts := []devbar.Option{
		devbar.WithFileOps(files),
		devbar.WithLibraryRoot(cfg.LibraryRoot),
	}
	if cfg.TemplatesDir != "" {
		registry := synth.NewDirRegistry(cfg.TemplatesDir, files)
		opts = append(opts, devbar.WithSynthesizer(synth.NewSynthesizer(synth.WithRegistry(registry))))
	}

	return &Runner{
		cfg:         cfg,
		diagnostics: diagnostics,
		files:       files,
		injector:    devbar.NewInjector(opts...),
		locator:     roots.NewLocator().WithFileOps(files),
		checker:     deps.NewChecker(files),
		resolver:    deps.NewResolver(files).RequireLoadable(),
	}
}

// InjectResult is the outcome of an inject run
type InjectResult struct {
	Host       *host.MemoryHost
	Command    devbar.Command
	Injections []*devbar.Injection
	// Err collects per-app failures; they never stop the run
	Err error
}

// Registered counts apps that reached the host
func (r *InjectResult) Registered() int {
	n := 0
	for _, inj := range r.Injections {
		if inj.Registered() {
			n++
		}
	}
	return n
}

// Inject runs every configured app for cmd. Only structural failures (bad
// config, missing project manifest) are returned as errors.
func (r *Runner) Inject(ctx context.Context, cmd devbar.Command) (*InjectResult, error) {
	requests, err := r.cfg.Requests(r.files)
	if err != nil {
		return nil, err
	}

	h := host.New(r.cfg.Root,
		host.WithBase(r.cfg.Base),
		host.WithCommand(cmd),
		host.WithLogger(r.diagnostics),
	)
	r.diagnostics.Debug("host session %s", h.SessionID())

	injections, err := r.injector.InjectAll(ctx, requests, h.Hooks())
	result := &InjectResult{Host: h, Command: cmd, Injections: injections, Err: err}
	if err != nil && (errors.HasCode(err, errors.ManifestNotFoundErrorCode) || ctx.Err() != nil) {
		return result, err
	}

	for _, inj := range injections {
		if err := inj.WaitPreamble(); err != nil {
			r.diagnostics.Error("%s: %v", inj.ModuleName, err)
		}
	}
	r.diagnostics.Debug("%d files read", r.files.CachedFiles())
	return result, nil
}

// CheckResult is the dependency report for one app
type CheckResult struct {
	Request devbar.Request
	Roots   roots.Roots
	Report  *deps.LoadReport
}

// Check loads every app's framework packages without touching a host
func (r *Runner) Check(ctx context.Context) ([]CheckResult, error) {
	requests, err := r.cfg.Requests(r.files)
	if err != nil {
		return nil, err
	}

	results := make([]CheckResult, 0, len(requests))
	for _, req := range requests {
		rt, err := roots.Compute(r.locator, r.cfg.Root, req.CallerPath, r.cfg.LibraryRoot)
		if err != nil {
			return results, err
		}
		report, err := r.checker.LoadAll(ctx, req.Framework, rt)
		if err != nil {
			return results, err
		}
		results = append(results, CheckResult{Request: req, Roots: rt, Report: report})
	}
	return results, nil
}

// ResolveResult is the alias map computed for one app
type ResolveResult struct {
	Request devbar.Request
	Aliases deps.AliasMap
}

// Resolve computes the dev-mode alias map of every app
func (r *Runner) Resolve() ([]ResolveResult, error) {
	requests, err := r.cfg.Requests(r.files)
	if err != nil {
		return nil, err
	}

	results := make([]ResolveResult, 0, len(requests))
	for _, req := range requests {
		rt, err := roots.Compute(r.locator, r.cfg.Root, req.CallerPath, r.cfg.LibraryRoot)
		if err != nil {
			return results, err
		}
		results = append(results, ResolveResult{
			Request: req,
			Aliases: r.resolver.ResolvePaths(req.Framework, rt),
		})
	}
	return results, nil
}
