// Package devbar injects framework toolbar apps into a host application's
// developer toolbar.
package devbar

import (
	"context"
	"fmt"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/roots"
	"github.com/toyz/devbar/internal/synth"
	"github.com/toyz/devbar/internal/utils/fileops"
)

// CheckMode selects how dependency availability is decided
type CheckMode int

const (
	// CheckLoad reads every package manifest and entry point concurrently
	CheckLoad CheckMode = iota
	// CheckExists only tests for node_modules/<pkg>
	CheckExists
)

// Injector runs toolbar app requests through dependency checks, module
// synthesis and host registration. It keeps no per-request state.
type Injector struct {
	files       *fileops.FileOps
	locator     *roots.Locator
	checker     *deps.Checker
	resolver    *deps.Resolver
	synthesizer *synth.Synthesizer
	libraryRoot string
	checkMode   CheckMode
}

// Option configures an Injector
type Option func(*Injector)

// WithFileOps sets the file access layer shared by every step
func WithFileOps(files *fileops.FileOps) Option {
	return func(i *Injector) {
		i.files = files
	}
}

// WithLibraryRoot overrides the library root candidate
func WithLibraryRoot(dir string) Option {
	return func(i *Injector) {
		i.libraryRoot = dir
	}
}

// WithSynthesizer replaces the default synthesizer
func WithSynthesizer(s *synth.Synthesizer) Option {
	return func(i *Injector) {
		i.synthesizer = s
	}
}

// WithCheckMode selects the dependency check
func WithCheckMode(mode CheckMode) Option {
	return func(i *Injector) {
		i.checkMode = mode
	}
}

// NewInjector creates an Injector
func NewInjector(opts ...Option) *Injector {
	i := &Injector{files: fileops.Default}
	for _, opt := range opts {
		opt(i)
	}
	i.locator = roots.NewLocator().WithFileOps(i.files)
	i.checker = deps.NewChecker(i.files)
	i.resolver = deps.NewResolver(i.files)
	if i.checkMode == CheckLoad {
		i.resolver.RequireLoadable()
	}
	if i.synthesizer == nil {
		i.synthesizer = synth.NewSynthesizer()
	}
	return i
}

// Inject processes one request. A missing dependency aborts only this
// request with a *errors.MissingDependencyError after a single warning; the
// returned Injection records the states visited either way.
func (i *Injector) Inject(ctx context.Context, req Request, hooks Hooks) (*Injection, error) {
	inj := newInjection(req)
	log := hooks.logger()

	req, err := req.normalize()
	if err != nil {
		return i.abort(inj, err)
	}
	inj.Request = req
	if err := validateHooks(hooks); err != nil {
		return i.abort(inj, err)
	}

	rt, err := i.computeRoots(req, hooks, log)
	if err != nil {
		return i.abort(inj, err)
	}
	inj.Roots = rt

	inj.enter(StateCheckingDependencies)
	if err := i.checkDependencies(ctx, inj); err != nil {
		return i.abort(inj, err)
	}
	for _, inc := range inj.Incompatible {
		log.Warn("%s toolbar app %q: %s@%s does not satisfy %s (%s)",
			req.Framework.DisplayName(), req.DisplayName(), inc.Package, inc.Version, inc.Constraint, inc.Reason)
	}
	if len(inj.Missing) > 0 {
		missingErr := errors.NewMissingDependencyError(
			req.Framework.DisplayName(), req.DisplayName(), req.Framework.Packages(), inj.Missing)
		log.Warn("%s", missingErr.Error())
		return i.abort(inj, missingErr)
	}

	inj.enter(StateSynthesizing)
	source, err := i.synthesizer.Synthesize(req.Framework, synth.Substitutions{
		ComponentPath: req.ComponentPath,
		ID:            req.ID,
		Name:          req.DisplayName(),
		Icon:          req.Icon,
		Style:         req.Style,
		OnMountModule: req.OnMountModule,
	})
	if err != nil {
		log.Error("%s toolbar app %q: %v", req.Framework.DisplayName(), req.DisplayName(), err)
		return i.abort(inj, err)
	}
	inj.Source = source

	inj.enter(StateRegistering)
	if err := hooks.Modules.Register(inj.ModuleName, source, hooks.Updater); err != nil {
		return i.abort(inj, errors.Wrap(errors.ConfigurationErrorCode,
			fmt.Sprintf("failed to register module %s", inj.ModuleName), err))
	}
	i.startPreamble(inj, hooks, log)
	hooks.Updater.UpdateConfig(BuildConfig{OptimizeDepsExclude: []string{inj.ModuleName}})
	hooks.Toolbar.AddDevToolbarApp(inj.ModuleName)

	if hooks.Command == CommandDev {
		inj.enter(StateConfiguringAliases)
		inj.Aliases = i.resolver.ResolvePaths(req.Framework, rt)
		if len(inj.Aliases) > 0 {
			hooks.Updater.UpdateConfig(BuildConfig{Aliases: inj.Aliases})
		}
	}

	inj.enter(StateDone)
	log.Debug("registered %s toolbar app %q as %s", req.Framework.DisplayName(), req.DisplayName(), inj.ModuleName)
	return inj, nil
}

// InjectAll processes requests in order. Failures are contained per request
// and collected; only a missing project manifest stops the loop.
func (i *Injector) InjectAll(ctx context.Context, reqs []Request, hooks Hooks) ([]*Injection, error) {
	results := make([]*Injection, 0, len(reqs))
	errs := errors.NewMultipleErrors()

	for _, req := range reqs {
		inj, err := i.Inject(ctx, req, hooks)
		results = append(results, inj)
		if err == nil {
			continue
		}
		if errors.HasCode(err, errors.ManifestNotFoundErrorCode) || ctx.Err() != nil {
			return results, err
		}
		if de, ok := err.(errors.DevbarError); ok {
			errs.Add(de)
		} else {
			errs.Add(errors.Wrap(errors.UnknownErrorCode, fmt.Sprintf("toolbar app %q", req.ID), err))
		}
	}

	return results, errs.ErrOrNil()
}

func (i *Injector) abort(inj *Injection, err error) (*Injection, error) {
	inj.enter(StateAborted)
	inj.finishPreamble(nil)
	return inj, err
}

func (i *Injector) computeRoots(req Request, hooks Hooks, log Logger) (roots.Roots, error) {
	callerPath := req.CallerPath
	if callerPath != "" {
		return roots.Compute(i.locator, hooks.Config.Root, callerPath, i.libraryRoot)
	}

	site, ok := roots.ExternalCaller(roots.ModulePath + "/")
	if !ok {
		return roots.Compute(i.locator, hooks.Config.Root, "", i.libraryRoot)
	}

	rt, err := roots.Compute(i.locator, hooks.Config.Root, site.File, i.libraryRoot)
	if err != nil {
		// an inferred caller outside any package is not an integration
		log.Debug("no integration root above %s: %v", site.File, err)
		return roots.Compute(i.locator, hooks.Config.Root, "", i.libraryRoot)
	}
	return rt, nil
}

func (i *Injector) checkDependencies(ctx context.Context, inj *Injection) error {
	fw := inj.Request.Framework
	if i.checkMode == CheckExists {
		inj.Missing = i.checker.FindMissing(fw, inj.Roots)
		return nil
	}

	report, err := i.checker.LoadAll(ctx, fw, inj.Roots)
	if err != nil {
		return err
	}
	inj.Missing = report.Missing
	inj.Incompatible = report.Incompatible
	return nil
}

// startPreamble injects the fast-refresh preamble on its own goroutine once
// the module is registered. The rest of registration does not wait for it.
func (i *Injector) startPreamble(inj *Injection, hooks Hooks, log Logger) {
	fw := inj.Request.Framework
	if !fw.NeedsFastRefresh() || hooks.Scripts == nil {
		inj.finishPreamble(nil)
		return
	}

	go func() {
		script, err := synth.LoadPreamble(fw, hooks.Config.Base)
		if err != nil {
			log.Error("%s fast refresh preamble: %v", fw.DisplayName(), err)
			inj.finishPreamble(err)
			return
		}
		hooks.Scripts.InjectScript(StagePage, script)
		inj.finishPreamble(nil)
	}()
}

func validateHooks(hooks Hooks) error {
	switch {
	case hooks.Config.Root == "":
		return errors.ValidationError("config.root", "host root directory is required")
	case hooks.Modules == nil:
		return errors.ValidationError("hooks", "a module registrar is required")
	case hooks.Updater == nil:
		return errors.ValidationError("hooks", "a config updater is required")
	case hooks.Toolbar == nil:
		return errors.ValidationError("hooks", "a toolbar registrar is required")
	}
	return nil
}
