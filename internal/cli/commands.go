package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/devbar/internal/errors"
	"github.com/toyz/devbar/internal/preview"
	"github.com/toyz/devbar/internal/utils"
	"github.com/toyz/devbar/pkg/devbar"
)

const shutdownTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	dir        string
	verbose    bool
	quiet      bool

	v      *viper.Viper
	output io.Writer
}

// NewRootCommand builds the devbar command tree writing to the terminal
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// NewRootCommandWithOutput builds the command tree writing all diagnostics,
// uncolored, to w.
func NewRootCommandWithOutput(w io.Writer) *cobra.Command {
	return newRootCommand(w)
}

func newRootCommand(output io.Writer) *cobra.Command {
	opts := &rootOptions{v: NewViper(), output: output}

	root := &cobra.Command{
		Use:           "devbar",
		Short:         "Inject framework toolbar apps into a dev toolbar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	if output != nil {
		root.SetOut(output)
		root.SetErr(output)
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./devbar.yaml)")
	flags.StringVar(&opts.dir, "dir", ".", "directory searched for devbar.yaml")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")
	flags.BoolVar(&opts.quiet, "quiet", false, "only show errors and final results")
	flags.String("root", "", "consuming project root")
	flags.String("base", "", "public base path")
	_ = opts.v.BindPFlag("root", flags.Lookup("root"))
	_ = opts.v.BindPFlag("base", flags.Lookup("base"))

	root.AddCommand(
		newInjectCommand(opts),
		newCheckCommand(opts),
		newResolveCommand(opts),
		newServeCommand(opts),
		newCleanCommand(opts),
	)
	return root
}

func (o *rootOptions) diagnostics() *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case o.quiet:
		level = utils.DiagnosticError
	case o.verbose:
		level = utils.DiagnosticVerbose
	}

	if o.output != nil {
		return utils.NewBufferedDiagnostics(level, o.output)
	}
	return utils.NewDiagnosticSystem(level)
}

func (o *rootOptions) load() (*Config, *utils.DiagnosticSystem, error) {
	diagnostics := o.diagnostics()
	cfg, err := LoadConfig(o.v, o.configPath, o.dir)
	if err != nil {
		return nil, diagnostics, err
	}

	diagnostics.Verbose("root: %s", cfg.Root)
	diagnostics.Verbose("base: %s", cfg.Base)
	if cfg.IntegrationPath != "" {
		diagnostics.Verbose("integration: %s", cfg.IntegrationPath)
	}
	return cfg, diagnostics, nil
}

func newInjectCommand(opts *rootOptions) *cobra.Command {
	var command, out string

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Run every configured toolbar app against an in-memory host",
		RunE: func(cmd *cobra.Command, args []string) error {
			buildCommand, ok := devbar.ParseCommand(command)
			if !ok {
				return errors.ValidationError("command", fmt.Sprintf("%q is not one of dev, build, preview, sync", command))
			}

			cfg, diagnostics, err := opts.load()
			if err != nil {
				return err
			}
			diagnostics.Section("devbar inject")

			result, err := NewRunner(cfg, diagnostics).Inject(cmd.Context(), buildCommand)
			if err != nil {
				return err
			}

			diagnostics.Subsection("Toolbar apps")
			for _, inj := range result.Injections {
				diagnostics.Check(inj.Registered(), "%s (%s) -> %s", inj.Request.DisplayName(), inj.Request.Framework, inj.ModuleName)
			}
			if diagnostics.Level() >= utils.DiagnosticVerbose {
				if names := result.Host.AliasNames(); len(names) > 0 {
					diagnostics.Verbose("aliases: %s", strings.Join(names, ", "))
				}
			}

			stats := map[string]interface{}{
				"Command":    result.Command,
				"Apps":       len(result.Injections),
				"Registered": result.Registered(),
				"Skipped":    len(result.Injections) - result.Registered(),
			}
			keys := []string{"Command", "Apps", "Registered", "Skipped"}

			if out != "" {
				lock, err := WriteArtifacts(out, result)
				if err != nil {
					return err
				}
				stats["Output"] = out
				stats["Files"] = len(lock.Apps) + len(lock.Scripts)
				keys = append(keys, "Output", "Files")
			}

			diagnostics.Summary("Injection complete", keys, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", string(devbar.CommandDev), "host build command: dev, build, preview or sync")
	cmd.Flags().StringVar(&out, "out", "", "write modules and "+LockFileName+" to this directory")
	return cmd
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report missing and incompatible framework packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diagnostics, err := opts.load()
			if err != nil {
				return err
			}
			diagnostics.Section("devbar check")

			results, err := NewRunner(cfg, diagnostics).Check(cmd.Context())
			if err != nil {
				return err
			}

			missing := 0
			for _, res := range results {
				diagnostics.Subsection(fmt.Sprintf("%s (%s)", res.Request.DisplayName(), res.Request.Framework.DisplayName()))
				for _, pkg := range res.Request.Framework.Packages() {
					if info, ok := res.Report.Loaded[pkg]; ok {
						diagnostics.Check(true, "%s@%s %s", pkg, info.Version, info.Dir)
					} else {
						diagnostics.Check(false, "%s", pkg)
					}
				}
				for _, inc := range res.Report.Incompatible {
					diagnostics.Warn("%s@%s does not satisfy %s", inc.Package, inc.Version, inc.Constraint)
				}
				missing += len(res.Report.Missing)
			}

			if missing > 0 {
				return errors.Newf(errors.MissingDependencyErrorCode, "%d missing package(s)", missing).
					WithSuggestion("install the listed packages in the consuming project")
			}
			diagnostics.Success("all framework packages are installed")
			return nil
		},
	}
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the dev-mode alias map of every app",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diagnostics, err := opts.load()
			if err != nil {
				return err
			}
			diagnostics.Section("devbar resolve")

			results, err := NewRunner(cfg, diagnostics).Resolve()
			if err != nil {
				return err
			}

			for _, res := range results {
				diagnostics.Subsection(res.Request.DisplayName())
				names := make([]string, 0, len(res.Aliases))
				for name := range res.Aliases {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					diagnostics.List("%s => %s", name, res.Aliases[name])
				}
				if len(names) == 0 {
					diagnostics.List("no packages found")
				}
			}
			return nil
		},
	}
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Inject in dev mode and serve the result for inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, diagnostics, err := opts.load()
			if err != nil {
				return err
			}

			server, err := preview.New(opts.v.GetString("server"))
			if err != nil {
				return err
			}

			result, err := NewRunner(cfg, diagnostics).Inject(cmd.Context(), devbar.CommandDev)
			if err != nil {
				return err
			}
			preview.Mount(server, result.Host)

			addr := opts.v.GetString("addr")
			diagnostics.Success("%s preview on http://%s%s/apps", server.Name(), addr, preview.RoutePrefix)
			return serve(cmd.Context(), server, addr, diagnostics.WithPrefix("["+server.Name()+"]"))
		},
	}

	cmd.Flags().String("server", "", "preview backend: "+strings.Join(preview.Backends(), ", "))
	cmd.Flags().String("addr", "", "listen address")
	_ = opts.v.BindPFlag("server", cmd.Flags().Lookup("server"))
	_ = opts.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// serve runs server until ctx is cancelled
func serve(ctx context.Context, server preview.Server, addr string, diagnostics *utils.DiagnosticSystem) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	diagnostics.Info("shutting down %s preview", server.Name())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

func newCleanCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove artifacts written by inject --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnostics := opts.diagnostics()
			if out == "" {
				return errors.ValidationError("out", "--out is required")
			}

			removed, err := CleanArtifacts(out)
			if err != nil {
				return err
			}
			for _, path := range removed {
				diagnostics.Verbose("removed %s", path)
			}
			diagnostics.Success("removed %d file(s) from %s", len(removed), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "directory passed to inject --out")
	return cmd
}

// Execute runs the command tree and exits non-zero on failure
func Execute(ctx context.Context) {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		utils.NewQuietDiagnostics().Error("%v", err)
		os.Exit(1)
	}
}
