package commands

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/external"
	"github.com/walteh/ngmenu/pkg/log"
	"github.com/walteh/ngmenu/pkg/operation"
	"github.com/walteh/ngmenu/pkg/status"
	"github.com/walteh/ngmenu/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

type addFlags struct {
	project                string
	path                   string
	module                 string
	removeAppComponentHTML bool
	installAuth            bool
	bootstrapVersion       string
	skipTemplates          []string
	menuItems              []string
	backup                 bool
	dryRun                 bool
	async                  bool
}

// NewAddCmd creates the add command
func NewAddCmd(rootOpts *opts.RootOpts) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add the responsive menu to a project",
		Long: `Add wires the responsive menu into an Angular project.
It will:
1. Declare the header, footer, home, loading and modal components in the app module
2. Create the component, service and interceptor files (existing files are kept)
3. Add font, icon and script tags to the shell page and wrap its body
4. Prepend the menu rules to the global stylesheet and list the menu stylesheets in angular.json
5. Add the header and footer tags to the app component and the home routes
6. Run the bootstrap add-on, and the auth add-on when asked

Nothing is written when a step fails. Flags override the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "add").Logger().WithContext(cmd.Context())

			cfg := mergeFlags(cmd, rootOpts.Config, flags)
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating options: %w", err)
			}
			zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Str("source", cfg.Location()).Msg("effective options")

			mgr := status.New(rootOpts.Dir, zerolog.Ctx(ctx))
			t := tree.NewDiskTree(mgr, cfg.Backup)

			var runner external.Runner = rootOpts.Runner
			if flags.dryRun {
				runner = &external.RecordingRunner{}
			} else if runner == nil {
				runner = &external.ExecRunner{Dir: rootOpts.Dir, Stdout: rootOpts.Out, Stderr: os.Stderr}
			}

			gen, err := operation.New(operation.Deps{Tree: t, Runner: runner, User: rootOpts.UserLogger})
			if err != nil {
				return err
			}

			rootOpts.Console.Header("adding responsive menu")

			op := &operation.AddOperation{Operator: gen, Options: optionsFrom(cfg), DryRun: flags.dryRun}
			if err := operation.NewRunner(nil, flags.async).Run(ctx, op); err != nil {
				return errors.Errorf("adding menu: %w", err)
			}

			printSummary(ctx, rootOpts.Console, op.Report, flags.dryRun)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (flags *addFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.project, "project", "p", "", "workspace project (default: the default or only project)")
	f.StringVar(&flags.path, "path", "", "app directory (default: <sourceRoot>/app)")
	f.StringVarP(&flags.module, "module", "m", "", "module file to update (default: search from --path)")
	f.BoolVar(&flags.removeAppComponentHTML, "remove-app-component-html", false, "replace the app component markup with a router outlet")
	f.BoolVar(&flags.installAuth, "install-auth", false, "also run the authentication add-on")
	f.StringVar(&flags.bootstrapVersion, "bootstrap-version", config.DefaultBootstrapVersion, "version passed to the bootstrap add-on")
	f.StringSliceVar(&flags.skipTemplates, "skip-template", nil, "doublestar glob of template files not to create (repeatable)")
	f.StringSliceVar(&flags.menuItems, "menu-item", nil, "header menu entry (repeatable, default: home)")
	f.BoolVar(&flags.backup, "backup", false, "copy modified files to <file>.bak")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show the changes as diffs without writing anything")
	f.BoolVar(&flags.async, "async", false, "run the generator in the background so it can be interrupted")
}

// mergeFlags returns a copy of base with every flag the user set applied
func mergeFlags(cmd *cobra.Command, base *config.Config, flags *addFlags) *config.Config {
	cfg := &config.Config{}
	if base != nil {
		c := *base
		cfg = &c
	}

	changed := cmd.Flags().Changed
	if changed("project") {
		cfg.Project = flags.project
	}
	if changed("path") {
		cfg.Path = flags.path
	}
	if changed("module") {
		cfg.Module = flags.module
	}
	if changed("remove-app-component-html") {
		cfg.RemoveAppComponentHTML = flags.removeAppComponentHTML
	}
	if changed("install-auth") {
		cfg.InstallAuth = flags.installAuth
	}
	if changed("bootstrap-version") {
		cfg.BootstrapVersion = flags.bootstrapVersion
	}
	if changed("skip-template") {
		cfg.SkipTemplates = flags.skipTemplates
	}
	if changed("menu-item") {
		cfg.MenuItems = flags.menuItems
	}
	if changed("backup") {
		cfg.Backup = flags.backup
	}
	return cfg
}

func optionsFrom(cfg *config.Config) operation.Options {
	return operation.Options{
		Project:                cfg.Project,
		Path:                   cfg.Path,
		Module:                 cfg.Module,
		RemoveAppComponentHTML: cfg.RemoveAppComponentHTML,
		InstallAuth:            cfg.InstallAuth,
		BootstrapVersion:       cfg.BootstrapVersion,
		SkipTemplates:          cfg.SkipTemplates,
		MenuItems:              cfg.MenuItems,
	}
}

// fileKind names the role a file plays in the run
func fileKind(files operation.Files, workspaceFile, p string) string {
	switch {
	case p == files.Module:
		return "module"
	case p == files.Routing:
		return "routing"
	case p == files.Index:
		return "shell"
	case p == files.Styles:
		return "stylesheet"
	case p == files.AppComponent:
		return "component"
	case p == workspaceFile:
		return "workspace"
	case strings.HasPrefix(p, path.Join(files.Path, "app")+"/"):
		return "template"
	default:
		return "file"
	}
}

// printSummary lists every touched file, with diffs for a dry run
func printSummary(ctx context.Context, console *log.Logger, report *operation.Report, dryRun bool) {
	if report == nil {
		return
	}

	console.StartRun(ctx, log.RunOperation{
		Project: report.Project.Name,
		Path:    report.Files.Path,
		Module:  report.Files.Module,
		DryRun:  dryRun,
	})

	steps := func(p string) int {
		n := 0
		for _, s := range report.StepsFor(p) {
			if s.Applied {
				n++
			}
		}
		return n
	}

	if dryRun {
		for _, c := range report.Changes {
			st := status.StatusUnchanged
			switch {
			case !c.Existed:
				st = status.StatusNew
			case c.Modified():
				st = status.StatusModified
			}
			console.LogFileOperation(ctx, log.FileOperation{
				Path:   c.Path,
				Kind:   fileKind(report.Files, report.Project.WorkspaceFile, c.Path),
				Status: st,
				Steps:  steps(c.Path),
			})
			if c.Existed && c.Modified() {
				console.Raw(RenderDiff(c.Path, string(c.Original), string(c.Content)))
			}
		}
		for _, inv := range report.Invocations {
			console.Infof("would run %s", inv)
		}
	} else {
		for _, info := range report.Committed {
			console.LogFileOperation(ctx, log.FileOperation{
				Path:   info.Path,
				Kind:   fileKind(report.Files, report.Project.WorkspaceFile, info.Path),
				Status: info.Status,
				Steps:  steps(info.Path),
			})
		}
	}
	if report.Templates != nil {
		for _, p := range report.Templates.Skipped {
			console.LogFileOperation(ctx, log.FileOperation{Path: p, Kind: "template", Status: status.StatusSkipped})
		}
	}

	console.EndRun(ctx)

	for _, s := range report.Missed() {
		console.Warningf("%s: anchor not found in %s", s.Name, s.File)
	}
	console.LogNewline()
	if dryRun {
		console.Success("dry run complete, nothing was written")
		return
	}
	console.Success("responsive menu added")
}
