package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/status"
	"github.com/walteh/ngmenu/pkg/tree"
	"github.com/walteh/ngmenu/pkg/workspace"
	"gitlab.com/tozd/go/errors"
)

// NewProjectsCmd creates the projects command
func NewProjectsCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List the workspace projects the menu can be added to",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr := status.New(rootOpts.Dir, zerolog.Ctx(ctx))
			resolver := workspace.NewAngularResolver(tree.NewDiskTree(mgr, false))

			names, err := resolver.Projects(ctx)
			if err != nil {
				return errors.Errorf("listing projects: %w", err)
			}
			for _, name := range names {
				p, err := resolver.Project(ctx, name)
				if err != nil {
					rootOpts.Console.Warningf("%s: %v", name, err)
					continue
				}
				rootOpts.Console.Infof("%s (%s, app code in %s)", p.Name, p.SourceDir(), workspace.DefaultPath(p))
			}
			return nil
		},
	}
}
