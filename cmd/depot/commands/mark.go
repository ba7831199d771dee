package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *CLI) newMarkCmds() []*cobra.Command {
	mark := func(use, short string, minArgs int, run func(context.Context, []string) error) *cobra.Command {
		return &cobra.Command{
			Use:     use,
			Short:   short,
			GroupID: groupMark,
			Args:    cobra.MinimumNArgs(minArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), args)
			},
		}
	}

	return []*cobra.Command{
		mark("install <selector>...", "Mark packages for installation", 1, func(ctx context.Context, args []string) error {
			return c.app.Install(ctx, args)
		}),
		mark("reinstall <selector>...", "Mark installed packages for reinstallation", 1, func(ctx context.Context, args []string) error {
			return c.app.Reinstall(ctx, args)
		}),
		mark("upgrade [selector...]", "Mark installed packages for upgrading, all of them without arguments", 0, func(ctx context.Context, args []string) error {
			return c.app.Upgrade(ctx, args)
		}),
		mark("remove <selector>...", "Mark installed packages for removal", 1, func(ctx context.Context, args []string) error {
			return c.app.Remove(ctx, args)
		}),
		mark("keep <selector>...", "Unmark currently marked packages", 1, func(ctx context.Context, args []string) error {
			return c.app.Keep(ctx, args)
		}),
		mark("fix <selector>...", "Mark the changes needed for the relations of packages to hold", 1, func(ctx context.Context, args []string) error {
			return c.app.Fix(ctx, args)
		}),
	}
}
