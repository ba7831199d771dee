package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/depot/internal/app"
)

func (c *CLI) newQueryCmds() []*cobra.Command {
	return []*cobra.Command{c.newLsCmd(), c.newInfoCmd(), c.newSearchCmd(), c.newUpdateCmd(), c.newCheckCmd()}
}

func (c *CLI) newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls [selector...]",
		Short:   "List packages by name",
		GroupID: groupQuery,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			installed, _ := cmd.Flags().GetBool("installed")
			onlyNew, _ := cmd.Flags().GetBool("new")
			versions, _ := cmd.Flags().GetBool("versions")
			summary, _ := cmd.Flags().GetBool("summary")
			channels, _ := cmd.Flags().GetBool("channels")
			return c.app.Ls(cmd.Context(), args, app.ListOptions{
				Installed: installed,
				New:       onlyNew,
				Versions:  versions,
				Summary:   summary,
				Channels:  channels,
			})
		},
	}
	cmd.Flags().BoolP("installed", "i", false, "List only installed packages")
	cmd.Flags().BoolP("new", "n", false, "List only packages new since the previous update")
	cmd.Flags().BoolP("versions", "v", false, "Show versions")
	cmd.Flags().BoolP("summary", "s", false, "Show summaries")
	cmd.Flags().Bool("channels", false, "Show the channels providing each package")
	return cmd
}

func (c *CLI) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info <selector>",
		Short:   "Show package details",
		GroupID: groupQuery,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Info(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <term...>",
		Short:   "Search package names, summaries and descriptions",
		GroupID: groupQuery,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Search(cmd.Context(), args)
		},
	}
}

func (c *CLI) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update [alias...]",
		Short:   "Load channels and report new packages",
		GroupID: groupQuery,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Update(cmd.Context(), args)
		},
	}
}

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   "Verify that the relations of installed packages hold",
		GroupID: groupQuery,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Check(cmd.Context())
		},
	}
}
