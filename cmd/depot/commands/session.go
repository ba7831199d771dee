package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func (c *CLI) newSessionCmds() []*cobra.Command {
	session := func(use, short string, run func(context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:     use,
			Short:   short,
			GroupID: groupSession,
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context())
			},
		}
	}

	return []*cobra.Command{
		session("status", "Show currently marked changes", c.app.Status),
		session("undo", "Revert the last marked change", c.app.Undo),
		session("redo", "Reapply the last undone change", c.app.Redo),
		session("clear", "Unmark every marked change", c.app.Clear),
		session("commit", "Write the marked changes as a plan and start a new session", c.app.Commit),
	}
}
