// Package commands implements the CLI commands for depot.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/depot/internal/app"
	"go.trai.ch/depot/internal/build"
)

// CLI represents the command line interface for depot.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(s app.Settings)

	Install(ctx context.Context, selectors []string) error
	Reinstall(ctx context.Context, selectors []string) error
	Upgrade(ctx context.Context, selectors []string) error
	Remove(ctx context.Context, selectors []string) error
	Keep(ctx context.Context, selectors []string) error
	Fix(ctx context.Context, selectors []string) error

	Status(ctx context.Context) error
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
	Clear(ctx context.Context) error
	Commit(ctx context.Context) error

	Ls(ctx context.Context, selectors []string, opts app.ListOptions) error
	Info(ctx context.Context, selector string) error
	Search(ctx context.Context, terms []string) error
	Update(ctx context.Context, aliases []string) error
	Check(ctx context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "depot",
		Short:         "Plan package installs, upgrades and removals across repository channels",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Use this configuration file instead of searching for depot.yaml")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		configFile, _ := cmd.Flags().GetString("config")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		c.app.Configure(app.Settings{ConfigFile: configFile, LogJSON: logJSON, Verbose: verbose})
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: groupMark, Title: "Marking Commands:"},
		&cobra.Group{ID: groupSession, Title: "Session Commands:"},
		&cobra.Group{ID: groupQuery, Title: "Query Commands:"},
	)
	rootCmd.AddCommand(c.newMarkCmds()...)
	rootCmd.AddCommand(c.newSessionCmds()...)
	rootCmd.AddCommand(c.newQueryCmds()...)
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

const (
	groupMark    = "mark"
	groupSession = "session"
	groupQuery   = "query"
)

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
