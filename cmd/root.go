package cmd

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity  int
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "futile",
	Short: "Run borg backups from a YAML task list",
	Long: heredoc.Doc(`
		futile reads a list of backup tasks from its config file and drives borg
		to create archives, prune old ones by retention policy, and report
		repository info.

		Run without a subcommand to create the config directory and a
		placeholder config file.
	`),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConfig()
		if err != nil {
			return err
		}
		return setup(c)
	},
}

func Execute(ctx context.Context) {
	err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(version+" ("+date+")"),
		fang.WithCommit(commit),
	)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeat up to -vvv)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: <user config dir>/futile/config.yml)")
}
