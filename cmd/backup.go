package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/futile/cli/borg"
	"github.com/futile/cli/config"
	"github.com/futile/cli/logger"
	"github.com/futile/cli/runner"
	"github.com/futile/cli/ui"
	"github.com/spf13/cobra"
)

var (
	dryRun   bool
	create   bool
	noCreate bool
	prune    bool
	noPrune  bool
	info     bool
	noInfo   bool
	progress bool
)

// newExecutor is swapped out in tests.
var newExecutor = func(binary string, c Config) borg.Executor {
	e := borg.NewExecutor(binary, c.Logger)
	e.Trace = c.Verbosity >= logger.TraceVerbosity
	return e
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, prune and inspect archives for every configured task",
	Long: heredoc.Doc(`
		For each task, in order, and each of its repositories, in order:
		create a new archive, prune old archives by the task's retention
		policy, and print repository info. The first borg failure stops
		the run.
	`),
	Example: heredoc.Doc(`
		futile backup
		futile backup --dry-run -v
		futile backup --no-prune --no-info --progress
	`),
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().BoolVarP(&dryRun, "dry-run", "s", false, "pass --dry-run to borg create and prune")
	backupCmd.Flags().BoolVar(&create, "create", true, "create a new archive")
	backupCmd.Flags().BoolVar(&noCreate, "no-create", false, "skip archive creation")
	backupCmd.Flags().BoolVar(&prune, "prune", true, "prune old archives")
	backupCmd.Flags().BoolVar(&noPrune, "no-prune", false, "skip pruning")
	backupCmd.Flags().BoolVar(&info, "info", true, "show repository info")
	backupCmd.Flags().BoolVar(&noInfo, "no-info", false, "skip repository info")
	backupCmd.Flags().BoolVar(&progress, "progress", false, "show live borg progress when attached to a terminal")
}

func runBackup(cmd *cobra.Command, args []string) error {
	start := time.Now()

	c, err := newConfig()
	if err != nil {
		return err
	}

	// First run: nothing to back up yet
	if !config.Exists(c.ConfigFile) {
		ui.WarnMsg(fmt.Sprintf("No config at %s", c.ConfigFile))
		return setup(c)
	}

	if err := config.LoadEnv(c.AppDir); err != nil {
		ui.ErrorMsg("Failed to load environment file", nil)
		return err
	}

	file, err := config.Load(c.ConfigFile)
	if err != nil {
		ui.ErrorMsg("Failed to load config", nil, "Check the YAML syntax of "+c.ConfigFile)
		return err
	}
	if file.Tasks == nil {
		ui.ErrorMsg("Nothing to do", nil, "Add a top-level tasks list to "+c.ConfigFile)
		return &config.Error{Path: c.ConfigFile, Err: config.ErrNoTasks}
	}

	opts := runner.Options{
		DryRun:      dryRun,
		Create:      create && !noCreate,
		Prune:       prune && !noPrune,
		Info:        info && !noInfo,
		Progress:    progress,
		Interactive: ui.IsTTY(),
		Verbosity:   c.Verbosity,
		Logger:      c.Logger,
		Out:         cmd.OutOrStdout(),
	}
	if opts.DryRun {
		ui.Println(ui.Bold.Render("Dry run mode - borg will not modify any repository"))
	}

	r := runner.New(newExecutor(file.Binary(), c), opts)
	summary, err := r.Run(cmd.Context(), file.Tasks)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = c.ConfigFile
			ui.ErrorMsg("Invalid task configuration", nil)
		} else {
			ui.ErrorMsg("Backup failed", nil, "Run with -vvv to see every borg invocation")
		}
		return err
	}

	ui.Println()
	ui.SuccessMsg(fmt.Sprintf("Backup complete: %s, %s (%s)",
		ui.Plural(summary.Tasks, "task", "tasks"),
		ui.Plural(summary.Repositories, "repository", "repositories"),
		ui.FormatDuration(time.Since(start))))
	return nil
}
