// Package runner executes the configured backup tasks, one repository at a
// time, in declaration order. The first failure stops the whole pass.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/futile/cli/borg"
	"github.com/futile/cli/config"
	"github.com/futile/cli/logger"
	"github.com/futile/cli/ui"
)

// SpinnerFunc wraps a blocking action with progress feedback.
type SpinnerFunc func(ctx context.Context, title string, action ui.SpinnerAction) error

// Options controls one backup pass.
type Options struct {
	DryRun   bool
	Create   bool
	Prune    bool
	Info     bool
	Progress bool

	// Interactive reports whether stdout is a terminal. Live progress
	// is only used when it is.
	Interactive bool
	Verbosity   int

	Logger  *slog.Logger
	Out     io.Writer // prune and info output
	TempDir string    // exclude files, os.TempDir when empty
	Spinner SpinnerFunc
}

// Summary counts what a pass got through.
type Summary struct {
	Tasks        int
	Repositories int
}

type Runner struct {
	client *borg.Client
	opts   Options
	log    *slog.Logger
}

func New(exec borg.Executor, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Spinner == nil {
		opts.Spinner = ui.RunWithSpinner
	}

	return &Runner{
		client: borg.NewClient(exec),
		opts:   opts,
		log:    opts.Logger,
	}
}

// Run processes every task. The returned Summary covers the work finished
// before any error.
func (r *Runner) Run(ctx context.Context, tasks []config.Task) (Summary, error) {
	var sum Summary
	r.log.Info("Handling tasks", "count", len(tasks))

	for i, task := range tasks {
		n, err := r.runTask(ctx, i, len(tasks), task)
		sum.Repositories += n
		if err != nil {
			return sum, err
		}
		sum.Tasks++
	}
	return sum, nil
}

func (r *Runner) runTask(ctx context.Context, i, total int, task config.Task) (int, error) {
	if task.Source == "" {
		return 0, config.MissingField(i, "source")
	}
	if task.ArchiveName == "" {
		return 0, config.MissingField(i, "archive_name")
	}
	if task.Repositories == nil {
		return 0, config.MissingField(i, "repositories")
	}

	log := r.log.With("task", task.Label(i))

	source, err := ExpandSource(task.Source)
	if err != nil {
		return 0, &config.Error{Field: fmt.Sprintf("tasks[%d].source", i), Err: err}
	}
	log.Info("Source", "path", source)
	ui.Step(i+1, total, "Backing up "+ui.Primary.Render(source))

	patterns := make([]string, 0, len(task.ExcludePatterns))
	for j, p := range task.ExcludePatterns {
		expanded, err := ExpandPattern(p)
		if err != nil {
			return 0, &config.Error{Field: fmt.Sprintf("tasks[%d].exclude_patterns[%d]", i, j), Err: err}
		}
		if !validPattern(expanded) {
			log.Warn("Exclude pattern is not a valid glob", "pattern", expanded)
		}
		patterns = append(patterns, expanded)
	}

	excludes, err := writeExcludeFile(r.opts.TempDir, patterns)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := excludes.Close(); err != nil {
			log.Warn("Failed to remove exclude file", "file", excludes.Path(), "error", err)
		}
	}()
	log.Debug("Wrote exclude patterns", "count", len(patterns), "file", excludes.Path())

	if len(task.Repositories) == 0 {
		log.Warn("Task has no repositories")
	}

	done := 0
	for j, repo := range task.Repositories {
		if repo.URL == "" {
			return done, config.MissingField(i, fmt.Sprintf("repositories[%d].url", j))
		}

		target := target{
			task:        i,
			archiveName: task.ArchiveName,
			retention:   task.Retention,
			source:      source,
			excludeFrom: excludes.Path(),
			repo:        repo,
		}
		if err := r.runRepository(ctx, log.With("repo", repo.URL), target); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// target is one task/repository pair.
type target struct {
	task        int
	archiveName string
	retention   *config.Retention
	source      string
	excludeFrom string
	repo        config.Repository
}

func (r *Runner) runRepository(ctx context.Context, log *slog.Logger, t target) error {
	archive := borg.ArchiveName(t.repo.URL, t.archiveName)
	log.Info("Destination", "archive", archive)
	ui.Detail(archive)

	if r.opts.Create {
		if err := r.create(ctx, log, t, archive); err != nil {
			return err
		}
	}
	if r.opts.Prune {
		if err := r.prune(ctx, log, t); err != nil {
			return err
		}
	}
	if r.opts.Info {
		if err := r.info(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) create(ctx context.Context, log *slog.Logger, t target, archive string) error {
	progress := r.opts.Progress && r.opts.Interactive
	opts := borg.CreateOptions{
		Archive:     archive,
		Source:      t.source,
		ExcludeFrom: t.excludeFrom,
		RemotePath:  t.repo.RemotePath(),
		DryRun:      r.opts.DryRun,
		Progress:    progress,
		Extra:       t.repo.ExtraArgs.Argv(),
	}

	log.Info("Creating archive...")
	action := func() error {
		return r.client.Create(ctx, opts)
	}

	var err error
	if progress {
		err = action()
	} else {
		err = r.opts.Spinner(ctx, "Creating archive", action)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", archive, err)
	}

	log.Info("Archive created")
	return nil
}

func (r *Runner) prune(ctx context.Context, log *slog.Logger, t target) error {
	ret := t.retention
	if ret == nil {
		return config.MissingField(t.task, "retention")
	}
	if missing := ret.Missing(); missing != "" {
		return config.MissingField(t.task, "retention."+missing)
	}
	log.Info("Pruning", "retention", ret.String())

	opts := borg.PruneOptions{
		Repository: t.repo.URL,
		RemotePath: t.repo.RemotePath(),
		Keep: borg.Retention{
			Hourly:  *ret.Hourly,
			Daily:   *ret.Daily,
			Weekly:  *ret.Weekly,
			Monthly: *ret.Monthly,
			Yearly:  *ret.Yearly,
		},
		DryRun: r.opts.DryRun,
		Stats:  r.opts.Verbosity >= 1,
	}

	var output string
	err := r.opts.Spinner(ctx, "Pruning archives at "+t.repo.URL, func() error {
		var pruneErr error
		output, pruneErr = r.client.Prune(ctx, opts)
		return pruneErr
	})
	if err != nil {
		return fmt.Errorf("prune %s: %w", t.repo.URL, err)
	}

	fmt.Fprint(r.opts.Out, ui.Block(output))
	return nil
}

func (r *Runner) info(ctx context.Context, t target) error {
	opts := borg.InfoOptions{
		Repository: t.repo.URL,
		RemotePath: t.repo.RemotePath(),
	}

	var output string
	err := r.opts.Spinner(ctx, "Getting info on "+t.repo.URL, func() error {
		var infoErr error
		output, infoErr = r.client.Info(ctx, opts)
		return infoErr
	})
	if err != nil {
		return fmt.Errorf("info %s: %w", t.repo.URL, err)
	}

	fmt.Fprint(r.opts.Out, ui.Block(output))
	return nil
}
