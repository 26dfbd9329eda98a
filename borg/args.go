package borg

import "strconv"

// ArchiveName joins a repository and an archive name into borg's
// "repository::archive" form.
func ArchiveName(repository, name string) string {
	return repository + "::" + name
}

type CreateOptions struct {
	Archive     string // repository::archive
	Source      string
	ExcludeFrom string
	RemotePath  string
	DryRun      bool
	// Progress asks borg for live progress and hands it the terminal.
	Progress bool
	Extra    []string
}

func CreateArgs(o CreateOptions) []string {
	args := []string{"create"}
	if o.DryRun {
		args = append(args, "--dry-run")
	}
	if o.Progress {
		args = append(args, "--progress")
	}
	args = append(args, "--exclude-from", o.ExcludeFrom, "--remote-path", o.RemotePath)
	args = append(args, o.Extra...)
	return append(args, o.Archive, o.Source)
}

// Retention is a prune policy with every bucket set.
type Retention struct {
	Hourly  int
	Daily   int
	Weekly  int
	Monthly int
	Yearly  int
}

type PruneOptions struct {
	Repository string
	RemotePath string
	Keep       Retention
	DryRun     bool
	// Stats adds --stats --list.
	Stats bool
}

func PruneArgs(o PruneOptions) []string {
	args := []string{"prune"}
	if o.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args,
		"--keep-hourly", strconv.Itoa(o.Keep.Hourly),
		"--keep-daily", strconv.Itoa(o.Keep.Daily),
		"--keep-weekly", strconv.Itoa(o.Keep.Weekly),
		"--keep-monthly", strconv.Itoa(o.Keep.Monthly),
		"--keep-yearly", strconv.Itoa(o.Keep.Yearly),
		"--remote-path", o.RemotePath,
	)
	if o.Stats {
		args = append(args, "--stats", "--list")
	}
	return append(args, o.Repository)
}

type InfoOptions struct {
	Repository string
	RemotePath string
}

func InfoArgs(o InfoOptions) []string {
	return []string{"info", "--remote-path", o.RemotePath, o.Repository}
}
