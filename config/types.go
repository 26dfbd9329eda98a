package config

import (
	"fmt"
	"strings"
)

// DefaultExecutable is the borg binary used locally and, unless a
// repository says otherwise, on the remote end.
const DefaultExecutable = "borg"

// File is the decoded config document.
type File struct {
	// Borg overrides the local borg binary.
	Borg  string `yaml:"borg,omitempty"`
	Tasks []Task `yaml:"tasks"`
}

// Binary returns the local borg binary to execute.
func (f *File) Binary() string {
	if f.Borg == "" {
		return DefaultExecutable
	}
	return f.Borg
}

type Task struct {
	Name            string       `yaml:"name,omitempty"`
	Source          string       `yaml:"source"`
	ArchiveName     string       `yaml:"archive_name"`
	ExcludePatterns []string     `yaml:"exclude_patterns"`
	Retention       *Retention   `yaml:"retention"`
	Repositories    []Repository `yaml:"repositories"`
}

// Label names the task in logs: its name when set, else its position.
func (t Task) Label(index int) string {
	if t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("tasks[%d]", index)
}

// Retention holds the keep counts per time bucket. A nil count means the
// key was absent from the document.
type Retention struct {
	Hourly  *int `yaml:"hourly"`
	Daily   *int `yaml:"daily"`
	Weekly  *int `yaml:"weekly"`
	Monthly *int `yaml:"monthly"`
	Yearly  *int `yaml:"yearly"`
}

func (r *Retention) buckets() []struct {
	name  string
	count *int
} {
	return []struct {
		name  string
		count *int
	}{
		{"hourly", r.Hourly},
		{"daily", r.Daily},
		{"weekly", r.Weekly},
		{"monthly", r.Monthly},
		{"yearly", r.Yearly},
	}
}

// Missing returns the first bucket without a count, or "" if all are set.
func (r *Retention) Missing() string {
	for _, b := range r.buckets() {
		if b.count == nil {
			return b.name
		}
	}
	return ""
}

// String renders the policy as "hourly: 24, daily: 7, ...", skipping unset buckets.
func (r *Retention) String() string {
	parts := make([]string, 0, 5)
	for _, b := range r.buckets() {
		if b.count != nil {
			parts = append(parts, fmt.Sprintf("%s: %d", b.name, *b.count))
		}
	}
	return strings.Join(parts, ", ")
}

type Repository struct {
	URL string `yaml:"url"`
	// Executable is passed to borg as --remote-path.
	Executable string    `yaml:"executable,omitempty"`
	ExtraArgs  ExtraArgs `yaml:"extra_args,omitempty"`
}

// RemotePath returns the borg executable name on the repository host.
func (r Repository) RemotePath() string {
	if r.Executable == "" {
		return DefaultExecutable
	}
	return r.Executable
}
