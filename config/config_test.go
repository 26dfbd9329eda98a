package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
borg: /usr/local/bin/borg
tasks:
  - name: home
    source: ~/
    archive_name: "{hostname}-{now}"
    exclude_patterns:
      - ~/.cache
      - "*.pyc"
    retention:
      hourly: 24
      daily: 7
      weekly: 4
      monthly: 6
      yearly: 1
    repositories:
      - url: /mnt/backup/borg
      - url: ssh://host/./borg
        executable: borg1
        extra_args:
          compression: zstd,6
          one_file_system: true
          x: false
          e: [a, b]
          unused: null
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	f, err := Load(writeFile(t, "config.yml", sample))
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/borg", f.Binary())
	require.Len(t, f.Tasks, 1)

	task := f.Tasks[0]
	assert.Equal(t, "home", task.Label(0))
	assert.Equal(t, "~/", task.Source)
	assert.Equal(t, "{hostname}-{now}", task.ArchiveName)
	assert.Equal(t, []string{"~/.cache", "*.pyc"}, task.ExcludePatterns)
	require.NotNil(t, task.Retention)
	assert.Empty(t, task.Retention.Missing())
	assert.Equal(t, "hourly: 24, daily: 7, weekly: 4, monthly: 6, yearly: 1", task.Retention.String())

	require.Len(t, task.Repositories, 2)
	assert.Equal(t, "borg", task.Repositories[0].RemotePath())
	assert.Empty(t, task.Repositories[0].ExtraArgs.Argv())

	repo := task.Repositories[1]
	assert.Equal(t, "borg1", repo.RemotePath())
	assert.Equal(t,
		[]string{"--compression=zstd,6", "--one-file-system", "-e", "a", "-e", "b"},
		repo.ExtraArgs.Argv())
}

func TestLoadJSONC(t *testing.T) {
	doc := `{
		// comments are fine
		"tasks": [
			{
				"source": "/data",
				"archive_name": "data",
				"repositories": [{"url": "/repo", "extra_args": {"stats": true,}}],
			},
		],
	}`

	f, err := Load(writeFile(t, "config.jsonc", doc))
	require.NoError(t, err)
	require.Len(t, f.Tasks, 1)
	assert.Equal(t, "borg", f.Binary())
	assert.Equal(t, []string{"--stats"}, f.Tasks[0].Repositories[0].ExtraArgs.Argv())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "config.yml", "tasks: [unclosed"))

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Path, "config.yml")
}

func TestLoadBadExtraArgs(t *testing.T) {
	doc := `
tasks:
  - repositories:
      - url: /repo
        extra_args: [not, a, mapping]
`
	_, err := Load(writeFile(t, "config.yml", doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra_args must be a mapping")
}

func TestLoadExtraArgsLegacyBooleans(t *testing.T) {
	file, err := Parse([]byte(`
tasks:
  - repositories:
      - url: /repo
        extra_args:
          one_file_system: yes
          stats: Off
          comment: "yes"
          tag: !!str on
`), false)
	require.NoError(t, err)

	args := file.Tasks[0].Repositories[0].ExtraArgs
	assert.Equal(t, []string{"--one-file-system", "--comment=yes", "--tag=on"}, args.Argv())
}

func TestLoadPlaceholderHasNoTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "futile", FileName)
	created, err := Setup(path)
	require.NoError(t, err)
	require.True(t, created)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, f.Tasks)
}

func TestSetup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	path := filepath.Join(dir, FileName)

	created, err := Setup(path)
	require.NoError(t, err)
	assert.True(t, created)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// existing files are left alone
	require.NoError(t, os.WriteFile(path, []byte("tasks: []\n"), 0o600))
	created, err = Setup(path)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tasks: []\n", string(data))
}

func TestDefaultDir(t *testing.T) {
	t.Setenv(DirEnv, "/custom/dir")
	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/dir", dir)

	t.Setenv(DirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/someone")
	dir, err = DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, AppName, filepath.Base(dir))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile),
		[]byte("FUTILE_TEST_NEW=from-file\nFUTILE_TEST_SET=from-file\n"), 0o600))

	t.Setenv("FUTILE_TEST_SET", "from-env")
	t.Setenv("FUTILE_TEST_NEW", "")
	os.Unsetenv("FUTILE_TEST_NEW")

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("FUTILE_TEST_NEW"))
	assert.Equal(t, "from-env", os.Getenv("FUTILE_TEST_SET"))
}

func TestRetentionMissing(t *testing.T) {
	n := 3
	r := &Retention{Hourly: &n, Daily: &n}
	assert.Equal(t, "weekly", r.Missing())
	assert.Equal(t, "hourly: 3, daily: 3", r.String())
}

func TestArgArgv(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		arg  Arg
		want []string
	}{
		{"long value", Arg{Name: "compression", Values: []string{"lz4"}}, []string{"--compression=lz4"}},
		{"short value", Arg{Name: "e", Values: []string{"*.tmp"}}, []string{"-e", "*.tmp"}},
		{"underscores", Arg{Name: "one_file_system", Switch: &yes}, []string{"--one-file-system"}},
		{"false switch", Arg{Name: "stats", Switch: &no}, nil},
		{"leading dashes", Arg{Name: "--checkpoint-interval", Values: []string{"600"}}, []string{"--checkpoint-interval=600"}},
		{"empty name", Arg{Name: "--", Values: []string{"x"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.arg.Argv()
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := MissingField(2, "retention.daily")
	assert.Equal(t, "config: tasks[2].retention.daily: required field is missing", err.Error())
	assert.ErrorIs(t, err, ErrMissingField)

	err.Path = "/etc/futile.yml"
	assert.Equal(t, "config /etc/futile.yml: tasks[2].retention.daily: required field is missing", err.Error())

	assert.Equal(t, "config: no tasks configured", (&Error{Err: ErrNoTasks}).Error())
}
