package runner

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPattern(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("BACKUP_ROOT", "/srv")
	t.Setenv("EMPTY_VAR", "")
	t.Setenv("TILDE_DIR", "~/cache")
	os.Unsetenv("FUTILE_UNSET_VAR")

	tests := []struct {
		in   string
		want string
	}{
		{"/plain/path", "/plain/path"},
		{"~", "/home/tester"},
		{"~/", "/home/tester/"},
		{"~/docs", "/home/tester/docs"},
		{"~/docs/", "/home/tester/docs/"},
		{"$BACKUP_ROOT/data", "/srv/data"},
		{"${BACKUP_ROOT}/data", "/srv/data"},
		{"$BACKUP_ROOT$BACKUP_ROOT", "/srv/srv"},
		{"/x/$EMPTY_VAR/y", "/x//y"},
		{"$FUTILE_UNSET_VAR/x", "$FUTILE_UNSET_VAR/x"},
		{"/data/${FUTILE_UNSET_VAR}/x", "/data/${FUTILE_UNSET_VAR}/x"},
		{"$TILDE_DIR/*", "/home/tester/cache/*"},
		{"*.pyc", "*.pyc"},
		{"sh:~/.cache/*", "sh:~/.cache/*"},
		{`re:^/tmp/.*\.log`, `re:^/tmp/.*\.log`},
		{`re:C:\\Users`, `re:C:\\Users`},
		{`re:\$BACKUP_ROOT`, `re:\/srv`},
		{"/data/`date`", "/data/`date`"},
		{"/data/$(date)", "/data/$(date)"},
		{"/data/${UNCLOSED", "/data/${UNCLOSED"},
		{"/data/${}", "/data/${}"},
		{"re:^/x$", "re:^/x$"},
		{"/data/$1", "/data/$1"},
		{`"quoted" 'single'`, `"quoted" 'single'`},
		{"~futile-no-such-user/x", "~futile-no-such-user/x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPattern(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandSource(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("DATA", "/srv/data")
	t.Setenv("TILDE_DIR", "~/cache")
	os.Unsetenv("FUTILE_UNSET_VAR")

	tests := []struct {
		in   string
		want string
	}{
		{"~/docs", "/home/tester/docs"},
		{"$DATA/photos", "/srv/data/photos"},
		{"/data/$FUTILE_UNSET_VAR/x", "/data/$FUTILE_UNSET_VAR/x"},
		// home is resolved before variables, so a ~ from a variable stays
		{"$TILDE_DIR", "~/cache"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandSource(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidPattern(t *testing.T) {
	assert.True(t, validPattern("/home/*/.cache"))
	assert.True(t, validPattern("**/*.pyc"))
	assert.True(t, validPattern("sh:/home/**/node_modules"))
	assert.True(t, validPattern("re:[unterminated"))
	assert.True(t, validPattern("pp:/home/user/tmp"))
	assert.False(t, validPattern("/home/[abc"))
	assert.False(t, validPattern("fm:/data/{a,b"))
}

func TestWriteExcludeFile(t *testing.T) {
	dir := t.TempDir()

	ex, err := writeExcludeFile(dir, []string{"/a", "/b/*"})
	require.NoError(t, err)

	data, err := os.ReadFile(ex.Path())
	require.NoError(t, err)
	assert.Equal(t, "/a\n/b/*", string(data))

	require.NoError(t, ex.Close())
	assert.NoFileExists(t, ex.Path())
	require.NoError(t, ex.Close())
}

func TestWriteExcludeFileBadDir(t *testing.T) {
	_, err := writeExcludeFile("/futile/does/not/exist", nil)
	require.Error(t, err)
}
