package runner

import (
	"fmt"
	"os"
	"strings"
)

// excludeFile is a temporary --exclude-from file for one task.
type excludeFile struct {
	path string
}

// writeExcludeFile writes patterns, newline separated, into a new file in
// dir (os.TempDir when empty). The caller must Close it.
func writeExcludeFile(dir string, patterns []string) (*excludeFile, error) {
	f, err := os.CreateTemp(dir, "futile-exclude-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create exclude file: %w", err)
	}
	ex := &excludeFile{path: f.Name()}

	if _, err := f.WriteString(strings.Join(patterns, "\n")); err != nil {
		f.Close()
		ex.Close()
		return nil, fmt.Errorf("failed to write exclude file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		ex.Close()
		return nil, fmt.Errorf("failed to flush exclude file: %w", err)
	}
	if err := f.Close(); err != nil {
		ex.Close()
		return nil, fmt.Errorf("failed to close exclude file: %w", err)
	}

	return ex, nil
}

func (e *excludeFile) Path() string {
	return e.path
}

// Close removes the file. It is safe to call more than once.
func (e *excludeFile) Close() error {
	err := os.Remove(e.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
