package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

const (
	AppName  = "futile"
	FileName = "config.yml"
	EnvFile  = ".env"

	// DirEnv overrides the application directory.
	DirEnv = "FUTILE_CONFIG_DIR"
)

const placeholder = `# futile configuration
#
# tasks:
#   - source: ~/
#     archive_name: "{hostname}-{now:%Y-%m-%dT%H:%M:%S}"
#     exclude_patterns:
#       - ~/.cache
#       - "*.pyc"
#     retention:
#       hourly: 24
#       daily: 7
#       weekly: 4
#       monthly: 6
#       yearly: 1
#     repositories:
#       - url: ssh://user@backup.example.com/./borg
#         executable: borg1
#         extra_args:
#           compression: zstd,6
`

// DefaultDir returns the per-user application directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Setup creates the directory holding path and a placeholder config file
// if none exists. It reports whether the file was created.
func Setup(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(placeholder); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// LoadEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, EnvFile)
	if !Exists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &Error{Path: path, Err: err}
	}
	return nil
}

// Load reads and decodes the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	f, err := Parse(data, ext == ".json" || ext == ".jsonc")
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return f, nil
}

// Parse decodes a config document. With jsonc set, comments and trailing
// commas are stripped first.
func Parse(data []byte, jsonc bool) (*File, error) {
	if jsonc {
		v, err := hujson.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}
		v.Standardize()
		v.Minimize()
		data = v.Pack()
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
