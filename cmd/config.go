package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/futile/cli/config"
	"github.com/futile/cli/logger"
)

// Config is built once per invocation from the global flags and handed
// down explicitly.
type Config struct {
	AppDir     string
	ConfigFile string
	Verbosity  int
	Logger     *slog.Logger
}

func newConfig() (Config, error) {
	v := logger.Clamp(verbosity)
	c := Config{
		Verbosity: v,
		Logger:    logger.New(v, os.Stderr),
	}

	if configPath != "" {
		c.ConfigFile = configPath
		c.AppDir = filepath.Dir(configPath)
	} else {
		dir, err := config.DefaultDir()
		if err != nil {
			return Config{}, err
		}
		c.AppDir = dir
		c.ConfigFile = filepath.Join(dir, config.FileName)
	}

	c.Logger.Debug("App dir", "dir", c.AppDir, "config", c.ConfigFile)
	return c, nil
}
