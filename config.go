package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"nodeflow/internal/logging"
)

type Config struct {
	SaveDirectory string `toml:"save_directory"`
	Confirmations bool   `toml:"confirmations"`
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	SnapDebug     bool   `toml:"snap_debug"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		LogLevel:      "info",
	}
}

// configDir follows XDG: $XDG_CONFIG_HOME/nodeflow, else ~/.config/nodeflow.
func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nodeflow")
}

func defaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// loadConfig reads path, or the default location when path is empty. A
// missing file yields the defaults; a malformed one is an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return defaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	config.SaveDirectory = expandHome(config.SaveDirectory)
	if config.SaveDirectory != "" && !filepath.IsAbs(config.SaveDirectory) {
		if abs, err := filepath.Abs(config.SaveDirectory); err == nil {
			config.SaveDirectory = abs
		}
	}
	config.LogDir = expandHome(config.LogDir)
	return config, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GetSavePath places a bare file name in the save directory. Paths that
// already name a directory are used as given.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) || strings.ContainsRune(filename, filepath.Separator) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) logLevel() logging.Level {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}
