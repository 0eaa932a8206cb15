package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file searched for in the working directory and the
// user config directory.
const FileName = ".testreport.yaml"

// ErrConfigFile is returned when an explicitly named config file cannot be
// loaded, or when a discovered file is not valid YAML.
var ErrConfigFile = errors.New("config file")

// FileConfig represents the contents of .testreport.yaml.
type FileConfig struct {
	LogLevel string   `yaml:"log_level"`
	Signals  []string `yaml:"signals"`
	Summary  *bool    `yaml:"summary"`
	Theme    string   `yaml:"theme"`
	Validate *bool    `yaml:"validate"`
}

// LoadFile reads the config file at path. When path is empty the file is
// discovered; finding none yields an empty config and an empty source path.
func LoadFile(path string) (*FileConfig, string, error) {
	explicit := path != ""
	if !explicit {
		path = findConfigPath()
		if path == "" {
			return &FileConfig{}, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfigFile, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrConfigFile, path, err)
	}
	return &fc, path, nil
}

// findConfigPath checks the working directory first, then the XDG user
// config directory.
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "testreport", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
