package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	// AccessLog writes one ACCESS line per served icon.
	AccessLog bool `yaml:"access_log"`
}

// fileConfig is the top-level shape of logging.yaml
type fileConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/spelunkicons.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
		AccessLog:      true,
	}
}

// LoadConfig reads the logging block of a YAML file over the defaults, then
// applies LOG_* environment overrides. A missing file is not an error.
func LoadConfig(configPath string) (Config, error) {
	parsed := fileConfig{Logging: DefaultConfig()}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return DefaultConfig(), fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	config := parsed.Logging
	applyEnv(&config)
	return config, nil
}

func applyEnv(config *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Level = v
	}
	if v := os.Getenv("LOG_CONSOLE_FORMAT"); v != "" {
		config.ConsoleFormat = v
	}
	if v := os.Getenv("LOG_FILE_FORMAT"); v != "" {
		config.FileFormat = v
	}
	if v := os.Getenv("LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.FileEnabled = enabled
		}
	}
	if v := os.Getenv("LOG_FILE_PATH"); v != "" {
		config.FilePath = v
	}
	if v := os.Getenv("LOG_ACCESS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.AccessLog = enabled
		}
	}
}
