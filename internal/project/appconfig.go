package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/envelope/internal/model"
)

// HomeEnv overrides the directory holding the config file and the scenario
// library.
const HomeEnv = "ENVELOPE_HOME"

const (
	configFileName  = "config.json"
	libraryFileName = "scenarios.json"
)

// DefaultConfigDir returns $ENVELOPE_HOME, or ~/.envelope when unset.
func DefaultConfigDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".envelope")
}

// DefaultConfigPath returns the config file inside DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), configFileName)
}

// LibraryPathFor returns the scenario library that belongs to a config
// file: scenarios.json in the same directory. An empty configPath gives the
// default library.
func LibraryPathFor(configPath string) string {
	if configPath == "" {
		return DefaultLibraryPath()
	}
	return filepath.Join(filepath.Dir(configPath), libraryFileName)
}

// ValidateAppConfig rejects settings a session or server cannot start from.
func ValidateAppConfig(cfg model.AppConfig) error {
	var errs []error
	if !cfg.Defaults.IsFinite() {
		errs = append(errs, errors.New("default parameters must be finite numbers"))
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("server_port %d out of range 1-65535", cfg.ServerPort))
	}
	return errors.Join(errs...)
}

// SaveAppConfig validates config and writes it to path as indented JSON,
// creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := ValidateAppConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads the config at path. A missing file gives
// DefaultAppConfig; fields absent from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := ValidateAppConfig(config); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return config, nil
}
