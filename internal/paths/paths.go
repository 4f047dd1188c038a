// Package paths resolves the filesystem locations task-cli reads from.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// WorkingDir returns the process working directory.
func WorkingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// GlobalConfigPath returns the per-user config file path. XDG_CONFIG_HOME
// takes precedence over ~/.config.
func GlobalConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "task-cli", "config.toml"), nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "task-cli", "config.toml"), nil
}

// Resolve returns path unchanged when absolute, otherwise joined to base.
func Resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
