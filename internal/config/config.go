// Package config handles loading task-cli configuration.
//
// Settings are layered, later layers winning: built-in defaults, the global
// config file, the project task-cli.toml (or an explicit --config file), a
// .env file in the working directory, and process environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/amonks/task-cli/internal/paths"
	"github.com/amonks/task-cli/internal/validation"
	"github.com/joho/godotenv"
)

// ProjectFile is the name of the per-directory config file.
const ProjectFile = "task-cli.toml"

// Backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store files used when no file is configured.
const (
	DefaultJSONFile   = "tasks.json"
	DefaultSQLiteFile = "tasks.db"
)

// Output format names.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Environment variables that override config files.
const (
	EnvFile    = "TASK_CLI_FILE"
	EnvBackend = "TASK_CLI_BACKEND"
	EnvLock    = "TASK_CLI_LOCK"
	EnvFormat  = "TASK_CLI_FORMAT"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested config file is missing.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidBackend is returned for an unknown store backend.
	ErrInvalidBackend = errors.New("invalid backend")

	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("invalid format")
)

// Backends lists the accepted store backends.
func Backends() []string {
	return []string{BackendJSON, BackendSQLite}
}

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatTable}
}

// Config represents the task-cli configuration.
type Config struct {
	Store  Store  `toml:"store"`
	Output Output `toml:"output"`
}

// Store selects and configures the task backend.
type Store struct {
	// File is the backing file path, relative to the working directory.
	// Empty selects the default file for Backend.
	File string `toml:"file"`

	// Backend is "json" or "sqlite".
	Backend string `toml:"backend"`

	// Lock enables advisory locking around each operation.
	Lock bool `toml:"lock"`
}

// Output configures how results are printed.
type Output struct {
	// Format is "json", "yaml", or "table".
	Format string `toml:"format"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// WorkDir is where the project config and .env are looked up.
	WorkDir string

	// ConfigPath replaces the project config file when set.
	ConfigPath string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:  Store{Backend: BackendJSON},
		Output: Output{Format: FormatJSON},
	}
}

// Load resolves the layered configuration.
func Load(opts LoadOptions) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath, false)
	if err != nil {
		return nil, err
	}

	projectPath := filepath.Join(opts.WorkDir, ProjectFile)
	required := false
	if opts.ConfigPath != "" {
		projectPath = paths.Resolve(opts.WorkDir, opts.ConfigPath)
		required = true
	}
	projectCfg, projectMeta, err := loadConfigFile(projectPath, required)
	if err != nil {
		return nil, err
	}

	merged := Default()
	mergeInto(merged, globalCfg, globalMeta)
	mergeInto(merged, projectCfg, projectMeta)

	env, err := loadEnv(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(merged, env); err != nil {
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks that backend and format are known values.
func (c *Config) Validate() error {
	if !slices.Contains(Backends(), c.Store.Backend) {
		return validation.InvalidValue(ErrInvalidBackend, c.Store.Backend, Backends())
	}
	if !slices.Contains(Formats(), c.Output.Format) {
		return validation.InvalidValue(ErrInvalidFormat, c.Output.Format, Formats())
	}
	if c.Store.File != "" && strings.TrimSpace(c.Store.File) == "" {
		return fmt.Errorf("store file cannot be empty")
	}
	return nil
}

// StoreFile returns the configured store file, or the backend's default
// when none is set.
func (c *Config) StoreFile() string {
	if file := strings.TrimSpace(c.Store.File); file != "" {
		return file
	}
	if c.Store.Backend == BackendSQLite {
		return DefaultSQLiteFile
	}
	return DefaultJSONFile
}

func loadConfigFile(path string, required bool) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if required {
			return nil, toml.MetaData{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

// mergeInto copies every key defined in layer onto dst.
func mergeInto(dst, layer *Config, meta toml.MetaData) {
	if meta.IsDefined("store", "file") {
		dst.Store.File = layer.Store.File
	}
	if meta.IsDefined("store", "backend") {
		dst.Store.Backend = normalizeName(layer.Store.Backend)
	}
	if meta.IsDefined("store", "lock") {
		dst.Store.Lock = layer.Store.Lock
	}
	if meta.IsDefined("output", "format") {
		dst.Output.Format = normalizeName(layer.Output.Format)
	}
}

// loadEnv returns the .env values overlaid with the non-blank process
// environment. A variable exported as "" does not hide the .env value.
func loadEnv(workDir string) (map[string]string, error) {
	env := map[string]string{}

	dotenvPath := filepath.Join(workDir, ".env")
	if _, err := os.Stat(dotenvPath); err == nil {
		values, err := godotenv.Read(dotenvPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		env = values
	}

	for _, key := range []string{EnvFile, EnvBackend, EnvLock, EnvFormat} {
		if value := os.Getenv(key); strings.TrimSpace(value) != "" {
			env[key] = value
		}
	}
	return env, nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	if value := strings.TrimSpace(env[EnvFile]); value != "" {
		cfg.Store.File = value
	}
	if value := env[EnvBackend]; value != "" {
		cfg.Store.Backend = normalizeName(value)
	}
	if value := strings.TrimSpace(env[EnvLock]); value != "" {
		lock, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvLock, err)
		}
		cfg.Store.Lock = lock
	}
	if value := env[EnvFormat]; value != "" {
		cfg.Output.Format = normalizeName(value)
	}
	return nil
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
