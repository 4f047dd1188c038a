package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/amonks/task-cli/internal/config"
	"github.com/amonks/task-cli/internal/logging"
	"github.com/amonks/task-cli/internal/paths"
	"github.com/amonks/task-cli/internal/sqlitestore"
	"github.com/amonks/task-cli/task"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// session is the resolved configuration and backend for one command.
type session struct {
	cfg     *config.Config
	path    string
	logger  *log.Logger
	tracker task.Tracker
	store   *task.Store
}

func (s *session) Close() error {
	return s.tracker.Close()
}

// loadConfig resolves config files and environment, then applies any flags
// set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(config.LoadOptions{WorkDir: cwd, ConfigPath: rootConfig})
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		if strings.TrimSpace(rootFile) == "" {
			return nil, "", fmt.Errorf("store file cannot be empty")
		}
		cfg.Store.File = rootFile
	}
	if flags.Changed("backend") {
		cfg.Store.Backend = strings.ToLower(strings.TrimSpace(rootBackend))
	}
	if flags.Changed("lock") {
		cfg.Store.Lock = rootLock
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(rootFormat))
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, paths.Resolve(cwd, cfg.StoreFile()), nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, rootVerbose)
	logger.Debug("resolved config", "file", path, "backend", cfg.Store.Backend, "lock", cfg.Store.Lock, "format", cfg.Output.Format)

	s := &session{cfg: cfg, path: path, logger: logger}
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := sqlitestore.Open(path, sqlitestore.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		s.tracker = db
	default:
		s.store = task.NewStore(path, task.StoreOptions{Lock: cfg.Store.Lock, Logger: logger})
		s.tracker = s.store
	}
	return s, nil
}

func parseTaskID(value string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return id, nil
}
