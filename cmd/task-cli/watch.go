package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/amonks/task-cli/internal/ui"
	"github.com/amonks/task-cli/internal/watcher"
	"github.com/amonks/task-cli/task"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [status]",
	Short: "List tasks and refresh whenever the task file changes",
	Args:  cobra.ArbitraryArgs,
	RunE:  runWatch,
}

var watchDebounce time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Delay after the last change before refreshing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	filter, err := parseStatusFilter(args)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// List once so the file exists before it is watched.
	view := &watchView{
		out:     cmd.OutOrStdout(),
		tracker: s.tracker,
		filter:  filter,
		clear:   ui.IsTerminal(),
	}
	if err := view.refresh(); err != nil {
		return err
	}

	w, err := watcher.New(s.path, watchDebounce, func() {
		if err := view.refresh(); err != nil {
			s.logger.Warn("refresh failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Debug("watching", "path", s.path)
	w.Run(ctx, func(err error) {
		s.logger.Warn("watch error", "err", err)
	})
	return nil
}

// watchView prints the current task table. Refreshes may come from the
// debounce timer goroutine.
type watchView struct {
	mu      sync.Mutex
	out     io.Writer
	tracker task.Tracker
	filter  *task.Status
	clear   bool
}

func (v *watchView) refresh() error {
	tasks, err := v.tracker.List(v.filter)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.clear {
		fmt.Fprint(v.out, "\x1b[H\x1b[2J")
	}
	if len(tasks) == 0 {
		_, err = fmt.Fprintln(v.out, "No tasks found.")
		return err
	}
	_, err = io.WriteString(v.out, formatTaskTable(tasks))
	return err
}
