package main

import (
	"fmt"

	"github.com/amonks/task-cli/internal/config"
	"github.com/amonks/task-cli/internal/markdown"
	"github.com/amonks/task-cli/internal/ui"
	"github.com/amonks/task-cli/task"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task",
	Long: `Show a task.

The table format renders a markdown summary; json and yaml print the task
record.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	found, ok, err := s.tracker.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", task.ErrTaskNotFound, id)
	}

	out := cmd.OutOrStdout()
	if s.cfg.Output.Format != config.FormatTable {
		return printTask(out, s.cfg.Output.Format, found)
	}
	rendered := markdown.SafeRender(ui.TerminalWidth(80), 0, []byte(formatTaskDetail(found)))
	_, err = fmt.Fprintln(out, string(rendered))
	return err
}
