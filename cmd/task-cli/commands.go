package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/task-cli/task"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <description>...",
	Aliases: []string{"create"},
	Short:   "Add a new pending task",
	Long: `Add a new pending task.

Multiple arguments are joined with spaces. Use '-' to read the description
from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <description>...",
	Short: "Replace a task's description",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var listCmd = &cobra.Command{
	Use:   "list [status]",
	Short: "List tasks, optionally only those with a status",
	Long: `List tasks, optionally only those with a status.

Status accepts pending, in-progress, done, and aliases such as todo,
"in progress", or completed.`,
	Args: cobra.ArbitraryArgs,
	RunE: runList,
}

var markDoneCmd = &cobra.Command{
	Use:   "mark-done <id>",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runMarkDone,
}

var markInProgressCmd = &cobra.Command{
	Use:   "mark-in-progress <id>",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runMarkInProgress,
}

var nextIDCmd = &cobra.Command{
	Use:   "next-id",
	Short: "Print the ID the next added task will receive",
	Args:  cobra.NoArgs,
	RunE:  runNextID,
}

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, deleteCmd, listCmd, markDoneCmd, markInProgressCmd, nextIDCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	description, err := resolveDescription(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := s.tracker.Create(task.New(description))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task added successfully (ID: %d)\n", created.ID)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	description, err := resolveDescription(args[1:], cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	updated, err := s.tracker.Update(id, &description)
	if err != nil {
		return err
	}
	return printTask(cmd.OutOrStdout(), s.cfg.Output.Format, updated)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.tracker.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted\n", id)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := parseStatusFilter(args)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks, err := s.tracker.List(filter)
	if err != nil {
		return err
	}
	return printTasks(cmd.OutOrStdout(), s.cfg.Output.Format, tasks)
}

func runMarkDone(cmd *cobra.Command, args []string) error {
	return runSetStatus(cmd, args, task.Tracker.MarkDone, "done")
}

func runMarkInProgress(cmd *cobra.Command, args []string) error {
	return runSetStatus(cmd, args, task.Tracker.MarkInProgress, "in progress")
}

func runSetStatus(cmd *cobra.Command, args []string, mark func(task.Tracker, uint64) (task.Task, error), label string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := mark(s.tracker, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked as %s\n", id, label)
	return nil
}

func runNextID(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	next, err := s.tracker.NextID()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), next)
	return nil
}

// parseStatusFilter joins args so that an unquoted "in progress" works.
func parseStatusFilter(args []string) (*task.Status, error) {
	value := strings.Join(args, " ")
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	status, err := task.ParseStatus(value)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func resolveDescription(args []string, stdin io.Reader) (string, error) {
	description := strings.Join(args, " ")
	if description != "-" {
		return description, nil
	}
	if stdin == nil {
		stdin = os.Stdin
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}
	return strings.TrimRight(string(input), "\r\n"), nil
}
