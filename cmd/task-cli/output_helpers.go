package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/amonks/task-cli/internal/config"
	"github.com/amonks/task-cli/internal/ui"
	"github.com/amonks/task-cli/task"
	"go.yaml.in/yaml/v3"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func encodeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

// printTasks writes tasks in the given output format.
func printTasks(w io.Writer, format string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch format {
	case config.FormatYAML:
		return encodeYAML(w, tasks)
	case config.FormatTable:
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(w, "No tasks found.")
			return err
		}
		_, err := io.WriteString(w, formatTaskTable(tasks))
		return err
	default:
		return encodeJSON(w, tasks)
	}
}

// printTask writes a single task in the given output format.
func printTask(w io.Writer, format string, t task.Task) error {
	switch format {
	case config.FormatYAML:
		return encodeYAML(w, t)
	case config.FormatTable:
		_, err := io.WriteString(w, formatTaskTable([]task.Task{t}))
		return err
	default:
		return encodeJSON(w, t)
	}
}

func formatTaskTable(tasks []task.Task) string {
	builder := ui.NewTableBuilder([]string{"ID", "STATUS", "DESCRIPTION"}, len(tasks))
	for _, t := range tasks {
		builder.AddRow([]string{
			strconv.FormatUint(t.ID, 10),
			ui.Status(string(t.Status)),
			ui.TruncateTableCell(t.Description),
		})
	}
	return builder.String()
}

// formatTaskDetail renders a task as a markdown document.
func formatTaskDetail(t task.Task) string {
	return fmt.Sprintf("# Task %d\n\n**Status:** %s\n\n%s\n", t.ID, t.Status, t.Description)
}
