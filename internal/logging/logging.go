// Package logging builds the diagnostic logger shared by the CLI and stores.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "task-cli",
	})
}
