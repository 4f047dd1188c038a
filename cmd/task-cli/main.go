// Package main implements the task-cli tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.buildVersion=... -X main.buildCommit=...".
var (
	buildVersion = "dev"
	buildCommit  = ""
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			if err.Error() != "" {
				fmt.Fprintln(os.Stderr, "Error:", err)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "task-cli",
	Short: "Track tasks in a local JSON file",
	Long: `Track tasks in a local JSON file.

Tasks are stored in tasks.json in the current directory unless --file,
TASK_CLI_FILE, or a task-cli.toml config file says otherwise.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Argument errors print usage; errors from running a command do not.
		cmd.SilenceUsage = true
	},
}

var (
	rootFile    string
	rootBackend string
	rootLock    bool
	rootFormat  string
	rootConfig  string
	rootVerbose bool
)

func init() {
	info, _ := debug.ReadBuildInfo()
	rootCmd.Version = formatVersion(buildVersion, buildCommit, info)
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootFile, "file", "f", "", "Task file (default tasks.json, or tasks.db for sqlite)")
	flags.StringVar(&rootBackend, "backend", "", "Storage backend (json, sqlite)")
	flags.BoolVar(&rootLock, "lock", false, "Hold an advisory lock while reading and writing the task file")
	flags.StringVar(&rootFormat, "format", "", "Output format (json, yaml, table)")
	flags.StringVar(&rootConfig, "config", "", "Config file (default ./task-cli.toml)")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// formatVersion prefers the stamped commit and falls back to the VCS
// revision recorded by the go toolchain.
func formatVersion(version, commit string, info *debug.BuildInfo) string {
	if commit == "" && info != nil {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				commit = setting.Value
				if len(commit) > 12 {
					commit = commit[:12]
				}
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("task-cli %s (%s)", version, commit)
}
