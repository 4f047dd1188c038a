// Package testsupport holds helpers shared by package tests and CLI scripts.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/task-cli/task"
	"github.com/rogpeppe/go-internal/testscript"
)

// Version stamp linked into the binary built for CLI scripts.
const (
	ScriptVersion = "v0.0.0-script"
	ScriptCommit  = "scripttest"
)

var (
	buildOnce  sync.Once
	binaryPath string
	buildErr   error
)

// BuildTaskCLI builds the task-cli binary once and returns its path.
func BuildTaskCLI(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "task-cli-bin-")
		if err != nil {
			buildErr = err
			return
		}

		binaryPath = filepath.Join(binDir, "task-cli")
		ldflags := fmt.Sprintf("-X main.buildVersion=%s -X main.buildCommit=%s", ScriptVersion, ScriptCommit)
		cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", binaryPath, "./cmd/task-cli")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build task-cli: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return binaryPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("TASK_CLI", BuildTaskCLI(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("XDG_CONFIG_HOME", "")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTaskID finds a task by description in a JSON task list and stores its
// ID in an env var.
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE DESCRIPTION VAR")
	}

	var items []task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	for _, item := range items {
		if item.Description == args[1] {
			ts.Setenv(args[2], strconv.FormatUint(item.ID, 10))
			return
		}
	}

	ts.Fatalf("task with description %q not found", args[1])
}

// CmdJSONEq compares two files as JSON values, ignoring formatting.
func CmdJSONEq(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: jsoneq FILE1 FILE2")
	}

	var left, right any
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &left); err != nil {
		ts.Fatalf("parse %s: %v", args[0], err)
	}
	if err := json.Unmarshal([]byte(ts.ReadFile(args[1])), &right); err != nil {
		ts.Fatalf("parse %s: %v", args[1], err)
	}

	leftData, _ := json.Marshal(left)
	rightData, _ := json.Marshal(right)
	equal := string(leftData) == string(rightData)
	if equal == neg {
		if neg {
			ts.Fatalf("%s and %s are equal JSON", args[0], args[1])
		}
		ts.Fatalf("%s and %s differ:\n%s\n%s", args[0], args[1], leftData, rightData)
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
