package testsupport

import (
	"testing"
)

// isolatedEnv lists variables cleared so tests never read the developer's settings.
var isolatedEnv = []string{
	"XDG_CONFIG_HOME",
	"TASK_CLI_FILE",
	"TASK_CLI_BACKEND",
	"TASK_CLI_LOCK",
	"TASK_CLI_FORMAT",
	"NO_COLOR",
}

// SetupTestHome creates a temp home directory, sets HOME, and clears
// task-cli environment overrides.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	for _, key := range isolatedEnv {
		t.Setenv(key, "")
	}
	return homeDir
}
