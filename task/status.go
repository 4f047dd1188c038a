package task

import (
	"strings"

	"github.com/amonks/task-cli/internal/validation"
)

var statusAliases = map[string]Status{
	"pending":     StatusPending,
	"todo":        StatusPending,
	"to-do":       StatusPending,
	"open":        StatusPending,
	"in-progress": StatusInProgress,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"started":     StatusInProgress,
	"done":        StatusDone,
	"completed":   StatusDone,
	"complete":    StatusDone,
	"finished":    StatusDone,
}

// ParseStatus maps user input such as "todo" or "In Progress" to a Status.
// Input outside the known aliases is rejected rather than defaulted.
func ParseStatus(input string) (Status, error) {
	key := strings.Join(strings.Fields(strings.ToLower(input)), " ")
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", validation.InvalidValue(ErrInvalidStatus, input, ValidStatuses())
}
