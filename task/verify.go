package task

import (
	"bytes"
	"fmt"
	"io"

	"github.com/amonks/task-cli/internal/schema"
)

// Problem describes one way the backing file breaks the task file contract.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

// Verify checks the backing file against the task file schema and reports
// duplicate or stale IDs. An empty or missing file has no problems.
func (s *Store) Verify() ([]Problem, error) {
	var data []byte
	err := s.withLock(false, func() error {
		f, err := s.openFile()
		if err != nil {
			return err
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			return ioFailure("read", s.path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return verifyData(data)
}

func verifyData(data []byte) ([]Problem, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	violations, err := schema.Validate(data)
	if err != nil {
		return []Problem{{Path: "$", Message: err.Error()}}, nil
	}

	var problems []Problem
	for _, v := range violations {
		problems = append(problems, Problem{Path: v.Path, Message: v.Message})
	}

	collection, err := ParseCollection(data)
	if err != nil {
		if len(problems) == 0 {
			problems = append(problems, Problem{Path: "$", Message: err.Error()})
		}
		return problems, nil
	}

	seen := make(map[uint64]int)
	for i, record := range collection.records {
		id, ok := probeID(record)
		if !ok {
			continue
		}
		if first, dup := seen[id]; dup {
			problems = append(problems, Problem{
				Path:    fmt.Sprintf("tasks[%d].id", i),
				Message: fmt.Sprintf("duplicate id %d (first used at tasks[%d])", id, first),
			})
			continue
		}
		seen[id] = i
	}

	if collection.lastID > 0 && collection.lastID < collection.maxRecordID() {
		problems = append(problems, Problem{
			Path:    "last_id",
			Message: fmt.Sprintf("last_id %d is below the highest stored id %d", collection.lastID, collection.maxRecordID()),
		})
	}

	return problems, nil
}
