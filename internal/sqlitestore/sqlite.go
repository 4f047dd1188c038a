// Package sqlitestore implements task.Tracker on top of SQLite.
//
// Each mutation runs in a single SQL transaction, and ids come from an
// AUTOINCREMENT column so a deleted id is never handed out again.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/amonks/task-cli/task"
	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	description TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in-progress', 'done'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
`

// Options configures a Store.
type Options struct {
	// Logger receives debug output. If nil, logging is discarded.
	Logger *log.Logger
}

// Store is a task.Tracker backed by a SQLite database file.
type Store struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

var _ task.Tracker = (*Store)(nil)

// Open opens (creating if needed) the database at path. The special path
// ":memory:" opens a private in-memory database.
func Open(path string, opts Options) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create parent dir for %s: %w", task.ErrIO, path, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open database %s: %w", task.ErrIO, path, err)
	}
	// Keep a single connection so ":memory:" databases are shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema in %s: %w", task.ErrIO, path, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Store{db: db, path: path, logger: logger.With("store", path)}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NextID returns the ID the next created task would receive.
func (s *Store) NextID() (uint64, error) {
	return nextID(s.db)
}

// Create inserts a task. A zero ID is assigned by the database and a zero
// status becomes task.StatusPending.
func (s *Store) Create(t task.Task) (task.Task, error) {
	if err := task.ValidateDescription(t.Description); err != nil {
		return task.Task{}, err
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if !t.Status.IsValid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(t.Status))
	}

	err := s.inTx(func(tx *sql.Tx) error {
		if t.ID != 0 {
			var exists bool
			if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)`, t.ID).Scan(&exists); err != nil {
				return s.ioFailure("check task id", err)
			}
			if exists {
				return fmt.Errorf("%w: %d", task.ErrDuplicateID, t.ID)
			}
			if _, err := tx.Exec(`INSERT INTO tasks (id, description, status) VALUES (?, ?, ?)`,
				t.ID, t.Description, string(t.Status)); err != nil {
				return s.ioFailure("insert task", err)
			}
			return nil
		}

		result, err := tx.Exec(`INSERT INTO tasks (description, status) VALUES (?, ?)`,
			t.Description, string(t.Status))
		if err != nil {
			return s.ioFailure("insert task", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return s.ioFailure("read inserted id", err)
		}
		t.ID = uint64(id)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	s.logger.Debug("created task", "id", t.ID)
	return t, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id uint64) (task.Task, bool, error) {
	t, err := getTask(s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, false, nil
	}
	if err != nil {
		return task.Task{}, false, err
	}
	return t, true, nil
}

// Update replaces the description of a task when description is non-nil.
func (s *Store) Update(id uint64, description *string) (task.Task, error) {
	if description != nil {
		if err := task.ValidateDescription(*description); err != nil {
			return task.Task{}, err
		}
	}
	return s.mutate(id, func(t *task.Task) {
		if description != nil {
			t.Description = *description
		}
	})
}

// MarkDone sets a task's status to task.StatusDone.
func (s *Store) MarkDone(id uint64) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) { t.Status = task.StatusDone })
}

// MarkInProgress sets a task's status to task.StatusInProgress.
func (s *Store) MarkInProgress(id uint64) (task.Task, error) {
	return s.mutate(id, func(t *task.Task) { t.Status = task.StatusInProgress })
}

// Delete removes a task.
func (s *Store) Delete(id uint64) error {
	return s.inTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return s.ioFailure("delete task", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return s.ioFailure("delete task", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %d", task.ErrTaskNotFound, id)
		}
		s.logger.Debug("deleted task", "id", id)
		return nil
	})
}

// List returns tasks in id order, optionally only those with the given status.
func (s *Store) List(filter *task.Status) ([]task.Task, error) {
	query := `SELECT id, description, status FROM tasks ORDER BY id`
	var args []any
	if filter != nil {
		if !filter.IsValid() {
			return nil, fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(*filter))
		}
		query = `SELECT id, description, status FROM tasks WHERE status = ? ORDER BY id`
		args = append(args, string(*filter))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, s.ioFailure("list tasks", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.ioFailure("list tasks", err)
	}
	return tasks, nil
}

func (s *Store) mutate(id uint64, fn func(t *task.Task)) (task.Task, error) {
	var updated task.Task
	err := s.inTx(func(tx *sql.Tx) error {
		t, err := getTask(tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", task.ErrTaskNotFound, id)
		}
		if err != nil {
			return err
		}
		fn(&t)
		if _, err := tx.Exec(`UPDATE tasks SET description = ?, status = ? WHERE id = ?`,
			t.Description, string(t.Status), t.ID); err != nil {
			return s.ioFailure("update task", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}
	s.logger.Debug("updated task", "id", id, "status", updated.Status)
	return updated, nil
}

// inTx runs fn in a transaction and commits only when fn succeeds.
func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return s.ioFailure("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.ioFailure("commit transaction", err)
	}
	return nil
}

func (s *Store) ioFailure(op string, err error) error {
	return fmt.Errorf("%w: %s in %s: %w", task.ErrIO, op, s.path, err)
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getTask(q queryer, id uint64) (task.Task, error) {
	row := q.QueryRow(`SELECT id, description, status FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var status string
	if err := row.Scan(&t.ID, &t.Description, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Task{}, err
		}
		return task.Task{}, fmt.Errorf("%w: scan task: %w", task.ErrIO, err)
	}
	if err := t.Status.UnmarshalText([]byte(status)); err != nil {
		return task.Task{}, fmt.Errorf("%w: task %d: %w", task.ErrMalformedStore, t.ID, err)
	}
	return t, nil
}

func nextID(q queryer) (uint64, error) {
	var highest uint64
	err := q.QueryRow(`
		SELECT MAX(
			COALESCE((SELECT seq FROM sqlite_sequence WHERE name = 'tasks'), 0),
			COALESCE((SELECT MAX(id) FROM tasks), 0)
		)`).Scan(&highest)
	if err != nil {
		return 0, fmt.Errorf("%w: read next id: %w", task.ErrIO, err)
	}
	return highest + 1, nil
}
