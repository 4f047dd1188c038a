package task

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

const (
	// DefaultFile is the backing file used when no path is configured.
	DefaultFile = "tasks.json"

	lockSuffix = ".lock"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// Lock holds an advisory lock on <path>.lock for the duration of each
	// operation. Without it, concurrent invocations can lose updates.
	Lock bool

	// Logger receives debug output. If nil, logging is discarded.
	Logger *log.Logger
}

// Store provides access to the task collection in a single JSON file.
// It keeps no handle open between operations.
type Store struct {
	path   string
	lock   bool
	logger *log.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, opts StoreOptions) *Store {
	if path == "" {
		path = DefaultFile
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{
		path:   path,
		lock:   opts.Lock,
		logger: logger.With("store", path),
	}
}

// Path returns the path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Close releases store resources. The file store holds none.
func (s *Store) Close() error {
	return nil
}

// Load reads the full collection. A missing file is created empty; its
// contents are never written.
func (s *Store) Load() (*Collection, error) {
	var collection *Collection
	err := s.withLock(false, func() error {
		f, err := s.openFile()
		if err != nil {
			return err
		}
		defer f.Close()

		collection, err = s.read(f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// Transact loads the collection, applies fn, and saves the result.
// Nothing is written when fn returns an error.
func (s *Store) Transact(fn func(c *Collection) error) error {
	return s.withLock(true, func() error {
		f, err := s.openFile()
		if err != nil {
			return err
		}
		defer f.Close()

		collection, err := s.read(f)
		if err != nil {
			return err
		}

		if err := fn(collection); err != nil {
			return err
		}

		return s.save(f, collection)
	})
}

func (s *Store) openFile() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, ioFailure("create parent dir for", s.path, err)
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, ioFailure("open", s.path, err)
	}
	return f, nil
}

func (s *Store) read(f *os.File) (*Collection, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, ioFailure("read", s.path, err)
	}

	collection, err := ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	s.logger.Debug("loaded tasks", "records", collection.Len(), "bytes", len(data))
	return collection, nil
}

// save rewrites the whole file through the open handle.
func (s *Store) save(f *os.File, collection *Collection) error {
	data, err := collection.MarshalIndent()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return ioFailure("seek", s.path, err)
	}
	if err := f.Truncate(0); err != nil {
		return ioFailure("truncate", s.path, err)
	}
	if _, err := f.Write(data); err != nil {
		return ioFailure("write", s.path, err)
	}
	if err := f.Sync(); err != nil {
		return ioFailure("sync", s.path, err)
	}

	s.logger.Debug("saved tasks", "records", collection.Len(), "bytes", len(data))
	return nil
}

func (s *Store) withLock(exclusive bool, fn func() error) error {
	if !s.lock {
		return fn()
	}

	lockPath := s.path + lockSuffix
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return ioFailure("create parent dir for", lockPath, err)
	}

	fileLock := flock.New(lockPath)
	var err error
	if exclusive {
		err = fileLock.Lock()
	} else {
		err = fileLock.RLock()
	}
	if err != nil {
		return ioFailure("lock", lockPath, err)
	}
	defer fileLock.Unlock()

	s.logger.Debug("acquired lock", "path", lockPath, "exclusive", exclusive)
	return fn()
}
