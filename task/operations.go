package task

import "fmt"

// Tracker is the set of task operations a backend provides.
type Tracker interface {
	NextID() (uint64, error)
	Create(t Task) (Task, error)
	Get(id uint64) (Task, bool, error)
	Update(id uint64, description *string) (Task, error)
	MarkDone(id uint64) (Task, error)
	MarkInProgress(id uint64) (Task, error)
	Delete(id uint64) error
	List(filter *Status) ([]Task, error)
	Close() error
}

var _ Tracker = (*Store)(nil)

// NextID returns the ID the next created task would receive.
func (s *Store) NextID() (uint64, error) {
	collection, err := s.Load()
	if err != nil {
		return 0, err
	}
	return collection.NextID()
}

// Create appends a task to the store.
// A zero ID is replaced with NextID and a zero status with StatusPending.
func (s *Store) Create(t Task) (Task, error) {
	if err := ValidateDescription(t.Description); err != nil {
		return Task{}, err
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Status.IsValid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, string(t.Status))
	}

	err := s.Transact(func(c *Collection) error {
		if t.ID == 0 {
			next, err := c.NextID()
			if err != nil {
				return err
			}
			t.ID = next
		} else if c.indexOf(t.ID) >= 0 {
			return fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
		}
		return c.Append(t)
	})
	if err != nil {
		return Task{}, err
	}

	s.logger.Debug("created task", "id", t.ID)
	return t, nil
}

// Get returns the task with the given ID. A missing task is reported through
// the boolean, not the error.
func (s *Store) Get(id uint64) (Task, bool, error) {
	collection, err := s.Load()
	if err != nil {
		return Task{}, false, err
	}
	t, ok := collection.Find(id)
	return t, ok, nil
}

// Update replaces the description of a task when description is non-nil.
// The status is left unchanged.
func (s *Store) Update(id uint64, description *string) (Task, error) {
	if description != nil {
		if err := ValidateDescription(*description); err != nil {
			return Task{}, err
		}
	}
	return s.mutate(id, func(t *Task) {
		if description != nil {
			t.Description = *description
		}
	})
}

// MarkDone sets a task's status to StatusDone.
func (s *Store) MarkDone(id uint64) (Task, error) {
	return s.setStatus(id, StatusDone)
}

// MarkInProgress sets a task's status to StatusInProgress.
func (s *Store) MarkInProgress(id uint64) (Task, error) {
	return s.setStatus(id, StatusInProgress)
}

// Delete removes a task. Its ID is never assigned again.
func (s *Store) Delete(id uint64) error {
	err := s.Transact(func(c *Collection) error {
		return c.Remove(id)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("deleted task", "id", id)
	return nil
}

// List returns tasks in file order, optionally only those with the given status.
func (s *Store) List(filter *Status) ([]Task, error) {
	if filter != nil && !filter.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, string(*filter))
	}

	collection, err := s.Load()
	if err != nil {
		return nil, err
	}

	tasks, skipped := collection.Tasks()
	if skipped > 0 {
		s.logger.Debug("skipped undecodable records", "count", skipped)
	}

	if filter == nil {
		return tasks, nil
	}
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == *filter {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *Store) setStatus(id uint64, status Status) (Task, error) {
	return s.mutate(id, func(t *Task) {
		t.Status = status
	})
}

// mutate applies fn to the task with the given ID and writes it back in place.
func (s *Store) mutate(id uint64, fn func(t *Task)) (Task, error) {
	var updated Task
	err := s.Transact(func(c *Collection) error {
		t, ok := c.Find(id)
		if !ok {
			return notFound(id)
		}
		fn(&t)
		updated = t
		return c.Replace(t)
	})
	if err != nil {
		return Task{}, err
	}
	s.logger.Debug("updated task", "id", id, "status", updated.Status)
	return updated, nil
}
