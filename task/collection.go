package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Collection is the in-memory form of the backing file.
//
// Records are kept as raw JSON so that a mutation re-serializes only the
// record it touches and a record that no longer decodes as a Task is carried
// through a save instead of being dropped.
type Collection struct {
	records []json.RawMessage
	lastID  uint64
}

type collectionFile struct {
	Tasks  *[]json.RawMessage `json:"tasks"`
	LastID uint64             `json:"last_id,omitempty"`
}

type idProbe struct {
	ID *uint64 `json:"id"`
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{records: []json.RawMessage{}}
}

// ParseCollection decodes file contents. Empty or whitespace-only input is
// the empty collection.
func ParseCollection(data []byte) (*Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewCollection(), nil
	}

	var file collectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
	}
	if file.Tasks == nil {
		return nil, fmt.Errorf("%w: missing \"tasks\" array", ErrMalformedStore)
	}

	return &Collection{records: *file.Tasks, lastID: file.LastID}, nil
}

// MarshalIndent encodes the collection as indented JSON.
func (c *Collection) MarshalIndent() ([]byte, error) {
	records := c.records
	if records == nil {
		records = []json.RawMessage{}
	}
	file := collectionFile{Tasks: &records}
	if c.lastID > c.maxRecordID() {
		file.LastID = c.lastID
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode collection: %w", ErrSerialization, err)
	}
	return data, nil
}

// Len returns the number of records, including ones that do not decode.
func (c *Collection) Len() int {
	return len(c.records)
}

// Tasks decodes every record, skipping ones that are not valid tasks.
// The second result counts the skipped records.
func (c *Collection) Tasks() ([]Task, int) {
	tasks := make([]Task, 0, len(c.records))
	skipped := 0
	for _, record := range c.records {
		t, err := decodeTask(record)
		if err != nil {
			skipped++
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, skipped
}

// Find returns the first record with the given ID that decodes as a task.
func (c *Collection) Find(id uint64) (Task, bool) {
	_, t, ok := c.find(id)
	return t, ok
}

func (c *Collection) find(id uint64) (int, Task, bool) {
	for i, record := range c.records {
		recordID, ok := probeID(record)
		if !ok || recordID != id {
			continue
		}
		t, err := decodeTask(record)
		if err != nil {
			continue
		}
		return i, t, true
	}
	return -1, Task{}, false
}

// NextID returns one more than the highest ID ever stored in the collection.
func (c *Collection) NextID() (uint64, error) {
	highest := c.maxRecordID()
	if c.lastID > highest {
		highest = c.lastID
	}
	if highest == math.MaxUint64 {
		return 0, fmt.Errorf("%w: highest id is %d", ErrIDExhausted, highest)
	}
	return highest + 1, nil
}

// Append adds a task record to the end of the collection.
func (c *Collection) Append(t Task) error {
	record, err := encodeTask(t)
	if err != nil {
		return err
	}
	c.records = append(c.records, record)
	return nil
}

// Replace overwrites the record holding t.ID with t, leaving every other
// record untouched.
func (c *Collection) Replace(t Task) error {
	index, _, ok := c.find(t.ID)
	if !ok {
		return notFound(t.ID)
	}
	record, err := encodeTask(t)
	if err != nil {
		return err
	}
	c.records[index] = record
	return nil
}

// Remove deletes the record holding id. Removing the highest ID records it
// as retired so it is never assigned again.
func (c *Collection) Remove(id uint64) error {
	index := c.indexOf(id)
	if index < 0 {
		return notFound(id)
	}
	c.records = append(c.records[:index], c.records[index+1:]...)
	if id > c.lastID {
		c.lastID = id
	}
	return nil
}

func (c *Collection) indexOf(id uint64) int {
	for i, record := range c.records {
		if recordID, ok := probeID(record); ok && recordID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) maxRecordID() uint64 {
	var highest uint64
	for _, record := range c.records {
		if id, ok := probeID(record); ok && id > highest {
			highest = id
		}
	}
	return highest
}

func probeID(record json.RawMessage) (uint64, bool) {
	var probe idProbe
	if err := json.Unmarshal(record, &probe); err != nil || probe.ID == nil {
		return 0, false
	}
	return *probe.ID, true
}

// decodeTask requires a positive id. A record without a status is pending;
// one with an unknown status is not a task.
func decodeTask(record json.RawMessage) (Task, error) {
	var t Task
	if err := json.Unmarshal(record, &t); err != nil {
		return Task{}, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if t.ID == 0 {
		return Task{}, fmt.Errorf("%w: record has no id", ErrSerialization)
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Status.IsValid() {
		return Task{}, fmt.Errorf("%w: task %d: %w: %q", ErrSerialization, t.ID, ErrInvalidStatus, string(t.Status))
	}
	return t, nil
}

func encodeTask(t Task) (json.RawMessage, error) {
	record, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("%w: encode task %d: %w", ErrSerialization, t.ID, err)
	}
	return record, nil
}
