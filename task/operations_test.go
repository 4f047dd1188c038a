package task

import (
	"errors"
	"testing"
)

func TestStore_CreateOnEmptyFile(t *testing.T) {
	store := newTestStoreWithContent(t, "")

	created, err := store.Create(New("buy milk"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.Status != StatusPending {
		t.Fatalf("unexpected task %+v", created)
	}

	want := `{"tasks":[{"id":1,"description":"buy milk","status":"pending"}]}`
	if got := compactJSON(t, readStoreFile(t, store)); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestStore_CreateThenGet(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(Task{Description: "walk dog", Status: StatusInProgress})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, ok, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected task %d to exist", created.ID)
	}
	if got != created {
		t.Fatalf("expected %+v, got %+v", created, got)
	}
}

func TestStore_CreateValidation(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(New("  ")); !errors.Is(err, ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
	if _, err := store.Create(Task{Description: "x", Status: "blocked"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	tasks, err := store.List(nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks after failed creates, got %+v", tasks)
	}
}

func TestStore_CreateWithExplicitID(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(Task{ID: 10, Description: "explicit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 10 {
		t.Fatalf("expected id 10, got %d", created.ID)
	}

	if _, err := store.Create(Task{ID: 10, Description: "again"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	next := mustCreate(t, store, "after")
	if next.ID != 11 {
		t.Fatalf("expected id 11, got %d", next.ID)
	}
}

func TestStore_IDsIncreaseAcrossDeletes(t *testing.T) {
	store := newTestStore(t)

	var last uint64
	steps := []struct {
		create string
		delete bool
	}{
		{create: "a"},
		{create: "b"},
		{create: "c", delete: true},
		{create: "d"},
		{create: "e", delete: true},
		{create: "f", delete: true},
		{create: "g"},
	}
	for _, step := range steps {
		created := mustCreate(t, store, step.create)
		if created.ID != last+1 {
			t.Fatalf("expected id %d for %q, got %d", last+1, step.create, created.ID)
		}
		last = created.ID
		if step.delete {
			if err := store.Delete(created.ID); err != nil {
				t.Fatalf("delete %d: %v", created.ID, err)
			}
		}
	}
}

func TestStore_NextIDWithGap(t *testing.T) {
	store := newTestStoreWithContent(t, `{"tasks":[{"id":1,"description":"a","status":"pending"},{"id":3,"description":"b","status":"done"}]}`)

	next, err := store.NextID()
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if next != 4 {
		t.Fatalf("expected 4, got %d", next)
	}
}

func TestStore_DeleteThenGet(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "temporary")

	if err := store.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, ok, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected task %d to be gone", created.ID)
	}
}

func TestStore_DeleteMissingLeavesFileUnchanged(t *testing.T) {
	content := `{"tasks":[{"id":1,"description":"a","status":"pending"}]}`
	store := newTestStoreWithContent(t, content)

	if err := store.Delete(2); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if got := string(readStoreFile(t, store)); got != content {
		t.Fatalf("expected file unchanged, got %s", got)
	}
}

func TestStore_UpdateMissingLeavesFileUnchanged(t *testing.T) {
	content := `{"tasks":[{"id":1,"description":"a","status":"pending"}]}`
	store := newTestStoreWithContent(t, content)

	_, err := store.Update(99, stringPtr("x"))
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if got := string(readStoreFile(t, store)); got != content {
		t.Fatalf("expected file unchanged, got %s", got)
	}
}

func TestStore_Update(t *testing.T) {
	tests := []struct {
		name        string
		description *string
		want        string
	}{
		{name: "nil keeps description", description: nil, want: "original"},
		{name: "value replaces description", description: stringPtr("changed"), want: "changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			created := mustCreate(t, store, "original")
			if _, err := store.MarkInProgress(created.ID); err != nil {
				t.Fatalf("mark in progress: %v", err)
			}

			updated, err := store.Update(created.ID, tt.description)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if updated.Description != tt.want {
				t.Errorf("expected description %q, got %q", tt.want, updated.Description)
			}
			if updated.Status != StatusInProgress {
				t.Errorf("expected status unchanged, got %q", updated.Status)
			}

			stored, _, err := store.Get(created.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if stored != updated {
				t.Errorf("expected stored %+v, got %+v", updated, stored)
			}
		})
	}
}

func TestStore_UpdateRejectsEmptyDescription(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, "keep me")

	if _, err := store.Update(created.ID, stringPtr("")); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
}

func TestStore_UpdateKeepsFileOrder(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, "first")
	second := mustCreate(t, store, "second")
	mustCreate(t, store, "third")

	if _, err := store.Update(second.ID, stringPtr("middle")); err != nil {
		t.Fatalf("update: %v", err)
	}

	want := `{"tasks":[{"id":1,"description":"first","status":"pending"},{"id":2,"description":"middle","status":"pending"},{"id":3,"description":"third","status":"pending"}]}`
	if got := compactJSON(t, readStoreFile(t, store)); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestStore_MarkDoneAndList(t *testing.T) {
	store := newTestStore(t)
	first := mustCreate(t, store, "first")
	second := mustCreate(t, store, "second")
	third := mustCreate(t, store, "third")

	if _, err := store.MarkDone(first.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if _, err := store.MarkInProgress(third.ID); err != nil {
		t.Fatalf("mark in progress: %v", err)
	}

	tests := []struct {
		name   string
		filter *Status
		want   []uint64
	}{
		{name: "all", filter: nil, want: []uint64{first.ID, second.ID, third.ID}},
		{name: "done", filter: statusPtr(StatusDone), want: []uint64{first.ID}},
		{name: "in progress", filter: statusPtr(StatusInProgress), want: []uint64{third.ID}},
		{name: "pending", filter: statusPtr(StatusPending), want: []uint64{second.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := store.List(tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("expected %d tasks, got %+v", len(tt.want), tasks)
			}
			for i, id := range tt.want {
				if tasks[i].ID != id {
					t.Errorf("expected tasks[%d].ID = %d, got %d", i, id, tasks[i].ID)
				}
			}
		})
	}
}

func TestStore_ListFilterFromUserInput(t *testing.T) {
	store := newTestStore(t)
	done := mustCreate(t, store, "done one")
	pending := mustCreate(t, store, "pending one")
	if _, err := store.MarkDone(done.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	tests := []struct {
		input string
		want  uint64
	}{
		{"done", done.ID},
		{"completed", done.ID},
		{"todo", pending.ID},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseStatus(tt.input)
			if err != nil {
				t.Fatalf("parse status: %v", err)
			}
			tasks, err := store.List(&status)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(tasks) != 1 || tasks[0].ID != tt.want {
				t.Fatalf("expected only task %d, got %+v", tt.want, tasks)
			}
		})
	}
}

func TestStore_ListRejectsInvalidFilter(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.List(statusPtr("Done")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStore_MarkMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.MarkDone(5); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("MarkDone: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := store.MarkInProgress(5); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("MarkInProgress: expected ErrTaskNotFound, got %v", err)
	}
}

func TestStore_CorruptRecordSkipped(t *testing.T) {
	store := newTestStoreWithContent(t, `{"tasks":[
		{"id":1,"description":"good","status":"pending"},
		{"id":2,"description":"bad","status":"PENDING"},
		{"id":3,"description":"also good","status":"done"}
	]}`)

	tasks, err := store.List(nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Fatalf("expected tasks 1 and 3, got %+v", tasks)
	}

	if _, ok, err := store.Get(2); err != nil || ok {
		t.Fatalf("expected corrupt task to be unreachable, ok=%v err=%v", ok, err)
	}

	if _, err := store.MarkDone(1); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if !containsRecord(t, store, `{"id":2,"description":"bad","status":"PENDING"}`) {
		t.Fatalf("expected corrupt record to survive a save")
	}

	next := mustCreate(t, store, "new")
	if next.ID != 4 {
		t.Fatalf("expected id 4, got %d", next.ID)
	}
}

func containsRecord(t *testing.T, store *Store, record string) bool {
	t.Helper()
	collection, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, raw := range collection.records {
		if compactJSON(t, raw) == record {
			return true
		}
	}
	return false
}

func TestStore_MalformedStoreIsFatal(t *testing.T) {
	store := newTestStoreWithContent(t, `{"tasks": "nope"}`)

	if _, err := store.List(nil); !errors.Is(err, ErrMalformedStore) {
		t.Errorf("List: expected ErrMalformedStore, got %v", err)
	}
	if _, err := store.Create(New("x")); !errors.Is(err, ErrMalformedStore) {
		t.Errorf("Create: expected ErrMalformedStore, got %v", err)
	}
	if got := string(readStoreFile(t, store)); got != `{"tasks": "nope"}` {
		t.Errorf("expected file unchanged, got %s", got)
	}
}

func TestStore_CreateWhenIDsExhausted(t *testing.T) {
	content := `{"tasks":[{"id":18446744073709551615,"description":"last","status":"pending"}]}`
	store := newTestStoreWithContent(t, content)

	if _, err := store.Create(New("one more")); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("expected ErrIDExhausted, got %v", err)
	}
	if _, err := store.NextID(); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("NextID: expected ErrIDExhausted, got %v", err)
	}
	if got := string(readStoreFile(t, store)); got != content {
		t.Fatalf("expected file unchanged, got %s", got)
	}
}

func TestStore_MissingStatusReadsAsPending(t *testing.T) {
	store := newTestStoreWithContent(t, `{"tasks":[{"id":1,"description":"legacy"}]}`)

	got, ok, err := store.Get(1)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected pending, got %q", got.Status)
	}

	pending := StatusPending
	tasks, err := store.List(&pending)
	if err != nil || len(tasks) != 1 {
		t.Fatalf("list pending: %+v err=%v", tasks, err)
	}

	if _, err := store.MarkDone(1); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if !containsRecord(t, store, `{"id":1,"description":"legacy","status":"done"}`) {
		t.Fatalf("expected status written on save")
	}
}
