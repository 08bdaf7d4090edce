package tasklist

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"todolists/internal/models"
	"todolists/internal/store"
)

// failingBackend wraps a MemoryStore and fails writes on demand.
type failingBackend struct {
	*store.MemoryStore
	failSet bool
}

var errBackendDown = errors.New("backend down")

func (b *failingBackend) Set(ctx context.Context, key, value string) error {
	if b.failSet {
		return errBackendDown
	}
	return b.MemoryStore.Set(ctx, key, value)
}

func setupTestStore(t *testing.T) (*Store, *store.MemoryStore) {
	t.Helper()
	backend := store.NewMemoryStore()
	s, err := Open(context.Background(), backend, "list-1")
	if err != nil {
		t.Fatalf("failed to open test list: %v", err)
	}
	return s, backend
}

func fields(title string) models.Fields {
	return models.Fields{Title: title, Description: title + " description", Deadline: "2024-01-01"}
}

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestCreate(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()

	err := s.Create(ctx, models.Fields{Title: "Buy milk", Description: "2% milk", Deadline: "2024-01-01"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if s.Count() != 1 {
		t.Fatalf("expected count 1, got %d", s.Count())
	}
	task := s.Tasks()[0]
	if task.Title != "Buy milk" || task.Description != "2% milk" || task.Deadline != "2024-01-01" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Completed {
		t.Error("expected new task to be open")
	}

	value, ok, _ := backend.Get(ctx, "list-1")
	if !ok {
		t.Fatal("expected create to persist the list")
	}
	want := `[{"title":"Buy milk","description":"2% milk","deadline":"2024-01-01","completed":false}]`
	if value != want {
		t.Errorf("expected persisted value %s, got %s", want, value)
	}
}

func TestCreate_ValidationLeavesListUnchanged(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()

	s.Create(ctx, fields("first"))

	err := s.Create(ctx, models.Fields{Title: "  ", Description: "d", Deadline: "2024-01-01"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("expected count to stay 1, got %d", s.Count())
	}

	value, _, _ := backend.Get(ctx, "list-1")
	reloaded, _ := decodeTasks(value)
	if len(reloaded) != 1 {
		t.Errorf("expected persisted list to keep 1 task, got %d", len(reloaded))
	}
}

func TestCountTracksCreatesAndDeletes(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d"} {
		if err := s.Create(ctx, fields(title)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	s.ToggleComplete(ctx, 1)
	s.Delete(ctx, 0)
	s.ToggleComplete(ctx, 0)
	s.Delete(ctx, 2)

	if s.Count() != 2 {
		t.Errorf("expected count 2, got %d", s.Count())
	}
	if got := titles(s.Tasks()); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("expected tasks [b c], got %v", got)
	}
}

func TestExampleSequence(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, models.Fields{Title: "Buy milk", Description: "2% milk", Deadline: "2024-01-01"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("expected count 1, got %d", s.Count())
	}

	if err := s.ToggleComplete(ctx, 0); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}
	if !s.IsFullyCompleted() {
		t.Error("expected list to be fully completed")
	}
	if s.Label() != models.LabelCompleted {
		t.Errorf("expected label %q, got %q", models.LabelCompleted, s.Label())
	}

	if err := s.Delete(ctx, 0); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}
	if s.IsFullyCompleted() {
		t.Error("expected empty list to not be fully completed")
	}
}

func TestIsFullyCompleted(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	if s.IsFullyCompleted() {
		t.Error("expected empty list to not be fully completed")
	}

	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.ToggleComplete(ctx, 0)
	if s.IsFullyCompleted() {
		t.Error("expected partially completed list to not be fully completed")
	}

	s.ToggleComplete(ctx, 1)
	if !s.IsFullyCompleted() {
		t.Error("expected list to be fully completed")
	}

	s.ToggleComplete(ctx, 1)
	if s.IsFullyCompleted() {
		t.Error("expected untoggled task to reopen the list")
	}
	if s.Label() != models.LabelOpen {
		t.Errorf("expected label %q, got %q", models.LabelOpen, s.Label())
	}
}

func TestIndexOutOfRange(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "delete past end", op: func() error { return s.Delete(ctx, 1) }},
		{name: "delete negative", op: func() error { return s.Delete(ctx, -1) }},
		{name: "toggle past end", op: func() error { return s.ToggleComplete(ctx, 5) }},
		{name: "begin edit past end", op: func() error { _, err := s.BeginEdit(1); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			var nfErr *NotFoundError
			if !errors.As(err, &nfErr) || nfErr.Count != 1 {
				t.Errorf("expected NotFoundError with count 1, got %v", err)
			}
			if s.Count() != 1 {
				t.Errorf("expected list unchanged, got count %d", s.Count())
			}
		})
	}
}

func TestBeginEdit_RemovesTaskAndReturnsFields(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))

	got, err := s.BeginEdit(1)
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if got != fields("b") {
		t.Errorf("expected fields %+v, got %+v", fields("b"), got)
	}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, []string{"a", "c"}) {
		t.Errorf("expected edited task hidden, got %v", names)
	}

	editing, ok := s.Editing()
	if !ok || editing != fields("b") {
		t.Errorf("expected active edit of b, got %+v ok=%v", editing, ok)
	}

	// BeginEdit does not write; storage still holds all three in order.
	value, _, _ := backend.Get(ctx, "list-1")
	stored, _ := decodeTasks(value)
	if names := titles(stored); !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("expected storage untouched, got %v", names)
	}
}

func TestBeginEditThenCommitSameFields_MovesTaskToEnd(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))
	s.ToggleComplete(ctx, 0)

	f, err := s.BeginEdit(0)
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if err := s.CommitEdit(ctx, f); err != nil {
		t.Fatalf("CommitEdit failed: %v", err)
	}

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if names := titles(tasks); !reflect.DeepEqual(names, []string{"b", "c", "a"}) {
		t.Errorf("expected edited task moved to end, got %v", names)
	}
	last := tasks[2]
	if last.Fields() != fields("a") {
		t.Errorf("expected fields unchanged, got %+v", last.Fields())
	}
	if !last.Completed {
		t.Error("expected completed flag to survive the edit")
	}
	if _, ok := s.Editing(); ok {
		t.Error("expected edit session to be cleared")
	}
}

func TestCommitEdit_NewValuesPersist(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))

	s.BeginEdit(0)
	if err := s.CommitEdit(ctx, models.Fields{Title: " Buy oat milk ", Description: "barista", Deadline: "2024-02-01"}); err != nil {
		t.Fatalf("CommitEdit failed: %v", err)
	}

	reloaded, err := Open(ctx, backend, "list-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	tasks := reloaded.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy oat milk" || tasks[0].Deadline != "2024-02-01" {
		t.Errorf("expected edited task persisted, got %+v", tasks)
	}
}

func TestCommitEdit_WithoutBeginEdit(t *testing.T) {
	s, _ := setupTestStore(t)

	err := s.CommitEdit(context.Background(), fields("a"))
	if !errors.Is(err, ErrNoActiveEdit) {
		t.Fatalf("expected ErrNoActiveEdit, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected list unchanged, got count %d", s.Count())
	}
}

func TestCommitEdit_ValidationKeepsSession(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.BeginEdit(0)

	err := s.CommitEdit(ctx, models.Fields{Title: "a", Description: "", Deadline: "2024-01-01"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("expected task to stay hidden, got count %d", s.Count())
	}
	if _, ok := s.Editing(); !ok {
		t.Error("expected edit session to remain active")
	}

	if err := s.CommitEdit(ctx, fields("a2")); err != nil {
		t.Fatalf("CommitEdit retry failed: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("expected count 1, got %d", s.Count())
	}
}

func TestBeginEdit_WhileEditing_RestoresPendingTask(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))

	s.BeginEdit(0) // visible: b c
	got, err := s.BeginEdit(1)
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if got != fields("c") {
		t.Errorf("expected to edit c, got %+v", got)
	}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, []string{"b", "a"}) {
		t.Errorf("expected pending task restored at end, got %v", names)
	}
}

func TestCancelEdit_RestoresPosition(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))

	s.BeginEdit(1)
	if err := s.CancelEdit(ctx); err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("expected original order, got %v", names)
	}

	if err := s.CancelEdit(ctx); !errors.Is(err, ErrNoActiveEdit) {
		t.Errorf("expected ErrNoActiveEdit, got %v", err)
	}
}

func TestCancelEdit_PersistsRestoredOrder(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))

	// The toggle writes the pending task at the tail of the stored list.
	s.BeginEdit(0)
	if err := s.ToggleComplete(ctx, 0); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}
	if err := s.CancelEdit(ctx); err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}

	reopened, err := Open(ctx, backend, "list-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v in memory, got %v", want, names)
	}
	if names := titles(reopened.Tasks()); !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v in storage, got %v", want, names)
	}
	if !reopened.Tasks()[1].Completed {
		t.Error("expected toggled task to stay completed")
	}
}

func TestCancelEdit_RollsBackOnBackendFailure(t *testing.T) {
	backend := &failingBackend{MemoryStore: store.NewMemoryStore()}
	ctx := context.Background()
	s := New(backend, "list-1")
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.BeginEdit(0)

	backend.failSet = true
	if err := s.CancelEdit(ctx); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if _, ok := s.Editing(); !ok {
		t.Error("expected edit to stay pending after a failed cancel")
	}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, []string{"b"}) {
		t.Errorf("expected [b], got %v", names)
	}
}

func TestCancelEdit_ClampsAfterDeletes(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))

	s.BeginEdit(2)
	s.Delete(ctx, 1)
	s.Delete(ctx, 0)
	if err := s.CancelEdit(ctx); err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if names := titles(s.Tasks()); !reflect.DeepEqual(names, []string{"c"}) {
		t.Errorf("expected [c], got %v", names)
	}
}

func TestPersist_IncludesPendingEdit(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))

	s.BeginEdit(0)
	if err := s.ToggleComplete(ctx, 0); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}

	value, _, _ := backend.Get(ctx, "list-1")
	stored, _ := decodeTasks(value)
	if names := titles(stored); !reflect.DeepEqual(names, []string{"b", "a"}) {
		t.Errorf("expected pending task written after visible ones, got %v", names)
	}
}

func TestRoundTrip(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.Create(ctx, fields("c"))
	s.ToggleComplete(ctx, 1)

	if err := s.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	fresh := New(backend, "list-1")
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(fresh.Tasks(), s.Tasks()) {
		t.Errorf("expected %+v, got %+v", s.Tasks(), fresh.Tasks())
	}

	// Load is idempotent.
	fresh.Load(ctx)
	if fresh.Count() != 3 {
		t.Errorf("expected count 3 after second load, got %d", fresh.Count())
	}
}

func TestLoad_MissingKeyLeavesListEmpty(t *testing.T) {
	s, _ := setupTestStore(t)
	if s.Count() != 0 {
		t.Errorf("expected empty list, got %d", s.Count())
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	backend := store.NewMemoryStore()
	ctx := context.Background()
	backend.Set(ctx, "list-1", "{not json")

	if _, err := Open(ctx, backend, "list-1"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestPersistFailure_RollsBack(t *testing.T) {
	backend := &failingBackend{MemoryStore: store.NewMemoryStore()}
	ctx := context.Background()
	s := New(backend, "list-1")
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.BeginEdit(0)

	backend.failSet = true

	if err := s.Create(ctx, fields("c")); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := s.ToggleComplete(ctx, 0); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := s.Delete(ctx, 0); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if err := s.CommitEdit(ctx, fields("a2")); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected backend error, got %v", err)
	}

	tasks := s.Tasks()
	if names := titles(tasks); !reflect.DeepEqual(names, []string{"b"}) {
		t.Errorf("expected tasks rolled back to [b], got %v", names)
	}
	if tasks[0].Completed {
		t.Error("expected toggle to be rolled back")
	}
	if editing, ok := s.Editing(); !ok || editing != fields("a") {
		t.Errorf("expected edit of a to remain active, got %+v ok=%v", editing, ok)
	}
}

func TestDeleteList(t *testing.T) {
	s, backend := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))

	if err := s.DeleteList(ctx); err != nil {
		t.Fatalf("DeleteList failed: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "list-1"); ok {
		t.Error("expected storage entry to be removed")
	}

	if err := s.Create(ctx, fields("b")); !errors.Is(err, ErrListDeleted) {
		t.Errorf("expected ErrListDeleted from Create, got %v", err)
	}
	if err := s.Persist(ctx); !errors.Is(err, ErrListDeleted) {
		t.Errorf("expected ErrListDeleted from Persist, got %v", err)
	}
	if err := s.DeleteList(ctx); !errors.Is(err, ErrListDeleted) {
		t.Errorf("expected ErrListDeleted from DeleteList, got %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "list-1"); ok {
		t.Error("expected deleted list to stay out of storage")
	}
}

func TestSnapshot(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	s.Create(ctx, fields("a"))
	s.Create(ctx, fields("b"))
	s.BeginEdit(1)

	snap := s.Snapshot()
	if snap.Key != "list-1" {
		t.Errorf("expected key list-1, got %q", snap.Key)
	}
	if snap.Count() != 1 {
		t.Errorf("expected 1 visible task, got %d", snap.Count())
	}
	if snap.Editing == nil || snap.Editing.Title != "b" {
		t.Errorf("expected editing b, got %+v", snap.Editing)
	}

	snap.Tasks[0].Title = "mutated"
	if s.Tasks()[0].Title != "a" {
		t.Error("expected snapshot to be a copy")
	}
}
