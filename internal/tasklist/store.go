// Package tasklist maintains ordered task lists and keeps each one in sync
// with a key-value storage backend.
package tasklist

import (
	"context"
	"fmt"

	"todolists/internal/models"
	"todolists/internal/store"
)

// editSession holds the task pulled out of the list for editing.
type editSession struct {
	task  models.Task
	index int // position the task was taken from
}

// Store owns the ordered tasks of one list and persists them under its key
// after every mutation. A Store is not safe for concurrent use; callers
// serialize access.
type Store struct {
	backend store.Store
	key     string
	tasks   []models.Task
	edit    *editSession
	deleted bool
}

// New creates an empty store for key. Call Load to hydrate it.
func New(backend store.Store, key string) *Store {
	return &Store{backend: backend, key: key}
}

// Open creates a store for key and loads its persisted tasks.
func Open(ctx context.Context, backend store.Store, key string) (*Store, error) {
	s := New(backend, key)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the storage key of the list.
func (s *Store) Key() string {
	return s.key
}

// Create appends a new open task built from f.
func (s *Store) Create(ctx context.Context, f models.Fields) error {
	if s.deleted {
		return ErrListDeleted
	}

	task, err := models.NewTask(f)
	if err != nil {
		return err
	}

	prev := s.checkpoint()
	s.tasks = append(s.tasks, task)
	return s.persistOrRestore(ctx, prev)
}

// BeginEdit removes the task at index from the list and holds it until the
// edit is committed or cancelled. It returns the task's current fields.
// A task already being edited goes back to the end of the list unchanged.
func (s *Store) BeginEdit(index int) (models.Fields, error) {
	if s.deleted {
		return models.Fields{}, ErrListDeleted
	}
	if err := s.checkIndex(index); err != nil {
		return models.Fields{}, err
	}

	task := s.tasks[index]
	s.tasks = append(s.tasks[:index:index], s.tasks[index+1:]...)
	if s.edit != nil {
		s.tasks = append(s.tasks, s.edit.task)
	}
	s.edit = &editSession{task: task, index: index}

	return task.Fields(), nil
}

// CommitEdit appends a task built from f in place of the one being edited,
// keeping its completed flag. On a validation error the edit stays active.
func (s *Store) CommitEdit(ctx context.Context, f models.Fields) error {
	if s.deleted {
		return ErrListDeleted
	}
	if s.edit == nil {
		return ErrNoActiveEdit
	}

	task, err := models.NewTask(f)
	if err != nil {
		return err
	}
	task.Completed = s.edit.task.Completed

	prev := s.checkpoint()
	s.tasks = append(s.tasks, task)
	s.edit = nil
	return s.persistOrRestore(ctx, prev)
}

// CancelEdit puts the task being edited back where it was taken from and
// persists the restored order.
func (s *Store) CancelEdit(ctx context.Context) error {
	if s.deleted {
		return ErrListDeleted
	}
	if s.edit == nil {
		return ErrNoActiveEdit
	}

	prev := s.checkpoint()
	index := min(s.edit.index, len(s.tasks))
	tasks := make([]models.Task, 0, len(s.tasks)+1)
	tasks = append(tasks, s.tasks[:index]...)
	tasks = append(tasks, s.edit.task)
	tasks = append(tasks, s.tasks[index:]...)

	s.tasks = tasks
	s.edit = nil
	return s.persistOrRestore(ctx, prev)
}

// Editing returns the fields of the task being edited, if any.
func (s *Store) Editing() (models.Fields, bool) {
	if s.edit == nil {
		return models.Fields{}, false
	}
	return s.edit.task.Fields(), true
}

// Delete removes the task at index.
func (s *Store) Delete(ctx context.Context, index int) error {
	if s.deleted {
		return ErrListDeleted
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}

	prev := s.checkpoint()
	s.tasks = append(s.tasks[:index:index], s.tasks[index+1:]...)
	return s.persistOrRestore(ctx, prev)
}

// ToggleComplete flips the completed flag of the task at index.
func (s *Store) ToggleComplete(ctx context.Context, index int) error {
	if s.deleted {
		return ErrListDeleted
	}
	if err := s.checkIndex(index); err != nil {
		return err
	}

	prev := s.checkpoint()
	s.tasks[index].Completed = !s.tasks[index].Completed
	return s.persistOrRestore(ctx, prev)
}

// Count returns the number of visible tasks.
func (s *Store) Count() int {
	return len(s.tasks)
}

// IsFullyCompleted returns true if the list has tasks and all are completed.
func (s *Store) IsFullyCompleted() bool {
	return models.AllCompleted(s.tasks)
}

// Label returns "Completed List" once every task is done, "To-Do List" otherwise.
func (s *Store) Label() string {
	return models.LabelFor(s.tasks)
}

// Tasks returns a copy of the visible tasks in display order.
func (s *Store) Tasks() []models.Task {
	return cloneTasks(s.tasks)
}

// Snapshot returns a read-only view of the list for rendering.
func (s *Store) Snapshot() models.List {
	list := models.List{Key: s.key, Tasks: s.Tasks()}
	if f, ok := s.Editing(); ok {
		list.Editing = &f
	}
	return list
}

// Load replaces the tasks with the value persisted under the key.
// A missing entry leaves the list empty. Any pending edit is dropped.
func (s *Store) Load(ctx context.Context) error {
	if s.deleted {
		return ErrListDeleted
	}

	value, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load list %s: %w", s.key, err)
	}

	var tasks []models.Task
	if ok {
		tasks, err = decodeTasks(value)
		if err != nil {
			return fmt.Errorf("failed to load list %s: %w", s.key, err)
		}
	}

	s.tasks = tasks
	s.edit = nil
	return nil
}

// Persist writes the whole list under the key. A task being edited is
// written after the visible tasks so it survives a restart.
func (s *Store) Persist(ctx context.Context) error {
	if s.deleted {
		return ErrListDeleted
	}

	tasks := s.tasks
	if s.edit != nil {
		tasks = append(cloneTasks(s.tasks), s.edit.task)
	}

	value, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("failed to persist list %s: %w", s.key, err)
	}
	return nil
}

// DeleteList removes the list from storage. The store is unusable afterwards.
func (s *Store) DeleteList(ctx context.Context) error {
	if s.deleted {
		return ErrListDeleted
	}

	if err := s.backend.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete list %s: %w", s.key, err)
	}

	s.deleted = true
	s.tasks = nil
	s.edit = nil
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return &NotFoundError{Index: index, Count: len(s.tasks)}
	}
	return nil
}

type checkpoint struct {
	tasks []models.Task
	edit  *editSession
}

func (s *Store) checkpoint() checkpoint {
	cp := checkpoint{tasks: cloneTasks(s.tasks)}
	if s.edit != nil {
		e := *s.edit
		cp.edit = &e
	}
	return cp
}

// persistOrRestore persists the list, rolling back to prev on failure.
func (s *Store) persistOrRestore(ctx context.Context, prev checkpoint) error {
	if err := s.Persist(ctx); err != nil {
		s.tasks = prev.tasks
		s.edit = prev.edit
		return err
	}
	return nil
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
