package tasklist

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrNoActiveEdit = errors.New("no task is being edited")
	ErrListDeleted  = errors.New("list has been deleted")
	ErrListNotFound = errors.New("list not found")
)

// NotFoundError reports an index outside the visible task sequence.
type NotFoundError struct {
	Index int
	Count int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: index %d (list has %d tasks)", e.Index, e.Count)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
