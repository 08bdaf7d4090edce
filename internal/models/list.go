package models

const (
	// LabelOpen is shown while a list has open tasks or no tasks at all.
	LabelOpen = "To-Do List"
	// LabelCompleted is shown once every task in a list is completed.
	LabelCompleted = "Completed List"
)

// List is a read-only snapshot of one to-do list for rendering and export.
type List struct {
	Key   string `json:"key" yaml:"key"`
	Tasks []Task `json:"tasks" yaml:"tasks"`

	// Editing holds the fields of the task pulled out for editing, if any.
	Editing *Fields `json:"-" yaml:"-"`
}

// Count returns the number of visible tasks.
func (l List) Count() int {
	return len(l.Tasks)
}

// IsFullyCompleted returns true if the list has tasks and all are completed.
func (l List) IsFullyCompleted() bool {
	return AllCompleted(l.Tasks)
}

// Label returns the heading for the list.
func (l List) Label() string {
	return LabelFor(l.Tasks)
}

// LabelFor returns the heading matching the completion state of tasks.
func LabelFor(tasks []Task) string {
	if AllCompleted(tasks) {
		return LabelCompleted
	}
	return LabelOpen
}
