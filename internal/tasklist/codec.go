package tasklist

import (
	"encoding/json"
	"fmt"

	"todolists/internal/models"
)

// encodeTasks serializes tasks as a JSON array of task objects.
// An empty sequence encodes as "[]", never "null".
func encodeTasks(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(b), nil
}

// decodeTasks parses a stored value. "null" and "" decode to no tasks.
// Elements that are null or miss a required field are dropped; a missing
// completed flag reads as false.
func decodeTasks(value string) ([]models.Task, error) {
	if value == "" {
		return nil, nil
	}
	var raw []*models.Task
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	tasks := make([]models.Task, 0, len(raw))
	for _, t := range raw {
		if t == nil || t.Fields().Validate() != nil {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}
