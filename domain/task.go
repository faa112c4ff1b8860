package domain

import (
	"strings"
	"time"
)

// Task represents a single to-do item owned by the local user.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WasEdited reports whether the task changed after creation.
func (t *Task) WasEdited() bool {
	return t != nil && !t.UpdatedAt.Equal(t.CreatedAt)
}

// Counts is the derived summary shown next to the task list.
type Counts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// CountTasks derives the summary for the provided collection.
func CountTasks(tasks []Task) Counts {
	counts := Counts{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Completed {
			counts.Completed++
		}
	}
	counts.Pending = counts.Total - counts.Completed
	return counts
}

// NormalizeText trims user supplied text the same way for titles and descriptions.
func NormalizeText(value string) string {
	return strings.TrimSpace(value)
}
