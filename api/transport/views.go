package transport

import (
	"time"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

// DateFormatter renders a timestamp for display in the active locale.
type DateFormatter func(time.Time) string

// TaskView is the presentation form of a task.
type TaskView struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Completed        bool   `json:"completed"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
	CreatedAtDisplay string `json:"createdAtDisplay"`
	UpdatedAtDisplay string `json:"updatedAtDisplay,omitempty"`
}

// TaskListView is returned by the list endpoint.
type TaskListView struct {
	Tasks  []TaskView    `json:"tasks"`
	Counts domain.Counts `json:"counts"`
}

// LocaleView describes the active locale and its message bundle.
type LocaleView struct {
	Locale    string            `json:"locale"`
	Name      string            `json:"name"`
	Supported []LanguageOption  `json:"supported"`
	Messages  map[string]string `json:"messages,omitempty"`
}

type LanguageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTaskView converts a task. The updated date is only shown once the task changed.
func NewTaskView(task domain.Task, format DateFormatter) TaskView {
	view := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   repository.FormatTimestamp(task.CreatedAt),
		UpdatedAt:   repository.FormatTimestamp(task.UpdatedAt),
	}
	if format != nil {
		view.CreatedAtDisplay = format(task.CreatedAt)
		if task.WasEdited() {
			view.UpdatedAtDisplay = format(task.UpdatedAt)
		}
	}
	return view
}

// NewTaskListView converts the whole collection preserving order.
func NewTaskListView(tasks []domain.Task, format DateFormatter) TaskListView {
	views := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, NewTaskView(task, format))
	}
	return TaskListView{Tasks: views, Counts: domain.CountTasks(tasks)}
}
