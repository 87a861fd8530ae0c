package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DisplayLayout is how dates are shown in tables
const DisplayLayout = "02-01-2006"

// Date is a calendar date without a time of day
type Date struct {
	time.Time
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// ParseDate accepts the layouts the backend is known to send
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}, nil
		}
	}
	return Date{}, fmt.Errorf("models: unrecognized date %q", s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("models: date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// String returns the wire form, empty for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Display returns the table form, or an em dash when unset
func (d Date) Display() string {
	if d.IsZero() {
		return "—"
	}
	return d.Format(DisplayLayout)
}

// User is the account attached to a session
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Project represents a project owned by the remote service
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     Date   `json:"due_date"`
	Tasks       []Task `json:"tasks,omitempty"` // populated by GET /projects/:id
}

// ProjectRef is the project summary nested in listed tasks
type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists every status in display order
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// Label returns a human readable status
func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Task represents a single task
type Task struct {
	ID          int64       `json:"id"`
	ProjectID   int64       `json:"project_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     Date        `json:"due_date"`
	Status      TaskStatus  `json:"status"`
	Project     *ProjectRef `json:"project,omitempty"` // populated by GET /tasks
}

// ProjectName returns the nested project's name when the backend sent one
func (t Task) ProjectName() string {
	if t.Project == nil {
		return ""
	}
	return t.Project.Name
}

// DashboardStats is the server-derived summary
type DashboardStats struct {
	ProjectsCount int `json:"projects_count"`
	TasksCount    int `json:"tasks_count"`
}
