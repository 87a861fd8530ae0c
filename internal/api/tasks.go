package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tgienger/pmt/internal/models"
)

// TaskInput is the field set of a task form. Update sends every field,
// status included even when empty.
type TaskInput struct {
	ProjectID   int64             `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     string            `json:"due_date"`
	Status      models.TaskStatus `json:"status"`
}

// newTask is the create payload. It has no status; the backend defaults it.
type newTask struct {
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// ListTasks returns every task, each with its project's name.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, &t)
	return t, err
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) error {
	body := newTask{
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	}
	return c.do(ctx, http.MethodPost, "/tasks", body, nil)
}

func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), in, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, nil)
}
