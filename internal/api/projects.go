package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tgienger/pmt/internal/models"
)

// ProjectInput is the full field set sent on create and update.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

// ListProjects returns every project. The backend does not paginate.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns one project with its tasks.
func (c *Client) GetProject(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &p)
	return p, err
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) error {
	return c.do(ctx, http.MethodPost, "/projects", in, nil)
}

func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), in, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil)
}
