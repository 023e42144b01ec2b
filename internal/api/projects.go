package api

import (
	"context"
	"net/http"

	"taskdeck/internal/models"
)

// ListProjects returns all projects (admin only)
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project (admin only)
func (c *Client) CreateProject(ctx context.Context, draft models.ProjectDraft) (models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPost, "/projects", draft, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject removes a project (admin only)
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

// UpdateProjectMembers replaces a project's member set (admin only)
func (c *Client) UpdateProjectMembers(ctx context.Context, id string, members models.UserIDs) error {
	body := struct {
		Members models.UserIDs `json:"members"`
	}{members}
	return c.do(ctx, http.MethodPut, "/projects/"+id+"/members", body, nil)
}
