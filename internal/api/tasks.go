package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"taskdeck/internal/models"
)

// Attachment limits enforced client-side before any bytes leave the machine
const (
	MaxUploadFiles    = 5
	MaxUploadFileSize = 5 << 20 // 5 MiB each
)

// Upload is a file staged for a multipart submission
type Upload struct {
	Name string
	Data []byte
}

// ListTasks returns the tasks visible to the current user
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask submits a new task
func (c *Client) CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", draft, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update; nil patch fields are untouched
func (c *Client) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id, patch, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// AcceptTask accepts a task invitation
func (c *Client) AcceptTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+id+"/accept", nil, nil)
}

// DeclineTask declines a task invitation
func (c *Client) DeclineTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+id+"/decline", nil, nil)
}

// SubmitProgress uploads a progress report with attachments as multipart
// form data: a content field plus up to MaxUploadFiles files.
func (c *Client) SubmitProgress(ctx context.Context, id, content string, files []Upload) error {
	if len(files) > MaxUploadFiles {
		return fmt.Errorf("at most %d attachments are allowed", MaxUploadFiles)
	}
	for _, f := range files {
		if len(f.Data) > MaxUploadFileSize {
			return fmt.Errorf("attachment %q exceeds the %d MiB limit", f.Name, MaxUploadFileSize>>20)
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("content", content); err != nil {
		return err
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	path := "/tasks/" + id + "/progress"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	return c.send(req, nil)
}

// TaskReports returns a task together with its progress reports
func (c *Client) TaskReports(ctx context.Context, id string) (models.TaskReports, error) {
	var out models.TaskReports
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id+"/progress", nil, &out); err != nil {
		return models.TaskReports{}, err
	}
	return out, nil
}

// AdminListAllTasks returns every task in the system (admin only)
func (c *Client) AdminListAllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/admin/all", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AdminAssignTask assigns a task to a user (admin only)
func (c *Client) AdminAssignTask(ctx context.Context, id, userID string) error {
	body := struct {
		UserID string `json:"userId"`
	}{userID}
	return c.do(ctx, http.MethodPost, "/tasks/admin/"+id+"/assign", body, nil)
}

// AdminReviewProgress approves or rejects a progress report. An approval may
// carry a new task progress percentage; progress is omitted when nil.
func (c *Client) AdminReviewProgress(ctx context.Context, taskID, reportID string, decision models.ReportStatus, comment string, progress *int) error {
	body := map[string]any{
		"decision": decision,
		"comment":  comment,
	}
	if progress != nil {
		body["progress"] = *progress
	}
	path := "/tasks/admin/" + taskID + "/progress/" + reportID + "/review"
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// AdminTeamStats returns the completion summary (admin only)
func (c *Client) AdminTeamStats(ctx context.Context) (models.TeamStats, error) {
	var stats models.TeamStats
	if err := c.do(ctx, http.MethodGet, "/tasks/admin/stats", nil, &stats); err != nil {
		return models.TeamStats{}, err
	}
	return stats, nil
}

// AdminCreateProjectTask creates a project task with optional attachments
// (admin only). Sent as multipart because of the files.
func (c *Client) AdminCreateProjectTask(ctx context.Context, projectID string, draft models.TaskDraft, files []Upload) error {
	if len(files) > MaxUploadFiles {
		return fmt.Errorf("at most %d attachments are allowed", MaxUploadFiles)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("title", draft.Title)
	if draft.Description != "" {
		w.WriteField("description", draft.Description)
	}
	if draft.DueDate != nil {
		w.WriteField("dueDate", draft.DueDate.Format("2006-01-02"))
	}
	if draft.Priority != "" {
		w.WriteField("priority", string(draft.Priority))
	}
	w.WriteField("projectId", projectID)
	for _, id := range draft.AssignedTo {
		w.WriteField("assignedTo", id)
	}
	for _, f := range files {
		if len(f.Data) > MaxUploadFileSize {
			return fmt.Errorf("attachment %q exceeds the %d MiB limit", f.Name, MaxUploadFileSize>>20)
		}
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return err
		}
		if _, err := part.Write(f.Data); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	path := "/tasks/admin/project-task"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	return c.send(req, nil)
}
