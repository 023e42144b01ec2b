package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"taskdeck/internal/models"
)

// Login exchanges credentials for a token and profile. It goes out without
// a bearer header.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var sess models.Session
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) error {
	body := struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}{firstName, lastName, email, password}

	return c.do(ctx, http.MethodPost, "/users/register", body, nil)
}

// ListUsersBasic returns the collaborator picker list; the backend excludes
// the caller.
func (c *Client) ListUsersBasic(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users/list-basic", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile changes the caller's name and avatar reference. The backend
// echoes the updated profile wrapped in a user field.
func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName, avatarURL string) (models.User, error) {
	body := struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		AvatarURL string `json:"avatarUrl"`
	}{firstName, lastName, avatarURL}

	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/users/me", body, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// UploadAvatar sends a single image as multipart form data and returns the
// stored path, relative to the backend origin unless absolute.
func (c *Client) UploadAvatar(ctx context.Context, file Upload) (string, error) {
	if len(file.Data) > MaxUploadFileSize {
		return "", fmt.Errorf("avatar %q exceeds the %d MiB limit", file.Name, MaxUploadFileSize>>20)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("avatar", file.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	path := "/users/me/avatar"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// AdminListUsers returns all accounts (admin only)
func (c *Client) AdminListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users/admin", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminDeleteUser removes an account (admin only)
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/admin/"+id, nil, nil)
}

// AdminResetPassword sets a new password for an account (admin only)
func (c *Client) AdminResetPassword(ctx context.Context, id, newPassword string) error {
	body := struct {
		NewPassword string `json:"newPassword"`
	}{newPassword}
	return c.do(ctx, http.MethodPost, "/users/admin/"+id+"/reset-password", body, nil)
}
