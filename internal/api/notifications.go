package api

import (
	"context"
	"net/http"

	"taskdeck/internal/models"
)

// ListNotifications returns the current user's notifications, newest first
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var items []models.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkNotificationRead flags one notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+id+"/read", nil, nil)
}

// DeleteNotification removes one notification
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notifications/"+id, nil, nil)
}

// DeleteAllNotifications removes every notification for the current user
func (c *Client) DeleteAllNotifications(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/notifications", nil, nil)
}
