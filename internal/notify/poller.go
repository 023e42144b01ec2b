// Package notify keeps a local view of the user's notifications in sync
// with the server by polling. It is interface-driven so a push-based source
// can replace the polling transport without touching consumers.
package notify

import (
	"context"
	"sync"
	"time"

	"taskdeck/internal/models"
)

// Interval is the polling cadence while authenticated
const Interval = 30 * time.Second

// MaxItems bounds each fetch to the most recent notifications
const MaxItems = 20

// API is the slice of the backend client the poller needs
type API interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
}

// Poller holds the notification cache and the unread-id set used to detect
// arrivals. Timer-driven and user-triggered refreshes both go through Sync,
// so a manual refresh cannot re-announce what the timer already announced.
type Poller struct {
	api API

	mu         sync.Mutex
	items      []models.Notification
	prevUnread map[string]struct{}
}

func NewPoller(api API) *Poller {
	return &Poller{
		api:        api,
		prevUnread: make(map[string]struct{}),
	}
}

// Sync fetches the latest notifications and reports whether any unread id
// was not in the previous unread set. On fetch failure the local list and
// the unread set are cleared (fail closed, not fail stale); the next
// successful sync rebuilds from scratch.
func (p *Poller) Sync(ctx context.Context) (fresh bool, err error) {
	list, err := p.api.ListNotifications(ctx)
	if err != nil {
		p.mu.Lock()
		p.items = nil
		p.prevUnread = make(map[string]struct{})
		p.mu.Unlock()
		return false, err
	}
	if len(list) > MaxItems {
		list = list[:MaxItems]
	}

	unread := make(map[string]struct{})
	for _, n := range list {
		if !n.Read {
			unread[n.ID] = struct{}{}
		}
	}

	p.mu.Lock()
	for id := range unread {
		if _, seen := p.prevUnread[id]; !seen {
			fresh = true
			break
		}
	}
	p.prevUnread = unread
	p.items = list
	p.mu.Unlock()

	return fresh, nil
}

// Items returns a copy of the cached notifications
func (p *Poller) Items() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Notification(nil), p.items...)
}

// UnreadCount counts cached unread notifications
func (p *Poller) UnreadCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, n := range p.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one notification read, updating the local list and the
// unread set in lock-step so the next sync does not re-announce it.
func (p *Poller) MarkRead(ctx context.Context, id string) error {
	if err := p.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].Read = true
		}
	}
	delete(p.prevUnread, id)
	p.mu.Unlock()
	return nil
}

// MarkAllRead flags every unread notification. The backend has no bulk
// endpoint, so this loops; the first failure aborts and reports.
func (p *Poller) MarkAllRead(ctx context.Context) error {
	p.mu.Lock()
	var unread []string
	for _, n := range p.items {
		if !n.Read {
			unread = append(unread, n.ID)
		}
	}
	p.mu.Unlock()

	for _, id := range unread {
		if err := p.MarkRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes one notification locally and remotely
func (p *Poller) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteNotification(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	kept := p.items[:0:0]
	for _, n := range p.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	p.items = kept
	delete(p.prevUnread, id)
	p.mu.Unlock()
	return nil
}

// DeleteAll clears every notification locally and remotely
func (p *Poller) DeleteAll(ctx context.Context) error {
	if err := p.api.DeleteAllNotifications(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	p.items = nil
	p.prevUnread = make(map[string]struct{})
	p.mu.Unlock()
	return nil
}
