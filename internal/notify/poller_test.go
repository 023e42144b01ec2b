package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"taskdeck/internal/models"
)

var errDown = errors.New("backend down")

type fakeAPI struct {
	mu    sync.Mutex
	items []models.Notification
	fail  bool
}

func (f *fakeAPI) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errDown
	}
	return append([]models.Notification(nil), f.items...), nil
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errDown
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeAPI) DeleteNotification(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errDown
	}
	kept := f.items[:0:0]
	for _, n := range f.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeAPI) DeleteAllNotifications(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errDown
	}
	f.items = nil
	return nil
}

func (f *fakeAPI) push(id string, read bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]models.Notification{{ID: id, Title: id, Read: read}}, f.items...)
}

func TestSyncAnnouncesOnlyNewUnread(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	p := NewPoller(f)

	fresh, err := p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Fatal("first unread must announce")
	}

	// same unread set: silent
	fresh, err = p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Fatal("unchanged unread set must stay silent")
	}

	// a new unread arrives
	f.push("n2", false)
	fresh, err = p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Fatal("a new unread id must announce")
	}
}

func TestSyncIgnoresReadItems(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", true)
	p := NewPoller(f)

	fresh, err := p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Fatal("read items never announce")
	}
	if p.UnreadCount() != 0 {
		t.Fatalf("UnreadCount = %d", p.UnreadCount())
	}
}

func TestSyncFailsClosed(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.Items()) != 1 {
		t.Fatalf("Items = %d", len(p.Items()))
	}

	f.mu.Lock()
	f.fail = true
	f.mu.Unlock()

	fresh, err := p.Sync(context.Background())
	if !errors.Is(err, errDown) {
		t.Fatalf("err = %v", err)
	}
	if fresh {
		t.Fatal("a failed sync must not announce")
	}
	if len(p.Items()) != 0 || p.UnreadCount() != 0 {
		t.Fatal("a failed sync must clear the local cache")
	}

	// the cleared set makes recovery re-announce the still-unread item
	f.mu.Lock()
	f.fail = false
	f.mu.Unlock()
	fresh, err = p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !fresh {
		t.Fatal("recovery must re-announce unseen unread ids")
	}
}

func TestSyncTruncatesToMaxItems(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	for i := 0; i < MaxItems+7; i++ {
		f.push(fmt.Sprintf("n%d", i), false)
	}
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Items()); got != MaxItems {
		t.Fatalf("Items = %d, want %d", got, MaxItems)
	}
}

func TestMarkReadPreventsReannounce(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.MarkRead(context.Background(), "n1"); err != nil {
		t.Fatal(err)
	}
	if p.UnreadCount() != 0 {
		t.Fatalf("UnreadCount = %d", p.UnreadCount())
	}

	fresh, err := p.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if fresh {
		t.Fatal("a read notification must not be re-announced")
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	f.push("n2", false)
	f.push("n3", true)
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.MarkAllRead(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.UnreadCount() != 0 {
		t.Fatalf("UnreadCount = %d", p.UnreadCount())
	}
	for _, n := range p.Items() {
		if !n.Read {
			t.Fatalf("%s still unread", n.ID)
		}
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	f.push("n2", false)
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Delete(context.Background(), "n2"); err != nil {
		t.Fatal(err)
	}
	items := p.Items()
	if len(items) != 1 || items[0].ID != "n1" {
		t.Fatalf("Items = %+v", items)
	}

	if err := p.DeleteAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.Items()) != 0 {
		t.Fatal("DeleteAll must empty the cache")
	}
}

func TestDeleteFailureKeepsCache(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{}
	f.push("n1", false)
	p := NewPoller(f)

	if _, err := p.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	f.fail = true
	f.mu.Unlock()

	if err := p.Delete(context.Background(), "n1"); !errors.Is(err, errDown) {
		t.Fatalf("err = %v", err)
	}
	if len(p.Items()) != 1 {
		t.Fatal("a failed delete must not drop the local item")
	}
}
