package views

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/tasks"
)

// stubTaskAPI backs a reconciler whose refetch behavior the test controls
type stubTaskAPI struct {
	tasks   []models.Task
	listErr error
}

func (s *stubTaskAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	return append([]models.Task(nil), s.tasks...), s.listErr
}

func (s *stubTaskAPI) CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	return models.Task{}, nil
}

func (s *stubTaskAPI) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	return models.Task{}, nil
}

func (s *stubTaskAPI) DeleteTask(ctx context.Context, id string) error {
	return nil
}

func acceptServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRespondReportsSuccessAfterRefetch(t *testing.T) {
	t.Parallel()

	srv := acceptServer(t)
	client := api.New(api.Options{BaseURL: srv.URL})
	stub := &stubTaskAPI{tasks: []models.Task{{ID: "t1", UserID: "u2"}}}
	rec := tasks.NewReconciler(stub, "u1")

	v := NewDashboardView(client, rec, models.User{ID: "u1"})

	msg := v.respondCmd("t1", true)()
	action, ok := msg.(taskActionMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if action.err != nil {
		t.Fatal(action.err)
	}
	if action.info != "Invitation accepted" {
		t.Fatalf("info = %q", action.info)
	}
}

func TestRespondSurfacesRefetchFailure(t *testing.T) {
	t.Parallel()

	srv := acceptServer(t)
	client := api.New(api.Options{BaseURL: srv.URL})
	stub := &stubTaskAPI{listErr: errors.New("list unavailable")}
	rec := tasks.NewReconciler(stub, "u1")

	v := NewDashboardView(client, rec, models.User{ID: "u1"})

	// the accept succeeds, the refetch does not; the stale cache must not
	// be reported as a success
	msg := v.respondCmd("t1", false)()
	action, ok := msg.(taskActionMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if action.err == nil {
		t.Fatal("a failed refetch must surface as an error")
	}
	if action.info != "" {
		t.Fatalf("info = %q alongside a stale cache", action.info)
	}
}
