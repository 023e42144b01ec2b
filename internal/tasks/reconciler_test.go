package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskdeck/internal/models"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory stand-in for the HTTP client
type fakeAPI struct {
	mu         sync.Mutex
	tasks      []models.Task
	nextID     int
	failCreate bool
	failUpdate bool
	failDelete bool
	listCalls  int
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]models.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return models.Task{}, errBackend
	}
	f.nextID++
	task := models.Task{
		ID:         fmt.Sprintf("t%d", f.nextID),
		UserID:     "u1",
		Title:      draft.Title,
		Priority:   draft.Priority,
		Visibility: draft.Visibility,
		AssignedTo: draft.AssignedTo,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return models.Task{}, errBackend
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if patch.Completed != nil {
				f.tasks[i].Completed = *patch.Completed
			}
			if patch.Title != nil {
				f.tasks[i].Title = *patch.Title
			}
			return f.tasks[i], nil
		}
	}
	return models.Task{}, errBackend
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errBackend
	}
	kept := f.tasks[:0:0]
	for _, t := range f.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

func seeded(n int) *fakeAPI {
	f := &fakeAPI{}
	for i := 1; i <= n; i++ {
		f.tasks = append(f.tasks, models.Task{
			ID:         fmt.Sprintf("t%d", i),
			UserID:     "u1",
			Title:      fmt.Sprintf("task %d", i),
			Visibility: models.VisibilityPersonal,
		})
	}
	f.nextID = n
	return f
}

func TestValidateDraft(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		draft models.TaskDraft
		want  error
	}{
		{"ok personal", models.TaskDraft{Title: "x", Visibility: models.VisibilityPersonal}, nil},
		{"blank title", models.TaskDraft{Title: "   "}, ErrTitleRequired},
		{"shared without assignee", models.TaskDraft{Title: "x", Visibility: models.VisibilityShared}, ErrAssigneeRequired},
		{"shared to self", models.TaskDraft{Title: "x", Visibility: models.VisibilityShared, AssignedTo: models.UserIDs{"u1"}}, ErrSelfAssignment},
		{"shared ok", models.TaskDraft{Title: "x", Visibility: models.VisibilityShared, AssignedTo: models.UserIDs{"u2"}}, nil},
		{"due yesterday", models.TaskDraft{Title: "x", DueDate: &yesterday}, ErrDueDatePast},
		{"due today", models.TaskDraft{Title: "x", DueDate: &today}, nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDraft(tc.draft, "u1", now)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateDraft = %v, want %v", err, tc.want)
			}
			if tc.want != nil && !IsValidation(err) {
				t.Fatalf("%v should be a validation error", err)
			}
		})
	}
}

func TestCreateValidationSkipsBackend(t *testing.T) {
	t.Parallel()

	f := seeded(0)
	r := NewReconciler(f, "u1")

	err := r.Create(context.Background(), models.TaskDraft{
		Title:      "x",
		Visibility: models.VisibilityShared,
		AssignedTo: models.UserIDs{"u1"},
	})
	if !errors.Is(err, ErrSelfAssignment) {
		t.Fatalf("err = %v", err)
	}
	if f.listCalls != 0 {
		t.Fatal("no request may be sent when validation fails")
	}
}

func TestVisiblePagination(t *testing.T) {
	t.Parallel()

	f := seeded(20)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := r.TotalPages(); got != 3 {
		t.Fatalf("TotalPages = %d", got)
	}
	if got := len(r.Visible()); got != PageSize {
		t.Fatalf("page 1 has %d tasks", got)
	}

	r.NextPage()
	r.NextPage()
	if got := len(r.Visible()); got != 4 {
		t.Fatalf("page 3 has %d tasks", got)
	}

	// bounded on both ends
	r.NextPage()
	if r.Page() != 3 {
		t.Fatalf("Page = %d after overshoot", r.Page())
	}
	r.PrevPage()
	r.PrevPage()
	r.PrevPage()
	if r.Page() != 1 {
		t.Fatalf("Page = %d after undershoot", r.Page())
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	t.Parallel()

	f := seeded(20)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.NextPage()
	if r.Page() != 2 {
		t.Fatalf("Page = %d", r.Page())
	}

	r.SetStatus(StatusPending)
	if r.Page() != 1 {
		t.Fatal("status change must reset the page")
	}

	r.NextPage()
	r.SetSection(SectionShared)
	if r.Page() != 1 {
		t.Fatal("section change must reset the page")
	}

	// setting the same filter again keeps the page
	r.SetSection(SectionShared)
	r.SetStatus(StatusPending)
	r.SetSection(SectionPersonal)
	r.NextPage()
	r.SetStatus(StatusPending)
	if r.Page() != 2 {
		t.Fatal("re-setting the active filter must not reset the page")
	}
}

func TestListLengthChangeResetsPage(t *testing.T) {
	t.Parallel()

	f := seeded(20)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	r.NextPage()
	if err := r.Delete(context.Background(), "t1"); err != nil {
		t.Fatal(err)
	}
	if r.Page() != 1 {
		t.Fatal("a shrunk list must reset the page")
	}
}

func TestToggleCompleteOptimisticThenConfirmed(t *testing.T) {
	t.Parallel()

	f := seeded(3)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := r.ToggleComplete(context.Background(), "t2"); err != nil {
		t.Fatal(err)
	}
	task, ok := r.Get("t2")
	if !ok || !task.Completed {
		t.Fatalf("t2 = %+v", task)
	}
	// the server copy agrees
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.tasks[1].Completed {
		t.Fatal("server copy not updated")
	}
}

func TestToggleCompleteRollsBackByRefetch(t *testing.T) {
	t.Parallel()

	f := seeded(3)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	f.failUpdate = true
	f.mu.Unlock()

	err := r.ToggleComplete(context.Background(), "t2")
	if !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}

	// the optimistic flip must be gone after the resync
	task, ok := r.Get("t2")
	if !ok || task.Completed {
		t.Fatalf("t2 = %+v, want rolled back", task)
	}
}

func TestDeleteRollsBackByRefetch(t *testing.T) {
	t.Parallel()

	f := seeded(3)
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	f.failDelete = true
	f.mu.Unlock()

	err := r.Delete(context.Background(), "t2")
	if !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := r.Get("t2"); !ok {
		t.Fatal("t2 must reappear after the failed delete")
	}
}

func TestSectionFiltering(t *testing.T) {
	t.Parallel()

	f := &fakeAPI{tasks: []models.Task{
		{ID: "p1", UserID: "u1", Title: "mine", Visibility: models.VisibilityPersonal},
		{ID: "p2", UserID: "u1", Title: "legacy"}, // no visibility set
		{ID: "s1", UserID: "u1", Title: "shared out", Visibility: models.VisibilityShared, AssignedTo: models.UserIDs{"u2"}},
		{ID: "a1", UserID: "u2", Title: "for me", Visibility: models.VisibilityShared, AssignedTo: models.UserIDs{"u1"}},
	}}
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	ids := func(list []models.Task) []string {
		var out []string
		for _, t := range list {
			out = append(out, t.ID)
		}
		return out
	}

	if got := ids(r.Filtered()); len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Fatalf("personal = %v", got)
	}

	r.SetSection(SectionShared)
	if got := ids(r.Filtered()); len(got) != 2 || got[0] != "s1" || got[1] != "a1" {
		t.Fatalf("shared = %v", got)
	}

	r.SetSection(SectionAssigned)
	if got := ids(r.Filtered()); len(got) != 1 || got[0] != "a1" {
		t.Fatalf("assigned = %v", got)
	}

	if got := ids(r.AssignedToMe()); len(got) != 1 || got[0] != "a1" {
		t.Fatalf("AssignedToMe = %v", got)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	f := seeded(5)
	f.tasks[0].Completed = true
	f.tasks[3].Completed = true
	r := NewReconciler(f, "u1")
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	total, completed, pending := r.Stats()
	if total != 5 || completed != 2 || pending != 3 {
		t.Fatalf("Stats = %d %d %d", total, completed, pending)
	}
	if got := len(r.CompletedHistory()); got != 2 {
		t.Fatalf("CompletedHistory = %d", got)
	}
}
