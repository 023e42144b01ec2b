package tasks

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/models"
)

// API is the slice of the backend client the reconciler needs
type API interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Section selects which slice of the task collection is shown
type Section string

const (
	SectionPersonal Section = "personal"
	SectionShared   Section = "shared"
	SectionAssigned Section = "assigned"
)

// StatusFilter narrows a section by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// PageSize is the dashboard page length
const PageSize = 8

// Reconciler owns the local cache of the current user's tasks. Mutations
// are optimistic where the original client was optimistic (completion
// toggle, delete); any failure triggers a full refetch rather than a
// partial rollback, so the cache always converges on the last confirmed
// server state.
type Reconciler struct {
	api    API
	userID string

	mu       sync.Mutex
	tasks    []models.Task
	section  Section
	status   StatusFilter
	page     int
	pageSize int
}

func NewReconciler(api API, userID string) *Reconciler {
	return &Reconciler{
		api:      api,
		userID:   userID,
		section:  SectionPersonal,
		status:   StatusAll,
		page:     1,
		pageSize: PageSize,
	}
}

// ValidateDraft applies the pre-submit rules. It returns the first failure;
// no request may be sent when it errors.
func ValidateDraft(draft models.TaskDraft, currentUserID string, now time.Time) error {
	if strings.TrimSpace(draft.Title) == "" {
		return ErrTitleRequired
	}
	if draft.Visibility == models.VisibilityShared {
		if len(draft.AssignedTo) == 0 {
			return ErrAssigneeRequired
		}
		if draft.AssignedTo.Contains(currentUserID) {
			return ErrSelfAssignment
		}
	}
	if draft.DueDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if draft.DueDate.Before(today) {
			return ErrDueDatePast
		}
	}
	return nil
}

// Refresh replaces the cache with a fresh fetch
func (r *Reconciler) Refresh(ctx context.Context) error {
	list, err := r.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.setTasksLocked(list)
	r.mu.Unlock()
	return nil
}

// setTasksLocked swaps the collection and resets the page when its size
// changed, mirroring the filter-change reset.
func (r *Reconciler) setTasksLocked(list []models.Task) {
	if len(list) != len(r.tasks) {
		r.page = 1
	}
	r.tasks = list
}

// Create validates, submits, and refetches on success. The cache is left
// untouched on failure.
func (r *Reconciler) Create(ctx context.Context, draft models.TaskDraft) error {
	if err := ValidateDraft(draft, r.userID, time.Now()); err != nil {
		return err
	}
	if _, err := r.api.CreateTask(ctx, draft); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Update edits an existing task from a full draft and refetches
func (r *Reconciler) Update(ctx context.Context, id string, draft models.TaskDraft) error {
	if err := ValidateDraft(draft, r.userID, time.Now()); err != nil {
		return err
	}
	patch := models.TaskPatch{
		Title:       &draft.Title,
		Description: &draft.Description,
		DueDate:     draft.DueDate,
		Priority:    &draft.Priority,
		Visibility:  &draft.Visibility,
		AssignedTo:  draft.AssignedTo,
	}
	if _, err := r.api.UpdateTask(ctx, id, patch); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// ToggleComplete applies the new completion state to the cache immediately,
// then confirms with the server. On failure the optimistic value is
// discarded by refetching the whole list.
func (r *Reconciler) ToggleComplete(ctx context.Context, id string) error {
	r.mu.Lock()
	var completed bool
	found := false
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Completed = !r.tasks[i].Completed
			completed = r.tasks[i].Completed
			found = true
			break
		}
	}
	r.mu.Unlock()
	if !found {
		return nil
	}

	confirmed, err := r.api.UpdateTask(ctx, id, models.TaskPatch{Completed: &completed})
	if err != nil {
		// Full resync, not a partial rollback: two in-flight toggles may
		// resolve out of order, and the server list is authoritative.
		r.Refresh(ctx)
		return err
	}
	if confirmed.ID != "" {
		r.mu.Lock()
		for i := range r.tasks {
			if r.tasks[i].ID == confirmed.ID {
				r.tasks[i] = confirmed
				break
			}
		}
		r.mu.Unlock()
	}
	return nil
}

// Delete removes the task from the cache immediately, then confirms. On
// failure the list is refetched to restore consistency.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	kept := r.tasks[:0:0]
	for _, t := range r.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.setTasksLocked(kept)
	r.mu.Unlock()

	if err := r.api.DeleteTask(ctx, id); err != nil {
		r.Refresh(ctx)
		return err
	}
	return nil
}

// SetSection switches the active section and resets to the first page
func (r *Reconciler) SetSection(s Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.section != s {
		r.section = s
		r.page = 1
	}
}

// SetStatus switches the status filter and resets to the first page
func (r *Reconciler) SetStatus(f StatusFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != f {
		r.status = f
		r.page = 1
	}
}

func (r *Reconciler) Section() Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.section
}

func (r *Reconciler) Status() StatusFilter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Filtered returns the tasks matching the active section and status
func (r *Reconciler) Filtered() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filteredLocked()
}

func (r *Reconciler) filteredLocked() []models.Task {
	var out []models.Task
	for _, t := range r.tasks {
		switch r.section {
		case SectionPersonal:
			if t.Visibility != models.VisibilityPersonal && t.Visibility != "" {
				continue
			}
		case SectionShared:
			if t.Visibility != models.VisibilityShared {
				continue
			}
		case SectionAssigned:
			if !t.AssignedTo.Contains(r.userID) {
				continue
			}
		}
		switch r.status {
		case StatusPending:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Page returns the 1-based current page
func (r *Reconciler) Page() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page
}

// TotalPages is at least 1 even for an empty filtered list
func (r *Reconciler) TotalPages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return totalPages(len(r.filteredLocked()), r.pageSize)
}

func totalPages(n, size int) int {
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Visible returns the slice of the filtered list for the current page
func (r *Reconciler) Visible() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	filtered := r.filteredLocked()
	pages := totalPages(len(filtered), r.pageSize)
	page := r.page
	if page > pages {
		page = pages
	}
	start := (page - 1) * r.pageSize
	end := start + r.pageSize
	if start > len(filtered) {
		return nil
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// NextPage advances within bounds
func (r *Reconciler) NextPage() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.page < totalPages(len(r.filteredLocked()), r.pageSize) {
		r.page++
	}
}

// PrevPage steps back within bounds
func (r *Reconciler) PrevPage() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.page > 1 {
		r.page--
	}
}

// Stats returns total, completed and pending counts over the whole cache
func (r *Reconciler) Stats() (total, completed, pending int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total = len(r.tasks)
	for _, t := range r.tasks {
		if t.Completed {
			completed++
		}
	}
	return total, completed, total - completed
}

// AssignedToMe returns every cached task assigned to the current user
func (r *Reconciler) AssignedToMe() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.AssignedTo.Contains(r.userID) {
			out = append(out, t)
		}
	}
	return out
}

// CompletedHistory returns every completed task in the cache
func (r *Reconciler) CompletedHistory() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a cached task by id
func (r *Reconciler) Get(id string) (models.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}
