package perm

import (
	"testing"

	"taskdeck/internal/models"
)

func TestCanEdit(t *testing.T) {
	t.Parallel()

	owned := models.Task{ID: "t1", UserID: "u1"}
	project := models.Task{ID: "t2", UserID: "u1", ProjectID: "p1"}

	if !CanEdit(owned, "u1", models.RoleUser) {
		t.Fatal("owner must edit their own task")
	}
	if CanEdit(owned, "u2", models.RoleUser) {
		t.Fatal("non-owner must not edit")
	}
	if CanEdit(project, "u1", models.RoleUser) {
		t.Fatal("project tasks are admin-only, even for the owner")
	}
	if !CanEdit(project, "u2", models.RoleAdmin) {
		t.Fatal("admin must edit project tasks")
	}
}

func TestCanDelete(t *testing.T) {
	t.Parallel()

	owned := models.Task{ID: "t1", UserID: "u1"}
	project := models.Task{ID: "t2", UserID: "u1", ProjectID: "p1"}

	if !CanDelete(owned, "u1", models.RoleUser) {
		t.Fatal("owner must delete their own task")
	}
	if !CanDelete(owned, "u2", models.RoleAdmin) {
		t.Fatal("admin must delete standalone tasks")
	}
	if CanDelete(owned, "u2", models.RoleUser) {
		t.Fatal("stranger must not delete")
	}
	if CanDelete(project, "u1", models.RoleUser) {
		t.Fatal("project tasks are admin-only")
	}
	if !CanDelete(project, "u2", models.RoleAdmin) {
		t.Fatal("admin must delete project tasks")
	}
}

func TestCanToggleCompleteMatchesEditRule(t *testing.T) {
	t.Parallel()

	tasks := []models.Task{
		{ID: "a", UserID: "u1"},
		{ID: "b", UserID: "u2"},
		{ID: "c", UserID: "u1", ProjectID: "p1"},
	}
	for _, task := range tasks {
		for _, role := range []models.Role{models.RoleUser, models.RoleAdmin} {
			if CanToggleComplete(task, "u1", role) != CanEdit(task, "u1", role) {
				t.Fatalf("toggle rule diverged from edit rule for %q as %s", task.ID, role)
			}
		}
	}
}

func TestCanSubmitProgress(t *testing.T) {
	t.Parallel()

	shared := models.Task{
		ID: "t1", UserID: "author",
		Visibility: models.VisibilityShared,
		AssignedTo: models.UserIDs{"assignee"},
	}

	if !CanSubmitProgress(shared, "author") {
		t.Fatal("author of a shared task must submit progress")
	}
	if CanSubmitProgress(shared, "assignee") {
		t.Fatal("pending assignee must not submit progress")
	}

	shared.ParticipationStatus = models.ParticipationAccepted
	if !CanSubmitProgress(shared, "assignee") {
		t.Fatal("accepted assignee must submit progress")
	}

	shared.ParticipationStatus = models.ParticipationDeclined
	if CanSubmitProgress(shared, "assignee") {
		t.Fatal("declined assignee must not submit progress")
	}

	personal := models.Task{ID: "t2", UserID: "author"}
	if CanSubmitProgress(personal, "author") {
		t.Fatal("personal tasks have no progress reports")
	}
}

func TestCanViewReports(t *testing.T) {
	t.Parallel()

	task := models.Task{ID: "t1", UserID: "author", AssignedTo: models.UserIDs{"assignee"}}

	if !CanViewReports(task, "author") {
		t.Fatal("author must view reports")
	}
	if !CanViewReports(task, "assignee") {
		t.Fatal("assignee must view reports regardless of acceptance")
	}
	if CanViewReports(task, "stranger") {
		t.Fatal("stranger must not view reports")
	}
}

func TestCanRespondToInvitation(t *testing.T) {
	t.Parallel()

	task := models.Task{ID: "t1", UserID: "author", AssignedTo: models.UserIDs{"assignee"}}

	if !CanRespondToInvitation(task, "assignee") {
		t.Fatal("pending assignee must be able to respond")
	}
	if CanRespondToInvitation(task, "author") {
		t.Fatal("author is not invited")
	}

	task.ParticipationStatus = models.ParticipationAccepted
	if CanRespondToInvitation(task, "assignee") {
		t.Fatal("resolved invitation must not be re-answerable")
	}
}
