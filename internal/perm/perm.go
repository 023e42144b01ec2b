// Package perm computes which actions the current user may take on a task.
// Every predicate is pure and side-effect-free so the UI can gate controls
// on each render without waiting on I/O.
package perm

import "taskdeck/internal/models"

// CanEdit: owner for standalone tasks, admin only for project tasks
func CanEdit(task models.Task, userID string, role models.Role) bool {
	if task.IsProject() {
		return role == models.RoleAdmin
	}
	return task.UserID == userID
}

// CanDelete: like CanEdit, but admins may also delete standalone tasks
func CanDelete(task models.Task, userID string, role models.Role) bool {
	if task.IsProject() {
		return role == models.RoleAdmin
	}
	return task.UserID == userID || role == models.RoleAdmin
}

// CanToggleComplete follows the edit rule
func CanToggleComplete(task models.Task, userID string, role models.Role) bool {
	return CanEdit(task, userID, role)
}

// CanSubmitProgress: the author of a shared task, or an assignee who has
// accepted the invitation
func CanSubmitProgress(task models.Task, userID string) bool {
	if task.Visibility == models.VisibilityShared && task.UserID == userID {
		return true
	}
	return task.AssignedTo.Contains(userID) && task.EffectiveParticipation() == models.ParticipationAccepted
}

// CanViewReports: author or assignee, regardless of acceptance
func CanViewReports(task models.Task, userID string) bool {
	return task.UserID == userID || task.AssignedTo.Contains(userID)
}

// CanRespondToInvitation: a pending assignee may accept or decline
func CanRespondToInvitation(task models.Task, userID string) bool {
	return task.EffectiveParticipation() == models.ParticipationPending &&
		task.AssignedTo.Contains(userID)
}
