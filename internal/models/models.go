package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Role is the account role assigned by the backend
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Priority levels accepted by the backend
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Visibility controls whether a task is personal or shared with a collaborator
type Visibility string

const (
	VisibilityPersonal Visibility = "personal"
	VisibilityShared   Visibility = "shared"
)

// Participation is the assignee's acceptance state for an assigned task
type Participation string

const (
	ParticipationPending  Participation = "pending"
	ParticipationAccepted Participation = "accepted"
	ParticipationDeclined Participation = "declined"
)

// ReportStatus is the review state of a progress report
type ReportStatus string

const (
	ReportSubmitted ReportStatus = "submitted"
	ReportApproved  ReportStatus = "approved"
	ReportRejected  ReportStatus = "rejected"
)

// User is the profile returned at login and by the user listing endpoints
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UnmarshalJSON accepts either "id" or the raw "_id" the backend sometimes
// returns, and defaults a missing role to user.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.LegacyID
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// FullName returns "First Last" with missing parts trimmed
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is the authenticated identity held by the client
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserIDs normalizes the backend's assignedTo field, which arrives either as
// a single id string or as a list of ids, into a list always.
type UserIDs []string

func (ids *UserIDs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*ids = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*ids = nil
		} else {
			*ids = UserIDs{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*ids = UserIDs(list)
	return nil
}

// Contains reports whether id is one of the assignees
func (ids UserIDs) Contains(id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ParticipationLog is one entry of a task's append-only participation trail
type ParticipationLog struct {
	UserID   string        `json:"userId"`
	UserName string        `json:"userName,omitempty"`
	Status   Participation `json:"status"`
	At       time.Time     `json:"at"`
}

// Attachment is an uploaded file reference on a progress report or task
type Attachment struct {
	URL          string `json:"url"`
	Filename     string `json:"filename,omitempty"`
	OriginalName string `json:"originalname,omitempty"`
}

// DisplayName prefers the original upload name over the stored filename
func (a Attachment) DisplayName() string {
	if a.OriginalName != "" {
		return a.OriginalName
	}
	return a.Filename
}

// Task is the server-owned task record; the client's copy is a cache
type Task struct {
	ID                  string             `json:"_id"`
	UserID              string             `json:"userId"`
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	DueDate             *time.Time         `json:"dueDate,omitempty"`
	Priority            Priority           `json:"priority,omitempty"`
	Completed           bool               `json:"completed"`
	Visibility          Visibility         `json:"visibility,omitempty"`
	ProjectID           string             `json:"projectId,omitempty"`
	Progress            int                `json:"progress,omitempty"`
	AssignedTo          UserIDs            `json:"assignedTo,omitempty"`
	ParticipationStatus Participation      `json:"participationStatus,omitempty"`
	ParticipationLogs   []ParticipationLog `json:"participationLogs,omitempty"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// IsProject reports whether the task belongs to a project
func (t Task) IsProject() bool { return t.ProjectID != "" }

// EffectivePriority defaults a missing priority to medium
func (t Task) EffectivePriority() Priority {
	if t.Priority == "" {
		return PriorityMedium
	}
	return t.Priority
}

// EffectiveParticipation defaults a missing status to pending
func (t Task) EffectiveParticipation() Participation {
	if t.ParticipationStatus == "" {
		return ParticipationPending
	}
	return t.ParticipationStatus
}

// TaskDraft is the payload for creating or fully editing a task
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	Visibility  Visibility `json:"visibility"`
	AssignedTo  UserIDs    `json:"assignedTo,omitempty"`
}

// TaskPatch is a partial task update; nil fields are left untouched
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Visibility  *Visibility `json:"visibility,omitempty"`
	AssignedTo  UserIDs     `json:"assignedTo,omitempty"`
	Completed   *bool       `json:"completed,omitempty"`
}

// ProgressReport is a dated work submission against a task
type ProgressReport struct {
	ID            string       `json:"_id"`
	UserID        string       `json:"userId"`
	Content       string       `json:"content"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	Status        ReportStatus `json:"status"`
	ReviewComment string       `json:"reviewComment,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// TaskReports is the response of the task progress listing endpoint
type TaskReports struct {
	Task    *Task            `json:"task"`
	Reports []ProgressReport `json:"reports"`
}

// Notification is a server-generated event for the current user
type Notification struct {
	ID        string         `json:"_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type,omitempty"`
	Read      bool           `json:"read"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Project is an admin-managed grouping of users and tasks
type Project struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Members     UserIDs    `json:"members,omitempty"`
	MaxMembers  int        `json:"maxMembers,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// ProjectDraft is the payload for creating a project
type ProjectDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Members     UserIDs `json:"members,omitempty"`
	MaxMembers  int     `json:"maxMembers,omitempty"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
}

// TeamStats is the admin completion summary
type TeamStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Validated      int     `json:"validated"`
	CompletionRate float64 `json:"completionRate"`
}
