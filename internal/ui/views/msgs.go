package views

import (
	"taskdeck/internal/models"
	"taskdeck/internal/routes"
)

// Messages exchanged between the views and the app shell. Views never
// navigate themselves; they ask the shell so the route guard always runs.

// Navigate asks the shell to move to a page
type Navigate struct {
	Page routes.Page
}

// NavigateBack pops one entry from the navigation history
type NavigateBack struct{}

// LoggedIn carries a successful login result to the shell
type LoggedIn struct {
	Session models.Session
}

// Registered signals that account creation succeeded
type Registered struct{}

// LogoutRequested asks the shell to end the session
type LogoutRequested struct{}

// ToastLevel selects the transient message style
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
)

// Toast asks the shell to show a transient auto-dismissing message
type Toast struct {
	Level ToastLevel
	Text  string
}

// ProfileUpdated carries the edited profile to the shell so the session
// store stays in sync with the backend.
type ProfileUpdated struct {
	User models.User
}

// NotificationsSynced reports one poller sync, whether timer-driven or
// user-triggered; both paths share the arrival-detection logic.
type NotificationsSynced struct {
	Fresh bool
	Err   error
}
