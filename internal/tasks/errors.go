package tasks

import "errors"

// Validation errors block submission before any request is sent; the UI
// shows them inline next to the form.
var (
	ErrTitleRequired    = errors.New("a title is required")
	ErrAssigneeRequired = errors.New("a shared task needs a collaborator")
	ErrSelfAssignment   = errors.New("the collaborator must be someone other than you")
	ErrDueDatePast      = errors.New("the due date must be today or later")
)

// IsValidation reports whether err is a pre-submit validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrAssigneeRequired) ||
		errors.Is(err, ErrSelfAssignment) ||
		errors.Is(err, ErrDueDatePast)
}
