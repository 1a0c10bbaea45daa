package sync

import (
	"github.com/sirupsen/logrus"
)

// Op names a mutation type. Each op carries its own user-facing
// success and failure wording.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpToggle Op = "toggle"
	OpDelete Op = "delete"
)

var successMessages = map[Op]string{
	OpCreate: "Task created",
	OpUpdate: "Task updated successfully",
	OpToggle: "Task status changed",
	OpDelete: "Task deleted successfully",
}

var failureMessages = map[Op]string{
	OpCreate: "Failed to create task",
	OpUpdate: "Failed to update task",
	OpToggle: "Failed to toggle task",
	OpDelete: "Failed to delete task",
}

// SuccessMessage returns the notification text for a completed op.
func SuccessMessage(op Op) string {
	return successMessages[op]
}

// FailureMessage returns the notification text for a failed op.
func FailureMessage(op Op) string {
	return failureMessages[op]
}

// Notifier receives the user-visible outcome of each mutation. Read
// failures never go through the notifier; they surface as an error
// state on the view instead.
type Notifier interface {
	Success(op Op)
	Failure(op Op, err error)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n LogNotifier) Success(op Op) {
	n.Log.WithField("op", string(op)).Info(SuccessMessage(op))
}

func (n LogNotifier) Failure(op Op, err error) {
	n.Log.WithField("op", string(op)).WithError(err).Warn(FailureMessage(op))
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Success(Op)        {}
func (NopNotifier) Failure(Op, error) {}
