package storage

import (
	"context"
	"errors"

	"github.com/taskapp/task-manager-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
	ErrTaskNotFound = errors.New("task not found")
)

// SortColumns whitelists the task fields a client may sort by, keyed by
// their API names. List queries must never receive a column name that is
// not a value of this map.
var SortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// TaskFilter narrows and orders a task listing. SortColumn must be one of
// the SortColumns values; empty filter fields are ignored.
type TaskFilter struct {
	Status     models.Status
	Priority   models.Priority
	SortColumn string
	Descending bool
}

type Users interface {
	// CreateUser persists a new user. It returns ErrEmailTaken
	// if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrUserNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Tasks interface {
	CreateTask(ctx context.Context, task *models.Task) error

	// ListTasks returns the tasks owned by userID, narrowed
	// and ordered by the filter. An empty result is not an error.
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error)

	// GetTaskByID fetches a task regardless of its owner, so callers
	// can tell a missing task from a foreign one. It returns
	// ErrTaskNotFound if the task doesn't exist.
	GetTaskByID(ctx context.Context, taskID string) (*models.Task, error)

	// UpdateTask writes all mutable task fields. It returns
	// ErrTaskNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask permanently removes the task. It returns
	// ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, taskID string) error
}
