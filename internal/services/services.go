package services

import (
	"context"
	"errors"

	"github.com/taskapp/task-manager-api/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskForbidden      = errors.New("not authorized to access this task")
)

// ValidationError reports malformed or missing input. Its message is
// safe to return to the client.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

type UserService interface {
	// Register creates a user with the given name, email and password.
	//
	// It hashes the password, generates a unique ID and issues
	// a fresh access token.
	//
	// It returns ErrEmailTaken if the email is already registered,
	// or a *ValidationError on malformed input.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password and issues
	// a fresh access token.
	//
	// It returns ErrInvalidCredentials both when no user has the given
	// email and when the password doesn't match, so callers cannot
	// probe which emails are registered.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
}

type TaskService interface {
	// CreateTask persists a new task owned by userID. Status defaults
	// to Todo and priority to Medium when omitted.
	//
	// It returns a *ValidationError on a missing title, a malformed
	// due date or an unknown status or priority.
	CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error)

	// ListTasks returns the tasks owned by userID, optionally narrowed
	// by status and priority and ordered by the sort parameters.
	// The default order is creation time, newest first.
	ListTasks(ctx context.Context, userID string, params ListTasksParams) ([]*models.Task, error)

	// GetTask returns ErrTaskNotFound if no task has the given ID, or
	// ErrTaskForbidden if the task belongs to another user.
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// UpdateTask applies the present fields of params to the task and
	// returns the updated record. Absent fields are left untouched;
	// an explicit null description clears it.
	//
	// Existence and ownership are checked the same way as in GetTask.
	UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask permanently removes the task, with the same
	// existence and ownership semantics as GetTask.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	UserID string
	Name   string
	Email  string
	Token  string
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Status      string
	DueDate     string
	Priority    string
}

type ListTasksParams struct {
	Status   string
	Priority string
	SortBy   string
	Order    string
}

// UpdateTaskParams carries a partial update. Nil pointers mean the field
// was absent from the request. Description needs an extra presence flag
// because null and absent are different things: null clears the field.
type UpdateTaskParams struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Status         *string
	DueDate        *string
	Priority       *string
}
