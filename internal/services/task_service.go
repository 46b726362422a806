package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskapp/task-manager-api/internal/models"
	"github.com/taskapp/task-manager-api/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.Tasks
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.Tasks,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID string, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, NewValidationError("title is required")
	}

	dueDate, err := parseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}

	status := models.StatusTodo
	if params.Status != "" {
		status = models.Status(params.Status)
		if !status.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown status %q", params.Status))
		}
	}

	priority := models.PriorityMedium
	if params.Priority != "" {
		priority = models.Priority(params.Priority)
		if !priority.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown priority %q", params.Priority))
		}
	}

	now := time.Now()
	task := models.Task{
		UserID:      userID,
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.CreateTask(ctx, &task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, params ListTasksParams) ([]*models.Task, error) {
	var filter storage.TaskFilter

	if params.Status != "" {
		status := models.Status(params.Status)
		if !status.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown status %q", params.Status))
		}
		filter.Status = status
	}
	if params.Priority != "" {
		priority := models.Priority(params.Priority)
		if !priority.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown priority %q", params.Priority))
		}
		filter.Priority = priority
	}

	if params.SortBy != "" {
		column, ok := storage.SortColumns[params.SortBy]
		if !ok {
			return nil, NewValidationError(fmt.Sprintf("cannot sort by %q", params.SortBy))
		}
		filter.SortColumn = column
	}

	// An absent order means newest first; anything other than an
	// explicit "desc" sorts ascending.
	switch params.Order {
	case "":
		filter.Descending = true
	case "desc":
		filter.Descending = true
	}

	tasks, err := s.tasks.ListTasks(ctx, userID, filter)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list tasks")
		return nil, err
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	return s.getOwnedTask(ctx, userID, taskID)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID string, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, NewValidationError("title must not be empty")
		}
		task.Title = *params.Title
	}
	if params.DescriptionSet {
		task.Description = params.Description
	}
	if params.Status != nil {
		status := models.Status(*params.Status)
		if !status.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown status %q", *params.Status))
		}
		task.Status = status
	}
	if params.Priority != nil {
		priority := models.Priority(*params.Priority)
		if !priority.Valid() {
			return nil, NewValidationError(fmt.Sprintf("unknown priority %q", *params.Priority))
		}
		task.Priority = priority
	}
	if params.DueDate != nil {
		dueDate, err := parseDueDate(*params.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	task.UpdatedAt = time.Now()

	err = s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", userID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	_, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	err = s.tasks.DeleteTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

// getOwnedTask fetches the task and enforces ownership, keeping a missing
// task distinguishable from a foreign one. Ownership is immutable after
// creation, so the check cannot be outrun by a concurrent mutation.
func (s *taskServiceImpl) getOwnedTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Warn().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task owned by another user")
		return nil, ErrTaskForbidden
	}
	return task, nil
}

func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, NewValidationError("dueDate is required")
	}
	dueDate, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, NewValidationError("dueDate must be an RFC 3339 timestamp")
	}
	return dueDate, nil
}
