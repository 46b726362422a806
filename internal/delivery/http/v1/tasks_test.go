package v1

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/taskapp/task-manager-api/internal/models"
	"github.com/taskapp/task-manager-api/internal/services"
)

func testTask() *models.Task {
	description := "quarterly numbers"
	return &models.Task{
		ID:          "task-1",
		UserID:      "user-42",
		Title:       "Write report",
		Description: &description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC),
	}
}

func ownerToken(t *testing.T, tokens *services.TokenManager) string {
	t.Helper()

	token, err := tokens.Issue("user-42", "owner@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestHandleCreateTask(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{single: testTask()}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	body := `{"title":"Write report","dueDate":"2025-01-01T00:00:00Z"}`
	w := performRequest(t, router, http.MethodPost, "/api/tasks", ownerToken(t, tokens), body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if tasks.lastUserID != "user-42" {
		t.Errorf("service saw user id %q, want user-42", tasks.lastUserID)
	}
	if tasks.lastCreate.Title != "Write report" {
		t.Errorf("service saw title %q, want Write report", tasks.lastCreate.Title)
	}

	var response taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response.ID != "task-1" {
		t.Errorf("response.ID = %v, want task-1", response.ID)
	}
	if response.Status != "Todo" {
		t.Errorf("response.Status = %v, want Todo", response.Status)
	}
	if response.Priority != "Medium" {
		t.Errorf("response.Priority = %v, want Medium", response.Priority)
	}
}

func TestHandleCreateTask_ValidationError(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{err: services.NewValidationError("title is required")}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodPost, "/api/tasks", ownerToken(t, tokens), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleListTasks(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{list: []*models.Task{testTask()}}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodGet,
		"/api/tasks?status=Todo&priority=Medium&sortBy=dueDate&order=asc",
		ownerToken(t, tokens), "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	want := services.ListTasksParams{
		Status:   "Todo",
		Priority: "Medium",
		SortBy:   "dueDate",
		Order:    "asc",
	}
	if tasks.lastList != want {
		t.Errorf("service saw params %+v, want %+v", tasks.lastList, want)
	}

	var response []taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("response has %d tasks, want 1", len(response))
	}
}

func TestHandleListTasks_Empty(t *testing.T) {
	tokens := newTestTokens()
	router := newTestRouter(&stubUserService{}, &stubTaskService{}, tokens)

	w := performRequest(t, router, http.MethodGet, "/api/tasks", ownerToken(t, tokens), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	// An account without tasks gets an empty array, not null.
	if body := w.Body.String(); body != "[]" {
		t.Errorf("body = %s, want []", body)
	}
}

func TestHandleGetTask_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "owned task",
			serviceErr: nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing task",
			serviceErr: services.ErrTaskNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "foreign task",
			serviceErr: services.ErrTaskForbidden,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := newTestTokens()
			tasks := &stubTaskService{err: tt.serviceErr}
			if tt.serviceErr == nil {
				tasks.single = testTask()
			}
			router := newTestRouter(&stubUserService{}, tasks, tokens)

			w := performRequest(t, router, http.MethodGet, "/api/tasks/task-1", ownerToken(t, tokens), "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tasks.lastTaskID != "task-1" {
				t.Errorf("service saw task id %q, want task-1", tasks.lastTaskID)
			}
		})
	}
}

func TestHandleUpdateTask_PartialBody(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{single: testTask()}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodPut, "/api/tasks/task-1",
		ownerToken(t, tokens), `{"status":"Done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	update := tasks.lastUpdate
	if update.Status == nil || *update.Status != "Done" {
		t.Error("service did not receive the status update")
	}
	if update.Title != nil || update.DueDate != nil || update.Priority != nil {
		t.Error("absent fields reached the service as set")
	}
	if update.DescriptionSet {
		t.Error("absent description was marked as set")
	}
}

func TestHandleUpdateTask_NullClearsDescription(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{single: testTask()}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodPut, "/api/tasks/task-1",
		ownerToken(t, tokens), `{"description":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	update := tasks.lastUpdate
	if !update.DescriptionSet {
		t.Error("explicit null description was not marked as set")
	}
	if update.Description != nil {
		t.Errorf("update.Description = %v, want nil", *update.Description)
	}
}

func TestHandleDeleteTask(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodDelete, "/api/tasks/task-1", ownerToken(t, tokens), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["message"] != "Task removed" {
		t.Errorf(`response message = %q, want "Task removed"`, response["message"])
	}
}

func TestHandleDeleteTask_Foreign(t *testing.T) {
	tokens := newTestTokens()
	tasks := &stubTaskService{err: services.ErrTaskForbidden}
	router := newTestRouter(&stubUserService{}, tasks, tokens)

	w := performRequest(t, router, http.MethodDelete, "/api/tasks/task-1", ownerToken(t, tokens), "")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}
