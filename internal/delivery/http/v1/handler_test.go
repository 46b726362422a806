package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskapp/task-manager-api/internal/models"
	"github.com/taskapp/task-manager-api/internal/services"
)

// stubUserService is a canned-response test double for the handlers.
type stubUserService struct {
	result       *services.AuthResult
	err          error
	lastRegister services.RegisterParams
	lastLogin    services.LoginParams
}

var _ services.UserService = (*stubUserService)(nil)

func (s *stubUserService) Register(_ context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	s.lastRegister = params
	return s.result, s.err
}

func (s *stubUserService) Login(_ context.Context, params services.LoginParams) (*services.AuthResult, error) {
	s.lastLogin = params
	return s.result, s.err
}

type stubTaskService struct {
	single     *models.Task
	list       []*models.Task
	err        error
	lastUserID string
	lastTaskID string
	lastCreate services.CreateTaskParams
	lastUpdate services.UpdateTaskParams
	lastList   services.ListTasksParams
}

var _ services.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) CreateTask(_ context.Context, userID string, params services.CreateTaskParams) (*models.Task, error) {
	s.lastUserID = userID
	s.lastCreate = params
	return s.single, s.err
}

func (s *stubTaskService) ListTasks(_ context.Context, userID string, params services.ListTasksParams) ([]*models.Task, error) {
	s.lastUserID = userID
	s.lastList = params
	return s.list, s.err
}

func (s *stubTaskService) GetTask(_ context.Context, userID, taskID string) (*models.Task, error) {
	s.lastUserID = userID
	s.lastTaskID = taskID
	return s.single, s.err
}

func (s *stubTaskService) UpdateTask(_ context.Context, userID, taskID string, params services.UpdateTaskParams) (*models.Task, error) {
	s.lastUserID = userID
	s.lastTaskID = taskID
	s.lastUpdate = params
	return s.single, s.err
}

func (s *stubTaskService) DeleteTask(_ context.Context, userID, taskID string) error {
	s.lastUserID = userID
	s.lastTaskID = taskID
	return s.err
}

func newTestTokens() *services.TokenManager {
	return services.NewTokenManager("test-issuer", []byte("test-signing-key"), time.Hour)
}

func newTestRouter(users services.UserService, tasks services.TaskService, tokens *services.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := New(zerolog.Nop(), users, tasks, tokens)

	router := gin.New()
	userRouter := router.Group("/api/users")
	userRouter.POST("/register", handler.HandleRegister)
	userRouter.POST("/login", handler.HandleLogin)

	taskRouter := router.Group("/api/tasks", handler.HandleAuthMiddleware)
	taskRouter.POST("", handler.HandleCreateTask)
	taskRouter.GET("", handler.HandleListTasks)
	taskRouter.GET("/:id", handler.HandleGetTask)
	taskRouter.PUT("/:id", handler.HandleUpdateTask)
	taskRouter.DELETE("/:id", handler.HandleDeleteTask)

	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func performRaw(t *testing.T, router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
