package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskapp/task-manager-api/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	users  services.UserService
	tasks  services.TaskService
	tokens *services.TokenManager
}

func New(
	logger zerolog.Logger,
	userService services.UserService,
	taskService services.TaskService,
	tokens *services.TokenManager,
) Handler {
	return &handlerImpl{
		logger: logger,
		users:  userService,
		tasks:  taskService,
		tokens: tokens,
	}
}
