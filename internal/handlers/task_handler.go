package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prodash/internal/models"
	"prodash/internal/pagination"
	"prodash/internal/services"
)

// TaskHandler handles task-related requests.
type TaskHandler struct {
	taskService  services.TaskServicer
	auditService services.AuditServicer
	now          func() time.Time
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService services.TaskServicer, auditService services.AuditServicer) *TaskHandler {
	return &TaskHandler{taskService: taskService, auditService: auditService, now: time.Now}
}

// TaskRequest is the payload for creating or replacing a task.
type TaskRequest struct {
	Title       string              `json:"title" binding:"required,min=1,max=255"`
	Description string              `json:"description" binding:"max=2000"`
	Status      models.TaskStatus   `json:"status" binding:"omitempty,task_status"`
	Priority    models.TaskPriority `json:"priority" binding:"omitempty,task_priority"`
	StartDate   time.Time           `json:"start_date" binding:"required"`
	DueDate     *time.Time          `json:"due_date"`
	NotifyAt    *time.Time          `json:"notify_at"`
}

func (r TaskRequest) input() services.TaskInput {
	return services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		NotifyAt:    r.NotifyAt,
	}
}

// TaskViewRequest holds the query string of GET /tasks/view.
type TaskViewRequest struct {
	MonthQuery
	Mode     services.ViewMode        `form:"mode" binding:"omitempty,view_mode"`
	Cursor   string                   `form:"cursor"`
	Limit    int                      `form:"limit"`
	Sort     pagination.SortDirection `form:"sort" binding:"omitempty,sort_dir"`
	Query    string                   `form:"q" binding:"max=255"`
	Status   models.TaskStatus        `form:"status" binding:"omitempty,task_status"`
	Priority models.TaskPriority      `form:"priority" binding:"omitempty,task_priority"`
}

// CreateTask handles the creation of a new task.
// @Summary     Create a task
// @Description Create a task; a reminder is scheduled when notify_at is set
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TaskRequest true "Task details"
// @Success     201 {object} models.Task "Task created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	task, err := h.taskService.CreateTask(userID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TASK", "task", task.ID, c.ClientIP(),
		map[string]interface{}{"title": task.Title, "status": task.Status})

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTaskView returns one month of tasks as a kanban board or a scroll page.
// @Summary     Get tasks view
// @Description Board mode groups the month's tasks into todo, in_progress and done columns. List mode pages through them with an opaque cursor.
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       mode     query string false "board (default) or list"
// @Param       year     query int    false "Year (default current)"
// @Param       month    query int    false "Month 1-12 (default current)"
// @Param       cursor   query string false "Cursor from a previous list page"
// @Param       limit    query int    false "List page size (default 20, max 100)"
// @Param       sort     query string false "asc or desc by start date (default desc)"
// @Param       q        query string false "Case-insensitive title search"
// @Param       status   query string false "Filter by status"
// @Param       priority query string false "Filter by priority"
// @Success     200 {object} services.KanbanView "Board view"
// @Success     200 {object} services.ScrollView "List view"
// @Failure     400 {object} ErrorResponse "Invalid input or cursor"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/view [get]
func (h *TaskHandler) GetTaskView(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TaskViewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	req.defaults(h.now())

	view, err := h.taskService.GetTasksByView(userID, services.TaskViewQuery{
		Mode:     req.Mode,
		Cursor:   req.Cursor,
		Limit:    req.Limit,
		Year:     req.Year,
		Month:    req.Month,
		SortDir:  req.Sort,
		Query:    req.Query,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTask handles retrieving a specific task.
// @Summary     Get task by ID
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     200 {object} models.Task "Task details"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.taskService.GetTaskByID(userID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask handles replacing a task.
// @Summary     Update task
// @Description Replace a task; a changed notify_at reschedules its reminder
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Task ID"
// @Param       request body TaskRequest true "Updated task"
// @Success     200 {object} models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input or task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TASK", "task", taskID, c.ClientIP(),
		map[string]interface{}{"title": task.Title, "status": task.Status})

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// SoftDeleteTask hides a task.
// @Summary     Soft delete task
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     200 {object} MessageResponse "Task soft deleted"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id}/soft-delete [patch]
func (h *TaskHandler) SoftDeleteTask(c *gin.Context) {
	h.deleteTask(c, h.taskService.SoftDeleteTask, "SOFT_DELETE_TASK", "Task soft deleted successfully")
}

// DeleteTask permanently removes a task.
// @Summary     Delete task
// @Tags        tasks
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     200 {object} MessageResponse "Task deleted"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	h.deleteTask(c, h.taskService.HardDeleteTask, "DELETE_TASK", "Task deleted successfully")
}

func (h *TaskHandler) deleteTask(c *gin.Context, del func(userID, taskID uint) error, action, message string) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := del(userID, taskID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "task", taskID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
