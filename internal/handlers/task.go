package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/pavel-2009/ai-task-assistant/internal/auth"
	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"
	"github.com/pavel-2009/ai-task-assistant/internal/dto"
	"github.com/pavel-2009/ai-task-assistant/internal/service"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps avatar uploads before the decoder ever sees them.
const maxUploadBytes = 10 << 20

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// List godoc
// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// Search godoc
// @Summary      Search own tasks by query
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search query (title/description)"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: tasksToResponses(list)})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.Title, req.Description)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		taskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar godoc
// @Summary      Upload a task avatar image
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Task ID"
// @Param        image  formData  file  true  "Image file"
// @Success      200  {object}  dto.AvatarResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /tasks/{id}/avatar [post]
func (h *TaskHandler) UploadAvatar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image too large"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}

	key, err := h.svc.UploadAvatar(c.Request.Context(), auth.UserIDFromContext(c), id, data)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AvatarResponse{AvatarPath: key})
}

// Predict godoc
// @Summary      Classify a task's avatar image
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.PredictResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /tasks/{id}/predict [post]
func (h *TaskHandler) Predict(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	label, err := h.svc.Predict(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PredictResponse{PredictedClass: label})
}

// taskError maps task service failures onto the response taxonomy.
func taskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "task belongs to another user"})
	case errors.Is(err, service.ErrUnprocessableImage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file is not a valid image"})
	case errors.Is(err, service.ErrNoAvatar):
		c.JSON(http.StatusNotFound, gin.H{"error": "task has no avatar"})
	case errors.Is(err, service.ErrClassifierUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classifier is not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AvatarPath:  t.AvatarPath,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
