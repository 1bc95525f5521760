package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/tasktracker/internal/cache"
	"github.com/geocoder89/tasktracker/internal/domain/task"
	"github.com/geocoder89/tasktracker/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

const msgTaskNotFound = "Task not found or unauthorized"

// TasksStore is scoped by owner on every call; a foreign task looks missing.
type TasksStore interface {
	Create(ctx context.Context, userID string, req task.CreateTaskRequest) (task.Task, error)
	ListByUser(ctx context.Context, userID string) ([]task.Task, error)
	GetOwned(ctx context.Context, id, userID string) (task.Task, error)
	UpdateOwned(ctx context.Context, id, userID string, req task.UpdateTaskRequest) (task.Task, error)
	DeleteOwned(ctx context.Context, id, userID string) error
}

type CacheMetrics interface {
	IncCacheLookup(result string)
}

type TasksHandler struct {
	repo    TasksStore
	cache   cache.Store
	metrics CacheMetrics
}

// NewTasksHandler wires the handler; store and metrics may be nil.
func NewTasksHandler(repo TasksStore, store cache.Store, metrics CacheMetrics) *TasksHandler {
	RegisterValidators()

	return &TasksHandler{repo: repo, cache: store, metrics: metrics}
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	h.create(ctx, req, "Task created successfully")
}

// CreateWithStatus builds a creator that pins the status, whatever the body says.
func (h *TasksHandler) CreateWithStatus(status task.Status) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req task.ShortcutTaskRequest

		if !BindJSON(ctx, &req) {
			return
		}

		h.create(ctx, req.WithStatus(status), "Task created successfully in "+status.String())
	}
}

func (h *TasksHandler) create(ctx *gin.Context, req task.CreateTaskRequest, message string) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	t, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "create task failed", err)
		return
	}

	h.invalidate(cctx, userID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": message,
		"task":    t,
	})
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	tasks, err := h.cachedList(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "list tasks failed", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"message": "Tasks fetched successfully",
		"tasks":   tasks,
	})
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	t, err := h.repo.GetOwned(cctx, ctx.Param("id"), userID)

	if err != nil {
		h.respondTaskErr(ctx, "get task failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task fetched successfully",
		"task":    t,
	})
}

// UpdateTask replaces every mutable field; anything left out of the body is cleared.
func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	h.update(ctx, req)
}

func (h *TasksHandler) PatchTask(ctx *gin.Context) {
	var req task.PatchTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Empty() {
		RespondBadRequest(ctx, codeInvalidRequest, "No fields to update")
		return
	}

	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	current, err := h.repo.GetOwned(cctx, ctx.Param("id"), userID)

	if err != nil {
		h.respondTaskErr(ctx, "load task for patch failed", err)
		return
	}

	h.update(ctx, req.Apply(current))
}

func (h *TasksHandler) update(ctx *gin.Context, req task.UpdateTaskRequest) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	t, err := h.repo.UpdateOwned(cctx, ctx.Param("id"), userID, req)

	if err != nil {
		h.respondTaskErr(ctx, "update task failed", err)
		return
	}

	h.invalidate(cctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	err := h.repo.DeleteOwned(cctx, ctx.Param("id"), userID)

	if err != nil {
		h.respondTaskErr(ctx, "delete task failed", err)
		return
	}

	h.invalidate(cctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func (h *TasksHandler) respondTaskErr(ctx *gin.Context, op string, err error) {
	if errors.Is(err, task.ErrNotFound) {
		RespondNotFound(ctx, msgTaskNotFound)
		return
	}
	RespondInternal(ctx, op, err)
}

// cachedList reads through the list cache. The generation is read before the
// store, so a list computed before a concurrent write is cached under a key
// that the write has already retired. Cache faults fall back to the store.
func (h *TasksHandler) cachedList(ctx context.Context, userID string) ([]task.Task, error) {
	if h.cache == nil {
		return h.repo.ListByUser(ctx, userID)
	}

	gen, err := h.cache.Generation(ctx, cache.TasksGenKey(userID))
	if err != nil {
		h.recordLookup("error")
		return h.repo.ListByUser(ctx, userID)
	}

	key := cache.TasksListKey(userID, gen)

	var cached []task.Task
	hit, err := h.cache.Get(ctx, key, &cached)

	switch {
	case err != nil:
		h.recordLookup("error")
	case hit:
		h.recordLookup("hit")
		return cached, nil
	default:
		h.recordLookup("miss")
	}

	tasks, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	_ = h.cache.Set(ctx, key, tasks)

	return tasks, nil
}

// invalidate retires the caller's cached lists. A failure is logged, not
// returned: the write itself already succeeded.
func (h *TasksHandler) invalidate(ctx context.Context, userID string) {
	if h.cache == nil {
		return
	}

	if _, err := h.cache.Bump(ctx, cache.TasksGenKey(userID)); err != nil {
		slog.Default().ErrorContext(ctx, "task list cache invalidation failed",
			"err", err,
			"user_id", userID,
		)
	}
}

func (h *TasksHandler) recordLookup(result string) {
	if h.metrics != nil {
		h.metrics.IncCacheLookup(result)
	}
}

// callerID answers 401 itself when the gate did not run.
func callerID(ctx *gin.Context) (string, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthenticated", "Authentication required")
		return "", false
	}

	return userID, true
}
