package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/tasktracker/internal/domain/task"
)

type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
	order []string // insertion order of ids
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		items: make(map[string]task.Task),
	}
}

func (r *TasksRepo) Create(_ context.Context, userID string, req task.CreateTaskRequest) (task.Task, error) {
	t := task.NewFromCreateRequest(userID, req)

	r.mu.Lock()
	r.items[t.ID] = t
	r.order = append(r.order, t.ID)
	r.mu.Unlock()

	return t, nil
}

func (r *TasksRepo) ListByUser(_ context.Context, userID string) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]task.Task, 0)
	for _, id := range r.order {
		t, ok := r.items[id]
		if ok && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TasksRepo) GetOwned(_ context.Context, id, userID string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok || t.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (r *TasksRepo) UpdateOwned(_ context.Context, id, userID string, req task.UpdateTaskRequest) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}

	t = task.ApplyUpdate(t, req)
	r.items[id] = t

	return t, nil
}

func (r *TasksRepo) DeleteOwned(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok || t.UserID != userID {
		return task.ErrNotFound
	}

	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
