package task

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(userID string, req CreateTaskRequest) Task {
	now := time.Now().UTC()

	return Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdate overwrites every mutable field; owner and id never change.
func ApplyUpdate(t Task, req UpdateTaskRequest) Task {
	t.Title = req.Title
	t.Description = req.Description
	t.Status = req.Status
	t.Priority = req.Priority
	t.Deadline = req.Deadline
	t.UpdatedAt = time.Now().UTC()
	return t
}
