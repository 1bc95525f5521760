package task

import (
	"errors"
	"time"
)

// ErrNotFound covers both a missing task and one owned by someone else.
var ErrNotFound = errors.New("task not found or unauthorized")

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status,omitempty"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	UserID      string     `json:"user"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Status      Status     `json:"status" binding:"omitempty,taskstatus"`
	Priority    string     `json:"priority" binding:"omitempty,max=32"`
	Deadline    *time.Time `json:"deadline"`
}

// ShortcutTaskRequest is the body of the status-specific creators; any
// status sent by the caller is dropped on decode.
type ShortcutTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Priority    string     `json:"priority" binding:"omitempty,max=32"`
	Deadline    *time.Time `json:"deadline"`
}

func (r ShortcutTaskRequest) WithStatus(s Status) CreateTaskRequest {
	return CreateTaskRequest{
		Title:       r.Title,
		Description: r.Description,
		Status:      s,
		Priority:    r.Priority,
		Deadline:    r.Deadline,
	}
}

// UpdateTaskRequest is a full replacement. Title stays required; every other
// omitted field is cleared.
type UpdateTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	Status      Status     `json:"status" binding:"omitempty,taskstatus"`
	Priority    string     `json:"priority" binding:"omitempty,max=32"`
	Deadline    *time.Time `json:"deadline"`
}

// PatchTaskRequest only touches the fields present in the body.
type PatchTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Status      *Status    `json:"status" binding:"omitempty,taskstatus"`
	Priority    *string    `json:"priority" binding:"omitempty,max=32"`
	Deadline    *time.Time `json:"deadline"`
}

func (p PatchTaskRequest) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && p.Deadline == nil
}

// Apply folds the patch onto t and returns the result as a full update.
func (p PatchTaskRequest) Apply(t Task) UpdateTaskRequest {
	out := UpdateTaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Deadline:    t.Deadline,
	}

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Deadline != nil {
		out.Deadline = p.Deadline
	}

	return out
}
