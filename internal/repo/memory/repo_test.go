package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/geocoder89/tasktracker/internal/domain/task"
	"github.com/geocoder89/tasktracker/internal/domain/user"
)

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	first, err := r.Create(ctx, "Ada", "ada@example.com", "hash-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := r.Create(ctx, "Other", "ada@example.com", "hash-2"); !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := r.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != first.ID || got.FullName != "Ada" || got.PasswordHash != "hash-1" {
		t.Fatalf("first user was modified: %+v", got)
	}
}

func TestUsersRepo_ConcurrentDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	r := NewUsersRepo()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Create(ctx, "x", "race@example.com", "h"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("exactly one registration should win, got %d", wins)
	}
}

func TestUsersRepo_NotFound(t *testing.T) {
	r := NewUsersRepo()
	if _, err := r.GetByID(context.Background(), "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.GetByEmail(context.Background(), "missing@example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTasksRepo_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	r := NewTasksRepo()

	a, _ := r.Create(ctx, "alice", task.CreateTaskRequest{Title: "a1"})
	_, _ = r.Create(ctx, "bob", task.CreateTaskRequest{Title: "b1"})
	_, _ = r.Create(ctx, "alice", task.CreateTaskRequest{Title: "a2"})

	list, _ := r.ListByUser(ctx, "alice")
	if len(list) != 2 || list[0].Title != "a1" || list[1].Title != "a2" {
		t.Fatalf("unexpected alice list: %+v", list)
	}

	if _, err := r.GetOwned(ctx, a.ID, "bob"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("bob should not see alice's task, got %v", err)
	}
	if _, err := r.UpdateOwned(ctx, a.ID, "bob", task.UpdateTaskRequest{Title: "hijack"}); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("bob should not update alice's task, got %v", err)
	}
	if err := r.DeleteOwned(ctx, a.ID, "bob"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("bob should not delete alice's task, got %v", err)
	}

	got, _ := r.GetOwned(ctx, a.ID, "alice")
	if got.Title != "a1" {
		t.Fatalf("alice's task changed: %+v", got)
	}
}

func TestTasksRepo_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	r := NewTasksRepo()

	tk, _ := r.Create(ctx, "alice", task.CreateTaskRequest{Title: "a1"})

	if err := r.DeleteOwned(ctx, tk.ID, "alice"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := r.DeleteOwned(ctx, tk.ID, "alice"); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}

	list, _ := r.ListByUser(ctx, "alice")
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
}

func TestTasksRepo_UpdateOverwrites(t *testing.T) {
	ctx := context.Background()
	r := NewTasksRepo()

	tk, _ := r.Create(ctx, "alice", task.CreateTaskRequest{Title: "a1", Description: "d", Status: task.StatusToDo, Priority: "high"})

	got, err := r.UpdateOwned(ctx, tk.ID, "alice", task.UpdateTaskRequest{Title: "renamed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description != "" || got.Status != "" || got.Priority != "" {
		t.Fatalf("omitted fields should be cleared: %+v", got)
	}
	if got.UserID != "alice" || got.ID != tk.ID {
		t.Fatalf("identity changed: %+v", got)
	}
}
