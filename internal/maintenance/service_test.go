package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"motogarage/internal/garage"
)

func newTestService(t *testing.T) (*Service, uuid.UUID, uuid.UUID) {
	t.Helper()
	motoSvc := garage.NewService(garage.NewInMemoryRepository(nil))
	owner := uuid.New()
	moto, err := motoSvc.Create(context.Background(), owner, garage.CreateInput{Name: "SR400"})
	if err != nil {
		t.Fatalf("seed motorcycle: %v", err)
	}
	svc := NewService(NewInMemoryRepository(nil), motoSvc)
	return svc, owner, moto.ID
}

func TestCreateRequiresOwnedMotorcycle(t *testing.T) {
	svc, owner, _ := newTestService(t)

	_, err := svc.Create(context.Background(), owner, uuid.New(), CreateInput{Title: "Oil change"})
	if !errors.Is(err, garage.ErrNotFound) {
		t.Fatalf("expected garage.ErrNotFound for unknown motorcycle, got %v", err)
	}
}

func TestCreateValidatesTitle(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	if _, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateStartsOpen(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	task, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: " Oil change ", Detail: " 10W-40 "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Status != StatusOpen {
		t.Fatalf("expected open status, got %q", task.Status)
	}
	if task.Title != "Oil change" || task.Detail != "10W-40" {
		t.Fatalf("expected trimmed fields, got %+v", task)
	}
	if task.CompletedAt != nil {
		t.Fatal("new task must not be completed")
	}
}

func TestCompleteMarksDoneOnce(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	task, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Chain tension"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	done, err := svc.Complete(context.Background(), owner, task.ID)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if done.Status != StatusDone || done.CompletedAt == nil {
		t.Fatalf("expected completed task, got %+v", done)
	}

	again, err := svc.Complete(context.Background(), owner, task.ID)
	if err != nil {
		t.Fatalf("second Complete returned error: %v", err)
	}
	if !again.CompletedAt.Equal(*done.CompletedAt) {
		t.Fatal("completing a done task must not change its completion time")
	}
}

func TestListSortsOpenFirst(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	first, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Brake pads"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Valve clearance"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), owner, second.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	tasks, err := svc.ListForMotorcycle(context.Background(), owner, motoID)
	if err != nil {
		t.Fatalf("ListForMotorcycle returned error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != first.ID || tasks[0].Status != StatusOpen {
		t.Fatalf("expected open task first, got %+v", tasks[0])
	}
}

func TestListOpenFiltersCompleted(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	open, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Brake pads"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	closed, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Valve clearance"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), owner, closed.ID); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	tasks, err := svc.ListOpenForMotorcycle(context.Background(), owner, motoID)
	if err != nil {
		t.Fatalf("ListOpenForMotorcycle returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != open.ID {
		t.Fatalf("expected only the open task, got %+v", tasks)
	}
}

func TestTasksAreOwnerScoped(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	task, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Oil change"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.New(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, owner, motoID := newTestService(t)

	task, err := svc.Create(context.Background(), owner, motoID, CreateInput{Title: "Oil change", Detail: "keep"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	title := "Oil and filter change"
	km := 12000
	kmPtr := &km
	updated, err := svc.Update(context.Background(), owner, task.ID, UpdateInput{
		Title:         &title,
		DueOdometerKm: &kmPtr,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.DueOdometerKm == nil || *updated.DueOdometerKm != 12000 {
		t.Fatalf("expected due odometer 12000, got %v", updated.DueOdometerKm)
	}
	if updated.Detail != "keep" {
		t.Fatalf("expected untouched detail, got %q", updated.Detail)
	}
}
