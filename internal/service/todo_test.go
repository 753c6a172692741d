package service

import (
	"context"
	"testing"

	"github.com/taskvault/taskvault-go/internal/apperror"
	"github.com/taskvault/taskvault-go/internal/model"
)

// newTodoFixture seeds one open and one closed todo for the regular user
// (id 2) and one open todo for the admin (id 1).
func newTodoFixture(t *testing.T) (*TodoService, *fakeTodoStore) {
	t.Helper()
	store := newFakeTodoStore()
	store.add(model.Todo{ID: 1, Title: "AdminChores", Description: "open, owned by admin", CreatedByID: 1, UpdatedByID: 1})
	store.add(model.Todo{ID: 2, Title: "UserChores", Description: "open, owned by user", CreatedByID: 2, UpdatedByID: 2})
	store.add(model.Todo{ID: 3, Title: "UserArchive", Description: "closed, owned by user", IsClosed: true, CreatedByID: 2, UpdatedByID: 2})
	return NewTodoService(store), store
}

func otherCtx() model.RequestContext {
	return model.RequestContext{CorrID: 77, UserID: 3}
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateTodoSetsOwner(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.Create(context.Background(), userCtx(), model.CreateTodoRequest{
		Title:       "Weekly shopping",
		Description: "Milk, Bread, Eggs",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if resp.CreatedByID != 2 || resp.UpdatedByID != 2 {
		t.Errorf("Create() audit ids = %d/%d, want 2/2", resp.CreatedByID, resp.UpdatedByID)
	}
	if resp.IsClosed {
		t.Error("Create() produced a closed todo")
	}
	if resp.Version != 0 {
		t.Errorf("Create() version = %d, want 0", resp.Version)
	}
	if _, ok := store.todos[resp.ID]; !ok {
		t.Error("Create() did not persist the todo")
	}
}

func TestFindAllNonAdminSeesOnlyOwnOpen(t *testing.T) {
	svc, _ := newTodoFixture(t)

	views, err := svc.FindAll(context.Background(), userCtx())
	if err != nil {
		t.Fatalf("FindAll() unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("FindAll() returned %d todos, want 1", len(views))
	}
	if views[0].ID != 2 {
		t.Errorf("FindAll() id = %d, want 2 (the caller's open todo)", views[0].ID)
	}
}

func TestFindAllAdminSeesEverything(t *testing.T) {
	svc, _ := newTodoFixture(t)

	views, err := svc.FindAll(context.Background(), adminCtx())
	if err != nil {
		t.Fatalf("FindAll() unexpected error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("FindAll() returned %d todos, want 3", len(views))
	}
}

func TestFindOneOwner(t *testing.T) {
	svc, _ := newTodoFixture(t)

	resp, err := svc.FindOne(context.Background(), userCtx(), 3)
	if err != nil {
		t.Fatalf("FindOne() unexpected error: %v", err)
	}
	if resp.ID != 3 {
		t.Errorf("FindOne() id = %d, want 3", resp.ID)
	}
}

func TestFindOneForeignForbidden(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.FindOne(context.Background(), userCtx(), 1)
	if !apperror.IsForbidden(err) {
		t.Fatalf("FindOne() error = %v, want Forbidden", err)
	}
}

func TestFindOneAdminAlways(t *testing.T) {
	svc, _ := newTodoFixture(t)

	if _, err := svc.FindOne(context.Background(), adminCtx(), 3); err != nil {
		t.Fatalf("FindOne() unexpected error: %v", err)
	}
}

func TestFindOneNotFoundTodo(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.FindOne(context.Background(), adminCtx(), 99)
	if !apperror.IsNotFound(err) {
		t.Fatalf("FindOne() error = %v, want NotFound", err)
	}
}

func TestUpdateOwnerCloses(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.Update(context.Background(), userCtx(), 2, model.UpdateTodoRequest{IsClosed: boolPtr(true)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if !resp.IsClosed {
		t.Error("Update() did not close the todo")
	}
	if !store.todos[2].IsClosed {
		t.Error("store row not closed")
	}
}

func TestUpdateOwnerReopenForbidden(t *testing.T) {
	svc, store := newTodoFixture(t)

	_, err := svc.Update(context.Background(), userCtx(), 3, model.UpdateTodoRequest{IsClosed: boolPtr(false)})
	if !apperror.IsForbidden(err) {
		t.Fatalf("Update() error = %v, want Forbidden", err)
	}
	ae, _ := apperror.FromError(err)
	if ae.Message != "Opening todos is not allowed" {
		t.Errorf("Update() message = %q, want %q", ae.Message, "Opening todos is not allowed")
	}
	if !store.todos[3].IsClosed {
		t.Error("Update() reopened the todo despite being forbidden")
	}
}

func TestUpdateAdminReopens(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.Update(context.Background(), adminCtx(), 3, model.UpdateTodoRequest{IsClosed: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if resp.IsClosed {
		t.Error("Update() did not reopen the todo")
	}
	if store.todos[3].IsClosed {
		t.Error("store row still closed")
	}
}

func TestUpdateForeignForbidden(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.Update(context.Background(), otherCtx(), 2, model.UpdateTodoRequest{Title: strPtr("Hijacked title")})
	if !apperror.IsForbidden(err) {
		t.Fatalf("Update() error = %v, want Forbidden", err)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTodoFixture(t)

	resp, err := svc.Update(context.Background(), userCtx(), 2, model.UpdateTodoRequest{Title: strPtr("Renamed chores")})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if resp.Title != "Renamed chores" {
		t.Errorf("Update() title = %q, want %q", resp.Title, "Renamed chores")
	}
	if resp.Description != "open, owned by user" {
		t.Error("Update() touched the description")
	}
	if resp.IsClosed {
		t.Error("Update() touched the closed flag")
	}
}

func TestUpdateIsLastWriteWins(t *testing.T) {
	svc, store := newTodoFixture(t)

	// Two successive partial updates both succeed; no version check applies.
	if _, err := svc.Update(context.Background(), userCtx(), 2, model.UpdateTodoRequest{Title: strPtr("First rename")}); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	resp, err := svc.Update(context.Background(), userCtx(), 2, model.UpdateTodoRequest{Title: strPtr("Second rename")})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if resp.Title != "Second rename" {
		t.Errorf("Update() title = %q, want the last write", resp.Title)
	}
	if store.todos[2].Version != 2 {
		t.Errorf("stored version = %d, want 2", store.todos[2].Version)
	}
}

func TestUpdateByAdminNotFoundBeforeForbidden(t *testing.T) {
	svc, _ := newTodoFixture(t)

	// A non-admin probing a missing id learns only that it does not exist.
	_, err := svc.UpdateByAdmin(context.Background(), userCtx(), 99, model.UpdateTodoAdminRequest{IsClosed: true})
	if !apperror.IsNotFound(err) {
		t.Fatalf("UpdateByAdmin() error = %v, want NotFound", err)
	}
}

func TestUpdateByAdminNonAdminForbidden(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.UpdateByAdmin(context.Background(), userCtx(), 2, model.UpdateTodoAdminRequest{IsClosed: true})
	if !apperror.IsForbidden(err) {
		t.Fatalf("UpdateByAdmin() error = %v, want Forbidden", err)
	}
}

func TestUpdateByAdminToggles(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.UpdateByAdmin(context.Background(), adminCtx(), 3, model.UpdateTodoAdminRequest{IsClosed: false})
	if err != nil {
		t.Fatalf("UpdateByAdmin() unexpected error: %v", err)
	}
	if resp.IsClosed {
		t.Error("UpdateByAdmin() did not reopen the todo")
	}
	if resp.UpdatedByID != 1 {
		t.Errorf("UpdateByAdmin() updatedById = %d, want 1", resp.UpdatedByID)
	}
	if store.todos[3].Version != 1 {
		t.Errorf("stored version = %d, want 1", store.todos[3].Version)
	}
}

func TestReplaceMatchingVersionAdvances(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.Replace(context.Background(), adminCtx(), 2, model.ReplaceTodoRequest{
		ID:       2,
		Version:  0,
		Title:    "Replaced title",
		IsClosed: true,
	})
	if err != nil {
		t.Fatalf("Replace() unexpected error: %v", err)
	}
	if resp.Version != 1 {
		t.Errorf("Replace() version = %d, want 1", resp.Version)
	}
	if resp.Title != "Replaced title" || !resp.IsClosed {
		t.Error("Replace() did not apply the snapshot")
	}
	if store.todos[2].Version != 1 {
		t.Errorf("stored version = %d, want 1", store.todos[2].Version)
	}
}

func TestReplaceStaleVersionConflict(t *testing.T) {
	svc, store := newTodoFixture(t)

	_, err := svc.Replace(context.Background(), adminCtx(), 2, model.ReplaceTodoRequest{
		ID:      2,
		Version: 7,
		Title:   "Stale snapshot",
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("Replace() error = %v, want Conflict", err)
	}
	if store.todos[2].Title != "UserChores" || store.todos[2].Version != 0 {
		t.Error("Replace() modified the row despite the version conflict")
	}
}

func TestReplaceNonAdminForbidden(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.Replace(context.Background(), userCtx(), 2, model.ReplaceTodoRequest{
		ID:      2,
		Version: 0,
		Title:   "Owner replace attempt",
	})
	if !apperror.IsForbidden(err) {
		t.Fatalf("Replace() error = %v, want Forbidden", err)
	}
}

func TestReplaceVersionCheckedBeforeAuthorization(t *testing.T) {
	svc, _ := newTodoFixture(t)

	// A stale non-admin writer sees the conflict, not the permission wall.
	_, err := svc.Replace(context.Background(), userCtx(), 2, model.ReplaceTodoRequest{
		ID:      2,
		Version: 7,
		Title:   "Stale and forbidden",
	})
	if !apperror.IsConflict(err) {
		t.Fatalf("Replace() error = %v, want Conflict", err)
	}
}

func TestRemoveOwnerForbidden(t *testing.T) {
	svc, store := newTodoFixture(t)

	_, err := svc.Remove(context.Background(), userCtx(), 2)
	if !apperror.IsForbidden(err) {
		t.Fatalf("Remove() error = %v, want Forbidden", err)
	}
	if _, ok := store.todos[2]; !ok {
		t.Error("Remove() deleted the row despite being forbidden")
	}
}

func TestRemoveByAdminTodo(t *testing.T) {
	svc, store := newTodoFixture(t)

	resp, err := svc.Remove(context.Background(), adminCtx(), 2)
	if err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if resp.ID != 2 || resp.Title != "UserChores" {
		t.Error("Remove() did not return the pre-delete view")
	}
	if _, ok := store.todos[2]; ok {
		t.Error("Remove() left the row in place")
	}
}

func TestRemoveNotFoundTodo(t *testing.T) {
	svc, _ := newTodoFixture(t)

	_, err := svc.Remove(context.Background(), adminCtx(), 99)
	if !apperror.IsNotFound(err) {
		t.Fatalf("Remove() error = %v, want NotFound", err)
	}
}
