package route

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	draft := &RouteDraft{
		ID:            "d1",
		UserID:        "u1",
		City:          "Vilnius",
		Language:      "en",
		DurationMin:   120,
		TransportMode: "walking",
		Status:        StatusCreated,
	}
	if err := repo.CreateDraft(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.GetDraft(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.City != "Vilnius" || loaded.Status != StatusCreated {
		t.Fatalf("unexpected draft loaded: %+v", loaded)
	}

	loaded.Status = StatusDraft
	if err := repo.UpdateDraft(ctx, loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, _ := repo.GetDraft(ctx, "d1")
	if reloaded.Status != StatusDraft {
		t.Fatalf("update not persisted, status %q", reloaded.Status)
	}

	if err := repo.DeleteDraft(ctx, "d1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetDraft(ctx, "d1"); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound after delete, got %v", err)
	}
}

func TestMemoryRepositoryListOrdering(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	older := &RouteDraft{ID: "d1", UserID: "u1", City: "Riga", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &RouteDraft{ID: "d2", UserID: "u1", City: "Vilnius", CreatedAt: time.Now()}
	other := &RouteDraft{ID: "d3", UserID: "u2", City: "Tallinn", CreatedAt: time.Now()}
	for _, d := range []*RouteDraft{older, newer, other} {
		if err := repo.CreateDraft(ctx, d); err != nil {
			t.Fatalf("create %s: %v", d.ID, err)
		}
	}

	drafts, err := repo.ListDraftsForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts for u1, got %d", len(drafts))
	}
	if drafts[0].ID != "d2" || drafts[1].ID != "d1" {
		t.Fatalf("expected newest first, got %s then %s", drafts[0].ID, drafts[1].ID)
	}
}

func TestMemoryRepositoryReplacePoints(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	draft := &RouteDraft{ID: "d1", UserID: "u1", City: "Vilnius"}
	if err := repo.CreateDraft(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}

	first := []RoutePoint{{ID: "p1", RouteID: "d1", POIID: "a", OrderIndex: 0}}
	if err := repo.ReplacePoints(ctx, "d1", first); err != nil {
		t.Fatalf("replace: %v", err)
	}
	second := []RoutePoint{
		{ID: "p2", RouteID: "d1", POIID: "b", OrderIndex: 0},
		{ID: "p3", RouteID: "d1", POIID: "c", OrderIndex: 1},
	}
	if err := repo.ReplacePoints(ctx, "d1", second); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	loaded, _ := repo.GetDraft(ctx, "d1")
	if len(loaded.Points) != 2 {
		t.Fatalf("expected full replacement, got %d points", len(loaded.Points))
	}
	if loaded.Points[0].POIID != "b" {
		t.Fatalf("old point set survived replacement")
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.CreateDraft(ctx, &RouteDraft{ID: "d1", UserID: "u1", City: "Vilnius"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	loaded, _ := repo.GetDraft(ctx, "d1")
	loaded.City = "Kaunas"

	fresh, _ := repo.GetDraft(ctx, "d1")
	if fresh.City != "Vilnius" {
		t.Fatalf("mutating a loaded draft leaked into the store")
	}
}
