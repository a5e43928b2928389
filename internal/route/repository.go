package route

import (
	"context"
	"errors"
)

// ErrDraftNotFound is returned by every Repository implementation when a
// draft id does not exist.
var ErrDraftNotFound = errors.New("route draft not found")

// Repository is the persistence boundary for route drafts. The core
// algorithms never touch it; only the service and generator do, so the
// same pipeline runs against Postgres or the in-memory store.
type Repository interface {
	CreateDraft(ctx context.Context, draft *RouteDraft) error
	GetDraft(ctx context.Context, id string) (*RouteDraft, error)
	ListDraftsForUser(ctx context.Context, userID string) ([]*RouteDraft, error)
	UpdateDraft(ctx context.Context, draft *RouteDraft) error
	// ReplacePoints swaps the draft's point set wholesale. Readers never
	// observe a mix of old and new points.
	ReplacePoints(ctx context.Context, routeID string, points []RoutePoint) error
	DeleteDraft(ctx context.Context, id string) error
}
