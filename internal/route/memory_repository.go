package route

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is a process-local Repository used in tests and for
// running the API without Postgres. Instances are constructed explicitly
// and passed down; there is no package-level store.
type MemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]*RouteDraft
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{drafts: map[string]*RouteDraft{}}
}

// Reset drops all stored drafts. Intended for test teardown.
func (r *MemoryRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = map[string]*RouteDraft{}
}

func (r *MemoryRepository) CreateDraft(_ context.Context, draft *RouteDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	r.drafts[draft.ID] = copyDraft(draft)
	return nil
}

func (r *MemoryRepository) GetDraft(_ context.Context, id string) (*RouteDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return copyDraft(stored), nil
}

func (r *MemoryRepository) ListDraftsForUser(_ context.Context, userID string) ([]*RouteDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drafts := make([]*RouteDraft, 0, 4)
	for _, d := range r.drafts {
		if d.UserID == userID {
			drafts = append(drafts, copyDraft(d))
		}
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})
	return drafts, nil
}

func (r *MemoryRepository) UpdateDraft(_ context.Context, draft *RouteDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.drafts[draft.ID]
	if !ok {
		return ErrDraftNotFound
	}

	updated := copyDraft(draft)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Points = stored.Points
	r.drafts[draft.ID] = updated
	return nil
}

func (r *MemoryRepository) ReplacePoints(_ context.Context, routeID string, points []RoutePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.drafts[routeID]
	if !ok {
		return ErrDraftNotFound
	}

	// Whole-slice swap keeps replacement all-or-nothing for readers.
	replaced := make([]RoutePoint, len(points))
	copy(replaced, points)
	stored.Points = replaced
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) DeleteDraft(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(r.drafts, id)
	return nil
}

func copyDraft(d *RouteDraft) *RouteDraft {
	dup := *d
	dup.Points = make([]RoutePoint, len(d.Points))
	copy(dup.Points, d.Points)
	if d.Payload != nil {
		dup.Payload = make(map[string]any, len(d.Payload))
		for k, v := range d.Payload {
			dup.Payload[k] = v
		}
	}
	return &dup
}
