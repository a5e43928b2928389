package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"backend-cityguide/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

// Store persists raw profiles. The service layer applies defaults on
// top of what the store returns.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}

// PostgresStore keeps the profile fields in a JSONB column so new
// personalization fields do not need migrations.
type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT context, updated_at FROM user_profiles WHERE user_id=$1
	`, userID)

	var raw []byte
	var updatedAt time.Time
	if err := row.Scan(&raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	p.UserID = userID
	p.UpdatedAt = updatedAt
	return &p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p *Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO user_profiles (user_id, context, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET context=$2, updated_at=now()
	`, p.UserID, raw)
	return err
}

// MemoryStore backs the profile service when postgres is not
// configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: map[string]Profile{}}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	out := p
	out.Interests = append([]string(nil), p.Interests...)
	return &out, nil
}

func (s *MemoryStore) Upsert(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	stored.Interests = append([]string(nil), p.Interests...)
	stored.UpdatedAt = time.Now().UTC()
	s.profiles[p.UserID] = stored
	return nil
}
