package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"backend-cityguide/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrTokenUnknown = errors.New("refresh token unknown")
)

// Store persists users and refresh tokens. The service layer owns
// hashing, token signing and credential checks.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	SaveRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error
	RefreshToken(ctx context.Context, token string) (string, time.Time, error)
}

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, country, city, language, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Phone, user.Country, user.City, user.Language, user.IsActive)
	if err := row.Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone, country, city, language, is_active, created_at
		FROM users WHERE email = $1
	`, email))
}

func (s *PostgresStore) UserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone, country, city, language, is_active, created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *PostgresStore) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.Country, &user.City, &user.Language, &user.IsActive, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) SaveRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1,$2,$3)
	`, token, userID, expiresAt)
	return err
}

func (s *PostgresStore) RefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, ErrTokenUnknown
		}
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}

// MemoryStore backs the server when no Postgres URL is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]User
	byEmail map[string]string
	refresh map[string]refreshRecord
}

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]User),
		byEmail: make(map[string]string),
		refresh: make(map[string]refreshRecord),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return ErrEmailTaken
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) SaveRefreshToken(_ context.Context, token, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token] = refreshRecord{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) RefreshToken(_ context.Context, token string) (string, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.refresh[token]
	if !ok {
		return "", time.Time{}, ErrTokenUnknown
	}
	return rec.userID, rec.expiresAt, nil
}

// SetActive flips a user's active flag. Used by tests and admin
// tooling; there is no HTTP surface for it.
func (s *MemoryStore) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		user.IsActive = active
		s.users[id] = user
	}
}
