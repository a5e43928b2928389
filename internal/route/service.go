package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserContextProvider supplies the personalization context fed to the
// external ranker and orderer. Implemented by the profile service.
type UserContextProvider interface {
	RouteContext(ctx context.Context, userID string) (map[string]any, error)
}

type Service struct {
	repo      Repository
	generator *Generator
	profiles  UserContextProvider
}

func NewService(repo Repository, generator *Generator, profiles UserContextProvider) *Service {
	return &Service{repo: repo, generator: generator, profiles: profiles}
}

type CreateDraftInput struct {
	City          string `json:"city"`
	Language      string `json:"language"`
	DurationMin   int    `json:"duration_min"`
	TransportMode string `json:"transport_mode"`
}

func (s *Service) CreateDraft(ctx context.Context, userID string, input CreateDraftInput) (*RouteDraft, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	if input.DurationMin <= 0 {
		return nil, fmt.Errorf("duration_min must be positive")
	}
	mode := input.TransportMode
	if mode == "" {
		mode = "walking"
	}
	language := input.Language
	if language == "" {
		language = "en"
	}

	draft := &RouteDraft{
		ID:            uuid.NewString(),
		UserID:        userID,
		City:          city,
		Language:      language,
		DurationMin:   input.DurationMin,
		TransportMode: mode,
		Status:        StatusCreated,
	}
	if err := s.repo.CreateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return draft, nil
}

func (s *Service) GetDraft(ctx context.Context, userID, draftID string) (*RouteDraft, error) {
	draft, err := s.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.UserID != userID {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}

func (s *Service) ListDrafts(ctx context.Context, userID string) ([]*RouteDraft, error) {
	return s.repo.ListDraftsForUser(ctx, userID)
}

func (s *Service) DeleteDraft(ctx context.Context, userID, draftID string) error {
	if _, err := s.GetDraft(ctx, userID, draftID); err != nil {
		return err
	}
	return s.repo.DeleteDraft(ctx, draftID)
}

type GenerateInput struct {
	Start       *Coordinate     `json:"start,omitempty"`
	Constraints HardConstraints `json:"constraints"`
}

// GenerateRoute loads the draft, resolves the owner's personalization
// context and runs the generation pipeline.
func (s *Service) GenerateRoute(ctx context.Context, userID, draftID string, input GenerateInput) (*RouteDraft, error) {
	draft, err := s.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	userCtx := map[string]any{}
	if s.profiles != nil {
		// Personalization is best effort, the pipeline runs without it.
		if resolved, err := s.profiles.RouteContext(ctx, userID); err == nil && resolved != nil {
			userCtx = resolved
		}
	}

	if _, err := s.generator.Generate(ctx, draft, GenerateRequest{
		Start:       input.Start,
		Constraints: input.Constraints,
		UserContext: userCtx,
	}); err != nil {
		return nil, err
	}
	return draft, nil
}
