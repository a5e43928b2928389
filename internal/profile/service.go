package profile

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetProfile returns the stored profile with defaults merged in, so
// callers always see usable values.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		p = &Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}
	applyDefaults(p)
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateRequest) (*Profile, error) {
	if req.DurationMin < 0 {
		return nil, fmt.Errorf("duration_min cannot be negative")
	}
	p := &Profile{
		UserID:        userID,
		City:          req.City,
		Language:      req.Language,
		TravelStyle:   req.TravelStyle,
		Interests:     req.Interests,
		TransportMode: req.TransportMode,
		DurationMin:   req.DurationMin,
	}
	if err := s.store.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	applyDefaults(p)
	return p, nil
}

// RouteContext flattens the profile into the key/value context handed
// to the route generation collaborators.
func (s *Service) RouteContext(ctx context.Context, userID string) (map[string]any, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"city":           p.City,
		"language":       p.Language,
		"travel_style":   p.TravelStyle,
		"interests":      p.Interests,
		"transport_mode": p.TransportMode,
		"duration_min":   p.DurationMin,
	}, nil
}

func applyDefaults(p *Profile) {
	if p.City == "" {
		p.City = DefaultCity
	}
	if p.Language == "" {
		p.Language = DefaultLanguage
	}
	if p.TransportMode == "" {
		p.TransportMode = DefaultTransportMode
	}
	if p.DurationMin == 0 {
		p.DurationMin = DefaultDurationMin
	}
}
