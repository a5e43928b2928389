package poi

import (
	"context"
	"log"

	"backend-cityguide/internal/route"
)

const brainstormCount = 8

// Brainstormer proposes place names for a city. Satisfied by the gpt
// client.
type Brainstormer interface {
	BrainstormPOIs(ctx context.Context, city, language string, count int) ([]string, error)
}

// Resolver validates a place name against a places index. Satisfied by
// the places client.
type Resolver interface {
	ResolvePOI(ctx context.Context, title, city, language string) (*route.CandidatePOI, error)
}

// Source is the candidate acquisition strategy for route generation:
// brainstorm place names, validate each against the places index, and
// fall back to a plain nearby search when that chain produces nothing.
type Source struct {
	brainstorm Brainstormer
	resolve    Resolver
	nearby     route.CandidateSource
}

func NewSource(brainstorm Brainstormer, resolve Resolver, nearby route.CandidateSource) *Source {
	return &Source{brainstorm: brainstorm, resolve: resolve, nearby: nearby}
}

func (s *Source) FetchCandidates(ctx context.Context, query route.CandidateQuery) ([]route.CandidatePOI, error) {
	candidates := s.brainstormed(ctx, query)
	if len(candidates) > 0 {
		return candidates, nil
	}
	if s.nearby == nil {
		return nil, nil
	}
	return s.nearby.FetchCandidates(ctx, query)
}

func (s *Source) brainstormed(ctx context.Context, query route.CandidateQuery) []route.CandidatePOI {
	if s.brainstorm == nil || s.resolve == nil {
		return nil
	}

	titles, err := s.brainstorm.BrainstormPOIs(ctx, query.City, query.Language, brainstormCount)
	if err != nil {
		log.Printf("brainstorm failed for %s: %v", query.City, err)
		return nil
	}

	seen := map[string]struct{}{}
	candidates := make([]route.CandidatePOI, 0, len(titles))
	for _, title := range titles {
		candidate, err := s.resolve.ResolvePOI(ctx, title, query.City, query.Language)
		if err != nil {
			log.Printf("resolve %q failed: %v", title, err)
			continue
		}
		if candidate == nil {
			continue
		}
		if _, dup := seen[candidate.POIID]; dup {
			continue
		}
		seen[candidate.POIID] = struct{}{}
		candidates = append(candidates, *candidate)
	}
	return candidates
}
