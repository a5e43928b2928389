package route

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	defaultMaxWaypoints = 3
	collaboratorTimeout = 10 * time.Second
)

// Collaborators are the external capabilities the generation pipeline
// composes. Any of them may be nil; every absence has a defined fallback.
type Collaborators struct {
	Candidates CandidateSource
	Ranker     Ranker
	Orderer    Orderer
	Directions DirectionsProvider
}

// GenerateRequest carries the per-request inputs for one generation run.
type GenerateRequest struct {
	Start       *Coordinate
	Constraints HardConstraints
	UserContext map[string]any
}

// Generator wires candidate acquisition, external ranking/ordering, the
// local optimizer fallback, ETA annotation and constraint enforcement
// into one pipeline, and persists the validated result.
type Generator struct {
	collab Collaborators
	repo   Repository
	locks  Locker
}

func NewGenerator(collab Collaborators, repo Repository, locks Locker) *Generator {
	return &Generator{collab: collab, repo: repo, locks: locks}
}

// Generate runs the full pipeline for a draft. The only error surfaced
// for pipeline reasons is a ConstraintViolation; collaborator failures
// all degrade to fallbacks. On any error the draft keeps its prior
// points and status.
func (g *Generator) Generate(ctx context.Context, draft *RouteDraft, req GenerateRequest) ([]RoutePoint, error) {
	constraints := normalizeConstraints(req.Constraints)

	release, err := g.locks.Acquire(ctx, draft.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	candidates := g.acquireCandidates(ctx, draft, req, constraints)
	selected := g.selectCandidates(ctx, req.UserContext, candidates, constraints.MaxPoints)
	points := candidatesToPoints(selected)

	matrix := g.distanceMatrix(ctx, points, draft.TransportMode)
	ordered := g.orderPoints(ctx, req.UserContext, points, matrix)

	rekeyed := rekeyPoints(ordered)
	annotated := AnnotateETAs(rekeyed, draft.TransportMode)

	validator := NewConstraintValidator(constraints)
	final, err := validator.Enforce(annotated, draft.DurationMin)
	if err != nil {
		return nil, err
	}
	for i := range final {
		final[i].OrderIndex = i
		final[i].RouteID = draft.ID
	}

	if err := g.repo.ReplacePoints(ctx, draft.ID, final); err != nil {
		return nil, fmt.Errorf("replace points for draft %s: %w", draft.ID, err)
	}

	draft.Status = StatusDraft
	if draft.Payload == nil {
		draft.Payload = map[string]any{}
	}
	draft.Payload["generation"] = auditPayload(candidates, ordered, matrix)
	if err := g.repo.UpdateDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("update draft %s after generation: %w", draft.ID, err)
	}

	draft.Points = final
	return final, nil
}

// acquireCandidates asks the candidate source and falls back to a small
// deterministic synthetic set so the pipeline always has input.
func (g *Generator) acquireCandidates(ctx context.Context, draft *RouteDraft, req GenerateRequest, constraints HardConstraints) []CandidatePOI {
	if g.collab.Candidates != nil {
		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		defer cancel()

		candidates, err := g.collab.Candidates.FetchCandidates(callCtx, CandidateQuery{
			City:     draft.City,
			Start:    req.Start,
			Language: draft.Language,
		})
		if err != nil {
			log.Printf("candidate source failed for draft %s, using synthetic candidates: %v", draft.ID, err)
		}
		if len(candidates) > 0 {
			return candidates
		}
	}
	return syntheticCandidates(draft.City, req.Start, max(constraints.MinPoints, defaultMaxWaypoints))
}

// selectCandidates narrows the candidate set to at most k entries,
// preferring the external ranker's choice. Unknown ids are ignored and
// short selections are topped up in acquisition order.
func (g *Generator) selectCandidates(ctx context.Context, userCtx map[string]any, candidates []CandidatePOI, k int) []CandidatePOI {
	if len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	var rankedIDs []string
	if g.collab.Ranker != nil {
		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		defer cancel()

		ids, err := g.collab.Ranker.RankCandidates(callCtx, userCtx, candidates, k)
		if err != nil {
			log.Printf("candidate ranking failed, using first %d candidates: %v", k, err)
		} else {
			rankedIDs = ids
		}
	}
	if len(rankedIDs) == 0 {
		return candidates[:k]
	}

	chosen := make(map[string]struct{}, len(rankedIDs))
	for _, id := range rankedIDs {
		chosen[id] = struct{}{}
	}

	selected := make([]CandidatePOI, 0, k)
	for _, c := range candidates {
		if _, ok := chosen[c.POIID]; ok && len(selected) < k {
			selected = append(selected, c)
		}
	}
	for _, c := range candidates {
		if len(selected) == k {
			break
		}
		if _, ok := chosen[c.POIID]; !ok {
			selected = append(selected, c)
		}
	}
	return selected
}

// distanceMatrix obtains a square pairwise matrix, substituting zeros
// when the provider is missing, erroring, or mis-shaped.
func (g *Generator) distanceMatrix(ctx context.Context, points []RoutePoint, mode string) [][]float64 {
	if g.collab.Directions != nil {
		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		defer cancel()

		matrix, err := g.collab.Directions.DistanceMatrix(callCtx, points, mode)
		if err != nil {
			log.Printf("distance matrix unavailable, using zero matrix: %v", err)
		} else if squareMatrix(matrix, len(points)) {
			return matrix
		}
	}
	return zeroMatrix(len(points))
}

// orderPoints applies the external ordering when it is a valid
// permutation of the point ids, otherwise runs the local optimizer.
func (g *Generator) orderPoints(ctx context.Context, userCtx map[string]any, points []RoutePoint, matrix [][]float64) []RoutePoint {
	if g.collab.Orderer == nil {
		return FallbackRoute(points)
	}

	callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	ids, err := g.collab.Orderer.OrderPoints(callCtx, userCtx, points, matrix)
	if err != nil {
		log.Printf("external ordering failed, falling back to optimizer: %v", err)
		return FallbackRoute(points)
	}
	if !isPermutation(ids, points) {
		log.Printf("external ordering rejected (got %d ids for %d points), falling back to optimizer", len(ids), len(points))
		return FallbackRoute(points)
	}

	byID := make(map[string]RoutePoint, len(points))
	for _, p := range points {
		byID[p.POIID] = p
	}
	ordered := make([]RoutePoint, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	return ordered
}

// rekeyPoints assigns fresh internal ids, keeping the external id as
// the source reference.
func rekeyPoints(points []RoutePoint) []RoutePoint {
	rekeyed := make([]RoutePoint, len(points))
	for i, p := range points {
		p.SourcePOIID = p.POIID
		p.POIID = uuid.NewString()
		p.ID = uuid.NewString()
		rekeyed[i] = p
	}
	return rekeyed
}

func candidatesToPoints(candidates []CandidatePOI) []RoutePoint {
	points := make([]RoutePoint, 0, len(candidates))
	for _, c := range candidates {
		points = append(points, RoutePoint{
			POIID:    c.POIID,
			Name:     c.Name,
			Lat:      c.Lat,
			Lng:      c.Lng,
			Category: c.Category,
			OpenNow:  c.OpenNow,
		})
	}
	return points
}

func syntheticCandidates(city string, start *Coordinate, count int) []CandidatePOI {
	baseLat, baseLng := 0.0, 0.0
	if start != nil {
		baseLat, baseLng = start.Lat, start.Lng
	}
	candidates := make([]CandidatePOI, 0, count)
	for idx := 0; idx < count; idx++ {
		candidates = append(candidates, CandidatePOI{
			POIID:    fmt.Sprintf("fallback-%s-%d", city, idx),
			Name:     fmt.Sprintf("Point %d", idx),
			Lat:      baseLat + float64(idx)*0.001,
			Lng:      baseLng + float64(idx)*0.001,
			Category: "sight",
			Source:   "fallback",
		})
	}
	return candidates
}

func normalizeConstraints(c HardConstraints) HardConstraints {
	if c.MinPoints < 1 {
		c.MinPoints = 1
	}
	if c.MaxPoints == 0 {
		c.MaxPoints = defaultMaxWaypoints
	}
	if c.MaxPoints < c.MinPoints {
		c.MaxPoints = c.MinPoints
	}
	return c
}

func isPermutation(ids []string, points []RoutePoint) bool {
	if len(ids) != len(points) {
		return false
	}
	want := make(map[string]int, len(points))
	for _, p := range points {
		want[p.POIID]++
	}
	for _, id := range ids {
		if want[id] == 0 {
			return false
		}
		want[id]--
	}
	return true
}

func squareMatrix(matrix [][]float64, n int) bool {
	if len(matrix) != n {
		return false
	}
	for _, row := range matrix {
		if len(row) != n {
			return false
		}
	}
	return true
}

func zeroMatrix(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	return matrix
}

func auditPayload(candidates []CandidatePOI, ordered []RoutePoint, matrix [][]float64) map[string]any {
	orderedIDs := make([]string, len(ordered))
	for i, p := range ordered {
		orderedIDs[i] = p.POIID
	}
	return map[string]any{
		"candidates":      candidates,
		"ordered_poi_ids": orderedIDs,
		"distance_matrix": matrix,
	}
}
