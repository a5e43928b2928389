package route

import "context"

// CandidateQuery describes where to look for candidate POIs.
type CandidateQuery struct {
	City     string
	Start    *Coordinate
	RadiusM  int
	Keyword  string
	Language string
}

// CandidateSource proposes POIs near a locality or coordinate. An empty
// result and an error are both treated as "no candidates" by the
// generation pipeline, never as a fatal failure.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, query CandidateQuery) ([]CandidatePOI, error)
}

// Ranker chooses up to k candidate ids for a user. Ids not present in
// the candidate list are ignored downstream; errors mean "use the first
// k candidates".
type Ranker interface {
	RankCandidates(ctx context.Context, userCtx map[string]any, candidates []CandidatePOI, k int) ([]string, error)
}

// Orderer suggests a visiting order. The reply is only accepted when it
// is a permutation of the input point ids; anything else falls back to
// the local optimizer.
type Orderer interface {
	OrderPoints(ctx context.Context, userCtx map[string]any, points []RoutePoint, matrix [][]float64) ([]string, error)
}

// DirectionsProvider returns a square pairwise travel matrix for the
// given points. Absence defaults to an all-zero matrix, which degrades
// distances to a tie-break-only signal.
type DirectionsProvider interface {
	DistanceMatrix(ctx context.Context, points []RoutePoint, mode string) ([][]float64, error)
}
