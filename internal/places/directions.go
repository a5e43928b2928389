package places

import (
	"context"

	"backend-cityguide/internal/route"
)

// DirectionsClient implements route.DirectionsProvider. The routes
// endpoint is not wired up yet, so it always reports a zero matrix and
// lets callers fall back to straight-line estimates.
//
// TODO: call the distance matrix endpoint once billing for it is
// enabled.
type DirectionsClient struct{}

func NewDirectionsClient() *DirectionsClient {
	return &DirectionsClient{}
}

func (d *DirectionsClient) DistanceMatrix(_ context.Context, points []route.RoutePoint, _ string) ([][]float64, error) {
	matrix := make([][]float64, len(points))
	for i := range matrix {
		matrix[i] = make([]float64, len(points))
	}
	return matrix, nil
}
