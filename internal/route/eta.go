package route

import "backend-cityguide/internal/geo"

// AnnotateETAs returns a copy of points with per-leg travel estimates
// filled in. Each leg is measured from the immediately preceding point in
// sequence order; the first point always gets ETA 0. Walking mode
// populates ETAMinWalk, every other mode ETAMinDrive, and the unused
// field stays nil.
func AnnotateETAs(points []RoutePoint, mode string) []RoutePoint {
	enriched := make([]RoutePoint, 0, len(points))
	for i, point := range points {
		eta := 0
		if i > 0 {
			prev := points[i-1]
			distanceKm := geo.HaversineKm(prev.Lat, prev.Lng, point.Lat, point.Lng)
			eta = int(geo.EstimateTravelMinutes(distanceKm, mode))
		}

		annotated := point
		if mode == "walking" {
			v := eta
			annotated.ETAMinWalk = &v
			annotated.ETAMinDrive = nil
		} else {
			v := eta
			annotated.ETAMinDrive = &v
			annotated.ETAMinWalk = nil
		}
		enriched = append(enriched, annotated)
	}
	return enriched
}
