package route

import (
	"slices"

	"backend-cityguide/internal/geo"
)

// DistanceLookup maps an ordered pair of POI ids to the distance between
// them in kilometers. Self-distance is always 0.
type DistanceLookup map[[2]string]float64

// BuildDistanceLookup computes all pairwise haversine distances for the
// given points, keyed by POI id.
func BuildDistanceLookup(points []RoutePoint) DistanceLookup {
	lookup := make(DistanceLookup, len(points)*len(points))
	for i, src := range points {
		for j, dst := range points {
			key := [2]string{src.POIID, dst.POIID}
			if i == j {
				lookup[key] = 0
				continue
			}
			lookup[key] = geo.HaversineKm(src.Lat, src.Lng, dst.Lat, dst.Lng)
		}
	}
	return lookup
}

// NearestNeighborTour builds a visiting order greedily: start at index 0
// and repeatedly move to the closest unvisited point. Ties break on the
// lowest index, which keeps the result deterministic.
func NearestNeighborTour(ids []string, dist DistanceLookup) []string {
	if len(ids) == 0 {
		return []string{}
	}

	n := len(ids)
	visited := make([]bool, n)
	order := make([]string, 0, n)

	current := 0
	visited[0] = true
	order = append(order, ids[0])

	for len(order) < n {
		best := -1
		for idx := 0; idx < n; idx++ {
			if visited[idx] {
				continue
			}
			if best == -1 || dist[[2]string{ids[current], ids[idx]}] < dist[[2]string{ids[current], ids[best]}] {
				best = idx
			}
		}
		visited[best] = true
		order = append(order, ids[best])
		current = best
	}

	return order
}

// TwoOptImprove refines a tour with classic 2-opt local search: scan all
// edge pairs and reverse the segment between them whenever that shortens
// the two edges, until a full scan finds no improving swap. Every accepted
// reversal strictly shortens the tour, so the loop terminates.
func TwoOptImprove(order []string, dist DistanceLookup) []string {
	out := make([]string, len(order))
	copy(out, order)

	n := len(out)
	if n < 3 {
		return out
	}

	improved := true
	for improved {
		improved = false
		for i := 1; i <= n-2; i++ {
			for j := i + 1; j <= n; j++ {
				if j-i == 1 {
					continue
				}
				// The final j wraps to the start to close the tour.
				a, b := out[i-1], out[i]
				c, d := out[j-1], out[j%n]

				current := dist[[2]string{a, b}] + dist[[2]string{c, d}]
				candidate := dist[[2]string{a, c}] + dist[[2]string{b, d}]
				if candidate < current {
					reverseSegment(out, i, j)
					improved = true
				}
			}
		}
	}
	return out
}

// reverseSegment reverses out[i:j] in place.
func reverseSegment(out []string, i, j int) {
	for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
		out[lo], out[hi] = out[hi], out[lo]
	}
}

// FallbackRoute orders points by haversine proximity when no usable
// externally supplied order exists: nearest-neighbor construction followed
// by 2-opt refinement. Fewer than two points are returned unchanged.
func FallbackRoute(points []RoutePoint) []RoutePoint {
	if len(points) < 2 {
		return points
	}

	lookup := BuildDistanceLookup(points)

	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.POIID
	}

	order := NearestNeighborTour(ids, lookup)
	order = TwoOptImprove(order, lookup)

	position := make(map[string]int, len(order))
	for idx, id := range order {
		position[id] = idx
	}

	ordered := make([]RoutePoint, len(points))
	copy(ordered, points)
	slices.SortStableFunc(ordered, func(a, b RoutePoint) int {
		return position[a.POIID] - position[b.POIID]
	})
	return ordered
}
