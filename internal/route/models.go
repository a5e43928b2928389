package route

import "time"

// Draft statuses. Generation advances created -> draft; terminal states
// belong to downstream publishing flows.
const (
	StatusCreated = "created"
	StatusDraft   = "draft"
)

// CandidatePOI is an unordered point-of-interest proposal produced by an
// external source (LLM brainstorm, places API, or synthetic fallback).
// It is immutable once handed to the generation pipeline.
type CandidatePOI struct {
	POIID    string  `json:"poi_id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating,omitempty"`
	OpenNow  *bool   `json:"open_now,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// RoutePoint is a candidate bound into a route at a specific position.
// Exactly one of ETAMinWalk/ETAMinDrive is populated depending on the
// draft's transport mode; the first point of a route always has ETA 0.
type RoutePoint struct {
	ID          string  `json:"id"`
	RouteID     string  `json:"route_id,omitempty"`
	POIID       string  `json:"poi_id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Category    string  `json:"category"`
	OrderIndex  int     `json:"order_index"`
	ETAMinWalk  *int    `json:"eta_min_walk"`
	ETAMinDrive *int    `json:"eta_min_drive"`
	ListenSec   *int    `json:"listen_sec"`
	SourcePOIID string  `json:"source_poi_id,omitempty"`
	OpenNow     *bool   `json:"open_now,omitempty"`
}

// HardConstraints bound a single generation request. MustIncludePOIIDs is
// declared for API compatibility but not yet enforced by the validator.
type HardConstraints struct {
	MinPoints         int        `json:"min_points"`
	MaxPoints         int        `json:"max_points"`
	TimeWindowStart   *time.Time `json:"time_window_start,omitempty"`
	MustIncludePOIIDs []string   `json:"must_include_poi_ids,omitempty"`
}

// RouteDraft is the persisted, evolving itinerary entity. Points are
// replaced wholesale by generation, never partially mutated.
type RouteDraft struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	City          string         `json:"city"`
	Language      string         `json:"language"`
	DurationMin   int            `json:"duration_min"`
	TransportMode string         `json:"transport_mode"`
	Status        string         `json:"status"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Points        []RoutePoint   `json:"points"`
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
