package profile

import "time"

// Defaults applied when a user has not filled in their profile yet.
const (
	DefaultCity          = "Vilnius"
	DefaultLanguage      = "en"
	DefaultDurationMin   = 180
	DefaultTransportMode = "walking"
)

// Profile is the personalization context attached to a user. Everything
// is optional; missing values fall back to the defaults above.
type Profile struct {
	UserID        string    `json:"user_id"`
	City          string    `json:"city,omitempty"`
	Language      string    `json:"language,omitempty"`
	TravelStyle   string    `json:"travel_style,omitempty"`
	Interests     []string  `json:"interests,omitempty"`
	TransportMode string    `json:"transport_mode,omitempty"`
	DurationMin   int       `json:"duration_min,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpdateRequest struct {
	City          string   `json:"city"`
	Language      string   `json:"language"`
	TravelStyle   string   `json:"travel_style"`
	Interests     []string `json:"interests"`
	TransportMode string   `json:"transport_mode"`
	DurationMin   int      `json:"duration_min"`
}
