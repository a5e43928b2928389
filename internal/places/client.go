package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"backend-cityguide/internal/route"

	"github.com/redis/go-redis/v9"
)

const (
	defaultBaseURL  = "https://maps.googleapis.com/maps/api/place"
	defaultRadiusM  = 3000
	nearbyCacheTTL  = 15 * time.Minute
	requestTimeout  = 10 * time.Second
	maxNearbyPlaces = 20
)

// Client talks to the Google Places web API. A client with an empty
// API key is valid and reports no results, which pushes the generation
// pipeline onto its fallbacks.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
}

func NewClient(apiKey string, cache *redis.Client) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type placesResponse struct {
	Results []placeResult `json:"results"`
	Status  string        `json:"status"`
}

type placeResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Types        []string `json:"types"`
	Rating       float64  `json:"rating"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
}

// FetchCandidates performs a nearby search around the query start, or a
// text search against the city when no start is given. Implements
// route.CandidateSource.
func (c *Client) FetchCandidates(ctx context.Context, query route.CandidateQuery) ([]route.CandidatePOI, error) {
	if !c.Configured() {
		return nil, nil
	}

	var endpoint string
	params := url.Values{}
	params.Set("key", c.apiKey)
	if query.Language != "" {
		params.Set("language", query.Language)
	}

	if query.Start != nil {
		endpoint = c.baseURL + "/nearbysearch/json"
		params.Set("location", fmt.Sprintf("%f,%f", query.Start.Lat, query.Start.Lng))
		radius := query.RadiusM
		if radius <= 0 {
			radius = defaultRadiusM
		}
		params.Set("radius", fmt.Sprintf("%d", radius))
		params.Set("type", "tourist_attraction")
	} else {
		endpoint = c.baseURL + "/textsearch/json"
		keyword := query.Keyword
		if keyword == "" {
			keyword = "sights"
		}
		params.Set("query", keyword+" in "+query.City)
	}

	resp, err := c.search(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	candidates := make([]route.CandidatePOI, 0, len(resp.Results))
	for i, r := range resp.Results {
		if i == maxNearbyPlaces {
			break
		}
		candidates = append(candidates, toCandidate(r))
	}
	return candidates, nil
}

// ResolvePOI validates one brainstormed place name against the places
// index. Returns nil without error when nothing matches.
func (c *Client) ResolvePOI(ctx context.Context, title, city, language string) (*route.CandidatePOI, error) {
	if !c.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("query", title+" "+city)
	if language != "" {
		params.Set("language", language)
	}

	resp, err := c.search(ctx, c.baseURL+"/textsearch/json", params)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	candidate := toCandidate(resp.Results[0])
	return &candidate, nil
}

func (c *Client) search(ctx context.Context, endpoint string, params url.Values) (*placesResponse, error) {
	fullURL := endpoint + "?" + params.Encode()
	cacheKey := "places:" + hashKey(fullURL)

	if cached := c.cacheGet(ctx, cacheKey); cached != nil {
		var resp placesResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	httpResp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	})
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp placesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places api status %q", resp.Status)
	}

	if raw, err := json.Marshal(resp); err == nil {
		c.cacheSet(ctx, cacheKey, raw)
	}
	return &resp, nil
}

func (c *Client) cacheGet(ctx context.Context, key string) []byte {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("places cache read failed: %v", err)
		}
		return nil
	}
	return raw
}

func (c *Client) cacheSet(ctx context.Context, key string, raw []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, nearbyCacheTTL).Err(); err != nil {
		log.Printf("places cache write failed: %v", err)
	}
}

func toCandidate(r placeResult) route.CandidatePOI {
	category := ""
	if len(r.Types) > 0 {
		category = r.Types[0]
	}
	var openNow *bool
	if r.OpeningHours != nil {
		openNow = r.OpeningHours.OpenNow
	}
	return route.CandidatePOI{
		POIID:    r.PlaceID,
		Name:     r.Name,
		Lat:      r.Geometry.Location.Lat,
		Lng:      r.Geometry.Location.Lng,
		Category: category,
		Rating:   r.Rating,
		OpenNow:  openNow,
		Source:   "places",
	}
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
