package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"backend-cityguide/internal/route"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 20 * time.Second
)

// Client asks a chat completion model to rank, order and brainstorm
// points of interest. An unconfigured client (empty API key) answers
// every call with a deterministic local heuristic instead, so the
// generation pipeline works without the upstream dependency.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

// RankCandidates returns up to k candidate ids, best first. Implements
// route.Ranker. Without an API key it ranks by rating.
func (c *Client) RankCandidates(ctx context.Context, userCtx map[string]any, candidates []route.CandidatePOI, k int) ([]string, error) {
	if !c.Configured() {
		return rankByRating(candidates, k), nil
	}

	var sb strings.Builder
	for _, cand := range candidates {
		fmt.Fprintf(&sb, "- id=%s name=%q category=%s rating=%.1f\n", cand.POIID, cand.Name, cand.Category, cand.Rating)
	}
	prompt := fmt.Sprintf(
		"Pick the %d best places for this visitor and reply with JSON {\"ids\": [...]} using the given ids, best first.\nVisitor context: %s\nPlaces:\n%s",
		k, describeContext(userCtx), sb.String())

	var out struct {
		IDs []string `json:"ids"`
	}
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

// OrderPoints returns the point ids in visiting order. Implements
// route.Orderer. Without an API key it keeps the given order.
func (c *Client) OrderPoints(ctx context.Context, userCtx map[string]any, points []route.RoutePoint, matrix [][]float64) ([]string, error) {
	if !c.Configured() {
		ids := make([]string, len(points))
		for i, p := range points {
			ids[i] = p.POIID
		}
		return ids, nil
	}

	var sb strings.Builder
	for _, p := range points {
		fmt.Fprintf(&sb, "- id=%s name=%q lat=%.5f lng=%.5f\n", p.POIID, p.Name, p.Lat, p.Lng)
	}
	prompt := fmt.Sprintf(
		"Order these stops into a pleasant walking route and reply with JSON {\"ids\": [...]} containing every id exactly once.\nVisitor context: %s\nStops:\n%s",
		describeContext(userCtx), sb.String())

	var out struct {
		IDs []string `json:"ids"`
	}
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

// BrainstormPOIs suggests place names worth visiting in a city. Without
// an API key it suggests nothing.
func (c *Client) BrainstormPOIs(ctx context.Context, city, language string, count int) ([]string, error) {
	if !c.Configured() {
		return nil, nil
	}

	prompt := fmt.Sprintf(
		"Suggest %d must-see places in %s for a visitor. Answer in %s. Reply with JSON {\"titles\": [...]}.",
		count, city, language)

	var out struct {
		Titles []string `json:"titles"`
	}
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return out.Titles, nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) completeJSON(ctx context.Context, prompt string, out any) error {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a concise trip planning assistant. Always reply with valid JSON."},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return errors.New("completion returned no choices")
	}
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("parse completion content: %w", err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		if err == nil {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("completion api status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			if resp.StatusCode != 429 && resp.StatusCode < 500 {
				return nil, lastErr
			}
		} else {
			lastErr = err
			var netErr net.Error
			if !errors.As(err, &netErr) {
				return nil, lastErr
			}
		}

		if attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}

func rankByRating(candidates []route.CandidatePOI, k int) []string {
	sorted := make([]route.CandidatePOI, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	ids := make([]string, 0, k)
	for _, c := range sorted[:k] {
		ids = append(ids, c.POIID)
	}
	return ids
}

func describeContext(userCtx map[string]any) string {
	if len(userCtx) == 0 {
		return "unknown"
	}
	raw, err := json.Marshal(userCtx)
	if err != nil {
		return "unknown"
	}
	return string(raw)
}
