package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func profileApp() *fiber.App {
	app := fiber.New()
	auth := func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	}
	RegisterRoutes(app.Group("/profile"), NewService(NewMemoryStore()), auth)
	return app
}

func TestProfileHandlersGetAndUpdate(t *testing.T) {
	app := profileApp()

	req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %v", err)
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if p.City != DefaultCity {
		t.Fatalf("expected default city, got %q", p.City)
	}

	body, _ := json.Marshal(UpdateRequest{City: "Tallinn", DurationMin: 60})
	req = httptest.NewRequest(http.MethodPut, "/profile/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/profile/context", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("context status: %v", err)
	}
	var userCtx map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&userCtx); err != nil {
		t.Fatalf("decode context: %v", err)
	}
	if userCtx["city"] != "Tallinn" {
		t.Fatalf("context city = %v", userCtx["city"])
	}
}

func TestProfileHandlersPostContext(t *testing.T) {
	app := profileApp()

	body, _ := json.Marshal(UpdateRequest{City: "Riga", TransportMode: "driving"})
	req := httptest.NewRequest(http.MethodPost, "/profile/context", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("post context status: %v", err)
	}
	var userCtx map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&userCtx); err != nil {
		t.Fatalf("decode context: %v", err)
	}
	if userCtx["city"] != "Riga" || userCtx["transport_mode"] != "driving" {
		t.Fatalf("context = %v", userCtx)
	}
}

func TestProfileHandlersBadUpdate(t *testing.T) {
	app := profileApp()

	body, _ := json.Marshal(UpdateRequest{DurationMin: -1})
	req := httptest.NewRequest(http.MethodPut, "/profile/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}
