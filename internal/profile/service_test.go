package profile

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

func TestGetProfileDefaults(t *testing.T) {
	svc := NewService(NewMemoryStore())

	p, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.City != DefaultCity || p.Language != DefaultLanguage {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.DurationMin != DefaultDurationMin || p.TransportMode != DefaultTransportMode {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestUpdateProfileMergesDefaults(t *testing.T) {
	svc := NewService(NewMemoryStore())

	updated, err := svc.UpdateProfile(context.Background(), "user-1", UpdateRequest{
		City:      "Kaunas",
		Interests: []string{"history", "food"},
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.City != "Kaunas" {
		t.Fatalf("city not stored: %q", updated.City)
	}
	if updated.TransportMode != DefaultTransportMode {
		t.Fatalf("unset transport mode must default: %q", updated.TransportMode)
	}

	p, err := svc.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.City != "Kaunas" || len(p.Interests) != 2 {
		t.Fatalf("profile not persisted: %+v", p)
	}
}

func TestUpdateProfileNegativeDuration(t *testing.T) {
	svc := NewService(NewMemoryStore())
	if _, err := svc.UpdateProfile(context.Background(), "user-1", UpdateRequest{DurationMin: -5}); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}

func TestRouteContext(t *testing.T) {
	svc := NewService(NewMemoryStore())

	if _, err := svc.UpdateProfile(context.Background(), "user-1", UpdateRequest{
		City:        "Riga",
		TravelStyle: "relaxed",
		DurationMin: 90,
	}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	userCtx, err := svc.RouteContext(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("route context: %v", err)
	}
	if userCtx["city"] != "Riga" || userCtx["travel_style"] != "relaxed" {
		t.Fatalf("unexpected context: %v", userCtx)
	}
	if userCtx["duration_min"] != 90 {
		t.Fatalf("duration not carried: %v", userCtx["duration_min"])
	}
	if userCtx["language"] != DefaultLanguage {
		t.Fatalf("language default missing: %v", userCtx["language"])
	}
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO user_profiles`).
		WithArgs("user-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	if err := store.Upsert(context.Background(), &Profile{UserID: "user-1", City: "Vilnius"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT context, updated_at FROM user_profiles`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"context", "updated_at"}))

	store := NewPostgresStore(mock)
	if _, err := store.Get(context.Background(), "missing"); err != ErrProfileNotFound {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
