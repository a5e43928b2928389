package route

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func dwellPoints(n, listenSec int) []RoutePoint {
	points := make([]RoutePoint, n)
	for i := range points {
		points[i] = RoutePoint{
			POIID:     string(rune('a' + i)),
			ListenSec: intPtr(listenSec),
			ETAMinWalk: func() *int {
				if i == 0 {
					return intPtr(0)
				}
				return intPtr(1)
			}(),
		}
	}
	return points
}

func TestEnforceDurationBudget(t *testing.T) {
	// Five stops with 60s dwell each and 1 min travel between them: stop
	// cost is 1 min dwell plus travel, so a 3 minute budget fits the
	// first two stops (1 + 2 = 3, inclusive).
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10})
	got, err := v.Enforce(dwellPoints(5, 60), 3)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 points within budget, got %d", len(got))
	}
}

func TestEnforceDurationBudgetNoTravel(t *testing.T) {
	points := dwellPoints(5, 60)
	for i := range points {
		points[i].ETAMinWalk = intPtr(0)
	}
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10})
	got, err := v.Enforce(points, 3)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 points within budget, got %d", len(got))
	}
}

func TestEnforceMinPointsViolation(t *testing.T) {
	v := NewConstraintValidator(HardConstraints{MinPoints: 4, MaxPoints: 10})
	_, err := v.Enforce(dwellPoints(2, 60), 120)
	var violation *ConstraintViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestEnforceMaxPointsTruncates(t *testing.T) {
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 3})
	got, err := v.Enforce(dwellPoints(5, 60), 600)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected truncation to 3 points, got %d", len(got))
	}
}

func TestEnforceOpenNowFilter(t *testing.T) {
	start := time.Now()
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10, TimeWindowStart: &start})

	points := dwellPoints(3, 60)
	points[1].OpenNow = boolPtr(false)
	points[2].OpenNow = boolPtr(true)
	// points[0] has nil OpenNow and must be treated as open.

	got, err := v.Enforce(points, 600)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected closed point filtered, got %d points", len(got))
	}
	for _, p := range got {
		if p.POIID == points[1].POIID {
			t.Fatalf("closed point survived the filter")
		}
	}
}

func TestEnforceOpenNowIgnoredWithoutTimeWindow(t *testing.T) {
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10})
	points := dwellPoints(2, 60)
	points[1].OpenNow = boolPtr(false)

	got, err := v.Enforce(points, 600)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("open_now must be ignored without a time window, got %d points", len(got))
	}
}

func TestEnforceNothingFits(t *testing.T) {
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10})
	points := dwellPoints(1, 600) // 10 min dwell against a 5 min budget
	_, err := v.Enforce(points, 5)
	var violation *ConstraintViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestEnforcePrefersDriveETA(t *testing.T) {
	v := NewConstraintValidator(HardConstraints{MinPoints: 1, MaxPoints: 10})
	points := []RoutePoint{
		{POIID: "a", ListenSec: intPtr(60), ETAMinWalk: intPtr(0)},
		{POIID: "b", ListenSec: intPtr(60), ETAMinWalk: intPtr(30), ETAMinDrive: intPtr(2)},
	}
	// Walk ETA alone would blow a 5 minute budget; the drive ETA fits.
	got, err := v.Enforce(points, 5)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both points via drive ETA, got %d", len(got))
	}
}
