package route

import "fmt"

// ConstraintViolation is the only generation failure surfaced to API
// callers; every collaborator failure has a silent fallback instead.
type ConstraintViolation struct {
	Reason string
}

func (e *ConstraintViolation) Error() string { return e.Reason }

// ConstraintValidator enforces hard constraints over an ordered,
// ETA-annotated point list: open-now filtering, count bounds, then the
// duration budget, in that fixed order.
type ConstraintValidator struct {
	constraints HardConstraints
}

func NewConstraintValidator(constraints HardConstraints) *ConstraintValidator {
	return &ConstraintValidator{constraints: constraints}
}

// Enforce runs the full pipeline and returns the surviving points, or a
// ConstraintViolation if the list cannot satisfy the constraints.
func (v *ConstraintValidator) Enforce(points []RoutePoint, durationMin int) ([]RoutePoint, error) {
	checked := v.filterOpenNow(points)
	checked, err := v.enforceCount(checked)
	if err != nil {
		return nil, err
	}
	return v.enforceDuration(checked, durationMin)
}

// filterOpenNow drops closed points when a time window is requested.
// A missing open-now flag is treated as open.
func (v *ConstraintValidator) filterOpenNow(points []RoutePoint) []RoutePoint {
	if v.constraints.TimeWindowStart == nil {
		return points
	}
	kept := make([]RoutePoint, 0, len(points))
	for _, p := range points {
		if p.OpenNow == nil || *p.OpenNow {
			kept = append(kept, p)
		}
	}
	return kept
}

// enforceCount fails below MinPoints and truncates above MaxPoints,
// keeping the current order.
func (v *ConstraintValidator) enforceCount(points []RoutePoint) ([]RoutePoint, error) {
	if len(points) < v.constraints.MinPoints {
		return nil, &ConstraintViolation{
			Reason: fmt.Sprintf("at least %d points required", v.constraints.MinPoints),
		}
	}
	if len(points) > v.constraints.MaxPoints {
		points = points[:v.constraints.MaxPoints]
	}
	return points, nil
}

// enforceDuration keeps points greedily while the running total of dwell
// plus travel minutes stays within the budget (inclusive). The first
// over-budget point stops the walk; later points are dropped even if they
// would individually fit.
func (v *ConstraintValidator) enforceDuration(points []RoutePoint, durationMin int) ([]RoutePoint, error) {
	total := 0.0
	kept := make([]RoutePoint, 0, len(points))
	for _, p := range points {
		listen := 0.0
		if p.ListenSec != nil {
			listen = float64(*p.ListenSec) / 60
		}
		travel := 0.0
		if p.ETAMinDrive != nil {
			travel = float64(*p.ETAMinDrive)
		} else if p.ETAMinWalk != nil {
			travel = float64(*p.ETAMinWalk)
		}
		total += listen + travel
		if total > float64(durationMin) {
			break
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, &ConstraintViolation{Reason: "no points fit into provided duration"}
	}
	return kept, nil
}
