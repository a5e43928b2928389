package route

import "testing"

func TestAnnotateETAsWalking(t *testing.T) {
	points := testPoints([][2]float64{{0, 0}, {0, 0.1}, {0, 0.2}})
	got := AnnotateETAs(points, "walking")

	if got[0].ETAMinWalk == nil || *got[0].ETAMinWalk != 0 {
		t.Fatalf("first point must carry a zero walk ETA")
	}
	if got[0].ETAMinDrive != nil {
		t.Fatalf("walking mode must not set drive ETAs")
	}
	for i := 1; i < len(got); i++ {
		if got[i].ETAMinWalk == nil {
			t.Fatalf("point %d missing walk ETA", i)
		}
		if *got[i].ETAMinWalk <= 0 {
			t.Fatalf("point %d walk ETA should be positive, got %d", i, *got[i].ETAMinWalk)
		}
	}
}

func TestAnnotateETAsDriving(t *testing.T) {
	points := testPoints([][2]float64{{0, 0}, {0, 1}})
	got := AnnotateETAs(points, "driving")

	if got[1].ETAMinDrive == nil || *got[1].ETAMinDrive <= 0 {
		t.Fatalf("driving mode must set a positive drive ETA")
	}
	if got[1].ETAMinWalk != nil {
		t.Fatalf("driving mode must not set walk ETAs")
	}
}

func TestAnnotateETAsSinglePoint(t *testing.T) {
	points := testPoints([][2]float64{{10, 10}})
	got := AnnotateETAs(points, "walking")
	if len(got) != 1 || got[0].ETAMinWalk == nil || *got[0].ETAMinWalk != 0 {
		t.Fatalf("single point must get a zero ETA")
	}
}

func TestAnnotateETAsDoesNotMutateInput(t *testing.T) {
	points := testPoints([][2]float64{{0, 0}, {0, 1}})
	_ = AnnotateETAs(points, "walking")
	if points[1].ETAMinWalk != nil {
		t.Fatalf("input slice was mutated")
	}
}
