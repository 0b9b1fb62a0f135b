package scheduler

import (
	"testing"
	"time"
)

func window(start time.Time, d time.Duration) TimeWindow {
	return TimeWindow{Start: start, End: start.Add(d)}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	existing := window(base, time.Hour)

	cases := []struct {
		name  string
		other TimeWindow
		want  bool
	}{
		{name: "identical", other: existing, want: true},
		{name: "starts inside", other: window(base.Add(30*time.Minute), time.Hour), want: true},
		{name: "ends inside", other: window(base.Add(-30*time.Minute), time.Hour), want: true},
		{name: "contains", other: window(base.Add(-time.Hour), 3*time.Hour), want: true},
		{name: "adjacent before", other: window(base.Add(-time.Hour), time.Hour), want: false},
		{name: "adjacent after", other: window(base.Add(time.Hour), time.Hour), want: false},
		{name: "disjoint", other: window(base.Add(3*time.Hour), time.Hour), want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(existing, tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.other, existing); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	existing := []Booking{
		{ID: "a", InterviewerEmail: "Lead@Example.com", Window: window(base, time.Hour)},
		{ID: "b", InterviewerEmail: "lead@example.com", Window: window(base.Add(30*time.Minute), time.Hour), Cancelled: true},
		{ID: "c", InterviewerEmail: "other@example.com", Window: window(base, time.Hour)},
		{ID: "d", InterviewerEmail: "lead@example.com", Window: window(base.Add(2*time.Hour), time.Hour)},
	}

	conflicts := DetectConflicts(existing, Booking{InterviewerEmail: "lead@example.com", Window: window(base.Add(15*time.Minute), time.Hour)})
	if len(conflicts) != 1 || conflicts[0].WithBookingID != "a" {
		t.Fatalf("expected single conflict with a, got %+v", conflicts)
	}

	self := DetectConflicts(existing, Booking{ID: "a", InterviewerEmail: "lead@example.com", Window: window(base.Add(15*time.Minute), time.Hour)})
	if len(self) != 0 {
		t.Fatalf("expected booking to be excluded from its own conflict check, got %+v", self)
	}

	if got := DetectConflicts(existing, Booking{InterviewerEmail: "lead@example.com"}); got != nil {
		t.Fatalf("expected invalid window to report no conflicts, got %+v", got)
	}
}
