package scheduler

import (
	"strings"
	"time"
)

// TimeWindow is a half-open interval [Start, End).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window ends after it starts.
func (w TimeWindow) Valid() bool {
	return !w.Start.IsZero() && w.End.After(w.Start)
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether two windows share any instant. Adjacent windows do not overlap.
func Overlaps(a, b TimeWindow) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Booking represents a committed interview window held by an interviewer.
type Booking struct {
	ID               string
	InterviewerEmail string
	Window           TimeWindow
	Cancelled        bool
}

// Conflict details an existing booking that collides with a requested window.
type Conflict struct {
	WithBookingID    string
	InterviewerEmail string
	Window           TimeWindow
}

// DetectConflicts identifies bookings for the candidate's interviewer whose windows overlap
// the candidate. Cancelled bookings and the candidate itself (matched by ID) are ignored.
func DetectConflicts(existing []Booking, candidate Booking) []Conflict {
	if !candidate.Window.Valid() {
		return nil
	}

	var conflicts []Conflict
	for _, booking := range existing {
		if booking.Cancelled {
			continue
		}
		if candidate.ID != "" && booking.ID == candidate.ID {
			continue
		}
		if !SameInterviewer(booking.InterviewerEmail, candidate.InterviewerEmail) {
			continue
		}
		if !Overlaps(booking.Window, candidate.Window) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			WithBookingID:    booking.ID,
			InterviewerEmail: booking.InterviewerEmail,
			Window:           booking.Window,
		})
	}
	return conflicts
}

// SameInterviewer compares interviewer identities by case-insensitive email.
func SameInterviewer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
