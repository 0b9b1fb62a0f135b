package scheduler

import (
	"sort"
	"time"
)

const (
	// DefaultHorizonDays is the rolling window searched for free slots.
	DefaultHorizonDays = 14
	// DefaultDayStartHour is the first hour a slot may start.
	DefaultDayStartHour = 9
	// DefaultDayEndHour is the hour by which every slot must have ended.
	DefaultDayEndHour = 17
	// DefaultMaxSlots caps the number of slots returned.
	DefaultMaxSlots = 20
)

// SlotOptions tunes slot generation. Zero values fall back to the defaults above.
type SlotOptions struct {
	HorizonDays  int
	DayStartHour int
	DayEndHour   int
	MaxSlots     int
	Location     *time.Location
}

func (o SlotOptions) withDefaults() SlotOptions {
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.DayStartHour <= 0 {
		o.DayStartHour = DefaultDayStartHour
	}
	if o.DayEndHour <= 0 || o.DayEndHour <= o.DayStartHour {
		o.DayEndHour = DefaultDayEndHour
	}
	if o.MaxSlots <= 0 {
		o.MaxSlots = DefaultMaxSlots
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// GenerateSlots returns on-the-hour weekday windows of the given duration that start strictly
// after now and overlap none of the busy windows. Results are chronological and capped at
// MaxSlots.
func GenerateSlots(now time.Time, busy []TimeWindow, duration time.Duration, opts SlotOptions) []TimeWindow {
	if duration <= 0 {
		return nil
	}
	opts = opts.withDefaults()

	lastStart := lastStartHour(opts.DayStartHour, opts.DayEndHour, duration)
	if lastStart < opts.DayStartHour {
		return nil
	}

	ordered := make([]TimeWindow, len(busy))
	copy(ordered, busy)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start.Before(ordered[j].Start) })

	local := now.In(opts.Location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, opts.Location)

	slots := make([]TimeWindow, 0, opts.MaxSlots)
	for offset := 0; offset < opts.HorizonDays; offset++ {
		date := day.AddDate(0, 0, offset)
		if !IsWorkday(date) {
			continue
		}
		for hour := opts.DayStartHour; hour <= lastStart; hour++ {
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, opts.Location)
			if !start.After(now) {
				continue
			}
			slot := TimeWindow{Start: start, End: start.Add(duration)}
			if overlapsAny(ordered, slot) {
				continue
			}
			slots = append(slots, slot)
			if len(slots) == opts.MaxSlots {
				return slots
			}
		}
	}
	return slots
}

// IsWorkday reports whether t falls Monday through Friday in its own location.
func IsWorkday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// lastStartHour is the latest whole hour a slot of the given duration may start and still end
// by endHour, never later than endHour-1.
func lastStartHour(startHour, endHour int, duration time.Duration) int {
	hours := int(duration / time.Hour)
	if duration%time.Hour != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	last := endHour - hours
	if last > endHour-1 {
		last = endHour - 1
	}
	return last
}

func overlapsAny(busy []TimeWindow, slot TimeWindow) bool {
	for _, window := range busy {
		if !window.Start.Before(slot.End) {
			// sorted by start; nothing later can overlap
			return false
		}
		if Overlaps(window, slot) {
			return true
		}
	}
	return false
}
