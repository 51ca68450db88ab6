package entity

import (
	"time"

	"medical-appointment-api/pkg/datetime"
)

const (
	SlotDuration = 30 * time.Minute
	OpeningTime  = 8 * time.Hour
	ClosingTime  = 18 * time.Hour
)

// Slot is a candidate start time on a doctor's day. It is derived, never stored.
type Slot struct {
	StartsAt  time.Time
	Available bool
}

// SlotGrid returns every slot start of day's service window in ascending order:
// 08:00, 08:30 ... 17:30. The time-of-day part of day is ignored.
func SlotGrid(day time.Time) []time.Time {
	start := datetime.StartOfDay(day)

	grid := make([]time.Time, 0, int((ClosingTime-OpeningTime)/SlotDuration))
	for offset := OpeningTime; offset < ClosingTime; offset += SlotDuration {
		grid = append(grid, start.Add(offset))
	}
	return grid
}

// ResolveSlots marks each grid entry unavailable when a booked time equals it exactly.
// Booked times off the grid never block a slot.
func ResolveSlots(grid []time.Time, booked []time.Time) []Slot {
	taken := make(map[int64]struct{}, len(booked))
	for _, t := range booked {
		taken[datetime.WallClock(t).UnixNano()] = struct{}{}
	}

	slots := make([]Slot, len(grid))
	for i, t := range grid {
		_, isTaken := taken[datetime.WallClock(t).UnixNano()]
		slots[i] = Slot{StartsAt: t, Available: !isTaken}
	}
	return slots
}
