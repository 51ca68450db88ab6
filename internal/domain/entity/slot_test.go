package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotGrid(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 47, 3, 0, time.UTC)

	grid := SlotGrid(day)

	require.Len(t, grid, 20)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), grid[0])
	assert.Equal(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC), grid[len(grid)-1])

	for i := 1; i < len(grid); i++ {
		assert.Equal(t, SlotDuration, grid[i].Sub(grid[i-1]), "gap before slot %d", i)
	}
	for _, slot := range grid {
		assert.Zero(t, slot.Second())
		assert.Zero(t, slot.Nanosecond())
	}
}

func TestSlotGrid_WeekendStillProducesGrid(t *testing.T) {
	saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Len(t, SlotGrid(saturday), 20)
}

func TestResolveSlots(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	grid := SlotGrid(day)

	t.Run("no bookings leaves every slot free", func(t *testing.T) {
		slots := ResolveSlots(grid, nil)
		require.Len(t, slots, 20)
		for _, s := range slots {
			assert.True(t, s.Available, s.StartsAt.String())
		}
	})

	t.Run("booking at 09:00 blocks exactly that slot", func(t *testing.T) {
		nine := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		slots := ResolveSlots(grid, []time.Time{nine})

		for _, s := range slots {
			if s.StartsAt.Equal(nine) {
				assert.False(t, s.Available)
			} else {
				assert.True(t, s.Available, s.StartsAt.String())
			}
		}
	})

	t.Run("off-grid booking blocks nothing", func(t *testing.T) {
		slots := ResolveSlots(grid, []time.Time{time.Date(2025, 3, 10, 9, 10, 0, 0, time.UTC)})
		for _, s := range slots {
			assert.True(t, s.Available)
		}
	})

	t.Run("booked time in another location compares by wall clock", func(t *testing.T) {
		loc := time.FixedZone("BRT", -3*60*60)
		slots := ResolveSlots(grid, []time.Time{time.Date(2025, 3, 10, 10, 30, 0, 0, loc)})

		for _, s := range slots {
			assert.Equal(t, !(s.StartsAt.Hour() == 10 && s.StartsAt.Minute() == 30), s.Available)
		}
	})
}
