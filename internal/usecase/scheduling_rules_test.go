package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(day, hour, minute, second, nanos int) time.Time {
	// March 2025: the 10th is a Monday
	return time.Date(2025, 3, day, hour, minute, second, nanos, time.UTC)
}

func TestValidateAppointmentTime(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want error
	}{
		{"monday opening slot", at(10, 8, 0, 0, 0), nil},
		{"friday last slot", at(14, 17, 30, 0, 0), nil},
		{"half hour", at(12, 13, 30, 0, 0), nil},
		{"saturday", at(15, 10, 0, 0, 0), ErrWeekendAppointment},
		{"sunday", at(16, 10, 0, 0, 0), ErrWeekendAppointment},
		{"before opening", at(10, 7, 45, 0, 0), ErrOutsideServiceHours},
		{"one nanosecond before opening", at(10, 7, 59, 59, 999_999_999), ErrOutsideServiceHours},
		{"closing time is excluded", at(10, 18, 0, 0, 0), ErrOutsideServiceHours},
		{"late evening", at(10, 21, 0, 0, 0), ErrOutsideServiceHours},
		{"off the half hour", at(10, 9, 10, 0, 0), ErrNotSlotAligned},
		{"quarter past", at(10, 9, 15, 0, 0), ErrNotSlotAligned},
		{"seconds set", at(10, 9, 0, 30, 0), ErrNotMinuteAligned},
		{"sub-second set", at(10, 9, 0, 0, 1), ErrNotMinuteAligned},
		{"inside window but seconds before closing", at(10, 17, 59, 30, 0), ErrNotMinuteAligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppointmentTime(tt.at)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateAppointmentTime_RuleOrder(t *testing.T) {
	t.Run("weekday is checked before window", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAppointmentTime(at(15, 20, 0, 0, 0)), ErrWeekendAppointment)
	})

	t.Run("weekday is checked before alignment", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAppointmentTime(at(16, 9, 10, 0, 0)), ErrWeekendAppointment)
	})

	t.Run("window is checked before alignment", func(t *testing.T) {
		assert.ErrorIs(t, ValidateAppointmentTime(at(10, 7, 10, 0, 0)), ErrOutsideServiceHours)
	})
}

func TestValidateAppointmentTime_ReadsWallClock(t *testing.T) {
	saoPaulo := time.FixedZone("-03", -3*60*60)
	tokyo := time.FixedZone("+09", 9*60*60)

	assert.NoError(t, ValidateAppointmentTime(time.Date(2025, 3, 10, 16, 0, 0, 0, saoPaulo)))
	assert.NoError(t, ValidateAppointmentTime(time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo)))
	assert.ErrorIs(t, ValidateAppointmentTime(time.Date(2025, 3, 10, 18, 0, 0, 0, saoPaulo)), ErrOutsideServiceHours)
	// Friday 23:00 in UTC
	assert.ErrorIs(t, ValidateAppointmentTime(time.Date(2025, 3, 15, 8, 0, 0, 0, tokyo)), ErrWeekendAppointment)
}

func TestValidateAppointmentTime_ErrorsCarryRule(t *testing.T) {
	err := ValidateAppointmentTime(at(10, 9, 10, 0, 0))

	var vErr *ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.Equal(t, RuleSlotAlignment, vErr.Rule)
		assert.NotEqual(t, ErrNotMinuteAligned.Message, vErr.Message)
	}
}
