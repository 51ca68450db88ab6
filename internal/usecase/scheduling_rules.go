package usecase

import (
	"time"

	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/pkg/datetime"
)

// ValidateAppointmentTime applies the weekday, service window and slot alignment rules
// in that order and returns the first one broken. t is read as wall-clock time.
func ValidateAppointmentTime(t time.Time) error {
	t = datetime.WallClock(t)

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return ErrWeekendAppointment
	}

	sinceMidnight := t.Sub(datetime.StartOfDay(t))
	if sinceMidnight < entity.OpeningTime || sinceMidnight >= entity.ClosingTime {
		return ErrOutsideServiceHours
	}

	if t.Second() != 0 || t.Nanosecond() != 0 {
		return ErrNotMinuteAligned
	}
	if sinceMidnight%entity.SlotDuration != 0 {
		return ErrNotSlotAligned
	}

	return nil
}
