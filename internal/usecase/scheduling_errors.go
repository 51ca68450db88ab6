package usecase

import "errors"

// Rule names reported with scheduling rejections.
const (
	RuleTimestampFormat   = "timestamp_format"
	RuleWeekday           = "weekday"
	RuleServiceWindow     = "service_window"
	RuleSlotAlignment     = "slot_alignment"
	RuleDoctorSlot        = "doctor_slot"
	RulePatientDay        = "patient_day"
	RuleConcurrentBooking = "concurrent_booking"
)

// ValidationError is a request that breaks a scheduling rule on its own, before any
// stored appointment is consulted.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError is a request that clashes with an appointment already booked.
type ConflictError struct {
	Rule    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

var (
	ErrInvalidScheduledAt = &ValidationError{
		Rule:    RuleTimestampFormat,
		Message: "scheduled_at must be a date-time such as 2025-03-10T09:00:00",
	}
	ErrInvalidAvailabilityDate = &ValidationError{
		Rule:    RuleTimestampFormat,
		Message: "date must use the format YYYY-MM-DD",
	}
	ErrWeekendAppointment = &ValidationError{
		Rule:    RuleWeekday,
		Message: "appointments are only available Monday to Friday",
	}
	ErrOutsideServiceHours = &ValidationError{
		Rule:    RuleServiceWindow,
		Message: "appointment time is outside service hours (08:00-18:00)",
	}
	ErrNotMinuteAligned = &ValidationError{
		Rule:    RuleSlotAlignment,
		Message: "appointment time must be on an exact minute, without seconds",
	}
	ErrNotSlotAligned = &ValidationError{
		Rule:    RuleSlotAlignment,
		Message: "appointments last 30 minutes; choose a time on the hour or half hour",
	}

	ErrDoctorSlotTaken = &ConflictError{
		Rule:    RuleDoctorSlot,
		Message: "the doctor already has an appointment at this time",
	}
	ErrPatientAlreadyBookedThatDay = &ConflictError{
		Rule:    RulePatientDay,
		Message: "the patient already has an appointment with this doctor on this day",
	}
	ErrConcurrentBooking = &ConflictError{
		Rule:    RuleConcurrentBooking,
		Message: "another booking for this doctor or patient was being saved at the same time; please try again",
	}

	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentPartyNotFound = errors.New("doctor or patient not found")
)
