package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID    string `json:"doctor_id" validate:"required,uuid"`
	PatientID   string `json:"patient_id" validate:"required,uuid"`
	ScheduledAt string `json:"scheduled_at" validate:"required"` // RFC3339 or 2006-01-02T15:04:05
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	ScheduledAt LocalTime `json:"scheduled_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type SlotResponse struct {
	StartsAt  LocalTime `json:"starts_at"`
	Available bool      `json:"available"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
	Total    int            `json:"total"`
	Free     int            `json:"free"`
}

// LocalTime renders a wall-clock timestamp without a zone suffix, the same way it was
// submitted.
type LocalTime time.Time

const localTimeLayout = "2006-01-02T15:04:05"

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(localTimeLayout) + `"`), nil
}

func (t LocalTime) String() string {
	return time.Time(t).Format(localTimeLayout)
}
