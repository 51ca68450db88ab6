package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a booked 30-minute consultation. ScheduledAt holds the wall-clock
// start exactly as requested; (DoctorID, ScheduledAt) is unique.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_appointments_doctor_scheduled_at,priority:1" json:"doctor_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index:idx_appointments_patient_doctor,priority:1" json:"patient_id"`
	ScheduledAt time.Time `gorm:"type:timestamp;not null;uniqueIndex:uq_appointments_doctor_scheduled_at,priority:2" json:"scheduled_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor  *DoctorProfile  `gorm:"foreignKey:DoctorID;references:UserID;constraint:OnDelete:RESTRICT" json:"doctor,omitempty"`
	Patient *PatientProfile `gorm:"foreignKey:PatientID;references:UserID;constraint:OnDelete:RESTRICT" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}
