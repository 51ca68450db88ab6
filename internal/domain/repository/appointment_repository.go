package repository

import (
	"time"

	"medical-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository is the persistence port of the scheduling engine. Every method
// runs on the handle it is given, normally the transaction opened by a UnitOfWork.
type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// ExistsByDoctorAt reports whether the doctor has an appointment starting exactly at scheduledAt.
	ExistsByDoctorAt(db *gorm.DB, doctorID uuid.UUID, scheduledAt time.Time) (bool, error)
	// ExistsByPatientAndDoctorBetween reports whether the pair has an appointment in [start, end).
	ExistsByPatientAndDoctorBetween(db *gorm.DB, patientID, doctorID uuid.UUID, start, end time.Time) (bool, error)
	// FindScheduledTimesByDoctor lists the doctor's start times in [start, end), ascending.
	FindScheduledTimesByDoctor(db *gorm.DB, doctorID uuid.UUID, start, end time.Time) ([]time.Time, error)
}
