package repository

import (
	"errors"
	"time"

	"medical-appointment-api/internal/domain/entity"
	domainRepo "medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/pkg/datetime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	appointment.ScheduledAt = datetime.WallClock(appointment.ScheduledAt)
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("scheduled_at").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].ScheduledAt = datetime.WallClock(appointments[i].ScheduledAt)
	}
	return appointments, nil
}

func (r *appointmentRepository) ExistsByDoctorAt(db *gorm.DB, doctorID uuid.UUID, scheduledAt time.Time) (bool, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at = ?", doctorID, scheduledAt).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) ExistsByPatientAndDoctorBetween(db *gorm.DB, patientID, doctorID uuid.UUID, start, end time.Time) (bool, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("patient_id = ? AND doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ?", patientID, doctorID, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *appointmentRepository) FindScheduledTimesByDoctor(db *gorm.DB, doctorID uuid.UUID, start, end time.Time) ([]time.Time, error) {
	var times []time.Time
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND scheduled_at >= ? AND scheduled_at < ?", doctorID, start, end).
		Order("scheduled_at").
		Pluck("scheduled_at", &times).Error
	if err != nil {
		return nil, err
	}
	for i := range times {
		times[i] = datetime.WallClock(times[i])
	}
	return times, nil
}
