package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical-appointment-api/internal/converter"
	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/domain/repository"
	"medical-appointment-api/internal/infrastructure/metrics"
	"medical-appointment-api/pkg/datetime"
	"medical-appointment-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AppointmentUsecase is the scheduling engine: availability lookups and bookings, each
// run inside its own unit of work.
type AppointmentUsecase interface {
	GetAvailability(ctx context.Context, doctorID uuid.UUID, day time.Time) (*dto.AvailabilityResponse, error)
	BookAppointment(ctx context.Context, doctorID, patientID uuid.UUID, scheduledAt time.Time) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	uow             repository.UnitOfWork
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	metrics         *metrics.Collector
}

func NewAppointmentUsecase(
	uow repository.UnitOfWork,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	metrics *metrics.Collector,
) AppointmentUsecase {
	return &appointmentUsecase{
		uow:             uow,
		log:             log,
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
	}
}

func (u *appointmentUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, day time.Time) (*dto.AvailabilityResponse, error) {
	day = datetime.StartOfDay(datetime.WallClock(day))
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{
		"flow":      "Appointment.Availability",
		"doctor_id": doctorID,
		"day":       day.Format(datetime.DateLayout),
	})

	var slots []entity.Slot
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		grid := entity.SlotGrid(day)
		start, end := datetime.DayRange(day)

		booked, err := u.appointmentRepo.FindScheduledTimesByDoctor(tx, doctorID, start, end)
		if err != nil {
			return fmt.Errorf("load booked times: %w", err)
		}

		slots = entity.ResolveSlots(grid, booked)
		return nil
	})
	if err != nil {
		u.metrics.SchedulingTxFailures.WithLabelValues("availability").Inc()
		log.Errorf("Failed to resolve availability: %+v", err)
		return nil, err
	}

	u.metrics.AvailabilityQueries.Inc()
	resp := converter.SlotsToAvailabilityResponse(doctorID, day, slots)
	log.WithField("free_slots", resp.Free).Debug("Availability resolved")

	return resp, nil
}

func (u *appointmentUsecase) BookAppointment(ctx context.Context, doctorID, patientID uuid.UUID, scheduledAt time.Time) (*dto.AppointmentResponse, error) {
	scheduledAt = datetime.WallClock(scheduledAt)
	log := logger.FromContext(ctx, u.log).WithFields(logrus.Fields{
		"flow":         "Appointment.Book",
		"doctor_id":    doctorID,
		"patient_id":   patientID,
		"scheduled_at": dto.LocalTime(scheduledAt).String(),
	})

	var appointment *entity.Appointment
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := ValidateAppointmentTime(scheduledAt); err != nil {
			return err
		}

		taken, err := u.appointmentRepo.ExistsByDoctorAt(tx, doctorID, scheduledAt)
		if err != nil {
			return fmt.Errorf("check doctor slot: %w", err)
		}
		if taken {
			return ErrDoctorSlotTaken
		}

		dayStart, dayEnd := datetime.DayRange(scheduledAt)
		sameDay, err := u.appointmentRepo.ExistsByPatientAndDoctorBetween(tx, patientID, doctorID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("check patient day: %w", err)
		}
		if sameDay {
			return ErrPatientAlreadyBookedThatDay
		}

		candidate := &entity.Appointment{
			ID:          uuid.New(),
			DoctorID:    doctorID,
			PatientID:   patientID,
			ScheduledAt: scheduledAt,
		}
		if err := u.appointmentRepo.Create(tx, candidate); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		appointment = candidate
		return nil
	})
	if err != nil {
		err = translateBookingError(err)
		u.logBookingFailure(log, err)
		return nil, err
	}

	u.metrics.AppointmentsBooked.Inc()
	log.WithField("appointment_id", appointment.ID).Info("Appointment booked")

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	var appointment *entity.Appointment
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(tx, id)
		return err
	})
	if err != nil {
		logger.FromContext(ctx, u.log).Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	var appointments []entity.Appointment
	err := u.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		appointments, err = u.appointmentRepo.FindByPatientID(tx, patientID)
		return err
	})
	if err != nil {
		logger.FromContext(ctx, u.log).Warnf("Failed to find patient appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// translateBookingError maps store-level failures onto the scheduling taxonomy. Rule
// rejections pass through untouched.
func translateBookingError(err error) error {
	switch {
	case isDuplicateKeyError(err, "scheduled_at"):
		return ErrDoctorSlotTaken
	case isForeignKeyError(err, "doctor"):
		return ErrDoctorNotFound
	case isForeignKeyError(err, "patient"):
		return ErrPatientNotFound
	case isForeignKeyError(err, ""):
		return ErrAppointmentPartyNotFound
	case isSerializationFailure(err):
		return ErrConcurrentBooking
	default:
		return err
	}
}

func (u *appointmentUsecase) logBookingFailure(log *logrus.Entry, err error) {
	var vErr *ValidationError
	var cErr *ConflictError

	switch {
	case errors.As(err, &vErr):
		u.metrics.BookingRejections.WithLabelValues(vErr.Rule).Inc()
		log.WithField("rule", vErr.Rule).Warnf("Booking rejected: %v", err)
	case errors.As(err, &cErr):
		u.metrics.BookingRejections.WithLabelValues(cErr.Rule).Inc()
		log.WithField("rule", cErr.Rule).Warnf("Booking rejected: %v", err)
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrAppointmentPartyNotFound):
		log.Warnf("Booking rejected: %v", err)
	default:
		u.metrics.SchedulingTxFailures.WithLabelValues("book").Inc()
		log.Errorf("Failed to book appointment: %+v", err)
	}
}
