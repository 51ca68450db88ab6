package converter

import (
	"time"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/pkg/datetime"

	"github.com/google/uuid"
)

func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:          appointment.ID,
		DoctorID:    appointment.DoctorID,
		PatientID:   appointment.PatientID,
		ScheduledAt: dto.LocalTime(appointment.ScheduledAt),
	}
	if appointment.Doctor != nil {
		response.DoctorName = appointment.Doctor.User.FullName
	}
	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.User.FullName
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func SlotsToAvailabilityResponse(doctorID uuid.UUID, day time.Time, slots []entity.Slot) *dto.AvailabilityResponse {
	response := &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     day.Format(datetime.DateLayout),
		Slots:    make([]dto.SlotResponse, len(slots)),
		Total:    len(slots),
	}

	for i, slot := range slots {
		response.Slots[i] = dto.SlotResponse{
			StartsAt:  dto.LocalTime(slot.StartsAt),
			Available: slot.Available,
		}
		if slot.Available {
			response.Free++
		}
	}

	return response
}
