package handler

import (
	"errors"
	"net/http"
	"time"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/delivery/http/middleware"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/usecase"
	"medical-appointment-api/pkg/datetime"
	"medical-appointment-api/pkg/response"
	"medical-appointment-api/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// BookAppointment handles booking a consultation slot
// @Summary Book an appointment
// @Description Book a 30 minute slot between 08:00 and 18:00 on a weekday
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Book Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	scheduledAt, err := datetime.Parse(req.ScheduledAt)
	if err != nil {
		writeSchedulingError(w, usecase.ErrInvalidScheduledAt)
		return
	}

	if roleID, _ := middleware.GetRoleIDFromContext(r.Context()); roleID == entity.RoleIDPatient {
		if userID, _ := middleware.GetUserIDFromContext(r.Context()); userID != patientID {
			response.Forbidden(w, "Patients can only book appointments for themselves")
			return
		}
	}

	appointment, err := h.appointmentUsecase.BookAppointment(r.Context(), doctorID, patientID, scheduledAt)
	if err != nil {
		writeSchedulingError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/appointments/"+appointment.ID.String())
	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// GetAvailability handles listing a doctor's slots for one day
// @Summary Doctor availability
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Param date query string true "Day as YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/{id}/availability [get]
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	day, err := time.ParseInLocation(datetime.DateLayout, r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		writeSchedulingError(w, usecase.ErrInvalidAvailabilityDate)
		return
	}

	availability, err := h.appointmentUsecase.GetAvailability(r.Context(), doctorID, day)
	if err != nil {
		writeSchedulingError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		writeSchedulingError(w, err)
		return
	}

	roleID, _ := middleware.GetRoleIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	switch {
	case roleID == entity.RoleIDPatient && appointment.PatientID != userID,
		roleID == entity.RoleIDDoctor && appointment.DoctorID != userID:
		response.Forbidden(w, "You don't have permission to access this appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	appointments, err := h.appointmentUsecase.GetPatientAppointments(r.Context(), userID)
	if err != nil {
		writeSchedulingError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// writeSchedulingError maps rule rejections to 400, conflicts to 409 and missing
// parties to 404. Anything else is a 500.
func writeSchedulingError(w http.ResponseWriter, err error) {
	var vErr *usecase.ValidationError
	var cErr *usecase.ConflictError

	switch {
	case errors.As(err, &vErr):
		response.Error(w, http.StatusBadRequest, vErr.Message, response.RuleError{Rule: vErr.Rule})
	case errors.As(err, &cErr):
		response.Conflict(w, cErr.Message, response.RuleError{Rule: cErr.Rule})
	case errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrPatientNotFound),
		errors.Is(err, usecase.ErrAppointmentPartyNotFound),
		errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to process appointment")
	}
}
