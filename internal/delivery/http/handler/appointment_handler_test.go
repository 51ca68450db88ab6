package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medical-appointment-api/internal/delivery/dto"
	"medical-appointment-api/internal/delivery/http/middleware"
	"medical-appointment-api/internal/domain/entity"
	"medical-appointment-api/internal/usecase"
	"medical-appointment-api/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentUsecase struct {
	bookErr     error
	booked      []time.Time
	day         time.Time
	appointment *dto.AppointmentResponse
}

func (s *stubAppointmentUsecase) GetAvailability(_ context.Context, doctorID uuid.UUID, day time.Time) (*dto.AvailabilityResponse, error) {
	s.day = day
	return &dto.AvailabilityResponse{DoctorID: doctorID, Date: day.Format("2006-01-02"), Total: 20, Free: 20}, nil
}

func (s *stubAppointmentUsecase) BookAppointment(_ context.Context, doctorID, patientID uuid.UUID, scheduledAt time.Time) (*dto.AppointmentResponse, error) {
	s.booked = append(s.booked, scheduledAt)
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &dto.AppointmentResponse{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		PatientID:   patientID,
		ScheduledAt: dto.LocalTime(scheduledAt),
	}, nil
}

func (s *stubAppointmentUsecase) GetAppointment(context.Context, uuid.UUID) (*dto.AppointmentResponse, error) {
	if s.appointment == nil {
		return nil, usecase.ErrAppointmentNotFound
	}
	return s.appointment, nil
}

func (s *stubAppointmentUsecase) GetPatientAppointments(context.Context, uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func withUser(r *http.Request, userID uuid.UUID, roleID int) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
	return r.WithContext(ctx)
}

func bookBody(doctorID, patientID uuid.UUID, scheduledAt string) *strings.Reader {
	return strings.NewReader(`{"doctor_id":"` + doctorID.String() + `","patient_id":"` + patientID.String() + `","scheduled_at":"` + scheduledAt + `"}`)
}

func TestAppointmentHandler_BookAppointment(t *testing.T) {
	doctorID, patientID := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		body     *strings.Reader
		roleID   int
		bookErr  error
		want     int
		wantRule string
	}{
		{"booked", bookBody(doctorID, patientID, "2025-03-10T09:00:00"), entity.RoleIDPatient, nil, http.StatusCreated, ""},
		{"weekend", bookBody(doctorID, patientID, "2025-03-15T09:00:00"), entity.RoleIDPatient, usecase.ErrWeekendAppointment, http.StatusBadRequest, usecase.RuleWeekday},
		{"slot taken", bookBody(doctorID, patientID, "2025-03-10T09:00:00"), entity.RoleIDPatient, usecase.ErrDoctorSlotTaken, http.StatusConflict, usecase.RuleDoctorSlot},
		{"patient day", bookBody(doctorID, patientID, "2025-03-10T14:30:00"), entity.RoleIDPatient, usecase.ErrPatientAlreadyBookedThatDay, http.StatusConflict, usecase.RulePatientDay},
		{"unknown doctor", bookBody(doctorID, patientID, "2025-03-10T09:00:00"), entity.RoleIDPatient, usecase.ErrDoctorNotFound, http.StatusNotFound, ""},
		{"unparseable time", bookBody(doctorID, patientID, "tomorrow at nine"), entity.RoleIDPatient, nil, http.StatusBadRequest, usecase.RuleTimestampFormat},
		{"booking for someone else", bookBody(doctorID, uuid.New(), "2025-03-10T09:00:00"), entity.RoleIDPatient, nil, http.StatusForbidden, ""},
		{"admin books for anyone", bookBody(doctorID, uuid.New(), "2025-03-10T09:00:00"), entity.RoleIDAdmin, nil, http.StatusCreated, ""},
		{"missing fields", strings.NewReader(`{"doctor_id":"` + doctorID.String() + `"}`), entity.RoleIDPatient, nil, http.StatusBadRequest, ""},
		{"malformed json", strings.NewReader(`{`), entity.RoleIDPatient, nil, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAppointmentUsecase{bookErr: tt.bookErr}
			h := NewAppointmentHandler(stub, validator.NewValidator())

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", tt.body), patientID, tt.roleID)
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			body := decodeEnvelope(t, rec)

			if tt.wantRule != "" {
				var ruleErr struct {
					Rule string `json:"rule"`
				}
				require.NoError(t, json.Unmarshal(body.Error, &ruleErr))
				assert.Equal(t, tt.wantRule, ruleErr.Rule)
			}

			if tt.want == http.StatusCreated {
				assert.True(t, body.Success)
				assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/api/v1/appointments/"))
			}
		})
	}
}

func TestAppointmentHandler_BookAppointment_KeepsWallClock(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	h := NewAppointmentHandler(stub, validator.NewValidator())
	doctorID, patientID := uuid.New(), uuid.New()

	req := withUser(httptest.NewRequest(http.MethodPost, "/", bookBody(doctorID, patientID, "2025-03-10T09:00:00-03:00")), patientID, entity.RoleIDPatient)
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, stub.booked, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), stub.booked[0])
	assert.Contains(t, rec.Body.String(), `"scheduled_at":"2025-03-10T09:00:00"`)
}

func TestAppointmentHandler_GetAvailability(t *testing.T) {
	stub := &stubAppointmentUsecase{}
	router := mux.NewRouter()
	router.HandleFunc("/doctors/{id}/availability", NewAppointmentHandler(stub, validator.NewValidator()).GetAvailability)
	doctorID := uuid.New()

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID.String()+"/availability?date=2025-03-10", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), stub.day)
	})

	t.Run("missing date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID.String()+"/availability", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), usecase.RuleTimestampFormat)
	})

	t.Run("bad doctor id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doctors/42/availability?date=2025-03-10", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAppointmentHandler_GetAppointment(t *testing.T) {
	ownerID := uuid.New()
	appointment := &dto.AppointmentResponse{ID: uuid.New(), DoctorID: uuid.New(), PatientID: ownerID}
	router := mux.NewRouter()
	router.HandleFunc("/appointments/{id}", NewAppointmentHandler(&stubAppointmentUsecase{appointment: appointment}, validator.NewValidator()).GetAppointment)

	tests := []struct {
		name   string
		userID uuid.UUID
		roleID int
		want   int
	}{
		{"owner", ownerID, entity.RoleIDPatient, http.StatusOK},
		{"other patient", uuid.New(), entity.RoleIDPatient, http.StatusForbidden},
		{"attending doctor", appointment.DoctorID, entity.RoleIDDoctor, http.StatusOK},
		{"other doctor", uuid.New(), entity.RoleIDDoctor, http.StatusForbidden},
		{"admin", uuid.New(), entity.RoleIDAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodGet, "/appointments/"+appointment.ID.String(), nil), tt.userID, tt.roleID)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("not found", func(t *testing.T) {
		router := mux.NewRouter()
		router.HandleFunc("/appointments/{id}", NewAppointmentHandler(&stubAppointmentUsecase{}, validator.NewValidator()).GetAppointment)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil), ownerID, entity.RoleIDAdmin))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
