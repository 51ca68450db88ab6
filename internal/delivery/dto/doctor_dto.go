package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// UpdateDoctorRequest is a partial update: nil fields are left untouched.
type UpdateDoctorRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	FullName       *string `json:"full_name" validate:"omitempty,min=3,max=150"`
	CRM            *string `json:"crm" validate:"omitempty,crm"`
	Specialization *string `json:"specialization" validate:"omitempty,min=3,max=150"`
	PhoneNumber    *string `json:"phone_number" validate:"omitempty,phone"`
	IsActive       *bool   `json:"is_active"`
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	CRM            string    `json:"crm"`
	Specialization string    `json:"specialization"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	IsActive       *bool     `json:"is_active"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
