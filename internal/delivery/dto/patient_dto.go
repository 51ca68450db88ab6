package dto

import (
	"time"

	"github.com/google/uuid"
)

// UpdatePatientRequest is a partial update: nil fields are left untouched.
type UpdatePatientRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FullName    *string `json:"full_name" validate:"omitempty,min=3,max=150"`
	CPF         *string `json:"cpf" validate:"omitempty,cpf"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	IsActive    *bool   `json:"is_active"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	CPF         string    `json:"cpf"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
