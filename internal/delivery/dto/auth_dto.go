package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	FullName    string `json:"full_name" validate:"required,min=3,max=150"`
	CPF         string `json:"cpf" validate:"required,cpf"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type RegisterDoctorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,password"`
	FullName       string `json:"full_name" validate:"required,min=3,max=150"`
	CRM            string `json:"crm" validate:"required,crm"`
	Specialization string `json:"specialization" validate:"required,min=3,max=150"`
	PhoneNumber    string `json:"phone_number" validate:"required,phone"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	FullName       string                  `json:"full_name"`
	Role           string                  `json:"role"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type DoctorProfileResponse struct {
	CRM            string `json:"crm"`
	Specialization string `json:"specialization"`
	PhoneNumber    string `json:"phone_number,omitempty"`
}

type PatientProfileResponse struct {
	CPF         string `json:"cpf"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
