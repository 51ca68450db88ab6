package entity

import "github.com/google/uuid"

type PatientProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CPF         string    `gorm:"column:cpf;type:char(11);uniqueIndex:uq_patient_profiles_cpf;not null" json:"cpf"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
