package entity

import "github.com/google/uuid"

// DoctorProfile holds the professional registration of a doctor user.
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CRM            string    `gorm:"column:crm;type:varchar(20);uniqueIndex:uq_doctor_profiles_crm;not null" json:"crm"`
	Specialization string    `gorm:"type:varchar(150);not null;index" json:"specialization"`
	PhoneNumber    string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
