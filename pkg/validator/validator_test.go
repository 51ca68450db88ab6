package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registration struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,password"`
	CRM      string  `json:"crm" validate:"omitempty,crm"`
	CPF      string  `json:"cpf" validate:"omitempty,cpf"`
	Phone    *string `json:"phone_number" validate:"omitempty,phone"`
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()
	phone := "+5511999990000"

	t.Run("valid payload", func(t *testing.T) {
		err := v.Validate(&registration{
			Email:    "doc@clinic.com",
			Password: "secret123",
			CRM:      "crm/sp 123456",
			CPF:      "522.246.290-01",
			Phone:    &phone,
		})
		assert.NoError(t, err)
	})

	t.Run("errors are keyed by json name", func(t *testing.T) {
		bad := "call me"
		err := v.Validate(&registration{
			Email:    "not-an-email",
			Password: "onlyletters",
			CRM:      "CRM 1",
			CPF:      "123",
			Phone:    &bad,
		})
		require.Error(t, err)

		errs := v.FormatValidationErrors(err)
		assert.Equal(t, "email must be a valid email address", errs["email"])
		assert.Contains(t, errs["password"], "letters and numbers")
		assert.Contains(t, errs["crm"], "CRM/UF")
		assert.Contains(t, errs["cpf"], "11 digits")
		assert.Contains(t, errs["phone_number"], "phone")
	})

	t.Run("absent pointer is skipped", func(t *testing.T) {
		err := v.Validate(&registration{Email: "a@b.co", Password: "abc12345"})
		assert.NoError(t, err)
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "52224629001", NormalizeCPF("522.246.290-01"))
	assert.Equal(t, "CRM/SP 123456", NormalizeCRM("  crm/sp 123456 "))
}
