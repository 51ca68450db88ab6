package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	crmPattern   = regexp.MustCompile(`^CRM/[A-Z]{2}\s\d{1,6}$`)
	cpfPattern   = regexp.MustCompile(`^\d{11}$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$|^\d{10,11}$`)
	hasLetter    = regexp.MustCompile(`[A-Za-z]`)
	hasDigit     = regexp.MustCompile(`\d`)
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names so error keys match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("crm", func(fl validator.FieldLevel) bool {
		return crmPattern.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpfPattern.MatchString(NormalizeCPF(fl.Field().String()))
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		return len(pw) >= 8 && hasLetter.MatchString(pw) && hasDigit.MatchString(pw)
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			case "crm":
				errors[field] = field + " must follow the format CRM/UF 123456"
			case "cpf":
				errors[field] = field + " must contain exactly 11 digits"
			case "phone":
				errors[field] = field + " must be a valid phone number"
			case "password":
				errors[field] = field + " must have at least 8 characters including letters and numbers"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

// NormalizeCPF strips the usual 000.000.000-00 punctuation.
func NormalizeCPF(cpf string) string {
	return strings.NewReplacer(".", "", "-", "", " ", "").Replace(cpf)
}

// NormalizeCRM upper-cases and trims a CRM registration.
func NormalizeCRM(crm string) string {
	return strings.ToUpper(strings.TrimSpace(crm))
}
