package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigits = regexp.MustCompile(`\D`)

// NewValidator builds the validator shared by every use case, with the
// Brazilian document and CRM enum tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return isValidCPF(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_br", func(fl validator.FieldLevel) bool {
		return isValidPhoneNumber(fl.Field().String())
	})
	_ = v.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		return entity.LeadStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return entity.UserRole(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("hexcolor_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || hexColor.MatchString(s)
	})
	return v
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// validateStruct runs v over s and folds failures into one DomainError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, toValidationError(fe).Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(msgs, ", "),
	}
}

func toValidationError(fe validator.FieldError) ValidationError {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return ValidationError{field, "is required"}
	case "email":
		return ValidationError{field, "is invalid"}
	case "cpf":
		return ValidationError{field, "is invalid"}
	case "phone_br":
		return ValidationError{field, "must be a valid phone number"}
	case "min":
		return ValidationError{field, "must have at least " + fe.Param() + " characters"}
	case "max":
		return ValidationError{field, "must not exceed " + fe.Param() + " characters"}
	case "len":
		return ValidationError{field, "must have exactly " + fe.Param() + " characters"}
	case "gt":
		return ValidationError{field, "must be greater than " + fe.Param()}
	case "lead_status", "user_role", "oneof":
		return ValidationError{field, "is not a known value"}
	default:
		return ValidationError{field, "failed on " + fe.Tag()}
	}
}

func isValidCPF(cpf string) bool {
	cleaned := nonDigits.ReplaceAllString(cpf, "")
	if len(cleaned) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < len(cleaned); i++ {
		if cleaned[i] != cleaned[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	return cpfDigit(cleaned[:9]) == cleaned[9] && cpfDigit(cleaned[:10]) == cleaned[10]
}

func cpfDigit(prefix string) byte {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}
