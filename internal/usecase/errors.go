package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/fortis-crm/internal/entity"
)

// Error codes returned to API clients.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeLeadNotFound   = "LEAD_NOT_FOUND"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeTagNotFound    = "TAG_NOT_FOUND"
	CodeNameNotFound   = "NAME_NOT_FOUND"
	CodeDuplicate      = "DUPLICATE"
	CodeInvalidStatus  = "INVALID_STATUS"
	CodeDatabase       = "DATABASE_ERROR"
	CodeStatsFailed    = "STATS_UNAVAILABLE"
	CodeNotification   = "NOTIFICATION_FAILED"
	CodeSettingsFailed = "SETTINGS_ERROR"
)

// DomainError is a rule violation the caller can fix.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure. Err keeps the cause for logs.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func dbError(op string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: fmt.Sprintf("falha ao %s", op), Err: err}
}

// repoError turns repository sentinels into domain errors and anything else
// into a database failure.
func repoError(op, notFoundCode, notFoundMsg string, err error) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return &DomainError{Code: notFoundCode, Message: notFoundMsg}
	case errors.Is(err, entity.ErrDuplicate):
		return &DomainError{Code: CodeDuplicate, Message: "registro duplicado"}
	default:
		return dbError(op, err)
	}
}
