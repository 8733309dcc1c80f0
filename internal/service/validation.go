package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/boddenberg/smb-dashboard-bfa/internal/domain"
	"github.com/boddenberg/smb-dashboard-bfa/internal/reporting"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that reports JSON field names and knows
// the calendardate tag.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Accept exactly what the reporting engine can place on the calendar.
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, ok := reporting.ParseDate(fl.Field().String())
		return ok
	})
	return v
}

// validationError converts the first validator failure into ErrValidation.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.ErrValidation{Field: "body", Message: err.Error()}
	}
	fe := verrs[0]
	return &domain.ErrValidation{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "calendardate":
		return "must be a calendar date such as 2026-10-18"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "invalid value"
	}
}
