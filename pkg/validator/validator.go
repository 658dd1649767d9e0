package validator

import (
	"doctor-booking/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return entity.IsTimeOfDay(fl.Field().String())
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := entity.ParseWeekday(fl.Field().String())
		return ok
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
			case "hhmm":
				errors[field] = field + " must be a time of day as HH:MM"
			case "weekday":
				errors[field] = field + " must be a weekday name such as saturday"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
