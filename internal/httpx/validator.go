package httpx

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"mangashelf/internal/auth"
)

var validate *validator.Validate

var statusRe = regexp.MustCompile(`(?i)^(reading|completed|plan[- ]to[- ]read)$`)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
	_ = validate.RegisterValidation("library_status", validateLibraryStatus)
}

func validatePasswordStrength(fl validator.FieldLevel) bool {
	return auth.ValidatePasswordStrength(fl.Field().String()) == nil
}

func validateLibraryStatus(fl validator.FieldLevel) bool {
	return statusRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// ValidateStruct runs struct tag validation and flattens failures into
// envelope details.
func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		case "library_status":
			message = fmt.Sprintf("%s must be one of Reading, Completed, Plan-to-read", field)
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   strings.ToLower(field[:1]) + field[1:],
			Message: message,
		})
	}
	return details
}
