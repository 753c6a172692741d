// Package validate wraps go-playground/validator with the application's
// field rules and turns validation failures into 400-level AppErrors.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/taskvault/taskvault-go/internal/apperror"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Registration always succeeds for a non-empty tag on a fresh instance.
	_ = val.RegisterValidation("password", passwordRule)
	return val
}

// Struct validates a DTO against its struct tags and returns a Validation
// AppError describing the first offending fields.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidation("invalid request", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperror.NewValidation(strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "password":
		return fmt.Sprintf("%s must contain a lowercase letter, an uppercase letter, a number and a special character [@$!%%*?&]", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// passwordRule requires at least one lowercase letter, one uppercase
// letter, one digit and one special character from @$!%*?&. Length is
// covered by the min tag.
func passwordRule(fl validator.FieldLevel) bool {
	var lower, upper, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return lower && upper && digit && special
}
