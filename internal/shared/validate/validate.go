package validate

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"

	"social-api/internal/apperr"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// password: min 8 chars with at least one letter, one digit and
	// one uppercase letter
	_ = val.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return PasswordOK(fl.Field().String())
	})
	return val
}

func PasswordOK(s string) bool {
	if len(s) < 8 {
		return false
	}
	var letter, digit, upper bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
			letter = true
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit && upper
}

// Struct validates a request payload and reports the first violation
// as an invalid_input error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return apperr.Wrap(apperr.ErrInvalidInput, message(fe))
	}
	return apperr.Wrap(apperr.ErrInvalidInput, "invalid request payload")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "email address is not valid"
	case "password":
		return "password must be at least 8 characters and contain a letter, a digit and an uppercase letter"
	default:
		return fmt.Sprintf("%s is not valid", fe.Field())
	}
}
