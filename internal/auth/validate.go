package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	pinPattern      = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// Validator wraps go-playground validator with the account rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("pin", validatePIN)
	return &Validator{validate: v}
}

// Struct validates i and returns a single readable error listing every
// failing field.
func (v *Validator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Fields: msgs}
}

// ValidationError lists the failing fields of one input.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validatePIN(fl validator.FieldLevel) bool {
	return pinPattern.MatchString(fl.Field().String())
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "username":
		return field + " may only contain letters, numbers and underscores"
	case "pin":
		return field + " must be 4 to 8 digits"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "required_without":
		return fmt.Sprintf("%s is required when %s is missing", field, strings.ToLower(fe.Param()))
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
