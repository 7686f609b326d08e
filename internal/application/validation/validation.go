package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"pinstack-feed-service/internal/custom_errors"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// bcrypt only hashes the first 72 bytes, so "max" (runes) is not enough for secrets
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return &Validator{validate: v}
}

// Struct validates s and converts validator failures into a field-level
// custom_errors validation error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", custom_errors.ErrInternal, err)
	}
	fields := make([]custom_errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := custom_errors.FieldError{Field: fe.Field(), Message: message(fe)}
		if fe.Field() != "password" {
			field.Value = fe.Value()
		}
		fields = append(fields, field)
	}
	return custom_errors.Validation("validation failed, invalid input data", fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " must not be empty"
	case "email":
		return "please enter a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
