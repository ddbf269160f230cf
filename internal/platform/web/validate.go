package web

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ehr/appointment-ui/pkg/civil"
)

// Validator adapts go-playground/validator to echo.Validator. Field names in
// messages come from the `label` struct tag.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		return f.Name
	})
	// Unset civil values validate as missing.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(civil.Date); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, civil.Date{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if t, ok := field.Interface().(civil.TimeOfDay); ok && !t.IsZero() {
			return t.String()
		}
		return nil
	}, civil.TimeOfDay{})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// FieldErrors turns a validation error into one user-facing message per
// field, keyed by the field's Go name.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.StructField()]; seen {
			continue
		}
		out[fe.StructField()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range.", label)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", strings.TrimSpace(label))
	}
}
