package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/roadmap-backend/internal/domain/aggregates"
)

// Validator checks request payloads before any store access and reports
// failures as field-attributed aggregate validation errors.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and maps every failing field to a FieldError keyed by
// its JSON path below the top-level payload.
func (val *Validator) Struct(op string, s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainagg.Validation(op, domainagg.FieldError{Message: err.Error()})
	}
	fields := make([]domainagg.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domainagg.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return domainagg.Validation(op, fields...)
}

func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", name, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", name, lowerFirst(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
