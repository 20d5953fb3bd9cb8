package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// ValidationErrors aggregates every failed rule for a payload.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	for i, failure := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(failure.Field)
		b.WriteString(" violates ")
		b.WriteString(failure.Tag)
		if failure.Param != "" {
			b.WriteString("=")
			b.WriteString(failure.Param)
		}
	}
	return b.String()
}

// ValidateStruct runs the registered rules and translates failures into
// ValidationErrors keyed by json field names.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	failures := make(ValidationErrors, len(fieldErrs))
	for i, fe := range fieldErrs {
		failures[i] = ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		}
	}
	return failures
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return field.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
