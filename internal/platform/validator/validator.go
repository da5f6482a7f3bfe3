// Package validator wraps go-playground/validator with the rules this service
// registers on top of the built-in tags.
package validator

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator reading `validate` tags, with the coordpair rule
// registered.
func New() *Validator {
	return newWithTag("validate")
}

// NewBinding creates a Validator reading gin's `binding` tags. It satisfies
// gin's binding.StructValidator so request DTOs get the same custom rules.
func NewBinding() *Validator {
	return newWithTag("binding")
}

func newWithTag(tag string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tag)
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("coordpair", validateCoordPair)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// ValidateStruct validates structs, pointers to structs and slices of them.
// Other values are accepted as is.
func (val *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		return val.ValidateStruct(value.Elem().Interface())
	case reflect.Struct:
		return val.v.Struct(obj)
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if err := val.ValidateStruct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Engine returns the underlying *validator.Validate.
func (val *Validator) Engine() any {
	return val.v
}

// FieldErrors flattens validation errors into field -> failed tag.
// Returns nil when err is not a validator.ValidationErrors.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		tag := fe.Tag()
		if fe.Param() != "" {
			tag += "=" + fe.Param()
		}
		out[fe.Namespace()] = tag
	}
	return out
}

// validateCoordPair accepts "<number>,<number>".
func validateCoordPair(fl validator.FieldLevel) bool {
	_, _, ok := SplitPair(fl.Field().String())
	return ok
}

// SplitPair parses "<number>,<number>" with optional surrounding whitespace.
func SplitPair(s string) (float64, float64, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
