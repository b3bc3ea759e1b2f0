// Package validation provides struct-tag-based field validation, wrapping
// go-playground/validator the same way the teacher's
// internal/api/validation package does for its request types.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with this repository's custom
// validation tags.
type Validator struct {
	validate *validator.Validate
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string
	Message string
	Tag     string
	Value   string
}

// FieldErrors is a collection of FieldError, implementing error.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	messages := make([]string, 0, len(fe))
	for _, e := range fe {
		messages = append(messages, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(messages, "; ")
}

// New creates a Validator with the canonical-path and slug tags this
// repository's data model relies on, tag names read from `yaml` struct
// tags (this repo's serialization format, where the teacher's equivalent
// reads `json`).
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerCustomValidations()
	return v
}

// Struct validates every tagged field of i, returning FieldErrors (nil on
// success).
func (v *Validator) Struct(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs FieldErrors
	if validatorErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validatorErrs {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   e.Field(),
				Message: v.message(e),
				Tag:     e.Tag(),
				Value:   fmt.Sprintf("%v", e.Value()),
			})
		}
	}
	return fieldErrs
}

// Var validates a single value against an ad hoc tag, e.g.
// v.Var(path, "canonicalpath").
func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}

func (v *Validator) message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "canonicalpath":
		return fmt.Sprintf("%s must be a canonical path of the form /building/<slug>[/<slug>...]", field)
	case "slug":
		return fmt.Sprintf("%s must be a lowercase, hyphenated slug", field)
	default:
		return fmt.Sprintf("%s failed validation on %q", field, e.Tag())
	}
}

// registerCustomValidations registers the tags this repository's data
// model needs beyond go-playground/validator's builtins, mirroring the
// shape of the teacher's building_path/arxos_id custom tags but matching
// 3's "/building/<slug>/..." canonical path format.
func (v *Validator) registerCustomValidations() {
	v.validate.RegisterValidation("canonicalpath", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true // let "required" handle emptiness
		}
		if !strings.HasPrefix(value, "/building/") {
			return false
		}
		segments := strings.Split(strings.TrimPrefix(value, "/"), "/")
		for _, seg := range segments {
			if seg == "" {
				return false
			}
		}
		return true
	})

	v.validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, r := range value {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				return false
			}
		}
		return true
	})
}
