package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// global validator instance
var validate *validator.Validate

var kebabPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func init() {
	validate = newValidator()
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("kebab", func(fl validator.FieldLevel) bool {
		return kebabPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsKebabCase reports whether s is a valid quest id.
func IsKebabCase(s string) bool {
	return kebabPattern.MatchString(s)
}

// ValidationError lists every failed field of a record.
type ValidationError struct {
	Subject string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, strings.Join(e.Fields, "; "))
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = newValidator()
	}
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var messages []string
	for _, e := range validationErrors {
		if e.Value() == "" || e.Tag() == "required" {
			messages = append(messages, fmt.Sprintf("field '%s' is required", e.StructNamespace()))
			continue
		}
		messages = append(messages, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return &ValidationError{Subject: "validation failed", Fields: messages}
}

// ValidateQuest runs the schema gate every quest must pass before it is
// admitted to the in-memory collection.
func ValidateQuest(q *Quest) error {
	if q == nil {
		return &ValidationError{Subject: "validation failed", Fields: []string{"quest is nil"}}
	}
	if err := ValidateStruct(q); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Subject = fmt.Sprintf("quest %q", q.QuestID)
		}
		return err
	}
	if err := q.CheckVariant(); err != nil {
		return &ValidationError{Subject: fmt.Sprintf("quest %q", q.QuestID), Fields: []string{err.Error()}}
	}
	return nil
}
