package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"webdating-engagement/internal/domain"
)

// Validator checks request DTOs against their validate tags and reports
// failures with json field names.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("reaction_type", func(fl validator.FieldLevel) bool {
		return domain.ReactionType(fl.Field().String()).IsValid()
	})

	return &Validator{validate: v}
}

// Struct returns a domain validation error naming every invalid field, or
// nil.
func (v *Validator) Struct(input any) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Invalid(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return domain.Invalid(strings.Join(messages, "; "))
}

func fieldMessage(field, tag, param string) string {
	switch tag {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "reaction_type":
		return fmt.Sprintf("%s must be one of like, love, haha, wow, sad, angry", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
