package service

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/program-workboard-api/internal/models"
	appErrors "github.com/noah-isme/program-workboard-api/pkg/errors"
)

// domainValidator registers the enum tags used by request DTOs.
func domainValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		validate = validator.New()
	}
	_ = validate.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("export_format", func(fl validator.FieldLevel) bool {
		return models.ExportFormat(strings.ToLower(fl.Field().String())).Valid()
	})
	return validate
}

func invalidPayload(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, message))
}

// validationMessage lists the failing fields after the generic message.
func validationMessage(err error, message string) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return message
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, lowerFirst(fe.Field())+" "+fe.Tag())
	}
	return message + ": " + strings.Join(fields, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
