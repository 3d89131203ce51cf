package validation

import (
	"errors"
	"fmt"
	"jobconnect-backend/pkg/apperror"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	// Auth / user fields
	"name":     "Name",
	"email":    "Email",
	"password": "Password",
	"role":     "Role",
	"phone":    "Phone",
	"bio":      "Bio",
	"status":   "Status",

	// Job fields
	"title":                "Job title",
	"description":          "Job description",
	"company":              "Company name",
	"location":             "Location",
	"type":                 "Job type",
	"currency":             "Currency",
	"skills":               "Skills",
	"application_deadline": "Application deadline",

	// Application fields
	"job":          "Job ID",
	"cover_letter": "Cover letter",
	"url":          "Resume URL",
	"file_name":    "File name",
	"notes":        "Notes",
}

var enumOptions = map[string]string{
	"user_role":          "job_seeker, recruiter",
	"job_type":           "full-time, part-time, contract, internship",
	"job_status":         "active, closed, draft",
	"application_status": "pending, reviewed, shortlisted, rejected, accepted",
}

// FromError converts a validator error into a validation AppError carrying
// field-level details. Non-validator errors are wrapped as internal errors.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Internal(err)
	}
	return apperror.Validation("Validation failed", FormatValidationErrors(validationErrors)...)
}

// FormatValidationErrors converts validator.ValidationErrors to field-level messages
func FormatValidationErrors(validationErrors validator.ValidationErrors) []apperror.FieldError {
	details := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperror.FieldError{
			Field:   fieldPath(e.Namespace()),
			Message: formatSingleError(e),
		})
	}
	return details
}

// fieldPath strips the root struct name from a namespace such as
// "JobInput.salary.currency".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s cannot exceed %s characters", label, param)
		}
		return fmt.Sprintf("%s cannot exceed %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)
	case "email":
		return fmt.Sprintf("Please provide a valid %s", strings.ToLower(label))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits, optionally prefixed with +", label)
	case "no_emoji":
		return fmt.Sprintf("%s cannot contain emoji or special symbols", label)
	case "user_role", "job_type", "job_status", "application_status":
		return fmt.Sprintf("%s must be one of: %s", label, enumOptions[e.Tag()])
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return strings.ReplaceAll(fieldName, "_", " ")
}

// InvalidEnum reports a query value outside the options of an enum tag such
// as job_status.
func InvalidEnum(field, tag string) error {
	return apperror.Validation("Validation failed", apperror.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be one of: %s", getFieldLabel(field), enumOptions[tag]),
	})
}

// Field builds a single field-level validation error.
func Field(field, message string) error {
	return apperror.Validation("Validation failed", apperror.FieldError{Field: field, Message: message})
}
