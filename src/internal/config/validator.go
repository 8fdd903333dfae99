package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if err := validate.Struct(c.Server); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "server", "")...)
	}
	if err := validate.Struct(c.Stream); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "stream", "")...)
	}
	if err := validate.Struct(c.Logging); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "logging", "")...)
	}

	validationErrors = append(validationErrors, c.validateLoggers()...)

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

func (c *Config) validateLoggers() ValidationErrors {
	var validationErrors ValidationErrors
	seenNames := make(map[string]bool)

	for i, logger := range c.Loggers {
		if logger == nil {
			continue
		}
		itemName := logger.Name
		if itemName == "" {
			itemName = fmt.Sprintf("logger[%d]", i)
		}

		// Validate struct fields
		if err := validate.Struct(logger); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("logger.%d", i), itemName)...)
		}

		// Check duplicate logger name
		if logger.Name != "" && seenNames[logger.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate logger name: %s", logger.Name),
			})
		}
		seenNames[logger.Name] = true

		if logger.Syslog != nil && logger.Syslog.Protocol == "tcp+tls" && logger.Syslog.CertBundlePath == "" {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "syslog.cert_bundle_path",
				Message:   "cert_bundle_path is required for tcp+tls",
			})
		}
	}

	return validationErrors
}

func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			// The namespace uses TOML tag names because we registered TagNameFunc;
			// its first segment is the validated struct's type name.
			if _, rel, ok := strings.Cut(e.Namespace(), "."); ok && rel != "" {
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + rel
				} else {
					fieldPath = rel
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
