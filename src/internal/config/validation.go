package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LogLevels are the accepted level names, lowest first.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hostname_port":
		return "must be in format 'host:port'"
	case "excludesall":
		return "must be a plain file name without path separators"
	case "log_level":
		return fmt.Sprintf("must be one of: %s", strings.Join(LogLevels, ", "))
	case "positive_duration":
		return "must be a positive duration (e.g. 500ms, 1s)"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // For loggers: the logger name (e.g., "db")
	FieldPath string // Dot-notation field path (e.g., "stream.window_lines", "syslog.protocol")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("log_level", validateLogLevel); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("positive_duration", validatePositiveDuration); err != nil {
		panic(err)
	}

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// IsLogLevel reports whether level names a known level (case-insensitive).
func IsLogLevel(level string) bool {
	upper := strings.ToUpper(level)
	for _, l := range LogLevels {
		if l == upper {
			return true
		}
	}
	return false
}

// Custom validator: level name
func validateLogLevel(fl validator.FieldLevel) bool {
	return IsLogLevel(fl.Field().String())
}

// Custom validator: Duration greater than zero
func validatePositiveDuration(fl validator.FieldLevel) bool {
	return fl.Field().Int() > 0
}
