package config

import (
	"fmt"
	"strings"
)

// ConfigurationError represents a structured error that occurs during configuration loading
type ConfigurationError struct {
	FilePath    string   `json:"filePath,omitempty"` // Full path to the file that caused the error
	FileName    string   `json:"fileName,omitempty"` // Base name of the file
	Field       string   `json:"field,omitempty"`    // Offending setting, for validation errors
	ErrorType   string   `json:"errorType"`          // Type of error (parse, validation, io, env)
	Message     string   `json:"message"`            // Human-readable error message
	Suggestions []string `json:"suggestions"`        // Actionable suggestions to fix the error
}

// Error implements the error interface
func (ce ConfigurationError) Error() string {
	switch {
	case ce.Field != "":
		return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, ce.Field, ce.Message)
	case ce.FileName != "":
		return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, ce.FileName, ce.Message)
	default:
		return fmt.Sprintf("[%s] %s", ce.ErrorType, ce.Message)
	}
}

// DetailedError returns a detailed error message with all context
func (ce ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration Error (%s)", ce.ErrorType))
	if ce.FilePath != "" {
		parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	}
	if ce.Field != "" {
		parts = append(parts, fmt.Sprintf("  Field: %s", ce.Field))
	}
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Add adds a new error to the collection
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// AddField adds a validation error for one setting.
func (cec *ConfigurationErrorCollection) AddField(field, message string) {
	cec.Add(ConfigurationError{
		Field:     field,
		ErrorType: "validation",
		Message:   message,
	})
}
