// SPDX-License-Identifier: MIT

// Package validate accumulates configuration validation failures.
package validate

import (
	"fmt"
	"net"
	"path"
	"strconv"
	"strings"
)

// Error is one failed check.
type Error struct {
	Field   string
	Value   interface{}
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

func New() *Validator {
	return &Validator{errors: make([]Error, 0)}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{Field: field, Value: value, Message: message})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)
	return ValidationError{errors: copied}
}

func (e ValidationError) Errors() []Error {
	return e.errors
}

func (e ValidationError) Error() string {
	switch len(e.errors) {
	case 0:
		return ""
	case 1:
		return e.errors[0].Error()
	}
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// NotEmpty validates that a string is not empty
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "cannot be empty", value)
	}
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of %v, got %q", allowed, value), value)
}

// RelativePath requires a slash-separated path that stays below its root:
// not absolute, no backslashes, no leading "..".
func (v *Validator) RelativePath(field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		v.AddError(field, "path cannot be empty", value)
	case strings.Contains(value, "\\"):
		v.AddError(field, "path must use forward slashes", value)
	case path.IsAbs(value) || (len(value) > 1 && value[1] == ':'):
		v.AddError(field, "path must be relative", value)
	default:
		clean := path.Clean(value)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			v.AddError(field, "path must not leave its root", value)
		}
	}
}

// FileName requires a bare file name without directory components.
func (v *Validator) FileName(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "file name cannot be empty", value)
		return
	}
	if strings.ContainsAny(value, `/\`) || value == "." || value == ".." {
		v.AddError(field, "must be a file name, not a path", value)
	}
}

// ListenAddr validates a host:port listen address. Empty is allowed and means disabled.
func (v *Validator) ListenAddr(field, value string) {
	if value == "" {
		return
	}
	_, portStr, err := net.SplitHostPort(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid listen address: %v", err), value)
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		v.AddError(field, fmt.Sprintf("port must be between 0 and 65535, got %q", portStr), value)
	}
}
