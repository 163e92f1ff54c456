package config

import "fmt"

// MissingFieldError reports a required server key absent from the raw mapping.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing in config file", e.Field)
}

// InvalidFieldTypeError reports a value that cannot be coerced to its declared type.
type InvalidFieldTypeError struct {
	Field string
	Type  FieldType
	Value string
	Err   error
}

func (e *InvalidFieldTypeError) Error() string {
	return fmt.Sprintf("%s is not a valid %s: %q", e.Field, e.Type, e.Value)
}

func (e *InvalidFieldTypeError) Unwrap() error {
	return e.Err
}

// InvalidFieldValueError reports a correctly typed value outside its allowed range.
type InvalidFieldValueError struct {
	Field string
	Rule  string
	Value any
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("%s=%v failed on %s", e.Field, e.Value, e.Rule)
}
