package model

import "fmt"

type missingFieldError struct {
	field string
}

func (e missingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.field)
}

// ErrMissingField reports a required body field that was absent or empty.
func ErrMissingField(field string) error {
	return missingFieldError{field: field}
}
