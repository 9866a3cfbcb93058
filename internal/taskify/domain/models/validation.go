package models

import "fmt"

// ValidationError reports malformed input. The message enumerates the
// offending fields or ids.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Invalidf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
