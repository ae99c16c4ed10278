package config

import "fmt"

// StartupError reports configuration that prevents a session from starting.
type StartupError struct {
	Field  string
	Reason string
	Err    error
}

func (e *StartupError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("startup: %s %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StartupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
