package tools

import "fmt"

// ValidationError reports a tool call rejected before it reached the host:
// the tool is unknown or the arguments do not match its input schema.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("validate %s: %s", e.Tool, e.Reason)
}

// InvocationError reports a transport or protocol failure while calling a tool.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("invoke %s: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
