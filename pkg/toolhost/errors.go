package toolhost

import "fmt"

// ConnectionError reports that the tool host could not be reached or
// returned an unusable tool listing.
type ConnectionError struct {
	Endpoint string
	Op       string
	Err      error
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("connect %s: %s: %v", e.Endpoint, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
