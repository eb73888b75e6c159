package errors

import "fmt"

// UnavailableError reports that a capability could not be initialized.
type UnavailableError struct {
	message string
}

func (v *UnavailableError) Error() string {
	return v.message
}

func UnavailableErrorf(format string, args ...any) *UnavailableError {
	return &UnavailableError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &UnavailableError{}
