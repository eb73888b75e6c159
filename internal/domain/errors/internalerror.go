package errors

import "fmt"

// InternalError wraps an unexpected fault. The message is safe to log but is
// never returned to API clients verbatim.
type InternalError struct {
	message string
	cause   error
}

func (v *InternalError) Error() string {
	return v.message
}

func (v *InternalError) Unwrap() error {
	return v.cause
}

func InternalErrorf(format string, args ...any) *InternalError {
	return &InternalError{
		message: fmt.Sprintf(format, args...),
	}
}

// WrapInternal records err as the cause of a new InternalError.
func WrapInternal(err error, format string, args ...any) *InternalError {
	return &InternalError{
		message: fmt.Sprintf(format, args...) + ": " + err.Error(),
		cause:   err,
	}
}

var _ error = &InternalError{}
