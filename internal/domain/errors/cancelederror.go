package errors

import (
	"context"
	"fmt"
)

type CanceledError struct {
	message string
}

func (v *CanceledError) Error() string {
	return v.message
}

// Is lets errors.Is(err, context.Canceled) match a CanceledError.
func (v *CanceledError) Is(target error) bool {
	return target == context.Canceled
}

func CanceledErrorf(format string, args ...any) *CanceledError {
	return &CanceledError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &CanceledError{}
