package errors

import (
	"context"
	"fmt"
)

// TimeoutError reports that a turn ran past its deadline.
type TimeoutError struct {
	message string
}

func (v *TimeoutError) Error() string {
	return v.message
}

func (v *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

func TimeoutErrorf(format string, args ...any) *TimeoutError {
	return &TimeoutError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &TimeoutError{}
