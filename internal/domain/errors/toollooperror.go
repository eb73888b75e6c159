package errors

import "fmt"

// ToolLoopError reports that a turn exceeded its model round limit.
type ToolLoopError struct {
	Rounds  int
	message string
}

func (v *ToolLoopError) Error() string {
	return v.message
}

func ToolLoopErrorf(rounds int, format string, args ...any) *ToolLoopError {
	return &ToolLoopError{
		Rounds:  rounds,
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &ToolLoopError{}
