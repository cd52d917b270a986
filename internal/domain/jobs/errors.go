package jobs

import "errors"

var (
	ErrExecutionNotFound   = errors.New("job execution not found")
	ErrUnknownJob          = errors.New("unknown job name")
	ErrExecutionNotFailed  = errors.New("only failed executions can be retried")
	ErrExecutionNotRunning = errors.New("only running executions can be canceled")
)
