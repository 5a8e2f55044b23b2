package persistence

import "errors"

var ErrExecutionNotFound = errors.New("execution not found")

func IsExecutionNotFound(err error) bool {
	return errors.Is(err, ErrExecutionNotFound)
}
