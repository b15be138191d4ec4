package services

import (
	"context"
	"errors"
)

// Service errors
var (
	ErrUnknownGroup = errors.New("unknown statistic group")
	ErrInvalidCity  = errors.New("invalid city")
)

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
