package errors

import "fmt"

var (
	ErrEventNotFound     = fmt.Errorf("event not found")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	ErrUnauthorized      = fmt.Errorf("missing authorization token")
	ErrInvalidToken      = fmt.Errorf("invalid authorization token")
)
