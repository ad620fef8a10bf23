package service

import (
	"errors"
	"strings"
)

// ErrInvalidCredentials is returned when a login attempt fails. It never
// reveals whether the login or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError aggregates every user-facing message for a rejected
// submission. The whole list is relayed to the caller; there is no
// partial or silent failure.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
