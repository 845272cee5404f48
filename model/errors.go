package model

import "errors"

// ErrInvalidArgument is matched by every guard failure raised before a
// store call is issued.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a rejected call. It matches ErrInvalidArgument with
// errors.Is.
type ArgumentError struct {
	Op      string
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return e.Op + ": " + e.Message
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(op, msg string) error {
	return &ArgumentError{Op: op, Message: msg}
}
