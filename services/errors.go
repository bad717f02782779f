package services

import "errors"

// Error kinds surfaced by the todo services. Handlers map these to HTTP
// status codes; anything not matching one of them is unexpected.
var (
	ErrTodoNotFound           = errors.New("todo not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrConcurrentModification = errors.New("todo was modified concurrently")
)
