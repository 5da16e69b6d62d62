package tools

import "errors"

var (
	// ErrUnknownTool is returned when the requested name is not registered.
	// The executor guarantees no network call happens in this case.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is returned when required fields are missing or
	// an argument does not match its declared schema type.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)
