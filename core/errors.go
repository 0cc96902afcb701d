package core

import "errors"

var (
	// ErrMalformed is returned by the factory for a frame with fewer
	// than three tokens. No response is sent for it.
	ErrMalformed = errors.New("malformed command frame")

	// ErrNotCommand is returned when the frame kind is not Command.
	// Responses and errors arriving at the car are not dispatched.
	ErrNotCommand = errors.New("frame is not a command")

	// ErrUnknownCommand is returned when the command code matches no
	// registered command type.
	ErrUnknownCommand = errors.New("unknown command code")

	// ErrNotImplemented is returned for command types that are declared
	// but have no executing variant.
	ErrNotImplemented = errors.New("command not implemented")

	// ErrNoMotors is returned by Hardware.Validate when no actuator is set
	ErrNoMotors = errors.New("no motor actuator configured")

	// ErrNoSonar is returned by Hardware.Validate when no ranger is set
	ErrNoSonar = errors.New("no range sensor configured")
)
