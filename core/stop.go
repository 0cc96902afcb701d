package core

import "io"

// StopWheels brakes every wheel. It takes no arguments.
type StopWheels struct {
	Message
	motors Actuator
}

// NewStopWheels is the CommandConstructor for SW
func NewStopWheels(msg Message, hw Hardware, _ LogSink) Command {
	return &StopWheels{Message: msg, motors: hw.Motors}
}

// Execute stops the motors and replies R:<id>:SW;
func (c *StopWheels) Execute(w io.Writer) error {
	if c.motors != nil {
		c.motors.StopAll()
	}
	return c.respond().Send(w)
}
