package serial

import (
	"io"
)

// Port represents a serial port interface. Implementations are the
// native port over github.com/tarm/serial and in-memory fakes in tests.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. The car's USB link runs at 9600; USB CDC ignores it.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the link speed the car's controller has always used
const DefaultBaud = 9600

// DefaultConfig returns the configuration for the car's USB link
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
