//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"robotcar/protocol"
)

var (
	// Bytes received by the reader goroutine, consumed by the main loop.
	// Allocated up front so a failed USB setup cannot leave it nil.
	inputBuffer = protocol.NewFifoBuffer(256)

	usbErrors       uint32
	writeFailures   uint32
	usbDisconnected bool
)

// InitUSB configures machine.Serial, which is USB CDC on the RP2040
func InitUSB() error {
	return machine.Serial.Configure(machine.UARTConfig{})
}

// usbReaderLoop moves bytes from USB into inputBuffer
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			usbErrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	var chunk [64]byte
	for {
		if machine.Serial.Buffered() == 0 {
			time.Sleep(100 * time.Microsecond)
			continue
		}

		n, err := machine.Serial.Read(chunk[:])
		if err != nil {
			usbErrors++
			time.Sleep(1 * time.Millisecond)
			continue
		}
		if n > 0 {
			usbDisconnected = false
			// Overrun bytes are counted by the FIFO
			inputBuffer.Write(chunk[:n])
		}
	}
}

// usbWriter writes replies to USB, handling partial writes
type usbWriter struct{}

func (usbWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := machine.Serial.Write(p[written:])
		if err != nil || n == 0 {
			writeFailures++
			if writeFailures > 10 {
				// Host went away; drop whatever it sent before
				usbDisconnected = true
				writeFailures = 0
				inputBuffer.Reset()
			}
			return written, err
		}
		written += n
	}
	writeFailures = 0
	return written, nil
}
