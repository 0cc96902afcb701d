//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"robotcar/core"
)

func main() {
	// Clear any watchdog state left from a previous run
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()
	if err := InitUSB(); err != nil {
		DebugPrintln("usb config failed: " + err.Error())
	}

	hw := core.Hardware{
		Motors: initMotors(),
		Sonar:  initSonar(),
	}
	engine := core.NewEngine(hw, usbWriter{}, core.WithLogSink(debugSink()))

	go usbReaderLoop()

	// Give the host time to open the port before the banner
	time.Sleep(2 * time.Second)
	if err := engine.Announce(); err != nil {
		DebugPrintln("announce failed: " + err.Error())
	}

	stopped := false
	var reportedDrops uint32
	for {
		if usbDisconnected && !stopped {
			// Stop the car when the controller is gone
			hw.Motors.StopAll()
			stopped = true
		} else if !usbDisconnected {
			stopped = false
		}

		engine.Drain(inputBuffer)

		if d := inputBuffer.Dropped(); d != reportedDrops {
			DebugPrintln("usb overrun, dropped " + itoa(int(d-reportedDrops)) + " bytes")
			reportedDrops = d
		}

		time.Sleep(100 * time.Microsecond)
	}
}
