//go:build rp2040 || rp2350

package main

import (
	"machine"

	"robotcar/core"

	"tinygo.org/x/drivers/hcsr04"
	"tinygo.org/x/drivers/servo"
)

const (
	sonarServoPin = machine.GPIO16
	sonarTrigger  = machine.GPIO14
	sonarEcho     = machine.GPIO15
)

// hcsr04Echo adapts the HC-SR04 driver to core.EchoSensor
type hcsr04Echo struct {
	dev hcsr04.Device
}

func (e *hcsr04Echo) ReadPulse() int32 {
	return e.dev.ReadPulse()
}

// initSonar configures the servo mount and the ultrasonic sensor
func initSonar() *core.Sonar {
	var mount core.ServoDriver
	pwm, err := configurePWM(sonarServoPin, servoPWMPeriod)
	if err == nil {
		s, err := servo.New(pwm, sonarServoPin)
		if err == nil {
			mount = &s
		}
	}
	if mount == nil {
		DebugPrintln("servo init failed, sonar fixed")
	}

	dev := hcsr04.New(sonarTrigger, sonarEcho)
	dev.Configure()

	return core.NewSonar(mount, &hcsr04Echo{dev: dev}, core.DefaultSonarConfig())
}
