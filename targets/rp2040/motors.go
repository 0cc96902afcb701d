//go:build rp2040 || rp2350

package main

import (
	"machine"

	"robotcar/core"

	"tinygo.org/x/drivers/l293x"
)

// Wheel wiring: two direction pins and one enable pin per L293 channel.
// FL/FR enables share PWM slice 2, RL/RR share slice 5.
var wheelPins = [core.WheelCount][3]machine.Pin{
	core.FrontLeft:  {machine.GPIO2, machine.GPIO3, machine.GPIO4},
	core.FrontRight: {machine.GPIO6, machine.GPIO7, machine.GPIO5},
	core.RearLeft:   {machine.GPIO8, machine.GPIO9, machine.GPIO10},
	core.RearRight:  {machine.GPIO12, machine.GPIO13, machine.GPIO11},
}

// l293Wheel adapts one l293x channel to core.MotorDriver.
// The direction is latched by Run and applied with the speed.
type l293Wheel struct {
	dev l293x.PWMDevice
	pwm pwmPeripheral
	in2 machine.Pin
	dir core.Direction
}

func (w *l293Wheel) Run(dir core.Direction) {
	w.dir = dir
	switch dir {
	case core.Brake:
		w.brake()
	case core.Release:
		w.dev.Stop()
	}
}

func (w *l293Wheel) SetSpeed(speed uint8) {
	duty := scaleDuty(w.pwm, speed)
	switch w.dir {
	case core.Forward:
		w.dev.Forward(duty)
	case core.Backward:
		w.dev.Backward(duty)
	case core.Brake:
		w.brake()
	default:
		w.dev.Stop()
	}
}

// brake shorts the motor: both inputs high with the enable fully on.
// Stop on the driver pulls both inputs low, which only lets it coast.
func (w *l293Wheel) brake() {
	w.dev.Forward(w.pwm.Top())
	w.in2.High()
}

// initMotors configures the four L293 channels and returns the aggregate
func initMotors() *core.Motors {
	var wheels [core.WheelCount]core.MotorDriver
	for i, pins := range wheelPins {
		pwm, err := configurePWM(pins[2], motorPWMPeriod)
		if err != nil {
			DebugPrintln("motor pwm config failed on wheel " + itoa(i))
			continue
		}
		dev := l293x.NewWithSpeed(pins[0], pins[1], pins[2], pwm)
		dev.Configure()
		wheels[i] = &l293Wheel{dev: dev, pwm: pwm, in2: pins[1]}
	}
	return core.NewMotors(wheels[0], wheels[1], wheels[2], wheels[3])
}
