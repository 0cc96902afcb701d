//go:build rp2040 || rp2350

package main

import "machine"

// pwmPeripheral is an interface for PWM hardware peripherals.
// It abstracts over TinyGo's unexported *pwmGroup type and matches the
// PWM interface the l293x and servo drivers accept.
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// PWM periods
const (
	motorPWMPeriod = 1e9 / 1000 // 1kHz for the L293 enable pins
	servoPWMPeriod = 1e9 / 50   // 50Hz for hobby servos
)

// pwmForPin returns the PWM slice driving pin.
// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7.
func pwmForPin(pin machine.Pin) pwmPeripheral {
	switch (uint8(pin) >> 1) & 0x7 {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// configurePWM sets up the slice driving pin with the given period in
// nanoseconds. Slices shared by two pins must use the same period.
func configurePWM(pin machine.Pin, period uint64) (pwmPeripheral, error) {
	pwm := pwmForPin(pin)
	err := pwm.Configure(machine.PWMConfig{Period: period})
	if err != nil {
		return nil, err
	}
	return pwm, nil
}

// scaleDuty converts a 0-255 speed into a duty value for pwm
func scaleDuty(pwm pwmPeripheral, speed uint8) uint32 {
	return (uint32(speed) * pwm.Top()) / 255
}
