package core

import "sync"

// MotorDriver controls one DC motor channel
type MotorDriver interface {
	Run(dir Direction)
	SetSpeed(speed uint8)
}

// Motors aggregates the four wheel drivers into an Actuator. Calls are
// serialized so a stop never interleaves with a spin half-way through
// the wheels.
type Motors struct {
	mu      sync.Mutex
	drivers [WheelCount]MotorDriver
	speeds  Speeds
	dirs    Directions
}

// NewMotors takes drivers in Wheel order and releases every wheel
func NewMotors(fl, fr, rl, rr MotorDriver) *Motors {
	m := &Motors{drivers: [WheelCount]MotorDriver{fl, fr, rl, rr}}
	for i := range m.drivers {
		m.apply(Wheel(i), 0, Release)
	}
	return m
}

// StopAll brakes every wheel
func (m *Motors) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.drivers {
		m.apply(Wheel(i), 0, Brake)
	}
}

// SpinAll sets every wheel in one batch
func (m *Motors) SpinAll(speeds Speeds, dirs Directions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.drivers {
		m.apply(Wheel(i), speeds[i], dirs[i])
	}
}

// State returns the last commanded speeds and directions
func (m *Motors) State() (Speeds, Directions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speeds, m.dirs
}

// Moving reports whether any wheel is driven at non-zero speed
func (m *Motors) Moving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.speeds {
		if s > 0 && (m.dirs[i] == Forward || m.dirs[i] == Backward) {
			return true
		}
	}
	return false
}

// apply must be called with mu held, except from NewMotors
func (m *Motors) apply(w Wheel, speed uint8, dir Direction) {
	m.speeds[w] = speed
	m.dirs[w] = dir
	if d := m.drivers[w]; d != nil {
		d.Run(dir)
		d.SetSpeed(speed)
	}
}
