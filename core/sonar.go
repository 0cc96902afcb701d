package core

import (
	"sort"
	"sync"
	"time"
)

// ServoDriver positions the sonar mount
type ServoDriver interface {
	SetMicroseconds(us int16)
}

// EchoSensor fires one ultrasonic ping and returns the echo pulse width
// in microseconds, or 0 when no echo came back
type EchoSensor interface {
	ReadPulse() int32
}

// Servo pulse widths at 0 and 180 degrees
const (
	ServoMinPulse = 544
	ServoMaxPulse = 2400
)

// MicrosPerCM is the echo round trip time for one centimeter
const MicrosPerCM = 57

// SonarConfig describes the mount and sensor limits
type SonarConfig struct {
	Front      int // Servo angle that points straight ahead
	MinAngle   int
	MaxAngle   int
	MaxRangeCM int

	Settle       time.Duration // Wait after moving the servo
	PingInterval time.Duration // Wait between median pings
}

// DefaultSonarConfig returns the settings of the stock car
func DefaultSonarConfig() SonarConfig {
	return SonarConfig{
		Front:        93,
		MinAngle:     1,
		MaxAngle:     180,
		MaxRangeCM:   400,
		Settle:       50 * time.Millisecond,
		PingInterval: 29 * time.Millisecond,
	}
}

// Sonar is a Ranger built from a servo and an echo sensor
type Sonar struct {
	mu     sync.Mutex
	servo  ServoDriver
	sensor EchoSensor
	cfg    SonarConfig
	angle  int
	sleep  func(time.Duration)
}

// NewSonar creates a sonar and points it straight ahead
func NewSonar(servo ServoDriver, sensor EchoSensor, cfg SonarConfig) *Sonar {
	s := &Sonar{servo: servo, sensor: sensor, cfg: cfg, sleep: time.Sleep}
	s.point(cfg.Front)
	return s
}

// SetSleep replaces the delay function, for tests and simulation
func (s *Sonar) SetSleep(sleep func(time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleep = sleep
}

// PointAt turns the mount to angle degrees off straight ahead, clamped
// to the servo travel, and waits for it to settle
func (s *Sonar) PointAt(angle int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actual := s.cfg.Front + angle
	if actual < s.cfg.MinAngle {
		actual = s.cfg.MinAngle
	} else if actual > s.cfg.MaxAngle {
		actual = s.cfg.MaxAngle
	}
	s.point(actual)
	s.sleep(s.cfg.Settle)
}

// Angle returns the absolute servo angle last commanded
func (s *Sonar) Angle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

// MeasureDistance returns the distance in centimeters, 0 if nothing is
// within range. With repeats > 1 the median of the in-range pings is
// used.
func (s *Sonar) MeasureDistance(repeats int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if repeats <= 1 {
		return s.toCM(s.ping())
	}

	valid := make([]int, 0, repeats)
	for i := 0; i < repeats; i++ {
		if i > 0 {
			s.sleep(s.cfg.PingInterval)
		}
		if us := s.ping(); us > 0 {
			valid = append(valid, us)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	sort.Ints(valid)
	return s.toCM(valid[(len(valid)-1)/2])
}

// SetMaxRange changes the search distance and returns the previous one.
// Values <= 0 leave it unchanged.
func (s *Sonar) SetMaxRange(cm int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.cfg.MaxRangeCM
	if cm > 0 {
		s.cfg.MaxRangeCM = cm
	}
	return old
}

// MaxRange returns the current search distance in centimeters
func (s *Sonar) MaxRange() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.MaxRangeCM
}

// ping returns the echo time in microseconds, 0 when out of range
func (s *Sonar) ping() int {
	if s.sensor == nil {
		return 0
	}
	us := int(s.sensor.ReadPulse())
	if us <= 0 || us > (s.cfg.MaxRangeCM+1)*MicrosPerCM {
		return 0
	}
	return us
}

func (s *Sonar) toCM(us int) int {
	if us <= 0 {
		return 0
	}
	cm := (us + MicrosPerCM/2) / MicrosPerCM
	if cm < 1 {
		cm = 1
	}
	return cm
}

func (s *Sonar) point(angle int) {
	s.angle = angle
	if s.servo == nil {
		return
	}
	s.servo.SetMicroseconds(int16(ServoMinPulse + angle*(ServoMaxPulse-ServoMinPulse)/180))
}
