package core

//go:generate go tool mockgen -source=hal.go -destination=coretest/mock_hal.go -package=coretest

// Direction is the drive direction of one wheel motor
type Direction uint8

const (
	Release Direction = iota // Motor unpowered, free wheeling
	Forward
	Backward
	Brake
)

// String returns a readable name for logs
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Brake:
		return "brake"
	default:
		return "release"
	}
}

// Wheel indexes the four drive motors
type Wheel int

const (
	FrontLeft Wheel = iota
	FrontRight
	RearLeft
	RearRight

	WheelCount = 4
)

// MaxSpeed is the largest speed a wheel can be commanded to
const MaxSpeed = 255

// Speeds holds one speed per wheel, in Wheel order
type Speeds [WheelCount]uint8

// Directions holds one direction per wheel, in Wheel order
type Directions [WheelCount]Direction

// Actuator is the aggregate of all drive motors.
// Platform code implements it; commands only see this interface.
type Actuator interface {
	// StopAll brakes every wheel
	StopAll()

	// SpinAll commands all four wheels together so motion stays
	// synchronized. Speeds are already clamped to MaxSpeed.
	SpinAll(speeds Speeds, dirs Directions)
}

// Ranger is the distance sensor on its pivoting mount
type Ranger interface {
	// PointAt turns the sensor to angle degrees relative to straight
	// ahead. The ranger clamps to its travel limits and waits for the
	// mount to settle before returning.
	PointAt(angle int)

	// MeasureDistance takes one reading, or the median of repeats
	// readings, and returns centimeters. 0 means no echo in range.
	MeasureDistance(repeats int) int

	// SetMaxRange changes the maximum search distance and returns the
	// previous one. Values <= 0 are ignored.
	SetMaxRange(cm int) int
}

// Hardware is the set of capabilities handed to every command
type Hardware struct {
	Motors Actuator
	Sonar  Ranger
}

// Validate checks that every capability is present
func (h Hardware) Validate() error {
	if h.Motors == nil {
		return ErrNoMotors
	}
	if h.Sonar == nil {
		return ErrNoSonar
	}
	return nil
}
