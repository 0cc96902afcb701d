package core

import (
	"io"

	"robotcar/protocol"
)

// TurnWheels error codes sent in Error frames
const (
	ErrCodeArgCount = 0x0101 // Fewer than two arguments
	ErrCodeOpcode   = 0x0102 // Opcode not 1, 2 or 4
	ErrCodeSideArgs = 0x0103 // Opcode 2 without both side speeds
	ErrCodeEachArgs = 0x0104 // Opcode 4 without all four wheel speeds
)

// TurnWheels opcodes
const (
	OpAllWheels  = 1 // One speed for all wheels
	OpSideWheels = 2 // Left speed, right speed
	OpEachWheel  = 4 // FL, FR, RL, RR
)

// NormalizeSpeed converts a signed speed into a magnitude and direction.
// Negative runs backward, positive forward and zero brakes. The
// magnitude is clamped to MaxSpeed.
func NormalizeSpeed(speed int) (uint8, Direction) {
	dir := Forward
	switch {
	case speed == 0:
		return 0, Brake
	case speed < 0:
		dir = Backward
		if speed < -MaxSpeed {
			return MaxSpeed, dir
		}
		speed = -speed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	return uint8(speed), dir
}

// TurnWheels sets the speed and direction of all four wheels in one
// actuation. Argument 0 is the opcode; the rest are speeds.
type TurnWheels struct {
	Message
	motors Actuator
	log    LogSink

	speeds Speeds
	dirs   Directions

	errCode int
	errMsg  string
}

// NewTurnWheels is the CommandConstructor for TW
func NewTurnWheels(msg Message, hw Hardware, log LogSink) Command {
	if log == nil {
		log = NopSink{}
	}
	return &TurnWheels{Message: msg, motors: hw.Motors, log: log}
}

// Execute validates the arguments, spins the wheels and replies with the
// resulting speeds, or replies with an Error frame and leaves the motors
// untouched.
func (c *TurnWheels) Execute(w io.Writer) error {
	if !c.parse() {
		c.log.Log(LevelWarn, "TW rejected: "+c.errMsg)
		r := c.fail(c.errCode)
		r.Add(c.errMsg)
		return r.Send(w)
	}

	if c.motors != nil {
		c.motors.SpinAll(c.speeds, c.dirs)
	}

	r := c.respond()
	for _, s := range c.speeds {
		r.AddInt(int(s))
	}
	return r.Send(w)
}

// Result returns the normalized speeds and directions. Valid only after
// a successful Execute.
func (c *TurnWheels) Result() (Speeds, Directions) {
	return c.speeds, c.dirs
}

func (c *TurnWheels) parse() bool {
	n := c.NArgs()
	if n < 2 {
		return c.reject(ErrCodeArgCount, "Syntax Error - Number of Arguments = "+protocol.Itoa(n))
	}

	switch op := c.IntArg(0, 0); op {
	case OpAllWheels:
		s := c.IntArg(1, 0)
		c.set(FrontLeft, s)
		c.set(FrontRight, s)
		c.set(RearLeft, s)
		c.set(RearRight, s)
	case OpSideWheels:
		if n < 3 {
			return c.reject(ErrCodeSideArgs, "OpCode 2, # Arguments = "+protocol.Itoa(n)+" instead of 3")
		}
		left, right := c.IntArg(1, 0), c.IntArg(2, 0)
		c.set(FrontLeft, left)
		c.set(FrontRight, right)
		c.set(RearLeft, left)
		c.set(RearRight, right)
	case OpEachWheel:
		if n < 5 {
			return c.reject(ErrCodeEachArgs, "OpCode 4, # Arguments = "+protocol.Itoa(n)+" instead of 5")
		}
		for wheel := FrontLeft; wheel <= RearRight; wheel++ {
			c.set(wheel, c.IntArg(int(wheel)+1, 0))
		}
	default:
		return c.reject(ErrCodeOpcode, "Unknown OpCode["+protocol.Itoa(op)+"]")
	}
	return true
}

func (c *TurnWheels) set(wheel Wheel, speed int) {
	c.speeds[wheel], c.dirs[wheel] = NormalizeSpeed(speed)
}

func (c *TurnWheels) reject(code int, msg string) bool {
	c.errCode = code
	c.errMsg = msg
	return false
}
