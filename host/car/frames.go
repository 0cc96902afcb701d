package car

import (
	"robotcar/core"
	"robotcar/protocol"
)

// Limits the controller enforces before anything goes on the wire
const (
	MaxRangeCM  = 400
	MaxAngle    = 90
	MinAttempts = 1
	MaxAttempts = 8
)

// RangeRequest is one FindRange query
type RangeRequest struct {
	RangeCM  int // Maximum search distance
	Angle    int // Degrees off straight ahead, negative is left
	Attempts int // Pings to take the median of
}

// DefaultRangeRequest looks straight ahead as far as the sensor reaches
func DefaultRangeRequest() RangeRequest {
	return RangeRequest{RangeCM: MaxRangeCM, Angle: 0, Attempts: 4}
}

// Normalize clamps the request into the ranges the car accepts
func (r RangeRequest) Normalize() RangeRequest {
	r.RangeCM = clamp(r.RangeCM, 0, MaxRangeCM)
	r.Angle = clamp(r.Angle, -MaxAngle, MaxAngle)
	r.Attempts = clamp(r.Attempts, MinAttempts, MaxAttempts)
	return r
}

// StopFrame encodes C:<id>:SW;
func StopFrame(id int) string {
	return encode(id, protocol.StopWheelsCode)
}

// DriveFrame sets every wheel to the same signed speed (opcode 1)
func DriveFrame(id, speed int) string {
	return encode(id, protocol.TurnWheelsCode, core.OpAllWheels, clampSpeed(speed))
}

// TurnFrame drives the left and right sides at different speeds. It is
// sent as opcode 4 with the wheels in FL, FR, RL, RR order.
func TurnFrame(id, left, right int) string {
	left, right = clampSpeed(left), clampSpeed(right)
	return encode(id, protocol.TurnWheelsCode, core.OpEachWheel, left, right, left, right)
}

// WheelsFrame sets each wheel independently, FL, FR, RL, RR
func WheelsFrame(id int, speeds [core.WheelCount]int) string {
	return encode(id, protocol.TurnWheelsCode, core.OpEachWheel,
		clampSpeed(speeds[core.FrontLeft]), clampSpeed(speeds[core.FrontRight]),
		clampSpeed(speeds[core.RearLeft]), clampSpeed(speeds[core.RearRight]))
}

// RangeFrame encodes C:<id>:FR:<angle>:<attempts>:<range>; after
// normalizing req
func RangeFrame(id int, req RangeRequest) string {
	req = req.Normalize()
	return encode(id, protocol.FindRangeCode, req.Angle, req.Attempts, req.RangeCM)
}

func encode(id int, code string, args ...int) string {
	buf := make([]byte, 0, protocol.FrameMax)
	buf = append(buf, protocol.CommandCode...)
	buf = append(buf, protocol.Delimiter)
	buf = protocol.AppendInt(buf, id)
	buf = append(buf, protocol.Delimiter)
	buf = append(buf, code...)
	for _, a := range args {
		buf = append(buf, protocol.Delimiter)
		buf = protocol.AppendInt(buf, a)
	}
	buf = append(buf, protocol.Terminator)
	return string(buf)
}

func clampSpeed(s int) int {
	return clamp(s, -core.MaxSpeed, core.MaxSpeed)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
