package car

import (
	"errors"
	"fmt"

	"robotcar/core"
	"robotcar/protocol"
)

var (
	// ErrNotReply is returned for frames that are not R or E
	ErrNotReply = errors.New("frame is not a reply")

	// ErrShortReply is returned when a reply lacks the fields its command
	// always sends
	ErrShortReply = errors.New("reply has too few fields")
)

// Reply is one R or E frame from the car
type Reply struct {
	Kind   protocol.MessageKind
	ID     int
	Code   string
	Fields []string // Tokens after the command code
}

// ParseReply decodes a tokenized frame
func ParseReply(tokens []string) (Reply, error) {
	if len(tokens) < protocol.MinCommandTokens {
		return Reply{}, ErrShortReply
	}
	kind := protocol.Classify(tokens)
	if kind != protocol.KindResponse && kind != protocol.KindError {
		return Reply{}, fmt.Errorf("%w: kind %q", ErrNotReply, tokens[protocol.TokenKind])
	}

	r := Reply{
		Kind: kind,
		ID:   protocol.ParseInt(tokens[protocol.TokenID]),
		Code: tokens[protocol.TokenCommand],
	}
	if n := len(tokens) - protocol.TokenArgs; n > 0 {
		r.Fields = make([]string, n)
		copy(r.Fields, tokens[protocol.TokenArgs:])
	}
	return r, nil
}

// Err returns a *RemoteError for Error frames and nil otherwise
func (r Reply) Err() error {
	if r.Kind != protocol.KindError {
		return nil
	}
	e := &RemoteError{ID: r.ID, Command: r.Code}
	if len(r.Fields) > 0 {
		e.Code = protocol.ParseInt(r.Fields[0])
	}
	if len(r.Fields) > 1 {
		e.Message = r.Fields[1]
	}
	return e
}

// RemoteError is a validation failure reported by the car
type RemoteError struct {
	ID      int
	Command string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("car rejected %s #%d: 0x%04x %s", e.Command, e.ID, e.Code, e.Message)
}

// RangeReading is the payload of an FR reply
type RangeReading struct {
	DistanceCM int // 0 when nothing is in range
	Angle      int
}

// InRange reports whether an obstacle was detected
func (r RangeReading) InRange() bool {
	return r.DistanceCM > 0
}

// Range decodes an FR reply
func (r Reply) Range() (RangeReading, error) {
	if err := r.Err(); err != nil {
		return RangeReading{}, err
	}
	if len(r.Fields) < 2 {
		return RangeReading{}, ErrShortReply
	}
	return RangeReading{
		DistanceCM: protocol.ParseInt(r.Fields[0]),
		Angle:      protocol.ParseInt(r.Fields[1]),
	}, nil
}

// WheelSpeeds are the clamped speeds a TW reply reports, FL FR RL RR
type WheelSpeeds [core.WheelCount]int

// Moving reports whether any wheel is turning
func (w WheelSpeeds) Moving() bool {
	for _, s := range w {
		if s != 0 {
			return true
		}
	}
	return false
}

// Speeds decodes a TW reply
func (r Reply) Speeds() (WheelSpeeds, error) {
	var w WheelSpeeds
	if err := r.Err(); err != nil {
		return w, err
	}
	if len(r.Fields) < core.WheelCount {
		return w, ErrShortReply
	}
	for i := range w {
		w[i] = protocol.ParseInt(r.Fields[i])
	}
	return w, nil
}
