package core

import "io"

// FindRange points the sonar and measures the distance to the nearest
// obstacle. Arguments, all optional: angle, repeat count, max range.
type FindRange struct {
	Message
	sonar Ranger
	log   LogSink
}

// NewFindRange is the CommandConstructor for FR
func NewFindRange(msg Message, hw Hardware, log LogSink) Command {
	if log == nil {
		log = NopSink{}
	}
	return &FindRange{Message: msg, sonar: hw.Sonar, log: log}
}

// Execute replies R:<id>:FR:<distance>:<angle>; where angle is the
// requested angle before any clamping by the mount.
func (c *FindRange) Execute(w io.Writer) error {
	angle := c.IntArg(0, 0)
	repeat := c.IntArg(1, 1)
	maxRange := c.IntArg(2, -1)

	distance := 0
	if c.sonar != nil {
		// New max range persists for later readings
		if maxRange > 0 {
			c.sonar.SetMaxRange(maxRange)
		}
		c.sonar.PointAt(angle)
		distance = c.sonar.MeasureDistance(repeat)
	} else {
		c.log.Log(LevelError, "FR without sonar")
	}

	r := c.respond()
	r.AddInt(distance)
	r.AddInt(angle)
	return r.Send(w)
}
