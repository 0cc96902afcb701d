package core

import "robotcar/protocol"

// Level is the severity of a log message
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level tag used in log lines
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// LogSink receives log messages from the engine and commands.
// Messages are pre-formatted; the firmware path does not use fmt.
type LogSink interface {
	Log(level Level, msg string)
}

// NopSink discards everything. It is the default sink.
type NopSink struct{}

func (NopSink) Log(Level, string) {}

// DebugWriter is a function type for writing debug lines, such as a
// UART or USB print function provided by platform code
type DebugWriter func(string)

// WriterSink adapts a DebugWriter into a LogSink, dropping messages
// below Min
type WriterSink struct {
	Write DebugWriter
	Min   Level
}

func (s WriterSink) Log(level Level, msg string) {
	if s.Write == nil || level < s.Min {
		return
	}
	s.Write("[" + level.String() + "] " + msg)
}

// EventType codes for the event ring
const (
	EvtFrame     = 1 // Completed frame received
	EvtOverflow  = 2 // Frame exceeded FrameMax
	EvtExecute   = 3 // Command executed
	EvtReject    = 4 // Frame not dispatched
	EvtSendError = 5 // Response could not be written
)

// Event captures one engine event for post-mortem analysis
type Event struct {
	Type  uint8
	Kind  uint8 // protocol.MessageKind of the frame
	ID    int32 // Sender-assigned command id
	Value int32 // Event-dependent value
}

const EventRingSize = 32

// EventRing keeps the last EventRingSize engine events. Recording never
// blocks or allocates.
type EventRing struct {
	events [EventRingSize]Event
	head   uint8
}

// Record stores an event, overwriting the oldest one
func (r *EventRing) Record(evt Event) {
	r.events[r.head] = evt
	r.head = (r.head + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func (r *EventRing) Events() []Event {
	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := r.events[(r.head+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// Dump writes the ring to a sink at level
func (r *EventRing) Dump(sink LogSink, level Level) {
	sink.Log(level, "=== event ring ===")
	for _, evt := range r.Events() {
		var name string
		switch evt.Type {
		case EvtFrame:
			name = "FRAME"
		case EvtOverflow:
			name = "OVERFLOW"
		case EvtExecute:
			name = "EXECUTE"
		case EvtReject:
			name = "REJECT"
		case EvtSendError:
			name = "SEND_ERR!"
		default:
			name = "UNKNOWN"
		}
		sink.Log(level, name+
			" kind="+protocol.Itoa(int(evt.Kind))+
			" id="+protocol.Itoa(int(evt.ID))+
			" v="+protocol.Itoa(int(evt.Value)))
	}
	sink.Log(level, "=== end ===")
}

// Clear empties the ring
func (r *EventRing) Clear() {
	for i := range r.events {
		r.events[i] = Event{}
	}
	r.head = 0
}
