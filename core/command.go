package core

import (
	"io"
	"sort"
	"sync"

	"robotcar/protocol"
)

// CommandType identifies the operation a command frame requests
type CommandType uint8

const (
	CmdUnknown CommandType = iota
	CmdStopWheels
	CmdTurnWheels
	CmdFindRange
	CmdStatusReport
)

// Code returns the wire code of the command type, or an empty string
// for CmdUnknown
func (t CommandType) Code() string {
	switch t {
	case CmdStopWheels:
		return protocol.StopWheelsCode
	case CmdTurnWheels:
		return protocol.TurnWheelsCode
	case CmdFindRange:
		return protocol.FindRangeCode
	case CmdStatusReport:
		return protocol.StatusReportCode
	}
	return ""
}

func (t CommandType) String() string {
	switch t {
	case CmdStopWheels:
		return "StopWheels"
	case CmdTurnWheels:
		return "TurnWheels"
	case CmdFindRange:
		return "FindRange"
	case CmdStatusReport:
		return "StatusReport"
	}
	return "Unknown"
}

// LookupCommandType resolves a wire code. Unmatched codes give CmdUnknown.
func LookupCommandType(code string) CommandType {
	switch code {
	case protocol.StopWheelsCode:
		return CmdStopWheels
	case protocol.TurnWheelsCode:
		return CmdTurnWheels
	case protocol.FindRangeCode:
		return CmdFindRange
	case protocol.StatusReportCode:
		return CmdStatusReport
	}
	return CmdUnknown
}

// Command is one executable request decoded from a frame
type Command interface {
	ID() int
	Type() CommandType
	Args() []string

	// Execute performs the operation and writes exactly one Response or
	// Error frame to w. The returned error only reports a failed write.
	Execute(w io.Writer) error
}

// Message is the decoded header shared by every command variant.
// Its arguments are owned by the message and never alias frame storage.
type Message struct {
	kind protocol.MessageKind
	id   int
	typ  CommandType
	args []string
}

// NewMessage builds a message header. args is copied.
func NewMessage(kind protocol.MessageKind, id int, typ CommandType, args []string) Message {
	m := Message{kind: kind, id: id, typ: typ}
	if len(args) > 0 {
		m.args = make([]string, len(args))
		copy(m.args, args)
	}
	return m
}

func (m *Message) Kind() protocol.MessageKind { return m.kind }
func (m *Message) ID() int                    { return m.id }
func (m *Message) Type() CommandType          { return m.typ }
func (m *Message) Args() []string             { return m.args }

// NArgs returns the number of argument tokens
func (m *Message) NArgs() int {
	return len(m.args)
}

// IntArg returns argument i parsed leniently, or def if absent
func (m *Message) IntArg(i, def int) int {
	if i < 0 || i >= len(m.args) {
		return def
	}
	return protocol.ParseInt(m.args[i])
}

// respond starts a response addressed to the message's sender
func (m *Message) respond() *protocol.Response {
	r := &protocol.Response{}
	r.StartResponse(m.id, m.typ.Code())
	return r
}

// fail starts an error response addressed to the message's sender
func (m *Message) fail(errCode int) *protocol.Response {
	r := &protocol.Response{}
	r.StartError(m.id, m.typ.Code(), errCode)
	return r
}

// CommandConstructor builds a command variant from a decoded message
type CommandConstructor func(msg Message, hw Hardware, log LogSink) Command

type registryEntry struct {
	typ  CommandType
	ctor CommandConstructor
}

// CommandRegistry maps wire codes to command constructors. A code may be
// declared with a nil constructor; the factory then reports it as not
// implemented.
type CommandRegistry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		entries: make(map[string]registryEntry),
	}
}

// NewDefaultRegistry returns a registry holding the car's command set.
// StatusReport is declared without a constructor.
func NewDefaultRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	r.Register(CmdStopWheels, NewStopWheels)
	r.Register(CmdTurnWheels, NewTurnWheels)
	r.Register(CmdFindRange, NewFindRange)
	r.Register(CmdStatusReport, nil)
	return r
}

// Register binds a constructor to a command type, replacing any
// previous binding. CmdUnknown cannot be registered.
func (r *CommandRegistry) Register(typ CommandType, ctor CommandConstructor) bool {
	code := typ.Code()
	if code == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[code] = registryEntry{typ: typ, ctor: ctor}
	return true
}

// Lookup resolves a wire code. ok is false for undeclared codes; ctor is
// nil for declared but unimplemented ones.
func (r *CommandRegistry) Lookup(code string) (typ CommandType, ctor CommandConstructor, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	if !ok {
		return CmdUnknown, nil, false
	}
	return e.typ, e.ctor, true
}

// Count returns the number of declared command codes
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Codes returns the declared command codes in sorted order
func (r *CommandRegistry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.entries))
	for code := range r.entries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
