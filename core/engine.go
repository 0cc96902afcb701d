package core

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"robotcar/protocol"
)

// ErrCodeFault is sent in place of a reply when a command panics while
// executing
const ErrCodeFault = 0x0100

// Stats counts engine activity since construction
type Stats struct {
	Frames    uint32 // Completed frames
	Commands  uint32 // Commands executed
	Overflows uint32 // Frames dropped for exceeding FrameMax
	Rejected  uint32 // Completed frames that produced no command
	Panics    uint32 // Recovered panics during dispatch
}

// Engine feeds inbound bytes through the frame tokenizer, builds commands
// with the factory and executes them against the hardware, writing
// replies to out. It is not safe for concurrent Feed calls.
type Engine struct {
	frame   *protocol.Frame
	factory *Factory
	out     io.Writer
	log     LogSink
	events  EventRing

	frames    atomic.Uint32
	commands  atomic.Uint32
	overflows atomic.Uint32
	rejected  atomic.Uint32
	panics    atomic.Uint32

	// Set after an overflow; bytes are discarded until the next terminator
	resync bool
}

// EngineOption configures an Engine
type EngineOption func(*engineConfig)

type engineConfig struct {
	log      LogSink
	registry *CommandRegistry
}

// WithLogSink routes engine and command logs to sink
func WithLogSink(sink LogSink) EngineOption {
	return func(c *engineConfig) { c.log = sink }
}

// WithRegistry replaces the default command set
func WithRegistry(r *CommandRegistry) EngineOption {
	return func(c *engineConfig) { c.registry = r }
}

// NewEngine creates an engine writing replies to out
func NewEngine(hw Hardware, out io.Writer, opts ...EngineOption) *Engine {
	cfg := engineConfig{log: NopSink{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = NopSink{}
	}
	if err := hw.Validate(); err != nil {
		cfg.log.Log(LevelWarn, "hardware incomplete: "+err.Error())
	}

	return &Engine{
		frame:   protocol.NewFrame(),
		factory: NewFactory(cfg.registry, hw, cfg.log),
		out:     out,
		log:     cfg.log,
	}
}

// Announce writes the Ready banner the host waits for after opening the
// port
func (e *Engine) Announce() error {
	_, err := io.WriteString(e.out, protocol.ReadyBanner)
	return err
}

// Feed processes one inbound byte and returns the frame state it
// produced. Completed and overflowed frames are reset before Feed
// returns, so the next byte always starts fresh.
func (e *Engine) Feed(b byte) protocol.MessageKind {
	if e.resync {
		if b == protocol.Terminator {
			e.resync = false
		}
		return protocol.KindIncomplete
	}

	kind := e.frame.Feed(b)
	switch kind {
	case protocol.KindIncomplete:
		return kind
	case protocol.KindOverflow:
		e.overflows.Add(1)
		e.events.Record(Event{Type: EvtOverflow, Kind: uint8(kind), Value: int32(e.frame.Len())})
		e.log.Log(LevelWarn, "frame overflow, discarding until terminator")
		e.frame.Reset()
		e.resync = b != protocol.Terminator
		return kind
	}

	e.frames.Add(1)
	e.dispatch(kind, e.frame.Tokens())
	e.frame.Reset()
	return kind
}

// dispatch executes the command held by tokens, if any. A panic inside a
// command is recovered so the engine keeps accepting input, and the
// sender still gets an Error frame for its id.
func (e *Engine) dispatch(kind protocol.MessageKind, tokens []string) {
	var cmd Command
	defer func() {
		if r := recover(); r != nil {
			e.panics.Add(1)
			e.log.Log(LevelError, "panic during dispatch")
			if cmd != nil {
				e.fault(cmd)
			}
			e.events.Dump(e.log, LevelError)
			e.events.Clear()
		}
	}()

	var err error
	cmd, err = e.factory.Create(tokens)
	if err != nil {
		e.rejected.Add(1)
		e.events.Record(Event{Type: EvtReject, Kind: uint8(kind), ID: int32(protocol.ParseInt(tokenAt(tokens, protocol.TokenID)))})
		e.log.Log(LevelDebug, "frame rejected ("+kind.String()+"): "+err.Error())
		return
	}

	e.events.Record(Event{Type: EvtFrame, Kind: uint8(kind), ID: int32(cmd.ID()), Value: int32(cmd.Type())})
	if err := cmd.Execute(e.out); err != nil {
		e.events.Record(Event{Type: EvtSendError, Kind: uint8(kind), ID: int32(cmd.ID())})
		e.log.Log(LevelError, "reply to "+protocol.Itoa(cmd.ID())+" failed: "+err.Error())
	}
	e.commands.Add(1)
	e.events.Record(Event{Type: EvtExecute, Kind: uint8(kind), ID: int32(cmd.ID()), Value: int32(cmd.Type())})
}

// fault replies E:<id>:<cmd>:ErrCodeFault for a command that panicked.
// A second panic from the writer is swallowed.
func (e *Engine) fault(cmd Command) {
	defer func() {
		if recover() != nil {
			e.events.Record(Event{Type: EvtSendError, Kind: uint8(protocol.KindCommand), ID: int32(cmd.ID())})
		}
	}()

	var r protocol.Response
	r.StartError(cmd.ID(), cmd.Type().Code(), ErrCodeFault)
	r.Add("Command Fault")
	if err := r.Send(e.out); err != nil {
		e.events.Record(Event{Type: EvtSendError, Kind: uint8(protocol.KindCommand), ID: int32(cmd.ID())})
	}
}

// Drain feeds every byte r yields until it errors and returns the
// number of completed frames
func (e *Engine) Drain(r io.ByteReader) int {
	n := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return n
		}
		if e.Feed(b).Complete() {
			n++
		}
	}
}

// Run feeds bytes from r until the reader fails or ctx is cancelled.
// A clean end of input returns nil. Cancellation is checked between
// bytes; a blocked ReadByte is not interrupted.
func (e *Engine) Run(ctx context.Context, r io.ByteReader) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		e.Feed(b)
	}
}

// Stats returns a snapshot of the engine counters. It may be called
// from any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		Frames:    e.frames.Load(),
		Commands:  e.commands.Load(),
		Overflows: e.overflows.Load(),
		Rejected:  e.rejected.Load(),
		Panics:    e.panics.Load(),
	}
}

// Events returns the event ring for post-mortem dumps
func (e *Engine) Events() *EventRing {
	return &e.events
}

func tokenAt(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}
