package core

import "robotcar/protocol"

// Factory turns tokenized frames into executable commands
type Factory struct {
	registry *CommandRegistry
	hw       Hardware
	log      LogSink
}

// NewFactory creates a factory dispatching through registry. A nil
// registry selects NewDefaultRegistry and a nil sink discards logs.
func NewFactory(registry *CommandRegistry, hw Hardware, log LogSink) *Factory {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if log == nil {
		log = NopSink{}
	}
	return &Factory{registry: registry, hw: hw, log: log}
}

// Create builds the command described by tokens.
//
// A nil command is always paired with one of ErrMalformed, ErrNotCommand,
// ErrUnknownCommand or ErrNotImplemented. No response is owed to the
// sender in any of those cases. The id token is parsed leniently and
// never causes an error.
func (f *Factory) Create(tokens []string) (Command, error) {
	if len(tokens) < protocol.MinCommandTokens {
		return nil, ErrMalformed
	}

	kind := protocol.Classify(tokens)
	if kind != protocol.KindCommand {
		return nil, ErrNotCommand
	}

	code := tokens[protocol.TokenCommand]
	typ, ctor, ok := f.registry.Lookup(code)
	if !ok {
		f.log.Log(LevelWarn, "unknown command code '"+code+"'")
		return nil, ErrUnknownCommand
	}
	if ctor == nil {
		f.log.Log(LevelWarn, "command "+typ.String()+" not implemented")
		return nil, ErrNotImplemented
	}

	id := protocol.ParseInt(tokens[protocol.TokenID])
	msg := NewMessage(kind, id, typ, tokens[protocol.TokenArgs:])
	return ctor(msg, f.hw, f.log), nil
}
