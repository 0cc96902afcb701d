package protocol

// MessageKind classifies a frame by purpose (Command, Response, Error) or
// reports a transient parser state (Incomplete, Overflow). Unknown covers
// completed frames whose kind token did not match.
type MessageKind uint8

const (
	KindCommand MessageKind = iota
	KindResponse
	KindError
	KindIncomplete
	KindOverflow
	KindUnknown
)

// String returns a readable name for logs
func (k MessageKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindResponse:
		return "response"
	case KindError:
		return "error"
	case KindIncomplete:
		return "incomplete"
	case KindOverflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Code returns the wire code for Command, Response and Error kinds, and
// an empty string for parser states.
func (k MessageKind) Code() string {
	switch k {
	case KindCommand:
		return CommandCode
	case KindResponse:
		return ResponseCode
	case KindError:
		return ErrorCode
	}
	return ""
}

// Complete reports whether the kind describes a finished frame
func (k MessageKind) Complete() bool {
	return k != KindIncomplete && k != KindOverflow
}

// Classify returns the message kind of a tokenized frame.
// Only token 0 is inspected.
func Classify(tokens []string) MessageKind {
	if len(tokens) == 0 {
		return KindUnknown
	}
	return ClassifyCode(tokens[TokenKind])
}

// ClassifyCode classifies a bare kind code
func ClassifyCode(code string) MessageKind {
	switch code {
	case CommandCode:
		return KindCommand
	case ResponseCode:
		return KindResponse
	case ErrorCode:
		return KindError
	}
	return KindUnknown
}
