package protocol

// Frame accumulates incoming bytes until a terminator arrives and splits
// the finished frame into tokens.
//
// A Frame holds at most one message. After Feed reports a completed or
// overflowed frame the caller must Reset before feeding the next byte;
// until then every byte is refused with KindOverflow.
type Frame struct {
	buf    [FrameMax]byte
	pos    int
	full   bool
	tokens []string
}

// NewFrame creates an empty Frame
func NewFrame() *Frame {
	return &Frame{}
}

// Feed appends one byte to the frame.
//
// Returns KindIncomplete while the terminator has not been seen,
// KindOverflow once FrameMax bytes are stored without a terminator, and
// the classified kind of the frame when b is the terminator.
func (f *Frame) Feed(b byte) MessageKind {
	if f.full || f.pos >= FrameMax {
		f.full = true
		return KindOverflow
	}

	f.buf[f.pos] = b
	f.pos++

	if b == Terminator {
		f.parse()
		f.full = true
		return f.Kind()
	}

	return KindIncomplete
}

// Kind returns the kind of the completed frame, or KindIncomplete if no
// terminator has been seen yet. A frame without a single delimiter can
// never carry a command and classifies as KindUnknown.
func (f *Frame) Kind() MessageKind {
	if f.tokens == nil {
		if f.full {
			return KindOverflow
		}
		return KindIncomplete
	}
	if len(f.tokens) < 2 {
		return KindUnknown
	}
	return Classify(f.tokens)
}

// Tokens returns the tokens of the completed frame, or nil if the frame
// is not complete. The slice is owned by the Frame and is discarded on
// Reset; callers that keep tokens must copy them.
func (f *Frame) Tokens() []string {
	return f.tokens
}

// Full reports whether the frame stopped accepting bytes
func (f *Frame) Full() bool {
	return f.full
}

// Len returns the number of bytes stored
func (f *Frame) Len() int {
	return f.pos
}

// Bytes returns the stored bytes including the terminator, if any
func (f *Frame) Bytes() []byte {
	return f.buf[:f.pos]
}

// Reset clears the frame for the next message
func (f *Frame) Reset() {
	for i := range f.buf {
		f.buf[i] = 0
	}
	f.pos = 0
	f.full = false
	f.tokens = nil
}

// parse splits the buffer into tokens. The terminator is always the last
// stored byte when parse runs.
func (f *Frame) parse() {
	n := countTokens(f.buf[:f.pos])
	tokens := make([]string, 0, n)

	start := 0
	for i := 0; i < f.pos; i++ {
		c := f.buf[i]
		if c != Delimiter && c != Terminator {
			continue
		}
		tokens = append(tokens, string(f.buf[start:i]))
		if len(tokens) == n {
			break
		}
		start = i + 1
	}

	f.tokens = tokens
}

// countTokens returns the number of delimiters before the first
// terminator plus one
func countTokens(data []byte) int {
	n := 1
	for _, c := range data {
		if c == Terminator {
			break
		}
		if c == Delimiter {
			n++
		}
	}
	return n
}

// Split tokenizes a complete frame held in a string. It is a convenience
// for callers that already have the whole frame, such as tests and the
// host tools. ok is false if s does not end in a terminator or does not
// fit in a Frame.
func Split(s string) (tokens []string, kind MessageKind, ok bool) {
	var f Frame
	kind = KindIncomplete
	for i := 0; i < len(s); i++ {
		kind = f.Feed(s[i])
		if kind != KindIncomplete {
			if i != len(s)-1 || kind == KindOverflow {
				return nil, kind, false
			}
			break
		}
	}
	if !f.full {
		return nil, kind, false
	}
	return f.tokens, kind, true
}
