package protocol

import (
	"errors"
	"io"
)

var (
	// ErrResponseClosed is returned when a token is added to a response
	// whose terminator has already been written.
	ErrResponseClosed = errors.New("response already closed")

	// ErrResponseEmpty is returned when Send is called before the
	// response was started.
	ErrResponseEmpty = errors.New("response not started")
)

// Response accumulates an outgoing Response or Error frame using the same
// delimiter/terminator grammar as incoming commands.
//
// A Response is Open after StartResponse or StartError and Closed once
// End has appended the terminator. Tokens can only be added while Open.
type Response struct {
	buf  []byte
	open bool
}

// StartResponse begins a Response frame: R:<id>:<cmd>
func (r *Response) StartResponse(id int, cmdCode string) {
	r.start(ResponseCode, id, cmdCode)
}

// StartError begins an Error frame: E:<id>:<cmd>:<code>
func (r *Response) StartError(id int, cmdCode string, errCode int) {
	r.start(ErrorCode, id, cmdCode)
	r.buf = append(r.buf, Delimiter)
	r.buf = AppendInt(r.buf, errCode)
}

func (r *Response) start(kind string, id int, cmdCode string) {
	r.buf = r.buf[:0]
	r.buf = append(r.buf, kind...)
	r.buf = append(r.buf, Delimiter)
	r.buf = AppendInt(r.buf, id)
	r.buf = append(r.buf, Delimiter)
	r.buf = append(r.buf, cmdCode...)
	r.open = true
}

// Add appends a delimiter and value
func (r *Response) Add(value string) error {
	if !r.open {
		return ErrResponseClosed
	}
	r.buf = append(r.buf, Delimiter)
	r.buf = append(r.buf, value...)
	return nil
}

// AddInt appends a delimiter and the decimal form of v
func (r *Response) AddInt(v int) error {
	if !r.open {
		return ErrResponseClosed
	}
	r.buf = append(r.buf, Delimiter)
	r.buf = AppendInt(r.buf, v)
	return nil
}

// End appends the terminator and closes the response.
// Calling End on a closed response does nothing.
func (r *Response) End() {
	if !r.open {
		return
	}
	r.buf = append(r.buf, Terminator)
	r.open = false
}

// IsOpen reports whether tokens may still be added
func (r *Response) IsOpen() bool {
	return r.open
}

// String returns the accumulated frame text
func (r *Response) String() string {
	return string(r.buf)
}

// Bytes returns the accumulated frame
func (r *Response) Bytes() []byte {
	return r.buf
}

// Send closes the response if it is still open and writes it to w in a
// single Write call.
func (r *Response) Send(w io.Writer) error {
	if len(r.buf) == 0 {
		return ErrResponseEmpty
	}
	r.End()
	n, err := w.Write(r.buf)
	if err != nil {
		return err
	}
	if n != len(r.buf) {
		return io.ErrShortWrite
	}
	return nil
}
