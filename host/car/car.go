// Package car is the controller side of the robot car link. It encodes
// commands, matches replies to requests by id and guards against driving
// into obstacles.
package car

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"robotcar/protocol"
)

var (
	// ErrTimeout is returned when no reply arrives in time
	ErrTimeout = errors.New("timed out waiting for reply")

	// ErrClosed is returned once the link's reader has stopped
	ErrClosed = errors.New("car link closed")
)

// MinRange is the closest an obstacle may be while moving before the
// car is stopped, in centimeters
const MinRange = 10

// maxID keeps ids short on the wire
const maxID = 9999

// Car talks to one vehicle over a byte stream
type Car struct {
	rw      io.ReadWriter
	log     *zap.Logger
	session uuid.UUID
	timeout time.Duration
	guardCM int

	wmu sync.Mutex
	bag *mailbag
	seq atomic.Int32

	moving   atomic.Bool
	alarms   atomic.Uint32
	ready    chan struct{}
	readyOne sync.Once
	done     chan struct{}
	err      error

	onReply func(Reply)
}

// Option configures a Car
type Option func(*Car)

// WithLogger sets the logger; the session id is attached to every line
func WithLogger(l *zap.Logger) Option {
	return func(c *Car) { c.log = l }
}

// WithReplyTimeout bounds the wait for each reply
func WithReplyTimeout(d time.Duration) Option {
	return func(c *Car) { c.timeout = d }
}

// WithMinRange sets the proximity guard distance. 0 disables the guard.
func WithMinRange(cm int) Option {
	return func(c *Car) { c.guardCM = cm }
}

// WithSession overrides the generated session id
func WithSession(id uuid.UUID) Option {
	return func(c *Car) { c.session = id }
}

// WithReplyHook is called from the reader for every reply, including
// ones nobody waits for
func WithReplyHook(fn func(Reply)) Option {
	return func(c *Car) { c.onReply = fn }
}

// New starts reading replies from rw. The reader stops when rw returns
// an error; close rw to release it.
func New(rw io.ReadWriter, opts ...Option) *Car {
	c := &Car{
		rw:      rw,
		log:     zap.NewNop(),
		session: uuid.New(),
		timeout: 2 * time.Second,
		guardCM: MinRange,
		bag:     newMailbag(),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("car").With(zap.String("session", c.session.String()))

	go c.readLoop()
	return c
}

// Session returns the id tagging this connection's logs
func (c *Car) Session() uuid.UUID {
	return c.session
}

// Handshake waits for the car's Ready banner
func (c *Car) Handshake(ctx context.Context) error {
	select {
	case <-c.ready:
		c.log.Info("car ready")
		return nil
	case <-c.done:
		return c.closedErr()
	case <-ctx.Done():
		return fmt.Errorf("handshake: %w", ctx.Err())
	}
}

// Ready is closed once the banner has been seen
func (c *Car) Ready() <-chan struct{} {
	return c.ready
}

// Done is closed when the reader stops
func (c *Car) Done() <-chan struct{} {
	return c.done
}

// Err returns why the reader stopped, nil while it runs or after a clean
// end of stream
func (c *Car) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Moving reports whether the last drive command left any wheel turning
func (c *Car) Moving() bool {
	return c.moving.Load()
}

// Alarms counts proximity stops since New
func (c *Car) Alarms() uint32 {
	return c.alarms.Load()
}

// Stop brakes all wheels and waits for the acknowledgement
func (c *Car) Stop(ctx context.Context) error {
	_, err := c.roundTrip(ctx, StopFrame)
	if err == nil {
		c.moving.Store(false)
	}
	return err
}

// EmergencyStop sends a stop without waiting for a reply or for earlier
// requests to be answered
func (c *Car) EmergencyStop() error {
	c.moving.Store(false)
	return c.write(StopFrame(c.nextID()))
}

// Drive runs every wheel at speed; negative is reverse
func (c *Car) Drive(ctx context.Context, speed int) (WheelSpeeds, error) {
	return c.spin(ctx, func(id int) string { return DriveFrame(id, speed) })
}

// Turn runs the left and right sides at different speeds
func (c *Car) Turn(ctx context.Context, left, right int) (WheelSpeeds, error) {
	return c.spin(ctx, func(id int) string { return TurnFrame(id, left, right) })
}

// Wheels sets each wheel, FL FR RL RR
func (c *Car) Wheels(ctx context.Context, speeds [4]int) (WheelSpeeds, error) {
	return c.spin(ctx, func(id int) string { return WheelsFrame(id, speeds) })
}

// FindRange measures the distance at the requested angle
func (c *Car) FindRange(ctx context.Context, req RangeRequest) (RangeReading, error) {
	r, err := c.roundTrip(ctx, func(id int) string { return RangeFrame(id, req) })
	if err != nil {
		return RangeReading{}, err
	}
	return r.Range()
}

// Raw sends frame with its id replaced by a fresh one and returns the
// reply. frame must be a complete command such as "C:0:SW;".
func (c *Car) Raw(ctx context.Context, frame string) (Reply, error) {
	tokens, kind, ok := protocol.Split(frame)
	if !ok || kind != protocol.KindCommand || len(tokens) < protocol.MinCommandTokens {
		return Reply{}, fmt.Errorf("raw: not a command frame: %q", frame)
	}
	r, err := c.roundTrip(ctx, func(id int) string {
		tokens[protocol.TokenID] = protocol.Itoa(id)
		return strings.Join(tokens, string(protocol.Delimiter)) + string(protocol.Terminator)
	})
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			return r, nil
		}
	}
	return r, err
}

func (c *Car) spin(ctx context.Context, frame func(id int) string) (WheelSpeeds, error) {
	r, err := c.roundTrip(ctx, frame)
	if err != nil {
		return WheelSpeeds{}, err
	}
	speeds, err := r.Speeds()
	if err != nil {
		return WheelSpeeds{}, err
	}
	c.moving.Store(speeds.Moving())
	return speeds, nil
}

// roundTrip writes one frame and waits for the reply carrying its id.
// Error frames are returned as *RemoteError along with the reply.
func (c *Car) roundTrip(ctx context.Context, frame func(id int) string) (Reply, error) {
	id := c.nextID()
	ch := c.bag.expect(id)
	defer c.bag.cancel(id)

	if err := c.write(frame(id)); err != nil {
		return Reply{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case r := <-ch:
		return r, r.Err()
	case <-c.done:
		return Reply{}, c.closedErr()
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Reply{}, fmt.Errorf("%w: id %d", ErrTimeout, id)
		}
		return Reply{}, ctx.Err()
	}
}

func (c *Car) write(frame string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.log.Debug("send", zap.String("frame", frame))
	if _, err := io.WriteString(c.rw, frame); err != nil {
		return fmt.Errorf("write %q: %w", frame, err)
	}
	return nil
}

func (c *Car) nextID() int {
	for {
		old := c.seq.Load()
		next := old%maxID + 1
		if c.seq.CompareAndSwap(old, next) {
			return int(next)
		}
	}
}

func (c *Car) closedErr() error {
	if c.err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, c.err)
	}
	return ErrClosed
}

// readLoop splits the inbound stream into frames. Line breaks are not
// part of the grammar; a line holding only the banner marks the car
// ready, any other unterminated line is dropped. The rest of an
// oversized frame is skipped up to its terminator.
func (c *Car) readLoop() {
	defer close(c.done)

	br := bufio.NewReader(c.rw)
	frame := protocol.NewFrame()
	// Set after an overflow; bytes are discarded until the next terminator
	resync := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) {
				c.err = err
			}
			c.log.Debug("reader stopped", zap.Error(err))
			return
		}

		if resync {
			resync = b != protocol.Terminator
			continue
		}

		if b == '\r' || b == '\n' {
			if b == '\n' && frame.Len() > 0 {
				if string(frame.Bytes()) == strings.TrimSpace(protocol.ReadyBanner) {
					c.readyOne.Do(func() { close(c.ready) })
				} else {
					c.log.Debug("dropping unterminated line", zap.ByteString("line", frame.Bytes()))
				}
				frame.Reset()
			}
			continue
		}

		kind := frame.Feed(b)
		switch kind {
		case protocol.KindIncomplete:
			continue
		case protocol.KindOverflow:
			c.log.Warn("inbound frame overflow, discarding until terminator")
			frame.Reset()
			resync = b != protocol.Terminator
			continue
		}

		reply, err := ParseReply(frame.Tokens())
		frame.Reset()
		if err != nil {
			c.log.Debug("ignoring frame", zap.Error(err))
			continue
		}
		c.handle(reply)
	}
}

func (c *Car) handle(r Reply) {
	c.log.Debug("recv", zap.String("kind", r.Kind.String()), zap.Int("id", r.ID), zap.String("code", r.Code))

	if r.Code == protocol.FindRangeCode {
		c.guard(r)
	}
	if c.onReply != nil {
		c.onReply(r)
	}
	if !c.bag.deliver(r) {
		c.log.Debug("unsolicited reply", zap.Int("id", r.ID))
	}
}

// guard stops the car when a range reading shows an obstacle too close
// while moving
func (c *Car) guard(r Reply) {
	if c.guardCM <= 0 || !c.moving.Load() {
		return
	}
	reading, err := r.Range()
	if err != nil || !reading.InRange() || reading.DistanceCM > c.guardCM {
		return
	}

	c.moving.Store(false)
	c.alarms.Add(1)
	c.log.Warn("obstacle too close, stopping",
		zap.Int("distance_cm", reading.DistanceCM),
		zap.Int("angle", reading.Angle))
	// Off the reader goroutine: a blocked write must not stall reading
	go func() {
		if err := c.EmergencyStop(); err != nil {
			c.log.Error("emergency stop failed", zap.Error(err))
		}
	}()
}
