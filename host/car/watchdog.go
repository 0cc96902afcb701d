package car

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Watchdog pings the range finder straight ahead while the car moves so
// the proximity guard sees fresh readings
type Watchdog struct {
	car      *Car
	interval time.Duration
	req      RangeRequest
	log      *zap.Logger

	enabled chan bool
}

// NewWatchdog creates a watchdog for car. It starts enabled.
func NewWatchdog(car *Car, interval time.Duration, log *zap.Logger) *Watchdog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watchdog{
		car:      car,
		interval: interval,
		req:      DefaultRangeRequest(),
		log:      log.Named("watchdog"),
		enabled:  make(chan bool, 1),
	}
}

// SetEnabled pauses or resumes pinging; safe from any goroutine
func (w *Watchdog) SetEnabled(on bool) {
	select {
	case <-w.enabled:
	default:
	}
	w.enabled <- on
}

// Check takes one reading if the car is moving. tripped reports whether
// the reading was inside the guard distance.
func (w *Watchdog) Check(ctx context.Context) (reading RangeReading, tripped bool, err error) {
	if !w.car.Moving() {
		return RangeReading{}, false, nil
	}
	before := w.car.Alarms()
	reading, err = w.car.FindRange(ctx, w.req)
	if err != nil {
		return reading, false, err
	}
	return reading, w.car.Alarms() != before, nil
}

// Run checks every interval until ctx is done or the link closes
func (w *Watchdog) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	on := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.car.Done():
			return ErrClosed
		case on = <-w.enabled:
			w.log.Info("watchdog toggled", zap.Bool("enabled", on))
		case <-ticker.C:
			if !on {
				continue
			}
			reading, tripped, err := w.Check(ctx)
			if err != nil {
				if errors.Is(err, ErrClosed) {
					return err
				}
				w.log.Warn("range check failed", zap.Error(err))
				continue
			}
			if tripped {
				w.log.Warn("proximity stop", zap.Int("distance_cm", reading.DistanceCM))
			}
		}
	}
}
