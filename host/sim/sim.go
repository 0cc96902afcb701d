// Package sim runs the car's command engine in-process against simulated
// motors and sonar, so the host tool can be exercised without hardware.
package sim

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"robotcar/core"
)

// Config seeds the simulated world
type Config struct {
	DistanceCM int // Obstacle distance the sonar reports
	Announce   bool
}

// DefaultConfig puts an obstacle well out of the way
func DefaultConfig() Config {
	return Config{DistanceCM: 120, Announce: true}
}

// Vehicle is a simulated car
type Vehicle struct {
	cfg    Config
	engine *core.Engine
	motors *core.Motors
	sonar  *core.Sonar
	echo   *echo

	host net.Conn
	car  net.Conn

	runErr  atomic.Value
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	closeMu sync.Once
}

// New builds a vehicle. Call Start to begin processing.
func New(cfg Config, log core.LogSink) *Vehicle {
	host, carEnd := net.Pipe()

	var wheels [core.WheelCount]core.MotorDriver
	for i := range wheels {
		wheels[i] = &motor{}
	}
	e := &echo{}
	e.SetDistance(cfg.DistanceCM)

	sonar := core.NewSonar(servo{}, e, core.DefaultSonarConfig())
	sonar.SetSleep(func(time.Duration) {})
	motors := core.NewMotors(wheels[0], wheels[1], wheels[2], wheels[3])

	hw := core.Hardware{Motors: motors, Sonar: sonar}
	return &Vehicle{
		cfg:    cfg,
		engine: core.NewEngine(hw, carEnd, core.WithLogSink(log)),
		motors: motors,
		sonar:  sonar,
		echo:   e,
		host:   host,
		car:    carEnd,
	}
}

// Conn returns the controller's end of the link
func (v *Vehicle) Conn() io.ReadWriteCloser {
	return v.host
}

// Start announces the vehicle and runs the engine until ctx is done or
// Close is called
func (v *Vehicle) Start(ctx context.Context) {
	ctx, v.cancel = context.WithCancel(ctx)
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		if v.cfg.Announce {
			if err := v.engine.Announce(); err != nil {
				return
			}
		}
		err := v.engine.Run(ctx, bufio.NewReader(v.car))
		if err != nil && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, context.Canceled) {
			v.runErr.Store(err)
		}
	}()
	go func() {
		<-ctx.Done()
		v.car.Close()
	}()
}

// Close stops the engine and closes both ends of the link
func (v *Vehicle) Close() error {
	v.closeMu.Do(func() {
		if v.cancel != nil {
			v.cancel()
		}
		v.car.Close()
		v.host.Close()
	})
	v.wg.Wait()
	return nil
}

// Err returns the error that stopped the engine, if it was not a normal
// shutdown
func (v *Vehicle) Err() error {
	err, _ := v.runErr.Load().(error)
	return err
}

// SetDistance moves the simulated obstacle
func (v *Vehicle) SetDistance(cm int) {
	v.echo.SetDistance(cm)
}

// Motors returns the last commanded speeds and directions
func (v *Vehicle) Motors() (core.Speeds, core.Directions) {
	return v.motors.State()
}

// SonarAngle returns the absolute servo angle
func (v *Vehicle) SonarAngle() int {
	return v.sonar.Angle()
}

// MaxRange returns the sonar's current search distance
func (v *Vehicle) MaxRange() int {
	return v.sonar.MaxRange()
}

// Pings returns how many pings the sonar has fired
func (v *Vehicle) Pings() int {
	return int(v.echo.pings.Load())
}

// Stats returns the engine counters
func (v *Vehicle) Stats() core.Stats {
	return v.engine.Stats()
}

type motor struct{}

func (*motor) Run(core.Direction) {}
func (*motor) SetSpeed(uint8)     {}

type servo struct{}

func (servo) SetMicroseconds(int16) {}

// echo reports a fixed obstacle distance as an echo pulse width
type echo struct {
	cm    atomic.Int32
	pings atomic.Int32
}

func (e *echo) SetDistance(cm int) {
	e.cm.Store(int32(cm))
}

func (e *echo) ReadPulse() int32 {
	e.pings.Add(1)
	cm := e.cm.Load()
	if cm <= 0 {
		return 0
	}
	return cm * core.MicrosPerCM
}
