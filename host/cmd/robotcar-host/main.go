package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"robotcar/host/car"
	"robotcar/host/config"
	"robotcar/host/logging"
	"robotcar/host/serial"
	"robotcar/host/sim"
	"robotcar/protocol"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	device     = flag.String("device", "", "Serial device path (empty: discover)")
	baud       = flag.Int("baud", 0, "Baud rate (default from config, 9600)")
	useSim     = flag.Bool("sim", false, "Drive a simulated car instead of hardware")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("robotcar-host failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadConfig overlays flags on the config file on defaults
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}
	if *debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	session := uuid.New()

	link, name, probed, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer link.Close()
	logger.Info("connected", zap.String("device", name), zap.String("session", session.String()))

	c := car.New(link,
		car.WithLogger(logger),
		car.WithSession(session),
		car.WithReplyTimeout(cfg.ReplyTimeout),
		car.WithMinRange(cfg.Watchdog.MinRangeCM))

	if !probed {
		if err := handshake(ctx, c, cfg.HandshakeTimeout); err != nil {
			return err
		}
	}

	sh := &shell{car: c, out: os.Stdout}
	if cfg.Watchdog.Enabled {
		sh.watchdog = car.NewWatchdog(c, cfg.Watchdog.Interval, logger)
		go func() {
			if err := sh.watchdog.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("watchdog stopped", zap.Error(err))
			}
		}()
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ReplyTimeout)
		defer cancel()
		if err := c.Stop(stopCtx); err != nil {
			logger.Warn("final stop failed", zap.Error(err))
		}
	}()

	return repl(ctx, sh, cfg.HistoryFile)
}

// connect opens the simulator, the configured device, or the first port
// that answers a probe. probed is true when the car already answered.
func connect(ctx context.Context, cfg config.Config, logger *zap.Logger) (link io.ReadWriteCloser, name string, probed bool, err error) {
	if *useSim {
		simCfg := sim.DefaultConfig()
		simCfg.DistanceCM = cfg.Sim.DistanceCM
		v := sim.New(simCfg, logging.NewCoreSink(logger))
		v.Start(ctx)
		return simLink{v.Conn(), v}, "simulator", false, nil
	}

	tmpl := serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: int(cfg.ReadTimeout / time.Millisecond),
	}
	if cfg.Device != "" {
		port, err := serial.Open(&tmpl)
		if err != nil {
			return nil, "", false, err
		}
		if err := port.Flush(); err != nil {
			logger.Warn("flush failed", zap.Error(err))
		}
		return port, cfg.Device, false, nil
	}

	probe := func(ctx context.Context, p serial.Port) error {
		ctx, cancel := context.WithTimeout(ctx, cfg.HandshakeTimeout)
		defer cancel()
		return probeCar(ctx, p)
	}
	d := serial.NewDiscoverer(tmpl, probe, logger)
	port, name, err := d.Discover(ctx)
	if err != nil {
		return nil, "", false, fmt.Errorf("discover: %w", err)
	}
	return port, name, true, nil
}

// simLink closes the whole simulated vehicle with the link
type simLink struct {
	io.ReadWriteCloser
	v *sim.Vehicle
}

func (l simLink) Close() error {
	return l.v.Close()
}

// probeCar sends a stop and waits for the car to acknowledge it or to
// announce itself. It reads the port directly so no reader goroutine
// outlives the probe.
func probeCar(ctx context.Context, p serial.Port) error {
	if _, err := io.WriteString(p, car.StopFrame(0)); err != nil {
		return err
	}
	seen := make([]byte, 0, 64)
	buf := make([]byte, 32)
	for ctx.Err() == nil {
		n, err := p.Read(buf)
		if err != nil && err != io.EOF {
			return err
		}
		seen = append(seen, buf[:n]...)
		if strings.Contains(string(seen), "Ready") || strings.Contains(string(seen), "R:0:SW;") {
			return nil
		}
		if len(seen) > 256 {
			seen = append(seen[:0], seen[len(seen)-16:]...)
		}
	}
	return ctx.Err()
}

// handshake waits for the banner. A car that booted before the port was
// opened has already sent it, so fall back to a stop as a liveness probe.
func handshake(ctx context.Context, c *car.Car, timeout time.Duration) error {
	hctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Handshake(hctx); err == nil {
		return nil
	} else if errors.Is(err, car.ErrClosed) {
		return err
	}

	if err := c.Stop(ctx); err != nil {
		return fmt.Errorf("car not responding: %w", err)
	}
	return nil
}

func repl(ctx context.Context, sh *shell, historyFile string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Printf("robotcar %s - type \"help\" for commands, Ctrl-D to quit.\n", protocol.Version)
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := line.Prompt("car> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		err = sh.run(ctx, input)
		if errors.Is(err, errQuit) {
			return nil
		}
		if errors.Is(err, car.ErrClosed) || serial.IsDisconnect(err) {
			return err
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}
