package serial

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	bugst "go.bug.st/serial"
	"go.uber.org/zap"
)

// ErrNoDevice is returned when no port answered the probe
var ErrNoDevice = errors.New("no responding device found")

// ProbeFunc checks whether the device on an open port is the car.
// It must honor ctx.
type ProbeFunc func(ctx context.Context, p Port) error

// Discoverer scans the system's serial ports for the car
type Discoverer struct {
	// Template is copied for every candidate; Device is overwritten
	Template Config
	Probe    ProbeFunc
	Log      *zap.Logger

	list func() ([]string, error)
	open func(*Config) (Port, error)
}

// NewDiscoverer creates a discoverer using the system port list
func NewDiscoverer(template Config, probe ProbeFunc, log *zap.Logger) *Discoverer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Discoverer{
		Template: template,
		Probe:    probe,
		Log:      log,
		list:     bugst.GetPortsList,
		open:     Open,
	}
}

// Candidates returns the ports worth probing, USB ACM/serial adapters
// first
func (d *Discoverer) Candidates() ([]string, error) {
	ports, err := d.list()
	if err != nil {
		var portErr *bugst.PortError
		if errors.As(err, &portErr) && portErr.Code() == bugst.ErrorEnumeratingPorts {
			return nil, fmt.Errorf("enumerating ports: %w", err)
		}
		return nil, err
	}

	sort.SliceStable(ports, func(i, j int) bool {
		return usbRank(ports[i]) < usbRank(ports[j])
	})
	return ports, nil
}

// Discover probes each candidate in turn and returns the first port that
// answers, left open. The caller owns the returned port.
func (d *Discoverer) Discover(ctx context.Context) (Port, string, error) {
	ports, err := d.Candidates()
	if err != nil {
		return nil, "", err
	}

	for _, name := range ports {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		cfg := d.Template
		cfg.Device = name
		port, err := d.open(&cfg)
		if err != nil {
			d.Log.Debug("skipping port", zap.String("port", name), zap.Error(err))
			continue
		}

		if err := d.Probe(ctx, port); err != nil {
			d.Log.Debug("probe failed", zap.String("port", name), zap.Error(err))
			port.Close()
			continue
		}

		d.Log.Info("found car", zap.String("port", name))
		return port, name, nil
	}
	return nil, "", ErrNoDevice
}

// IsDisconnect reports whether err means the device went away
func IsDisconnect(err error) bool {
	if err == nil {
		return false
	}
	var portErr *bugst.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case bugst.PortNotFound, bugst.PortClosed, bugst.InvalidSerialPort:
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "input/output error") ||
		strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "broken pipe")
}

func usbRank(name string) int {
	switch {
	case strings.Contains(name, "ttyACM"), strings.Contains(name, "usbmodem"):
		return 0
	case strings.Contains(name, "ttyUSB"), strings.Contains(name, "usbserial"):
		return 1
	}
	return 2
}
