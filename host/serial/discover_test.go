package serial

import (
	"context"
	"errors"
	"io"
	"testing"

	bugst "go.bug.st/serial"
	"go.uber.org/zap"
)

type fakePort struct {
	name   string
	closed bool
}

func (p *fakePort) Read([]byte) (int, error)    { return 0, io.EOF }
func (p *fakePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *fakePort) Flush() error                { return nil }

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newTestDiscoverer(ports []string, answering string) (*Discoverer, map[string]*fakePort) {
	opened := make(map[string]*fakePort)
	probe := func(_ context.Context, p Port) error {
		if p.(*fakePort).name == answering {
			return nil
		}
		return errors.New("no banner")
	}
	d := NewDiscoverer(*DefaultConfig(""), probe, zap.NewNop())
	d.list = func() ([]string, error) { return ports, nil }
	d.open = func(cfg *Config) (Port, error) {
		if cfg.Baud != DefaultBaud {
			return nil, errors.New("unexpected baud")
		}
		p := &fakePort{name: cfg.Device}
		opened[cfg.Device] = p
		return p, nil
	}
	return d, opened
}

func TestDiscoverFindsAnsweringPort(t *testing.T) {
	d, opened := newTestDiscoverer([]string{"/dev/ttyS0", "/dev/ttyACM0", "/dev/ttyUSB0"}, "/dev/ttyUSB0")

	port, name, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if name != "/dev/ttyUSB0" {
		t.Errorf("Expected /dev/ttyUSB0, got %s", name)
	}
	if port.(*fakePort).closed {
		t.Error("Returned port must stay open")
	}
	if !opened["/dev/ttyACM0"].closed {
		t.Error("Failed probe must close the port")
	}
	if _, ok := opened["/dev/ttyS0"]; ok {
		t.Error("Expected USB ports to be probed before ttyS0")
	}
}

func TestDiscoverNoDevice(t *testing.T) {
	d, _ := newTestDiscoverer([]string{"/dev/ttyACM0"}, "")

	_, _, err := d.Discover(context.Background())
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("Expected ErrNoDevice, got %v", err)
	}
}

func TestDiscoverCancelled(t *testing.T) {
	d, _ := newTestDiscoverer([]string{"/dev/ttyACM0"}, "/dev/ttyACM0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := d.Discover(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCandidatesOrder(t *testing.T) {
	d, _ := newTestDiscoverer([]string{"COM1", "/dev/tty.usbserial-1", "/dev/cu.usbmodem1"}, "")

	ports, err := d.Candidates()
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	want := []string{"/dev/cu.usbmodem1", "/dev/tty.usbserial-1", "COM1"}
	for i := range want {
		if ports[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], ports[i])
		}
	}
}

func TestIsDisconnect(t *testing.T) {
	if IsDisconnect(nil) {
		t.Error("nil is not a disconnect")
	}
	if !IsDisconnect(errors.New("read /dev/ttyACM0: input/output error")) {
		t.Error("Expected EIO to count as disconnect")
	}
	if IsDisconnect(errors.New("permission denied")) {
		t.Error("Permission errors are not disconnects")
	}
	if IsDisconnect(&bugst.PortError{}) {
		t.Error("Zero PortError is not a disconnect")
	}
}

func TestOpenNilConfig(t *testing.T) {
	if _, err := Open(nil); !errors.Is(err, ErrNilConfig) {
		t.Errorf("Expected ErrNilConfig, got %v", err)
	}
}
