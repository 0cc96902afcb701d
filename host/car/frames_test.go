package car

import (
	"testing"

	"robotcar/protocol"
)

func TestEncoders(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"stop", StopFrame(7), "C:7:SW;"},
		{"drive", DriveFrame(3, 100), "C:3:TW:1:100;"},
		{"drive clamps", DriveFrame(3, -400), "C:3:TW:1:-255;"},
		{"turn", TurnFrame(5, -50, 80), "C:5:TW:4:-50:80:-50:80;"},
		{"turn clamps", TurnFrame(5, 300, -300), "C:5:TW:4:255:-255:255:-255;"},
		{"wheels", WheelsFrame(6, [4]int{1, 2, 3, 4}), "C:6:TW:4:1:2:3:4;"},
		{"range default", RangeFrame(9, DefaultRangeRequest()), "C:9:FR:0:4:400;"},
		{"range clamps", RangeFrame(9, RangeRequest{RangeCM: 900, Angle: -120, Attempts: 0}), "C:9:FR:-90:1:400;"},
		{"range high attempts", RangeFrame(9, RangeRequest{RangeCM: 50, Angle: 45, Attempts: 20}), "C:9:FR:45:8:50;"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, tt.got)
		}
		if _, kind, ok := protocol.Split(tt.got); !ok || kind != protocol.KindCommand {
			t.Errorf("%s: %q does not parse as a command frame", tt.name, tt.got)
		}
	}
}

func TestParseReply(t *testing.T) {
	tokens, _, _ := protocol.Split("R:9:FR:42:-30;")
	r, err := ParseReply(tokens)
	if err != nil {
		t.Fatalf("ParseReply failed: %v", err)
	}
	if r.ID != 9 || r.Code != "FR" || r.Kind != protocol.KindResponse {
		t.Errorf("Unexpected reply %+v", r)
	}
	reading, err := r.Range()
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if reading.DistanceCM != 42 || reading.Angle != -30 || !reading.InRange() {
		t.Errorf("Unexpected reading %+v", reading)
	}

	tokens, _, _ = protocol.Split("R:3:TW:100:0:100:0;")
	r, _ = ParseReply(tokens)
	speeds, err := r.Speeds()
	if err != nil {
		t.Fatalf("Speeds failed: %v", err)
	}
	if speeds != (WheelSpeeds{100, 0, 100, 0}) || !speeds.Moving() {
		t.Errorf("Unexpected speeds %v", speeds)
	}
}

func TestParseReplyError(t *testing.T) {
	tokens, _, _ := protocol.Split("E:3:TW:259:OpCode 2, # Arguments = 2 instead of 3;")
	r, err := ParseReply(tokens)
	if err != nil {
		t.Fatalf("ParseReply failed: %v", err)
	}

	remote, ok := r.Err().(*RemoteError)
	if !ok {
		t.Fatalf("Expected *RemoteError, got %T", r.Err())
	}
	if remote.Code != 0x0103 || remote.Command != "TW" || remote.ID != 3 {
		t.Errorf("Unexpected remote error %+v", remote)
	}
	if _, err := r.Speeds(); err != remote {
		t.Errorf("Speeds must return the remote error, got %v", err)
	}
}

func TestParseReplyRejects(t *testing.T) {
	if _, err := ParseReply([]string{"R", "1"}); err != ErrShortReply {
		t.Errorf("Expected ErrShortReply, got %v", err)
	}
	if _, err := ParseReply([]string{"C", "1", "SW"}); err == nil {
		t.Error("Expected commands to be rejected")
	}

	r, _ := ParseReply([]string{"R", "1", "FR", "5"})
	if _, err := r.Range(); err != ErrShortReply {
		t.Errorf("Expected ErrShortReply, got %v", err)
	}
}

func TestMailbag(t *testing.T) {
	m := newMailbag()
	ch := m.expect(4)

	if m.deliver(Reply{ID: 5}) {
		t.Error("Delivered to an id nobody waits for")
	}
	if !m.deliver(Reply{ID: 4, Code: "SW"}) {
		t.Fatal("Failed to deliver to waiting id")
	}
	if r := <-ch; r.Code != "SW" {
		t.Errorf("Unexpected reply %+v", r)
	}
	if m.deliver(Reply{ID: 4}) {
		t.Error("A second reply with the same id must not be delivered")
	}

	m.expect(6)
	m.cancel(6)
	if m.len() != 0 {
		t.Errorf("Expected empty mailbag, got %d", m.len())
	}
}
