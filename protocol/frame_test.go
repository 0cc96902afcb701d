package protocol

import (
	"reflect"
	"strings"
	"testing"
)

func feedString(f *Frame, s string) MessageKind {
	kind := KindIncomplete
	for i := 0; i < len(s); i++ {
		kind = f.Feed(s[i])
	}
	return kind
}

func TestFrameCommand(t *testing.T) {
	f := NewFrame()

	for i, c := range []byte("C:7:SW") {
		if kind := f.Feed(c); kind != KindIncomplete {
			t.Fatalf("byte %d: expected incomplete, got %s", i, kind)
		}
	}
	if f.Tokens() != nil {
		t.Error("Tokens should be nil before the terminator")
	}

	if kind := f.Feed(';'); kind != KindCommand {
		t.Fatalf("Expected command, got %s", kind)
	}
	if !f.Full() {
		t.Error("Frame should be full after terminator")
	}

	want := []string{"C", "7", "SW"}
	if !reflect.DeepEqual(f.Tokens(), want) {
		t.Errorf("Tokens = %q, want %q", f.Tokens(), want)
	}
}

func TestFrameTokenCount(t *testing.T) {
	tests := []struct {
		frame string
		want  []string
	}{
		{"C:3:TW:1:100;", []string{"C", "3", "TW", "1", "100"}},
		{"C::SW;", []string{"C", "", "SW"}},
		{"R:9:FR:42:0;", []string{"R", "9", "FR", "42", "0"}},
		{"E:3:TW:259:msg;", []string{"E", "3", "TW", "259", "msg"}},
		{"C:1:FR::;", []string{"C", "1", "FR", "", ""}},
		{"C;", []string{"C"}},
		{";", []string{""}},
	}

	for _, tt := range tests {
		f := NewFrame()
		feedString(f, tt.frame)
		got := f.Tokens()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: tokens = %q, want %q", tt.frame, got, tt.want)
		}
		delims := strings.Count(tt.frame, ":")
		if len(got) != delims+1 {
			t.Errorf("%q: %d tokens for %d delimiters", tt.frame, len(got), delims)
		}
	}
}

func TestFrameKinds(t *testing.T) {
	tests := []struct {
		frame string
		want  MessageKind
	}{
		{"C:1:SW;", KindCommand},
		{"R:1:SW;", KindResponse},
		{"E:1:TW:257:x;", KindError},
		{"X:1:SW;", KindUnknown},
		{"c:1:SW;", KindUnknown},
		{"C;", KindUnknown},
		{";", KindUnknown},
		{"C:5;", KindCommand},
	}

	for _, tt := range tests {
		f := NewFrame()
		if got := feedString(f, tt.frame); got != tt.want {
			t.Errorf("%q: kind = %s, want %s", tt.frame, got, tt.want)
		}
		if got := f.Kind(); got != tt.want {
			t.Errorf("%q: Kind() = %s, want %s", tt.frame, got, tt.want)
		}
	}
}

func TestFrameResetIdempotence(t *testing.T) {
	f := NewFrame()
	input := "C:12:TW:4:-10:20:-30:40;"

	first := feedString(f, input)
	firstTokens := append([]string(nil), f.Tokens()...)

	f.Reset()
	if f.Len() != 0 || f.Full() || f.Tokens() != nil {
		t.Fatal("Reset did not clear the frame")
	}

	second := feedString(f, input)
	if first != second {
		t.Errorf("Classification changed after reset: %s vs %s", first, second)
	}
	if !reflect.DeepEqual(firstTokens, f.Tokens()) {
		t.Errorf("Tokens changed after reset: %q vs %q", firstTokens, f.Tokens())
	}
}

func TestFrameOverflowBoundary(t *testing.T) {
	f := NewFrame()

	for i := 0; i < FrameMax; i++ {
		if kind := f.Feed('A'); kind != KindIncomplete {
			t.Fatalf("byte %d: expected incomplete, got %s", i, kind)
		}
	}
	if f.Full() {
		t.Error("Frame should not be full after exactly FrameMax bytes")
	}

	if kind := f.Feed('A'); kind != KindOverflow {
		t.Fatalf("Expected overflow on byte %d, got %s", FrameMax+1, kind)
	}
	if !f.Full() {
		t.Error("Frame should be full after overflow")
	}

	// A stuck frame refuses even a terminator
	if kind := f.Feed(';'); kind != KindOverflow {
		t.Errorf("Expected overflow while stuck, got %s", kind)
	}
	if f.Len() != FrameMax {
		t.Errorf("Len = %d, want %d", f.Len(), FrameMax)
	}

	f.Reset()
	if kind := feedString(f, "C:1:SW;"); kind != KindCommand {
		t.Errorf("Expected command after reset, got %s", kind)
	}
}

func TestFrameMaxLengthSucceeds(t *testing.T) {
	f := NewFrame()

	body := "C:1:FR:" + strings.Repeat("9", FrameMax-1-len("C:1:FR:"))
	if len(body) != FrameMax-1 {
		t.Fatalf("test body is %d bytes", len(body))
	}

	if kind := feedString(f, body+";"); kind != KindCommand {
		t.Fatalf("Expected command for a %d byte frame, got %s", FrameMax, kind)
	}
	if len(f.Tokens()) != 4 {
		t.Errorf("Expected 4 tokens, got %d", len(f.Tokens()))
	}
}

func TestFrameRefusesAfterCompletion(t *testing.T) {
	f := NewFrame()
	feedString(f, "C:1:SW;")

	if kind := f.Feed('C'); kind != KindOverflow {
		t.Errorf("Expected overflow for byte after completion, got %s", kind)
	}
	if string(f.Bytes()) != "C:1:SW;" {
		t.Errorf("Completed frame was modified: %q", f.Bytes())
	}
}

func TestSplit(t *testing.T) {
	tokens, kind, ok := Split("R:4:FR:120:-45;")
	if !ok || kind != KindResponse {
		t.Fatalf("Split failed: kind=%s ok=%v", kind, ok)
	}
	if !reflect.DeepEqual(tokens, []string{"R", "4", "FR", "120", "-45"}) {
		t.Errorf("Unexpected tokens %q", tokens)
	}

	if _, _, ok := Split("R:4:FR"); ok {
		t.Error("Split accepted a frame without terminator")
	}
	if _, _, ok := Split("R:4:SW;C:5:SW;"); ok {
		t.Error("Split accepted trailing bytes after the terminator")
	}
	if _, kind, ok := Split(strings.Repeat("x", FrameMax+1)); ok || kind != KindOverflow {
		t.Errorf("Split of oversized input: kind=%s ok=%v", kind, ok)
	}
}
