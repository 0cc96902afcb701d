package core

import (
	"bytes"
	"errors"
	"testing"
)

func TestCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()

	var called bool
	ctor := func(msg Message, hw Hardware, log LogSink) Command {
		called = true
		return NewStopWheels(msg, hw, log)
	}

	if !registry.Register(CmdStopWheels, ctor) {
		t.Fatal("Register failed for StopWheels")
	}

	typ, got, ok := registry.Lookup("SW")
	if !ok {
		t.Fatal("Failed to look up registered command")
	}
	if typ != CmdStopWheels {
		t.Errorf("Expected type StopWheels, got %v", typ)
	}
	got(NewMessage(0, 1, typ, nil), Hardware{}, nil)
	if !called {
		t.Error("Constructor was not called")
	}

	if _, _, ok := registry.Lookup("XX"); ok {
		t.Error("Expected lookup of unknown code to fail")
	}
}

func TestCommandRegistryRejectsUnknown(t *testing.T) {
	registry := NewCommandRegistry()
	if registry.Register(CmdUnknown, NewStopWheels) {
		t.Error("Expected Register(CmdUnknown) to fail")
	}
	if registry.Count() != 0 {
		t.Errorf("Expected empty registry, got %d entries", registry.Count())
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry := NewDefaultRegistry()

	if registry.Count() != 4 {
		t.Errorf("Expected 4 declared commands, got %d", registry.Count())
	}

	codes := registry.Codes()
	want := []string{"FR", "SR", "SW", "TW"}
	if len(codes) != len(want) {
		t.Fatalf("Expected codes %v, got %v", want, codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("Code %d: expected %s, got %s", i, want[i], codes[i])
		}
	}

	_, ctor, ok := registry.Lookup("SR")
	if !ok || ctor != nil {
		t.Error("Expected SR to be declared without a constructor")
	}
}

func TestLookupCommandType(t *testing.T) {
	tests := []struct {
		code string
		want CommandType
	}{
		{"SW", CmdStopWheels},
		{"TW", CmdTurnWheels},
		{"FR", CmdFindRange},
		{"SR", CmdStatusReport},
		{"XX", CmdUnknown},
		{"sw", CmdUnknown},
		{"", CmdUnknown},
	}

	for _, tt := range tests {
		if got := LookupCommandType(tt.code); got != tt.want {
			t.Errorf("LookupCommandType(%q) = %v, want %v", tt.code, got, tt.want)
		}
		if tt.want != CmdUnknown && tt.want.Code() != tt.code {
			t.Errorf("%v.Code() = %q, want %q", tt.want, tt.want.Code(), tt.code)
		}
	}
}

func TestMessageCopiesArgs(t *testing.T) {
	args := []string{"1", "100"}
	msg := NewMessage(0, 3, CmdTurnWheels, args)
	args[1] = "999"

	if msg.Args()[1] != "100" {
		t.Errorf("Message args alias caller slice: got %q", msg.Args()[1])
	}
	if msg.IntArg(1, 0) != 100 {
		t.Errorf("Expected IntArg(1) = 100, got %d", msg.IntArg(1, 0))
	}
	if msg.IntArg(5, 42) != 42 {
		t.Errorf("Expected default for missing arg, got %d", msg.IntArg(5, 42))
	}
}

func TestFactoryErrors(t *testing.T) {
	f := NewFactory(nil, Hardware{}, nil)

	tests := []struct {
		name   string
		tokens []string
		want   error
	}{
		{"too few tokens", []string{"C", "1"}, ErrMalformed},
		{"nil tokens", nil, ErrMalformed},
		{"response frame", []string{"R", "1", "SW"}, ErrNotCommand},
		{"error frame", []string{"E", "1", "TW", "257"}, ErrNotCommand},
		{"garbage kind", []string{"X", "1", "SW"}, ErrNotCommand},
		{"unknown code", []string{"C", "5", "XX"}, ErrUnknownCommand},
		{"status report", []string{"C", "5", "SR"}, ErrNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := f.Create(tt.tokens)
			if cmd != nil {
				t.Errorf("Expected nil command, got %T", cmd)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFactoryLenientID(t *testing.T) {
	f := NewFactory(nil, Hardware{}, nil)

	tests := []struct {
		id   string
		want int
	}{
		{"7", 7},
		{"-3", -3},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
	}

	for _, tt := range tests {
		cmd, err := f.Create([]string{"C", tt.id, "SW"})
		if err != nil {
			t.Fatalf("Create failed for id %q: %v", tt.id, err)
		}
		if cmd.ID() != tt.want {
			t.Errorf("id %q: expected %d, got %d", tt.id, tt.want, cmd.ID())
		}
	}
}

func TestFactoryCopiesArgs(t *testing.T) {
	f := NewFactory(nil, Hardware{}, nil)
	tokens := []string{"C", "3", "TW", "1", "100"}

	cmd, err := f.Create(tokens)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	tokens[4] = "0"

	args := cmd.Args()
	if len(args) != 2 || args[0] != "1" || args[1] != "100" {
		t.Errorf("Expected args [1 100], got %v", args)
	}
	if cmd.Type() != CmdTurnWheels {
		t.Errorf("Expected TurnWheels, got %v", cmd.Type())
	}
}

func TestNormalizeSpeed(t *testing.T) {
	tests := []struct {
		in    int
		speed uint8
		dir   Direction
	}{
		{100, 100, Forward},
		{-100, 100, Backward},
		{0, 0, Brake},
		{255, 255, Forward},
		{256, 255, Forward},
		{400, 255, Forward},
		{-400, 255, Backward},
		{-255, 255, Backward},
		{1, 1, Forward},
		{-1, 1, Backward},
	}

	for _, tt := range tests {
		speed, dir := NormalizeSpeed(tt.in)
		if speed != tt.speed || dir != tt.dir {
			t.Errorf("NormalizeSpeed(%d) = (%d, %v), want (%d, %v)", tt.in, speed, dir, tt.speed, tt.dir)
		}
	}
}

func TestTurnWheelsErrorMessages(t *testing.T) {
	tests := []struct {
		frame []string
		want  string
	}{
		{[]string{"C", "3", "TW", "1"}, "E:3:TW:257:Syntax Error - Number of Arguments = 1;"},
		{[]string{"C", "3", "TW"}, "E:3:TW:257:Syntax Error - Number of Arguments = 0;"},
		{[]string{"C", "3", "TW", "3", "10"}, "E:3:TW:258:Unknown OpCode[3];"},
		{[]string{"C", "3", "TW", "x", "10"}, "E:3:TW:258:Unknown OpCode[0];"},
		{[]string{"C", "3", "TW", "2", "50"}, "E:3:TW:259:OpCode 2, # Arguments = 2 instead of 3;"},
		{[]string{"C", "3", "TW", "4", "1", "2", "3"}, "E:3:TW:260:OpCode 4, # Arguments = 4 instead of 5;"},
	}

	f := NewFactory(nil, Hardware{}, nil)
	for _, tt := range tests {
		cmd, err := f.Create(tt.frame)
		if err != nil {
			t.Fatalf("Create(%v) failed: %v", tt.frame, err)
		}
		var out bytes.Buffer
		if err := cmd.Execute(&out); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if out.String() != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, out.String())
		}
	}
}

func TestTurnWheelsSideOrder(t *testing.T) {
	msg := NewMessage(0, 1, CmdTurnWheels, []string{"2", "-80", "120"})
	cmd := NewTurnWheels(msg, Hardware{}, nil).(*TurnWheels)

	var out bytes.Buffer
	if err := cmd.Execute(&out); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.String() != "R:1:TW:80:120:80:120;" {
		t.Errorf("Unexpected response %q", out.String())
	}

	speeds, dirs := cmd.Result()
	wantDirs := Directions{Backward, Forward, Backward, Forward}
	if dirs != wantDirs {
		t.Errorf("Expected directions %v, got %v", wantDirs, dirs)
	}
	if speeds != (Speeds{80, 120, 80, 120}) {
		t.Errorf("Unexpected speeds %v", speeds)
	}
}
