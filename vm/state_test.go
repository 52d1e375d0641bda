package vm

import (
	"bytes"
	"testing"
)

func TestStateRoundTripIdleEngine(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)
	e.SetAngleUnit(Degree)
	for i := 0; i < 7; i++ {
		_ = e.DoStep()
	}

	var buf bytes.Buffer
	n, err := e.WriteState(&buf)
	if err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}
	if n != StateSize {
		t.Fatalf("expected WriteState to write exactly %d bytes, wrote %d", StateSize, n)
	}

	restored := NewEngine(SyntheticROMSet())
	if err := restored.ReadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}

	if restored.GetAngleUnit() != e.GetAngleUnit() {
		t.Errorf("angle unit did not round-trip: got %v want %v", restored.GetAngleUnit(), e.GetAngleUnit())
	}
	if restored.GetPowerState() != e.GetPowerState() {
		t.Errorf("power state did not round-trip: got %v want %v", restored.GetPowerState(), e.GetPowerState())
	}
	if restored.GetIndicatorStr() != e.GetIndicatorStr() {
		t.Errorf("indicator did not round-trip: got %q want %q", restored.GetIndicatorStr(), e.GetIndicatorStr())
	}
	if restored.GetProgCounterStr() != e.GetProgCounterStr() {
		t.Errorf("program counter did not round-trip: got %q want %q", restored.GetProgCounterStr(), e.GetProgCounterStr())
	}

	var buf2 bytes.Buffer
	if _, err := restored.WriteState(&buf2); err != nil {
		t.Fatalf("WriteState on restored engine failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Errorf("expected write(read(write(e))) to be byte-identical to write(e)")
	}
}

func TestStateReadShortStreamFails(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	short := bytes.NewReader(make([]byte, StateSize-1))
	if err := e.ReadState(short); err != ErrShortRead {
		t.Fatalf("expected ErrShortRead for a truncated stream, got %v", err)
	}
}

func TestStateSizeMatchesConstants(t *testing.T) {
	want := 3*IK13StateSize + 2*IR2StateSize + 5
	if StateSize != want {
		t.Fatalf("StateSize constant drifted from its component sizes: got %d want %d", StateSize, want)
	}
}

// TestStateRoundTripPreservesModeRunningAndFPrefix covers the §4.7 axes
// that are genuinely separate state in this implementation (set by
// PressKey, not derived from chip state): entering PRG mode, toggling
// R/S to running, and an in-flight F-prefix must all survive a
// write/read round trip, or IsRunning (a public accessor named in
// spec.md §6.1) would not return byte-identical output per §8
// invariant 3.
func TestStateRoundTripPreservesModeRunningAndFPrefix(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)

	// F, EXP: enters PRG mode.
	if err := e.DoKeyPress(int(KeyF.K1), int(KeyF.K2)); err != nil {
		t.Fatalf("unexpected error pressing F: %v", err)
	}
	if err := e.DoKeyPress(int(KeyExp.K1), int(KeyExp.K2)); err != nil {
		t.Fatalf("unexpected error pressing EXP: %v", err)
	}
	if e.panel.Mode() != ModePRG {
		t.Fatalf("setup failed: expected ModePRG before round-trip")
	}

	// Back to AUT mode so R/S toggles Running (R/S only toggles in AUT).
	if err := e.DoKeyPress(int(KeyF.K1), int(KeyF.K2)); err != nil {
		t.Fatalf("unexpected error pressing F: %v", err)
	}
	if err := e.DoKeyPress(int(KeySignChange.K1), int(KeySignChange.K2)); err != nil {
		t.Fatalf("unexpected error pressing +/-: %v", err)
	}
	if e.panel.Mode() != ModeAUT {
		t.Fatalf("setup failed: expected ModeAUT before toggling R/S")
	}
	if err := e.DoKeyPress(int(KeyRS.K1), int(KeyRS.K2)); err != nil {
		t.Fatalf("unexpected error pressing R/S: %v", err)
	}
	if !e.IsRunning() {
		t.Fatalf("setup failed: expected IsRunning() after R/S")
	}

	// Leave an F-prefix pending.
	if err := e.DoKeyPress(int(KeyF.K1), int(KeyF.K2)); err != nil {
		t.Fatalf("unexpected error pressing F: %v", err)
	}
	if !e.panel.fPrefix {
		t.Fatalf("setup failed: expected fPrefix pending before round-trip")
	}

	var buf bytes.Buffer
	if _, err := e.WriteState(&buf); err != nil {
		t.Fatalf("WriteState failed: %v", err)
	}

	restored := NewEngine(SyntheticROMSet())
	if err := restored.ReadState(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("ReadState failed: %v", err)
	}

	if restored.IsRunning() != e.IsRunning() {
		t.Errorf("IsRunning did not round-trip: got %v want %v", restored.IsRunning(), e.IsRunning())
	}
	if restored.panel.Mode() != e.panel.Mode() {
		t.Errorf("Mode did not round-trip: got %v want %v", restored.panel.Mode(), e.panel.Mode())
	}
	if restored.panel.fPrefix != e.panel.fPrefix {
		t.Errorf("fPrefix did not round-trip: got %v want %v", restored.panel.fPrefix, e.panel.fPrefix)
	}
}
