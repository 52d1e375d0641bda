package vm

import "testing"

func TestNewEnginePowersOffByDefault(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	if e.GetPowerState() != PowerOff {
		t.Fatalf("expected a new engine to power on in PowerOff, got %v", e.GetPowerState())
	}
	if e.GetAngleUnit() != Radian {
		t.Errorf("expected a new engine to default to Radian, got %v", e.GetAngleUnit())
	}
}

func TestDoStepNoOpWhilePowerOff(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	before := e.GetIndicatorStr()
	for i := 0; i < 5; i++ {
		if err := e.DoStep(); err != nil {
			t.Fatalf("DoStep should never error while powered off, got %v", err)
		}
	}
	if e.GetIndicatorStr() != before {
		t.Errorf("expected the indicator to stay fixed while powered off, got %q want %q", e.GetIndicatorStr(), before)
	}
}

func TestDoKeyPressRejectsOutOfRangeCoordinates(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	if err := e.DoKeyPress(99, 1); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for an undefined key1, got %v", err)
	}
	if err := e.DoKeyPress(2, 2); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for an undefined key2, got %v", err)
	}
}

func TestDoKeyPressAcceptsDigitsWhenPoweredOn(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)
	d := DigitKey(5)
	if err := e.DoKeyPress(int(d.K1), int(d.K2)); err != nil {
		t.Fatalf("expected a digit key press to be accepted, got %v", err)
	}
	if err := e.DoStep(); err != nil {
		t.Fatalf("unexpected error stepping after a key press: %v", err)
	}
}

func TestAngleUnitPersistsAcrossSteps(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)
	e.SetAngleUnit(Grade)
	for i := 0; i < 10; i++ {
		_ = e.DoStep()
	}
	if e.GetAngleUnit() != Grade {
		t.Errorf("expected angle unit to persist across steps, got %v", e.GetAngleUnit())
	}
	if e.GetAngleUnitStr() != "GRAD" {
		t.Errorf("expected GetAngleUnitStr to report GRAD, got %q", e.GetAngleUnitStr())
	}
}

func TestOutputRequiredOnlyClearedByEndOutput(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)
	e.outputRequired = true
	for i := 0; i < 3; i++ {
		_ = e.DoStep()
		if !e.IsOutputRequired() {
			t.Fatalf("expected output_required to stay set until EndOutput is called")
		}
	}
	e.EndOutput()
	if e.IsOutputRequired() {
		t.Errorf("expected EndOutput to clear output_required")
	}
}

func TestIsRunningOrthogonalToMode(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	e.SetPowerState(PowerOn)

	// F, PRG, F, AUT, is_running() -> false (spec §8 scenario 6): entering
	// PRG and returning to AUT via F-prefixed keys never itself starts a run.
	_ = e.DoKeyPress(int(KeyF.K1), int(KeyF.K2))
	_ = e.DoKeyPress(int(KeyExp.K1), int(KeyExp.K2))
	_ = e.DoKeyPress(int(KeyF.K1), int(KeyF.K2))
	_ = e.DoKeyPress(int(KeySignChange.K1), int(KeySignChange.K2))
	if e.IsRunning() {
		t.Errorf("expected is_running to stay false after only mode-toggling keys")
	}

	_ = e.DoKeyPress(int(KeyRS.K1), int(KeyRS.K2))
	if !e.IsRunning() {
		t.Errorf("expected R/S to toggle running while in AUT mode")
	}
	_ = e.DoKeyPress(int(KeyRS.K1), int(KeyRS.K2))
	if e.IsRunning() {
		t.Errorf("expected a second R/S press to toggle running back off")
	}
}

func TestGetRegStackStrInvalidEnumReturnsBlank(t *testing.T) {
	e := NewEngine(SyntheticROMSet())
	got := e.GetRegStackStr(StackReg(255))
	for i, c := range got {
		if c != ' ' {
			t.Fatalf("expected a blank register string for an invalid stack enum, found %q at %d in %q", c, i, got)
		}
	}
}
