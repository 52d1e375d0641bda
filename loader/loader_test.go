package loader

import (
	"path/filepath"
	"testing"

	"github.com/mk61sim/chipset-sim/vm"
)

func TestValidFileName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"save1.mk61state", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../save1.mk61state", false},
		{"sub/save1.mk61state", false},
		{"save1.bin", false},
		{".mk61state", false},
	}
	for _, c := range cases {
		if got := ValidFileName(c.name); got != c.want {
			t.Errorf("ValidFileName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLoadROMSetSyntheticFallback(t *testing.T) {
	set, err := LoadROMSet("", "", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set == nil {
		t.Fatal("expected a non-nil ROM set")
	}
}

func TestSaveAndLoadIK13ROMRoundTrips(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "ik1302.rom")

	want := vm.SyntheticROMSet().IK1302
	if err := SaveIK13ROM(path, want); err != nil {
		t.Fatalf("SaveIK13ROM failed: %v", err)
	}

	got, err := LoadIK13ROM(path)
	if err != nil {
		t.Fatalf("LoadIK13ROM failed: %v", err)
	}

	if got.MicroInstructions != want.MicroInstructions {
		t.Error("micro-instructions did not round-trip")
	}
	if got.Instructions != want.Instructions {
		t.Error("instruction table did not round-trip")
	}
	if got.MicroPrograms != want.MicroPrograms {
		t.Error("micro-program table did not round-trip")
	}
}

func TestLoadIK13ROMPanicsOnMalformedImage(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "bad.rom")

	rom := vm.SyntheticROMSet().IK1302
	rom.MicroPrograms[0] = vm.MicroInstructionCount // out of range on purpose
	if err := SaveIK13ROM(path, rom); err != nil {
		t.Fatalf("SaveIK13ROM failed: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected LoadIK13ROM to panic on a malformed ROM image")
		}
	}()
	_, _ = LoadIK13ROM(path)
}

func TestSaveAndLoadEngineStateRejectsBadFilenames(t *testing.T) {
	e := vm.NewEngine(vm.SyntheticROMSet())
	tempDir := t.TempDir()

	if err := SaveEngineState(filepath.Join(tempDir, "state.bin"), e); err == nil {
		t.Error("expected SaveEngineState to reject a filename without the state extension")
	}
	if err := LoadEngineState(filepath.Join(tempDir, "state.bin"), e); err == nil {
		t.Error("expected LoadEngineState to reject a filename without the state extension")
	}
}

func TestSaveAndLoadEngineStateRoundTrips(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "save1.mk61state")

	e := vm.NewEngine(vm.SyntheticROMSet())
	e.SetPowerState(vm.PowerOn)
	e.SetAngleUnit(vm.Degree)
	for i := 0; i < 3; i++ {
		_ = e.DoStep()
	}

	if err := SaveEngineState(path, e); err != nil {
		t.Fatalf("SaveEngineState failed: %v", err)
	}

	restored := vm.NewEngine(vm.SyntheticROMSet())
	if err := LoadEngineState(path, restored); err != nil {
		t.Fatalf("LoadEngineState failed: %v", err)
	}

	if restored.GetAngleUnit() != vm.Degree {
		t.Errorf("expected angle unit to round-trip, got %v", restored.GetAngleUnit())
	}
	if restored.GetIndicatorStr() != e.GetIndicatorStr() {
		t.Errorf("expected indicator to round-trip, got %q want %q", restored.GetIndicatorStr(), e.GetIndicatorStr())
	}
}
