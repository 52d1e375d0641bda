package panel

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mk61sim/chipset-sim/runner"
	"github.com/mk61sim/chipset-sim/vm"
)

func TestNewTUIBuildsLayoutAndViews(t *testing.T) {
	run := runner.New(vm.NewEngine(vm.SyntheticROMSet()), time.Second)
	tui := NewTUI(run, 10*time.Millisecond)

	if tui.Layout == nil {
		t.Fatal("expected NewTUI to build a layout")
	}
	if tui.IndicatorView == nil || tui.StatusView == nil || tui.KeypadView == nil {
		t.Fatal("expected NewTUI to initialize all three views")
	}
}

func TestKeyBindingsForwardDigitsToRunner(t *testing.T) {
	run := runner.New(vm.NewEngine(vm.SyntheticROMSet()), time.Second)
	run.SetPowerState(vm.PowerOn)
	tui := NewTUI(run, time.Second)

	capture := tui.App.GetInputCapture()
	if capture == nil {
		t.Fatal("expected setupKeyBindings to install an input capture handler")
	}

	result := capture(tcell.NewEventKey(tcell.KeyRune, '5', tcell.ModNone))
	if result != nil {
		t.Errorf("expected a handled digit key to be consumed (nil), got %v", result)
	}

	unhandled := capture(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))
	if unhandled == nil {
		t.Errorf("expected an unbound key to pass through unconsumed")
	}
}
