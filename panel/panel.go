// Package panel implements a terminal front panel for the MK61 simulator:
// the indicator, program counter and power/angle/run readouts, plus the key
// matrix, driven through a tview.Application the way the teacher's
// debugger/tui.go drives its source/register/disassembly views (§4.5,
// §4.6 external interfaces).
package panel

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mk61sim/chipset-sim/runner"
	"github.com/mk61sim/chipset-sim/vm"
)

// TUI is the text-mode front panel.
type TUI struct {
	Runner *runner.Runner
	App *tview.Application

	Layout        *tview.Flex
	IndicatorView *tview.TextView
	StatusView    *tview.TextView
	KeypadView    *tview.TextView

	refresh time.Duration
	stop    chan struct{}
}

// NewTUI builds a front panel around run, polling its snapshot every
// refresh interval.
func NewTUI(run *runner.Runner, refresh time.Duration) *TUI {
	t := &TUI{
		Runner:  run,
		App:     tview.NewApplication(),
		refresh: refresh,
		stop:    make(chan struct{}),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.IndicatorView = tview.NewTextView().SetDynamicColors(true)
	t.IndicatorView.SetBorder(true).SetTitle(" Indicator ")

	t.StatusView = tview.NewTextView().SetDynamicColors(true)
	t.StatusView.SetBorder(true).SetTitle(" Status ")

	t.KeypadView = tview.NewTextView().SetDynamicColors(true)
	t.KeypadView.SetBorder(true).SetTitle(" Keys ")
	fmt.Fprint(t.KeypadView, keypadHelp)
}

func (t *TUI) buildLayout() {
	t.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.IndicatorView, 3, 0, false).
		AddItem(t.StatusView, 3, 0, false).
		AddItem(t.KeypadView, 0, 1, false)
}

// keypadHelp documents the digit/operator/mode keys this front panel maps
// onto vm key coordinates; real MK-61 key legends are silkscreened, this
// is the terminal equivalent.
const keypadHelp = `0-9  digits            f    prefix (then e=PRG; no AUT key)
+ - * /  arithmetic    r    R/S (run/idle, AUT mode only)
c    clear (CX)        q    quit`

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q':
			t.App.Stop()
			return nil
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			d := int(event.Rune() - '0')
			k := vm.DigitKey(d)
			_ = t.Runner.PressKey(int(k.K1), int(k.K2))
			return nil
		case '+':
			_ = t.Runner.PressKey(int(vm.KeyPlus.K1), int(vm.KeyPlus.K2))
			return nil
		case '-':
			_ = t.Runner.PressKey(int(vm.KeyMinus.K1), int(vm.KeyMinus.K2))
			return nil
		case '*':
			_ = t.Runner.PressKey(int(vm.KeyMul.K1), int(vm.KeyMul.K2))
			return nil
		case '/':
			_ = t.Runner.PressKey(int(vm.KeyDiv.K1), int(vm.KeyDiv.K2))
			return nil
		case 'c':
			_ = t.Runner.PressKey(int(vm.KeyCX.K1), int(vm.KeyCX.K2))
			return nil
		case 'f':
			_ = t.Runner.PressKey(int(vm.KeyF.K1), int(vm.KeyF.K2))
			return nil
		case 'r':
			_ = t.Runner.PressKey(int(vm.KeyRS.K1), int(vm.KeyRS.K2))
			return nil
		case 'e':
			_ = t.Runner.PressKey(int(vm.KeyExp.K1), int(vm.KeyExp.K2))
			return nil
		}
		return event
	})
}

// Serve starts the background runner and the redraw loop, then blocks
// in the tview event loop until the user quits.
func (t *TUI) Serve() error {
	t.Runner.Start()
	go t.redrawLoop()
	err := t.App.SetRoot(t.Layout, true).Run()
	close(t.stop)
	t.Runner.Stop()
	return err
}

func (t *TUI) redrawLoop() {
	ticker := time.NewTicker(t.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			snap := t.Runner.Snapshot()
			t.App.QueueUpdateDraw(func() {
				t.IndicatorView.Clear()
				fmt.Fprintf(t.IndicatorView, "[::b]%s[::-]  PC:%s", snap.Indicator, snap.ProgCounter)

				t.StatusView.Clear()
				power := "OFF"
				if snap.PowerState == vm.PowerOn {
					power = "ON"
				}
				running := "idle"
				if snap.Running {
					running = "running"
				}
				fmt.Fprintf(t.StatusView, "power:%s  angle:%s  %s", power, snap.AngleUnit, running)
			})
		}
	}
}
