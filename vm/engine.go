package vm

// Engine is the façade described in §4.6: power state, step scheduling,
// output-required flag, save/load, and key injection, wired on top of
// the five-chip ring.
type Engine struct {
	ik1302, ik1303, ik1306 *IK13
	ir2a, ir2b             *IR2
	bus                    *RingBus
	panel                  *FrontPanel

	indicator      string
	outputRequired bool

	calcMode calcModel
}

// calcModel mirrors mk61emu_mode_t from the original implementation
// (mode_61 / mode_54, selecting MK-61 vs MK-54/Rapira instruction
// decoding). Acknowledged as a mode selector but not mandatory per the
// spec's Non-goals, so it is carried as an unexported field, pinned to
// calcModeMK61, and never branched on by SetPowerState/DoStep/DoKeyPress.
type calcModel uint8

const (
	calcModeMK61 calcModel = iota
	calcModeMK54
)

// NewEngine builds an Engine around the given ROM set. Chips are created
// once here and own their mutable state for the engine's lifetime (§3.5).
func NewEngine(roms *ROMSet) *Engine {
	ik1302 := NewIK13()
	ik1303 := NewIK13()
	ik1306 := NewIK13()
	ik1302.SetROM(&roms.IK1302)
	ik1303.SetROM(&roms.IK1303)
	ik1306.SetROM(&roms.IK1306)
	ik1302.EnableKeyMatrix()

	ir2a := NewIR2()
	ir2b := NewIR2()

	e := &Engine{
		ik1302: ik1302,
		ik1303: ik1303,
		ik1306: ik1306,
		ir2a:   ir2a,
		ir2b:   ir2b,
		bus:    NewRingBus(ik1302, ik1303, ik1306, ir2a, ir2b),
		panel:  NewFrontPanel(),
	}
	e.refreshIndicator()
	return e
}

// DoStep advances the simulation by one macro-tick (§4.3, §4.6). While
// power is off this is a no-op, per §7's PowerOff error kind ("silently
// succeeds as a no-op; not an error").
func (e *Engine) DoStep() error {
	if e.panel.PowerState() == PowerOff {
		return nil
	}

	if k1, k2, ok := e.panel.TakePending(); ok {
		e.ik1302.QueueKeyPress(k1, k2)
	}
	e.bus.StepMacroTick()

	e.refreshIndicator()
	return nil
}

// refreshIndicator regenerates the printable snapshot and sets
// output_required if it changed (§3.4 invariant 5, §3.5).
func (e *Engine) refreshIndicator() {
	next := e.renderIndicator()
	if next != e.indicator {
		e.indicator = next
		e.outputRequired = true
	}
}

// DoKeyPress is the canonical entry point for any key (§4.6). Composite
// commands are two key presses with a macro-tick between them; this
// method does not interpret text.
func (e *Engine) DoKeyPress(key1, key2 int) error {
	if key1 < -128 || key1 > 127 || key2 < -128 || key2 > 127 {
		return ErrInvalidKey
	}
	return e.panel.PressKey(int8(key1), int8(key2))
}

// DoInput is the bulk textual-input entry point preserved from the
// original mk_engine::do_input contract (SPEC_FULL.md, "supplemented
// features"). The core chipset has no textual command language, so this
// is a no-op placeholder for front ends that want a single call whether
// they're forwarding a keystroke or a pasted line; it never fails.
func (e *Engine) DoInput(buf []byte) error {
	_ = buf
	return nil
}

// SetAngleUnit / GetAngleUnit: §4.5, §4.6.
func (e *Engine) SetAngleUnit(u AngleUnit) { e.panel.SetAngleUnit(u) }
func (e *Engine) GetAngleUnit() AngleUnit  { return e.panel.AngleUnit() }

// GetAngleUnitStr mirrors the original mk61_emu::get_angle_unit_str
// accessor (SPEC_FULL.md supplemented features).
func (e *Engine) GetAngleUnitStr() string { return e.panel.AngleUnit().String() }

// SetPowerState / GetPowerState: §4.5, §4.6.
func (e *Engine) SetPowerState(s PowerState) { e.panel.SetPowerState(s) }
func (e *Engine) GetPowerState() PowerState  { return e.panel.PowerState() }

// IsRunning: §4.6, §4.7.
func (e *Engine) IsRunning() bool { return e.panel.IsRunning() }

// IsOutputRequired / EndOutput: §3.4 invariant 5, §4.6, §7.
func (e *Engine) IsOutputRequired() bool { return e.outputRequired }
func (e *Engine) EndOutput()             { e.outputRequired = false }

// GetRegStackStr returns the 14-char printable form of a stack register
// (§4.6, §6.1). Accessors never fail; an out-of-range enumerant yields a
// blank register.
func (e *Engine) GetRegStackStr(r StackReg) string {
	reg, err := ReadStackRegister(e.ik1302, r)
	if err != nil {
		return Register{}.blank().String()
	}
	return reg.String()
}

// GetRegMemStr returns the 14-char printable form of a memory register.
func (e *Engine) GetRegMemStr(r MemReg) string {
	reg, err := ReadMemRegister(e.ik1303, e.ik1306, r)
	if err != nil {
		return Register{}.blank().String()
	}
	return reg.String()
}

// renderIndicator renders X onto the 14-char display string (§4.4).
func (e *Engine) renderIndicator() string {
	reg, err := ReadStackRegister(e.ik1302, RegX)
	if err != nil {
		return Register{}.blank().String()
	}
	return reg.String()
}

// GetIndicatorStr returns the most recently rendered indicator string.
func (e *Engine) GetIndicatorStr() string { return e.indicator }

// GetProgCounterStr returns the two-digit program-counter string.
func (e *Engine) GetProgCounterStr() string {
	pc := ProgCounter(e.ik1302)
	out := [2]byte{}
	for i, n := range pc {
		if n <= 9 {
			out[i] = '0' + n
		} else {
			out[i] = ' '
		}
	}
	return string(out[:])
}

// blank returns a register whose every nibble is the blank marker,
// rendering as an all-space string (§4.4, §7).
func (Register) blank() Register {
	var r Register
	for i := range r {
		r[i] = nibbleBlank
	}
	return r
}
