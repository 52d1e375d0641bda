package vm

// FrontPanel holds the calculator's externally observable switch state:
// the pending key-matrix coordinate, the angle-unit latch, the power
// switch, and the emergent AUT/PRG mode plus running flag (§4.5, §4.7).
//
// Real micro-code derives mode/running purely from where program
// execution sits; without authentic ROM this implementation tracks them
// explicitly here so Engine.IsRunning stays observable exactly as §4.7
// describes, at the cost of storing state the hardware doesn't.
type FrontPanel struct {
	pendingK1, pendingK2 int8
	hasPending           bool

	angle AngleUnit
	power PowerState

	mode    Mode
	running bool
	fPrefix bool
}

// NewFrontPanel returns a panel powered off, in radians, AUT mode.
func NewFrontPanel() *FrontPanel {
	return &FrontPanel{
		pendingK1: noKey,
		pendingK2: noKey,
		angle:     Radian,
		power:     PowerOff,
		mode:      ModeAUT,
	}
}

// PressKey queues (k1, k2) for the next macro-tick and updates the
// emergent mode/running axes (§4.7). It returns ErrInvalidKey for
// coordinates outside the defined matrix (§7).
func (p *FrontPanel) PressKey(k1, k2 int8) error {
	if !ValidKey(k1, k2) {
		return ErrInvalidKey
	}

	switch {
	case k1 == KeyF.K1 && k2 == KeyF.K2:
		p.fPrefix = true
	case p.fPrefix:
		switch {
		case k1 == KeyExp.K1 && k2 == KeyExp.K2:
			p.mode = ModePRG
		case k1 == KeySignChange.K1 && k2 == KeySignChange.K2:
			p.mode = ModeAUT
		}
		p.fPrefix = false
	case k1 == KeyRS.K1 && k2 == KeyRS.K2 && p.mode == ModeAUT:
		p.running = !p.running
	}

	p.pendingK1, p.pendingK2 = k1, k2
	p.hasPending = true
	return nil
}

// TakePending returns the queued key coordinate (or noKey, noKey, false
// if nothing is queued) and clears the queue. Called once per macro-tick
// (§3.4 invariant 4).
func (p *FrontPanel) TakePending() (k1, k2 int8, ok bool) {
	if !p.hasPending {
		return noKey, noKey, false
	}
	k1, k2 = p.pendingK1, p.pendingK2
	p.hasPending = false
	p.pendingK1, p.pendingK2 = noKey, noKey
	return k1, k2, true
}

// SetAngleUnit sets the angle-unit latch (§3.4 invariant 6).
func (p *FrontPanel) SetAngleUnit(u AngleUnit) { p.angle = u }

// AngleUnit returns the current angle-unit latch.
func (p *FrontPanel) AngleUnit() AngleUnit { return p.angle }

// SetPowerState toggles the power switch; idempotent, never resets
// register contents (§4.5).
func (p *FrontPanel) SetPowerState(s PowerState) { p.power = s }

// PowerState returns the current power switch state.
func (p *FrontPanel) PowerState() PowerState { return p.power }

// IsRunning reports the emergent Run axis (§4.7): R/S toggles it while in
// AUT mode; entering PRG mode does not itself start execution.
func (p *FrontPanel) IsRunning() bool { return p.running }

// Mode returns the emergent AUT/PRG axis.
func (p *FrontPanel) Mode() Mode { return p.mode }
