package vm

// chip is the minimal interface the ring bus needs from each of the five
// chips. The bus knows chip order; chips never call each other directly
// (§9 "Back-references").
type chip interface {
	Output() byte
	SetInput(byte)
	Tick()
}

// RingBus wires five chips' output->input in a fixed order and drives
// them through synchronous macro-ticks (§4.3). The physical ring is
// IK1302 -> IK1303 -> IR2(1) -> IK1306 -> IR2(2) -> back to IK1302.
type RingBus struct {
	chips [5]chip
}

// NewRingBus builds the fixed-order ring described in §4.3.
func NewRingBus(ik1302, ik1303, ik1306 *IK13, ir2a, ir2b *IR2) *RingBus {
	return &RingBus{chips: [5]chip{ik1302, ik1303, ir2a, ik1306, ir2b}}
}

// step runs one micro-tick: a two-phase discipline (§4.3, §5) that first
// latches every chip's input from its predecessor's output, then ticks
// every chip. No chip ever observes a neighbour's output written during
// the same micro-tick.
func (b *RingBus) step() {
	n := len(b.chips)
	outputs := make([]byte, n)
	for i, c := range b.chips {
		outputs[i] = c.Output()
	}
	for i, c := range b.chips {
		prev := (i - 1 + n) % n
		c.SetInput(outputs[prev])
	}
	for _, c := range b.chips {
		c.Tick()
	}
}

// StepMacroTick runs the ring for MicroTicksPerMacro (42) micro-ticks,
// completing exactly one macro-tick (§4.3, §3.4 invariant 1).
func (b *RingBus) StepMacroTick() {
	for i := 0; i < MicroTicksPerMacro; i++ {
		b.step()
	}
}
