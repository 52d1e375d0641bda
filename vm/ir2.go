package vm

// IR2 is the serial shift-register memory chip: a 252-nibble ring with
// one input latch and one output latch (§3.2, §4.2).
type IR2 struct {
	M     [IR2RingWidth]byte
	mtick uint16
	input byte
	output byte
}

// NewIR2 returns an IR2 with its ring zeroed and mtick at 0.
func NewIR2() *IR2 {
	return &IR2{}
}

// Output returns the chip's output latch, wired to the next chip's input.
func (c *IR2) Output() byte { return c.output }

// SetInput latches a nibble from the previous chip in the ring.
func (c *IR2) SetInput(v byte) { c.input = v & 0x0F }

// Tick advances the ring by exactly one micro-tick (§4.2): the nibble
// leaving the ring becomes output, the input nibble takes its place, and
// the ring pointer advances. This is the chip's entire semantics; all
// complexity lives in what the connected IK13 injects.
func (c *IR2) Tick() {
	c.output = c.M[c.mtick]
	c.M[c.mtick] = c.input
	c.mtick = (c.mtick + 1) % IR2RingWidth
}

// MTick returns the current ring position, 0..251.
func (c *IR2) MTick() uint16 { return c.mtick }

// IR2StateSize is the number of bytes writeIR2/readIR2 exchange for
// one IR2: the 252-nibble ring plus the one-byte mtick (§6.2).
const IR2StateSize = IR2RingWidth + 1
