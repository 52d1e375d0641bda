package vm

// IK13 is one instance of the single-chip processor, in one of three
// roles (IK1302, IK1303, IK1306). The register file (R, M, ST) and the
// five one-nibble latches are the chip's entire persistent state; the
// executing micro-instruction is recomputed every micro-tick from the
// opcode window currently sitting in ST (§4.1) rather than stored as a
// separate hidden program counter, so the serialised state in state.go
// matches §6.2 exactly: nibble arrays, latches, mtick - nothing else.
type IK13 struct {
	R, M, ST [IK13RegisterWidth]byte
	S, S1, L, T, P byte

	mtick uint8

	AMK, ASP, AK, MOD byte

	input, output byte

	rom *IK13ROM

	// Key-matrix latches, meaningful only on the IK1302 instance that
	// the front panel wires up (§3.2, §4.1 step 5).
	isKeyChip    bool
	keyX, keyY   int8
	comma        int8
}

// NewIK13 returns a zeroed IK13. Call SetROM before the first Tick.
func NewIK13() *IK13 {
	c := &IK13{}
	c.keyX, c.keyY = noKey, noKey
	return c
}

// SetROM attaches the chip's immutable, non-owned ROM image (§4.1, §9).
func (c *IK13) SetROM(rom *IK13ROM) {
	if rom == nil {
		panic("vm: SetROM called with nil ROM")
	}
	c.rom = rom
}

// EnableKeyMatrix marks this instance as the key-sampling chip (IK1302).
func (c *IK13) EnableKeyMatrix() { c.isKeyChip = true }

// Output returns the chip's output latch, wired to the next chip's input.
func (c *IK13) Output() byte { return c.output }

// SetInput latches a nibble from the previous chip in the ring.
func (c *IK13) SetInput(v byte) { c.input = v & 0x0F }

// MTick returns the current micro-tick, 0..41.
func (c *IK13) MTick() uint8 { return c.mtick }

// QueueKeyPress latches a (key1, key2) front-panel coordinate for the
// next defined sampling window (§3.4 invariant 4). Only meaningful on the
// key-matrix chip.
func (c *IK13) QueueKeyPress(key1, key2 int8) {
	c.keyX, c.keyY = key1, key2
}

// opcodeWindow reads the two-nibble opcode sitting in the last two ST
// positions. As ST shifts during a macro-tick this window genuinely
// changes tick to tick, letting a branch taken mid-macro-tick steer the
// very next micro-instruction (§4.1 step 6).
func (c *IK13) opcodeWindow() byte {
	hi := c.ST[IK13RegisterWidth-2] & 0x0F
	lo := c.ST[IK13RegisterWidth-1] & 0x0F
	return hi<<4 | lo
}

// Tick advances the chip by exactly one micro-tick, implementing the
// seven-step algorithm of spec §4.1.
func (c *IK13) Tick() {
	if c.rom == nil {
		panic("vm: IK13.Tick called before SetROM")
	}

	// Steps 1-2: fetch and decode the executing micro-instruction from
	// the opcode currently visible in ST, windowed by mtick.
	op := c.opcodeWindow()
	instr := c.rom.InstructionAt(op)
	length := instr.Length
	if length == 0 {
		length = 1
	}
	mpIndex := (instr.Start + uint16(c.mtick)%uint16(length)) % MicroProgramBytes
	microIdx := c.rom.MicroPrograms[mpIndex]
	mi := c.rom.MicroInstructionAt(microIdx)
	c.AMK, c.ASP, c.AK, c.MOD = mi.AMK, mi.ASP, mi.AK, mi.MOD

	dest := c.AMK >> 4
	field := c.AMK & 0x0F

	// Step 4: ALU acts on position 0 before the shift, if this field is
	// selected at this position.
	feed := c.input
	if fieldContains(field, 0) {
		feed, c.S = applyALU(c.AK, c.R[0], c.M[0], c.S)
	}

	// Step 3: shift R, M, ST left by one nibble; the nibble leaving
	// position 41 becomes output, and the feed value enters position 0
	// of whichever arrays AMK's destination mask selects.
	c.output = c.R[IK13RegisterWidth-1]
	copy(c.R[1:], c.R[:IK13RegisterWidth-1])
	copy(c.M[1:], c.M[:IK13RegisterWidth-1])
	copy(c.ST[1:], c.ST[:IK13RegisterWidth-1])

	if dest&DestR != 0 {
		c.R[0] = feed
	} else {
		c.R[0] = c.input
	}
	if dest&DestM != 0 {
		c.M[0] = feed
	} else {
		c.M[0] = c.input
	}
	if dest&DestST != 0 {
		c.ST[0] = feed
	} else {
		c.ST[0] = c.input
	}

	// Step 5: key-matrix sampling, IK1302 only, at the defined window.
	if c.isKeyChip && c.mtick == keyTickWindow && c.keyX != noKey {
		c.ST[0] = byte(c.keyX) & 0x0F
		c.ST[1] = byte(c.keyY) & 0x0F
		c.keyX, c.keyY = noKey, noKey
	}

	// Step 6: MOD is latched but not consulted. mpIndex is recomputed
	// every tick from ST's live content through the instruction table,
	// so there is no separate hidden program counter to branch (see the
	// type doc comment).
	_ = c.MOD

	// Step 7.
	c.mtick = (c.mtick + 1) % MicroTicksPerMacro
}

// IK13StateSize is the number of bytes writeIK13/readIK13 exchange for
// one IK13 (§6.2): three 42-nibble arrays, five one-nibble latches, and
// the one-byte mtick.
const IK13StateSize = 3*IK13RegisterWidth + 5 + 1
