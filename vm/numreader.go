package vm

// Register is a 14-position printable BCD field, copied out of an IK13's
// R array without mutating chip state (§4.4).
type Register [14]byte

// Nibble markers used inside R. 0x0-0x9 are decimal digits; the rest mark
// sign/exponent-sign/decimal-point/blank, matching what numreader needs
// to render a register without any further chip context.
const (
	nibblePositive byte = 0xA
	nibbleNegative byte = 0xB
	nibbleDecPoint byte = 0xC
	nibbleExpPlus  byte = 0xD
	nibbleExpMinus byte = 0xE
	nibbleBlank    byte = 0xF
)

// Stack register identifiers, §3.3/§6.1.
type StackReg uint8

const (
	RegX1 StackReg = iota
	RegX
	RegY
	RegZ
	RegT
)

// Memory register identifiers R0..RE, §3.3/§6.1.
type MemReg uint8

const (
	RegR0 MemReg = iota
	RegR1
	RegR2
	RegR3
	RegR4
	RegR5
	RegR6
	RegR7
	RegR8
	RegR9
	RegRA
	RegRB
	RegRC
	RegRD
	RegRE
)

// Synthetic decode-table addresses into the 42-wide R array. Real
// hardware time-multiplexes the stack and program-memory registers
// through the ring over many macro-ticks; reproducing that exactly needs
// the authentic ROM this implementation does not have (§9 open question
// 1), so these are fixed, documented placeholder windows that wrap
// modulo IK13RegisterWidth. They are internally consistent: the same
// window always reads the same logical register.
var stackAddrs = [5]int{0, 8, 16, 24, 32}
var mem1303Addrs = [7]int{0, 6, 12, 18, 24, 30, 36}
var mem1306Addrs = [8]int{0, 5, 10, 15, 20, 25, 30, 35}

// readWindow copies 14 consecutive (wrapping) nibbles from arr starting
// at addr.
func readWindow(arr *[IK13RegisterWidth]byte, addr int) Register {
	var reg Register
	for i := 0; i < 14; i++ {
		reg[i] = arr[(addr+i)%IK13RegisterWidth]
	}
	return reg
}

// ReadStackRegister copies the 14-nibble window for a stack register out
// of IK1302's R array (§4.4). It does not mutate chip state.
func ReadStackRegister(ik1302 *IK13, r StackReg) (Register, error) {
	if int(r) >= len(stackAddrs) {
		return Register{}, ErrInvalidRegister
	}
	return readWindow(&ik1302.R, stackAddrs[r]), nil
}

// ReadMemRegister copies the 14-nibble window for a memory register
// R0..RE out of IK1303 (R0..R6) or IK1306 (R7..RE), per §4.4's decode
// table.
func ReadMemRegister(ik1303, ik1306 *IK13, r MemReg) (Register, error) {
	switch {
	case r <= RegR6:
		return readWindow(&ik1303.R, mem1303Addrs[r]), nil
	case r <= RegRE:
		return readWindow(&ik1306.R, mem1306Addrs[r-RegR7]), nil
	default:
		return Register{}, ErrInvalidRegister
	}
}

// ProgCounter derives the two-digit program-counter string from IK1302's
// flag nibbles (§3.3, §4.4): the first two ST positions.
func ProgCounter(ik1302 *IK13) [2]byte {
	return [2]byte{ik1302.ST[0] & 0x0F, ik1302.ST[1] & 0x0F}
}

// String renders a register's printable form, §4.4: leading sign (' ' or
// '-'), mantissa digits with an embedded decimal point, exponent sign,
// two exponent digits, padded with spaces, blank for an empty slot.
func (r Register) String() string {
	var b [14]byte
	for i := range b {
		b[i] = ' '
	}

	switch r[0] {
	case nibbleNegative:
		b[0] = '-'
	case nibblePositive:
		b[0] = ' '
	default:
		b[0] = ' '
	}

	for i := 1; i <= 8 && i < len(r); i++ {
		switch n := r[i]; {
		case n <= 9:
			b[i] = '0' + n
		case n == nibbleDecPoint:
			b[i] = '.'
		default:
			b[i] = ' '
		}
	}

	if len(r) > 9 {
		switch r[9] {
		case nibbleExpPlus:
			b[9] = '+'
		case nibbleExpMinus:
			b[9] = '-'
		default:
			b[9] = ' '
		}
	}
	for i, p := 10, 10; i <= 11 && p < len(r); i, p = i+1, p+1 {
		if r[p] <= 9 {
			b[i] = '0' + r[p]
		}
	}

	return string(b[:])
}
