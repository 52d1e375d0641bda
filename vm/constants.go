package vm

// Chip geometry. The IK13 register file and the IR2 ring are both fixed
// in hardware; these sizes are load-bearing for the serialisation format
// in state.go.
const (
	IK13RegisterWidth = 42  // width of R, M and ST per IK13
	IR2RingWidth      = 252 // width of the IR2 nibble ring
	MicroTicksPerMacro = IK13RegisterWidth
)

// ROM table sizes (§3.1, §6.3).
const (
	MicroInstructionCount = 68
	InstructionCount      = 256
	MicroProgramBytes     = 1152
)

// AngleUnit enumerates the front panel's angle mode latch, with the
// values radian=10, degree=11, grade=12 (§3.4 invariant 6, §9 open
// question 4). The value is held by FrontPanel and written as one byte of
// the saved state; the IK13 chips do not read it.
type AngleUnit int8

const (
	Radian AngleUnit = 10
	Degree AngleUnit = 11
	Grade  AngleUnit = 12
)

func (u AngleUnit) String() string {
	switch u {
	case Radian:
		return "RAD"
	case Degree:
		return "DEG"
	case Grade:
		return "GRAD"
	default:
		return "?"
	}
}

// PowerState is the calculator's power switch.
type PowerState uint8

const (
	PowerOff PowerState = 0
	PowerOn  PowerState = 1
)

// Mode is the emergent AUT/PRG axis of §4.7. Real hardware never stores
// this directly - it is a side effect of where the micro-program counter
// sits - but without authentic ROM dumps this implementation tracks it
// explicitly on the front panel so DoKeyPress/IsRunning stay observable
// per §4.7 even though the micro-code underneath is synthetic.
type Mode uint8

const (
	ModeAUT Mode = iota
	ModePRG
)

// KeyCoord is a (key1, key2) front-panel coordinate, §4.5.
type KeyCoord struct {
	K1 int8
	K2 int8
}

// Named key coordinates, grounded on the scenarios of spec §8 and on
// mk61commander.cpp's do_key_press call sites in original_source/.
var (
	KeyF          = KeyCoord{11, 9}
	KeyK          = KeyCoord{10, 9}
	KeyENT        = KeyCoord{11, 8}
	KeyPlus       = KeyCoord{2, 8}
	KeyMinus      = KeyCoord{3, 8} // bare: subtract; F-prefixed: square root
	KeyMul        = KeyCoord{4, 8}
	KeyDiv        = KeyCoord{5, 8}
	KeyExp        = KeyCoord{9, 8} // bare: exponent entry; F-prefixed: enter PRG mode
	KeySignChange = KeyCoord{8, 8} // bare: +/-; F-prefixed: return to AUT mode
	KeyCX         = KeyCoord{10, 8}
	KeyRS         = KeyCoord{2, 9}
	KeySTO        = KeyCoord{6, 9}
	KeyRCL        = KeyCoord{8, 9}
	KeyGTO        = KeyCoord{3, 9}
	KeyGSB        = KeyCoord{5, 9}
	KeySTPL       = KeyCoord{7, 9}
	KeySTPR       = KeyCoord{9, 9}
	KeyRTN        = KeyCoord{4, 9}
)

// DigitKey returns the coordinate for digit d (0..9). Digits live on the
// key2=1 row, key1 = d+2, matching every digit example in spec §8's
// scenario table.
func DigitKey(d int) KeyCoord {
	return KeyCoord{int8(d + 2), 1}
}

// key2 values that form the defined keyboard matrix (§4.5).
var validKey2 = map[int8]bool{1: true, 8: true, 9: true}

// ValidKey reports whether (k1, k2) lies inside the defined key matrix.
func ValidKey(k1, k2 int8) bool {
	return k1 >= 0 && k1 <= 15 && validKey2[k2]
}

// keyTickWindow is the micro-tick at which IK1302 samples key_x/key_y
// each macro-tick (§4.1 step 5, §3.4 invariant 4).
const keyTickWindow = 0

// noKey is the sentinel meaning "no key queued".
const noKey int8 = -1
