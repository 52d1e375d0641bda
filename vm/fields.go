package vm

// bcdAdd/bcdSub/bcdCmp implement the single-nibble BCD ALU operations the
// IK13's serial ALU performs one position at a time as the register file
// shifts (§4.1 step 4). carryIn/carryOut model the S latch.
//
// These operate on decimal digits 0..9. The caller (IK13.Tick) invokes
// the ALU at register position 0 whenever AMK's field includes that
// position; it does not check whether the nibble holds a sign or other
// marker (see numreader.go) rather than a digit.

func bcdAdd(a, b, carryIn byte) (sum, carryOut byte) {
	t := a + b + carryIn
	if t > 9 {
		return t - 10, 1
	}
	return t, 0
}

func bcdSub(a, b, borrowIn byte) (diff, borrowOut byte) {
	t := int(a) - int(b) - int(borrowIn)
	if t < 0 {
		return byte(t + 10), 1
	}
	return byte(t), 0
}

// bcdCmp returns 1 if a>b, 0xF (-1 as a nibble) if a<b, 0 if equal.
// applyALU stores this result in the S latch; the L, T and P latches are
// not updated by any ALU operation.
func bcdCmp(a, b byte) byte {
	switch {
	case a > b:
		return 1
	case a < b:
		return 0xF
	default:
		return 0
	}
}

// applyALU runs the AK-selected operation on one nibble position and
// updates the S (carry/borrow) latch, returning the feed-back nibble that
// replaces the raw input for this shift (§4.1 step 4).
func applyALU(ak byte, rNibble, mNibble, sLatch byte) (result, newS byte) {
	switch ak {
	case AluAdd:
		sum, carry := bcdAdd(rNibble, mNibble, sLatch)
		return sum, carry
	case AluSub:
		diff, borrow := bcdSub(rNibble, mNibble, sLatch)
		return diff, borrow
	case AluCmp:
		return rNibble, bcdCmp(rNibble, mNibble) & 0x0F
	default: // AluNop
		return rNibble, sLatch
	}
}

// fieldContains reports whether register position pos (0..41, mod 14 as
// the three 14-wide stack copies described in §3.2) falls inside the BCD
// field selected by AMK's low nibble.
func fieldContains(field byte, pos int) bool {
	p := pos % 14
	switch field {
	case FieldMantissa:
		return p >= 0 && p <= 11
	case FieldExponent:
		return p == 12 || p == 13
	case FieldSign:
		return p == 0
	default: // FieldComposite
		return true
	}
}
