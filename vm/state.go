package vm

import "io"

// StateSize is the total byte count of the persistent-state blob (§6.2):
// the three IK13s, the two IR2s, then the five-byte tail (angle unit,
// power state, mode, running, F-prefix pending), concatenated in that
// fixed order.
const StateSize = 3*IK13StateSize + 2*IR2StateSize + 5

// writeIK13 appends one IK13's state: R, M, ST, then S/S1/L/T/P, then
// mtick, each as single bytes (§6.2).
func writeIK13(w io.Writer, c *IK13) (int, error) {
	buf := make([]byte, 0, IK13StateSize)
	buf = append(buf, c.R[:]...)
	buf = append(buf, c.M[:]...)
	buf = append(buf, c.ST[:]...)
	buf = append(buf, c.S, c.S1, c.L, c.T, c.P, c.mtick)
	n, err := w.Write(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, ErrWriteFailed
	}
	return n, nil
}

func readIK13(r io.Reader, c *IK13) (int, error) {
	buf := make([]byte, IK13StateSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, ErrShortRead
	}
	off := 0
	copy(c.R[:], buf[off:off+IK13RegisterWidth])
	off += IK13RegisterWidth
	copy(c.M[:], buf[off:off+IK13RegisterWidth])
	off += IK13RegisterWidth
	copy(c.ST[:], buf[off:off+IK13RegisterWidth])
	off += IK13RegisterWidth
	c.S, c.S1, c.L, c.T, c.P = buf[off], buf[off+1], buf[off+2], buf[off+3], buf[off+4]
	off += 5
	c.mtick = buf[off]
	return n, nil
}

func writeIR2(w io.Writer, c *IR2) (int, error) {
	buf := make([]byte, 0, IR2StateSize)
	buf = append(buf, c.M[:]...)
	buf = append(buf, byte(c.mtick))
	n, err := w.Write(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, ErrWriteFailed
	}
	return n, nil
}

func readIR2(r io.Reader, c *IR2) (int, error) {
	buf := make([]byte, IR2StateSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return n, ErrShortRead
	}
	copy(c.M[:], buf[:IR2RingWidth])
	c.mtick = uint16(buf[IR2RingWidth])
	return n, nil
}

// WriteState writes the full persistent-state blob to sink, returning the
// number of bytes written (§6.1, §6.2).
func (e *Engine) WriteState(sink io.Writer) (int, error) {
	total := 0
	for _, c := range []*IK13{e.ik1302, e.ik1303, e.ik1306} {
		n, err := writeIK13(sink, c)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, c := range []*IR2{e.ir2a, e.ir2b} {
		n, err := writeIR2(sink, c)
		total += n
		if err != nil {
			return total, err
		}
	}
	tail := []byte{
		byte(e.panel.AngleUnit()),
		byte(e.panel.PowerState()),
		byte(e.panel.mode),
		boolToByte(e.panel.running),
		boolToByte(e.panel.fPrefix),
	}
	n, err := sink.Write(tail)
	total += n
	if err != nil {
		return total, err
	}
	if n != len(tail) {
		return total, ErrWriteFailed
	}
	return total, nil
}

// ReadState restores the engine from a blob previously produced by
// WriteState. The format is versionless and must round-trip exactly
// (§6.2): every public accessor returns byte-identical output after
// read(write(e)).
func (e *Engine) ReadState(source io.Reader) error {
	for _, c := range []*IK13{e.ik1302, e.ik1303, e.ik1306} {
		if _, err := readIK13(source, c); err != nil {
			return err
		}
	}
	for _, c := range []*IR2{e.ir2a, e.ir2b} {
		if _, err := readIR2(source, c); err != nil {
			return err
		}
	}
	tail := make([]byte, 5)
	if _, err := io.ReadFull(source, tail); err != nil {
		return ErrShortRead
	}
	e.panel.SetAngleUnit(AngleUnit(tail[0]))
	e.panel.SetPowerState(PowerState(tail[1]))
	e.panel.mode = Mode(tail[2])
	e.panel.running = byteToBool(tail[3])
	e.panel.fPrefix = byteToBool(tail[4])

	e.indicator = e.renderIndicator()
	return nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteToBool(b byte) bool {
	return b != 0
}
