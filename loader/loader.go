package loader

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mk61sim/chipset-sim/vm"
)

// StateFileExt is the extension saved calculator states carry. The
// original mk61commander SAVE/LOAD commands took a bare filename with no
// enforced extension; this loader is stricter so a directory of saved
// states can be told apart from ROM images at a glance.
const StateFileExt = ".mk61state"

// ValidFileName reports whether name is safe to use as a saved-state
// filename: non-empty, no path separators, carrying StateFileExt.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r == '/' || r == '\\' {
			return false
		}
	}
	return len(name) > len(StateFileExt) && name[len(name)-len(StateFileExt):] == StateFileExt
}

// romWordsToBytes packs a slice of uint32 words little-endian, the inverse
// of bytesToROMWords, used when dumping a ROM back out to disk.
func romWordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func bytesToROMWords(data []byte, count int) ([]uint32, error) {
	if len(data) < count*4 {
		return nil, fmt.Errorf("loader: expected %d bytes, got %d", count*4, len(data))
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out, nil
}

// LoadIK13ROM reads one role's ROM image from path. The on-disk layout is
// the three tables of vm.IK13ROM concatenated in field order: the 68
// micro-instruction words, the 256 instruction-table words, then the
// 1152 micro-program bytes - mirroring how the original emulator's ROM
// loaders in mk61emu/mk_common.cpp read a flat binary image with fopen in
// binary mode.
func LoadIK13ROM(path string) (vm.IK13ROM, error) {
	var rom vm.IK13ROM

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied ROM path
	if err != nil {
		return rom, fmt.Errorf("loader: failed to read ROM image %s: %w", path, err)
	}

	miWords, err := bytesToROMWords(data, vm.MicroInstructionCount)
	if err != nil {
		return rom, fmt.Errorf("loader: %s micro-instructions: %w", path, err)
	}
	copy(rom.MicroInstructions[:], miWords)
	offset := vm.MicroInstructionCount * 4

	inWords, err := bytesToROMWords(data[offset:], vm.InstructionCount)
	if err != nil {
		return rom, fmt.Errorf("loader: %s instruction table: %w", path, err)
	}
	copy(rom.Instructions[:], inWords)
	offset += vm.InstructionCount * 4

	if len(data) < offset+vm.MicroProgramBytes {
		return rom, fmt.Errorf("loader: %s micro-program table truncated: have %d bytes, need %d", path, len(data)-offset, vm.MicroProgramBytes)
	}
	copy(rom.MicroPrograms[:], data[offset:offset+vm.MicroProgramBytes])

	// A malformed ROM image is a programmer error (§4.1): fail fast here,
	// at construction, rather than letting a bad index surface later
	// inside IK13.Tick.
	rom.Validate()

	return rom, nil
}

// SaveIK13ROM writes rom back out in the same layout LoadIK13ROM reads,
// mainly useful for dumping the synthetic placeholder ROM to disk for
// inspection.
func SaveIK13ROM(path string, rom vm.IK13ROM) error {
	data := make([]byte, 0, vm.MicroInstructionCount*4+vm.InstructionCount*4+vm.MicroProgramBytes)
	data = append(data, romWordsToBytes(rom.MicroInstructions[:])...)
	data = append(data, romWordsToBytes(rom.Instructions[:])...)
	data = append(data, rom.MicroPrograms[:]...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("loader: failed to write ROM image %s: %w", path, err)
	}
	return nil
}

// LoadROMSet reads the three role ROM images named by path. An empty path,
// or useSynthetic set, supplies vm.SyntheticROMSet for that role instead -
// letting a partial set of authentic dumps be mixed with placeholders
// during bring-up.
func LoadROMSet(ik1302Path, ik1303Path, ik1306Path string, useSynthetic bool) (*vm.ROMSet, error) {
	if useSynthetic {
		return vm.SyntheticROMSet(), nil
	}

	synth := vm.SyntheticROMSet()
	set := &vm.ROMSet{
		IK1302: synth.IK1302,
		IK1303: synth.IK1303,
		IK1306: synth.IK1306,
	}

	for _, role := range []struct {
		path string
		dst  *vm.IK13ROM
	}{
		{ik1302Path, &set.IK1302},
		{ik1303Path, &set.IK1303},
		{ik1306Path, &set.IK1306},
	} {
		if role.path == "" {
			continue
		}
		rom, err := LoadIK13ROM(role.path)
		if err != nil {
			return nil, err
		}
		*role.dst = rom
	}

	return set, nil
}

// SaveEngineState writes the engine's persistent state to path, per §6.2.
// path may carry a directory; only its base name is held to the
// StateFileExt convention.
func SaveEngineState(path string, e *vm.Engine) error {
	if !ValidFileName(filepath.Base(path)) {
		return fmt.Errorf("loader: invalid state filename %q (must end in %s)", path, StateFileExt)
	}

	f, err := os.Create(path) // #nosec G304 -- operator-supplied state path
	if err != nil {
		return fmt.Errorf("loader: failed to create state file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := e.WriteState(f); err != nil {
		return fmt.Errorf("loader: failed to write state to %s: %w", path, err)
	}
	return nil
}

// LoadEngineState restores the engine's persistent state from path. path
// may carry a directory; only its base name is held to the StateFileExt
// convention.
func LoadEngineState(path string, e *vm.Engine) error {
	if !ValidFileName(filepath.Base(path)) {
		return fmt.Errorf("loader: invalid state filename %q (must end in %s)", path, StateFileExt)
	}

	f, err := os.Open(path) // #nosec G304 -- operator-supplied state path
	if err != nil {
		return fmt.Errorf("loader: failed to open state file %s: %w", path, err)
	}
	defer f.Close()

	if err := e.ReadState(f); err != nil {
		return fmt.Errorf("loader: failed to read state from %s: %w", path, err)
	}
	return nil
}
