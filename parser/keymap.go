// Package parser implements the "text-mode mnemonics/synonym index"
// front-end collaborator named in spec §1: a lexer and a synonym table
// that translate a pasted command line ("F ENT 5 +") into the (key1,
// key2) coordinate pairs vm.Engine.DoKeyPress expects. It is a front-end
// helper only - the core chipset never consults it.
package parser

import (
	"fmt"
	"strings"

	"github.com/mk61sim/chipset-sim/vm"
)

// SynonymTable maps mnemonic words to key coordinates, grounded on the
// teacher's SymbolTable (parser/symbols.go): a name-to-value lookup with
// a Define/Lookup pair, here fixed at construction time instead of
// built up during a pass over source.
type SynonymTable struct {
	entries map[string]vm.KeyCoord
}

// NewSynonymTable returns the synonym table for MK-61 key mnemonics,
// grounded on the named coordinates in vm/constants.go and the
// mk61commander command vocabulary in original_source/.
func NewSynonymTable() *SynonymTable {
	t := &SynonymTable{entries: make(map[string]vm.KeyCoord)}

	t.define("F", vm.KeyF)
	t.define("K", vm.KeyK)
	t.define("ENT", vm.KeyENT)
	t.define("ENTER", vm.KeyENT)
	t.define("+", vm.KeyPlus)
	t.define("-", vm.KeyMinus)
	t.define("*", vm.KeyMul)
	t.define("X", vm.KeyMul)
	t.define("/", vm.KeyDiv)
	t.define("EXP", vm.KeyExp)
	t.define("+/-", vm.KeySignChange)
	t.define("CX", vm.KeyCX)
	t.define("C", vm.KeyCX)
	t.define("RS", vm.KeyRS)
	t.define("R/S", vm.KeyRS)
	t.define("RUN", vm.KeyRS)
	t.define("STO", vm.KeySTO)
	t.define("RCL", vm.KeyRCL)
	t.define("GTO", vm.KeyGTO)
	t.define("GSB", vm.KeyGSB)
	t.define("STPL", vm.KeySTPL)
	t.define("STPR", vm.KeySTPR)
	t.define("RTN", vm.KeyRTN)
	t.define("B/O", vm.KeyRTN)

	return t
}

func (t *SynonymTable) define(name string, key vm.KeyCoord) {
	t.entries[name] = key
}

// Lookup finds the key coordinate for a mnemonic, case-insensitive.
func (t *SynonymTable) Lookup(name string) (vm.KeyCoord, bool) {
	key, ok := t.entries[strings.ToUpper(name)]
	return key, ok
}

// Translate tokenizes line and resolves every token to a key coordinate,
// in order: digits become vm.DigitKey(d), words are resolved through the
// synonym table. An unrecognized word is reported with its position
// rather than silently skipped.
func Translate(line string) ([]vm.KeyCoord, error) {
	synonyms := NewSynonymTable()

	tokens := NewLexer(line).Tokenize()
	keys := make([]vm.KeyCoord, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.Type {
		case TokenDigit:
			d := int(tok.Literal[0] - '0')
			keys = append(keys, vm.DigitKey(d))
		case TokenWord:
			key, ok := synonyms.Lookup(tok.Literal)
			if !ok {
				return nil, newError(tok.Pos, "unrecognized key mnemonic %q", tok.Literal)
			}
			keys = append(keys, key)
		default:
			return nil, newError(tok.Pos, "unexpected token %q", tok.Literal)
		}
	}

	return keys, nil
}

// TranslateAndPress translates line and feeds every resulting key
// coordinate to press in order, the shape a panel/service front end
// wants when forwarding a pasted command line.
func TranslateAndPress(line string, press func(k1, k2 int) error) error {
	keys, err := Translate(line)
	if err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	for _, k := range keys {
		if err := press(int(k.K1), int(k.K2)); err != nil {
			return fmt.Errorf("parser: pressing %v: %w", k, err)
		}
	}
	return nil
}
