package parser

import (
	"testing"

	"github.com/mk61sim/chipset-sim/vm"
)

func TestSynonymTableLookupIsCaseInsensitive(t *testing.T) {
	st := NewSynonymTable()

	key, ok := st.Lookup("gto")
	if !ok {
		t.Fatal("expected lowercase lookup to resolve")
	}
	if key != vm.KeyGTO {
		t.Errorf("got %v, want %v", key, vm.KeyGTO)
	}
}

func TestSynonymTableUnknownMnemonic(t *testing.T) {
	st := NewSynonymTable()
	if _, ok := st.Lookup("NOPE"); ok {
		t.Error("expected an unregistered mnemonic to miss")
	}
}

func TestTranslateResolvesDigitsAndMnemonics(t *testing.T) {
	keys, err := Translate("F ENT 5 +")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []vm.KeyCoord{vm.KeyF, vm.KeyENT, vm.DigitKey(5), vm.KeyPlus}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %+v", len(want), len(keys), keys)
	}
	for i, w := range want {
		if keys[i] != w {
			t.Errorf("key %d: got %v, want %v", i, keys[i], w)
		}
	}
}

func TestTranslateRejectsUnrecognizedMnemonic(t *testing.T) {
	if _, err := Translate("BOGUS"); err == nil {
		t.Error("expected an error for an unrecognized mnemonic")
	}
}

func TestTranslateAndPressForwardsEveryKey(t *testing.T) {
	var pressed []vm.KeyCoord
	press := func(k1, k2 int) error {
		pressed = append(pressed, vm.KeyCoord{K1: int8(k1), K2: int8(k2)})
		return nil
	}

	if err := TranslateAndPress("1 + 2", press); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []vm.KeyCoord{vm.DigitKey(1), vm.KeyPlus, vm.DigitKey(2)}
	if len(pressed) != len(want) {
		t.Fatalf("expected %d presses, got %d", len(want), len(pressed))
	}
	for i, w := range want {
		if pressed[i] != w {
			t.Errorf("press %d: got %v, want %v", i, pressed[i], w)
		}
	}
}
