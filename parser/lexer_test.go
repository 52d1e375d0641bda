package parser

import "testing"

func TestLexerTokenizesDigitsAndWords(t *testing.T) {
	tokens := NewLexer("F ENT 5 +").Tokenize()

	want := []struct {
		typ TokenType
		lit string
	}{
		{TokenWord, "F"},
		{TokenWord, "ENT"},
		{TokenDigit, "5"},
		{TokenWord, "+"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Literal != w.lit {
			t.Errorf("token %d: got %s(%q), want %s(%q)", i, tokens[i].Type, tokens[i].Literal, w.typ, w.lit)
		}
	}
}

func TestLexerTokenizesCompoundPunctuationAsSingleWord(t *testing.T) {
	tokens := NewLexer("+/- R/S").Tokenize()
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Literal != "+/-" {
		t.Errorf("expected %q to scan as one token, got %q", "+/-", tokens[0].Literal)
	}
	if tokens[1].Literal != "R/S" {
		t.Errorf("expected %q to scan as one token, got %q", "R/S", tokens[1].Literal)
	}
}

func TestLexerEmptyInputYieldsNoTokens(t *testing.T) {
	tokens := NewLexer("   \t\n  ").Tokenize()
	if len(tokens) != 0 {
		t.Errorf("expected no tokens for whitespace-only input, got %+v", tokens)
	}
}
