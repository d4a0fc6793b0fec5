package glint

import "testing"

func TestLexerTokenSequence(t *testing.T) {
	input := `def tally(a, b: int, *rest)
  total = a + b
  total | clamp
end`

	expected := []struct {
		typ     TokenType
		literal string
	}{
		{tokenDef, "def"},
		{tokenIdent, "tally"},
		{tokenLParen, "("},
		{tokenIdent, "a"},
		{tokenComma, ","},
		{tokenIdent, "b"},
		{tokenColon, ":"},
		{tokenIdent, "int"},
		{tokenComma, ","},
		{tokenAsterisk, "*"},
		{tokenIdent, "rest"},
		{tokenRParen, ")"},
		{tokenIdent, "total"},
		{tokenAssign, "="},
		{tokenIdent, "a"},
		{tokenPlus, "+"},
		{tokenIdent, "b"},
		{tokenIdent, "total"},
		{tokenPipe, "|"},
		{tokenIdent, "clamp"},
		{tokenEnd, "end"},
		{tokenEOF, ""},
	}

	l := newLexer(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d: expected type %s, got %s (%q)", i, want.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != want.literal {
			t.Fatalf("token %d: expected literal %q, got %q", i, want.literal, tok.Literal)
		}
	}
}

func TestLexerPipeVersusLogicalOr(t *testing.T) {
	l := newLexer("a | b || c")
	types := []TokenType{tokenIdent, tokenPipe, tokenIdent, tokenOr, tokenIdent, tokenEOF}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: expected %s, got %s", i, want, tok.Type)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	l := newLexer("42 1_000 3.14 7.")

	tok := l.NextToken()
	if tok.Type != tokenInt || tok.Literal != "42" {
		t.Fatalf("expected int 42, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != tokenInt || tok.Literal != "1000" {
		t.Fatalf("expected int 1000, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != tokenFloat || tok.Literal != "3.14" {
		t.Fatalf("expected float 3.14, got %s %q", tok.Type, tok.Literal)
	}
	// A dot with no digit after it stays separate from the number.
	tok = l.NextToken()
	if tok.Type != tokenInt || tok.Literal != "7" {
		t.Fatalf("expected int 7, got %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != tokenDot {
		t.Fatalf("expected dot, got %s", tok.Type)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	l := newLexer(`"line\nnext \"quoted\" tab\t"`)
	tok := l.NextToken()
	if tok.Type != tokenString {
		t.Fatalf("expected string, got %s", tok.Type)
	}
	if tok.Literal != "line\nnext \"quoted\" tab\t" {
		t.Fatalf("unexpected literal: %q", tok.Literal)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := newLexer(`"abc`)
	tok := l.NextToken()
	if tok.Type != tokenIllegal {
		t.Fatalf("expected illegal token, got %s %q", tok.Type, tok.Literal)
	}
}

func TestLexerCommentsAndPositions(t *testing.T) {
	input := "x = 1 # trailing\ny = 2"
	l := newLexer(input)

	tok := l.NextToken()
	if tok.Type != tokenIdent || tok.Pos.Line != 1 {
		t.Fatalf("expected x on line 1, got %s at %d", tok.Literal, tok.Pos.Line)
	}
	l.NextToken() // =
	l.NextToken() // 1

	tok = l.NextToken()
	if tok.Type != tokenIdent || tok.Literal != "y" {
		t.Fatalf("expected y after comment, got %s %q", tok.Type, tok.Literal)
	}
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("expected y at 2:1, got %d:%d", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestLexerKeywords(t *testing.T) {
	cases := map[string]TokenType{
		"def":    tokenDef,
		"end":    tokenEnd,
		"return": tokenReturn,
		"break":  tokenBreak,
		"next":   tokenNext,
		"do":     tokenDo,
		"for":    tokenFor,
		"in":     tokenIn,
		"if":     tokenIf,
		"elsif":  tokenElsif,
		"else":   tokenElse,
		"true":   tokenTrue,
		"false":  tokenFalse,
		"nil":    tokenNil,
		"defer":  tokenIdent,
	}
	for word, want := range cases {
		if got := lookupIdent(word); got != want {
			t.Fatalf("%s: expected %s, got %s", word, want, got)
		}
	}
}
