package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `let x = 5 + 10;
fn add(a: Integer, b: Integer) -> Integer { a + b }

if x > 10: "big" else: "small";

match value {
  Some(x) => x * 2,
  None => 0,
}

[1, 2, 3] ++ [4, 5]
{ name: "Alice", age: 30 }

// a comment
/* block
   comment */
true && false || true
x |> f
x?
x += 1
a...b
`

	tests := []struct {
		kind    TokenType
		literal string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "5"},
		{PLUS, "+"},
		{INT, "10"},
		{SEMICOLON, ";"},

		{FN, "fn"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "Integer"},
		{COMMA, ","},
		{IDENT, "b"},
		{COLON, ":"},
		{IDENT, "Integer"},
		{RPAREN, ")"},
		{ARROW, "->"},
		{IDENT, "Integer"},
		{LBRACE, "{"},
		{IDENT, "a"},
		{PLUS, "+"},
		{IDENT, "b"},
		{RBRACE, "}"},

		{IF, "if"},
		{IDENT, "x"},
		{GT, ">"},
		{INT, "10"},
		{COLON, ":"},
		{STRING, "big"},
		{ELSE, "else"},
		{COLON, ":"},
		{STRING, "small"},
		{SEMICOLON, ";"},

		{MATCH, "match"},
		{IDENT, "value"},
		{LBRACE, "{"},
		{IDENT, "Some"},
		{LPAREN, "("},
		{IDENT, "x"},
		{RPAREN, ")"},
		{FARROW, "=>"},
		{IDENT, "x"},
		{STAR, "*"},
		{INT, "2"},
		{COMMA, ","},
		{IDENT, "None"},
		{FARROW, "=>"},
		{INT, "0"},
		{COMMA, ","},
		{RBRACE, "}"},

		{LBRACKET, "["},
		{INT, "1"},
		{COMMA, ","},
		{INT, "2"},
		{COMMA, ","},
		{INT, "3"},
		{RBRACKET, "]"},
		{PLUS, "+"},
		{PLUS, "+"},
		{LBRACKET, "["},
		{INT, "4"},
		{COMMA, ","},
		{INT, "5"},
		{RBRACKET, "]"},

		{LBRACE, "{"},
		{IDENT, "name"},
		{COLON, ":"},
		{STRING, "Alice"},
		{COMMA, ","},
		{IDENT, "age"},
		{COLON, ":"},
		{INT, "30"},
		{RBRACE, "}"},

		{TRUE, "true"},
		{AND, "&&"},
		{FALSE, "false"},
		{OR, "||"},
		{TRUE, "true"},

		{IDENT, "x"},
		{PIPE_OP, "|>"},
		{IDENT, "f"},

		{IDENT, "x"},
		{QUESTION, "?"},

		{IDENT, "x"},
		{PLUSEQ, "+="},
		{INT, "1"},

		{IDENT, "a"},
		{ELLIPSIS, "..."},
		{IDENT, "b"},

		{EOF, ""},
	}

	l := New(input)
	for i, want := range tests {
		got := l.NextToken()
		if got.Kind != want.kind {
			t.Fatalf("test[%d] wrong token kind. got=%s(%q) want=%s(%q)", i, got.Kind, got.Literal, want.kind, want.literal)
		}
		if got.Literal != want.literal {
			t.Fatalf("test[%d] wrong literal. got=%q want=%q", i, got.Literal, want.literal)
		}
	}
}

func TestLineColumnMonotonic(t *testing.T) {
	input := "let x\n= 1\n+ 2"
	l := New(input)
	prevLine, prevCol := 1, 0
	for {
		tok := l.NextToken()
		if tok.Kind == EOF {
			break
		}
		if tok.Line < prevLine {
			t.Fatalf("line decreased: %d < %d", tok.Line, prevLine)
		}
		if tok.Line == prevLine && tok.Column < prevCol {
			t.Fatalf("column decreased within line %d: %d < %d", tok.Line, tok.Column, prevCol)
		}
		if tok.Line != prevLine {
			prevCol = 0
		}
		prevLine, prevCol = tok.Line, tok.Column
	}
}

func TestIllegalCharacterContinuesLexing(t *testing.T) {
	l := New("let x = 1 ~ 2;")
	var kinds []TokenType
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	foundIllegal := false
	for _, k := range kinds {
		if k == ILLEGAL {
			foundIllegal = true
		}
	}
	if !foundIllegal {
		t.Fatalf("expected an ILLEGAL token for '~', got %v", kinds)
	}
	if kinds[len(kinds)-1] != EOF {
		t.Fatalf("lexer did not reach EOF after illegal character")
	}
}

func TestTripleQuotedString(t *testing.T) {
	l := New(`"""line one
line two"""`)
	tok := l.NextToken()
	if tok.Kind != TRIPLE_STRING {
		t.Fatalf("expected TRIPLE_STRING, got %s", tok.Kind)
	}
	want := "line one\nline two"
	if tok.Literal != want {
		t.Fatalf("got %q want %q", tok.Literal, want)
	}
}

func TestEscapes(t *testing.T) {
	l := New(`"a\nb\tc\\d\"e\x"`)
	tok := l.NextToken()
	want := "a\nb\tc\\d\"ex"
	if tok.Literal != want {
		t.Fatalf("got %q want %q", tok.Literal, want)
	}
}
