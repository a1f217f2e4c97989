package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marcuscaisey/golox/token"
)

type lexedToken struct {
	Type   token.Type
	Lexeme string
}

func lexTokens(t *testing.T, src string) ([]lexedToken, []string) {
	t.Helper()
	lexer, err := newLexer(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatal(err)
	}
	var errs []string
	lexer.SetErrorHandler(func(_ token.Token, format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	})
	var toks []lexedToken
	for {
		tok := lexer.Next()
		toks = append(toks, lexedToken{Type: tok.Type, Lexeme: tok.Lexeme})
		if tok.Type == token.EOF {
			return toks, errs
		}
	}
}

func TestLexer(t *testing.T) {
	tests := map[string]struct {
		src      string
		want     []lexedToken
		wantErrs []string
	}{
		"empty source": {
			src:  "",
			want: []lexedToken{{token.EOF, ""}},
		},
		"print statement": {
			src: "print 1 + 2;",
			want: []lexedToken{
				{token.Print, "print"},
				{token.Number, "1"},
				{token.Plus, "+"},
				{token.Number, "2"},
				{token.Semicolon, ";"},
				{token.EOF, ""},
			},
		},
		"one and two character operators": {
			src: "! != = == < <= > >=",
			want: []lexedToken{
				{token.Bang, "!"},
				{token.BangEqual, "!="},
				{token.Equal, "="},
				{token.EqualEqual, "=="},
				{token.Less, "<"},
				{token.LessEqual, "<="},
				{token.Greater, ">"},
				{token.GreaterEqual, ">="},
				{token.EOF, ""},
			},
		},
		"punctuation": {
			src: "(){},.-*/;",
			want: []lexedToken{
				{token.LeftParen, "("},
				{token.RightParen, ")"},
				{token.LeftBrace, "{"},
				{token.RightBrace, "}"},
				{token.Comma, ","},
				{token.Dot, "."},
				{token.Minus, "-"},
				{token.Asterisk, "*"},
				{token.Slash, "/"},
				{token.Semicolon, ";"},
				{token.EOF, ""},
			},
		},
		"keywords": {
			src: "and class else false fun for if nil or print return super this true var while",
			want: []lexedToken{
				{token.And, "and"},
				{token.Class, "class"},
				{token.Else, "else"},
				{token.False, "false"},
				{token.Fun, "fun"},
				{token.For, "for"},
				{token.If, "if"},
				{token.Nil, "nil"},
				{token.Or, "or"},
				{token.Print, "print"},
				{token.Return, "return"},
				{token.Super, "super"},
				{token.This, "this"},
				{token.True, "true"},
				{token.Var, "var"},
				{token.While, "while"},
				{token.EOF, ""},
			},
		},
		"identifiers which prefix keywords are identifiers": {
			src: "classy format superb _x x1",
			want: []lexedToken{
				{token.Ident, "classy"},
				{token.Ident, "format"},
				{token.Ident, "superb"},
				{token.Ident, "_x"},
				{token.Ident, "x1"},
				{token.EOF, ""},
			},
		},
		"numbers": {
			src: "123 12.5 0.5",
			want: []lexedToken{
				{token.Number, "123"},
				{token.Number, "12.5"},
				{token.Number, "0.5"},
				{token.EOF, ""},
			},
		},
		"trailing dot is not part of a number": {
			src: "12.",
			want: []lexedToken{
				{token.Number, "12"},
				{token.Dot, "."},
				{token.EOF, ""},
			},
		},
		"strings": {
			src: `"abc" ""`,
			want: []lexedToken{
				{token.String, `"abc"`},
				{token.String, `""`},
				{token.EOF, ""},
			},
		},
		"strings can span multiple lines": {
			src: "\"ab\ncd\"",
			want: []lexedToken{
				{token.String, "\"ab\ncd\""},
				{token.EOF, ""},
			},
		},
		"comments are skipped": {
			src: "1 // a comment\n2",
			want: []lexedToken{
				{token.Number, "1"},
				{token.Number, "2"},
				{token.EOF, ""},
			},
		},
		"slash alone is an operator": {
			src: "1 / 2",
			want: []lexedToken{
				{token.Number, "1"},
				{token.Slash, "/"},
				{token.Number, "2"},
				{token.EOF, ""},
			},
		},
		"unterminated string literal": {
			src:      `print "abc`,
			want:     []lexedToken{{token.Print, "print"}, {token.EOF, ""}},
			wantErrs: []string{"unterminated string literal"},
		},
		"unexpected characters are skipped": {
			src:      "1 @ 2",
			want:     []lexedToken{{token.Number, "1"}, {token.Number, "2"}, {token.EOF, ""}},
			wantErrs: []string{"unexpected character @"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, errs := lexTokens(t, test.src)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("incorrect tokens (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantErrs, errs); diff != "" {
				t.Errorf("incorrect errors (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerTracksLines(t *testing.T) {
	src := "1\n\"a\nb\"\n2"
	lexer, err := newLexer(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatal(err)
	}
	wantLines := []int{1, 2, 4, 4}
	for i, want := range wantLines {
		tok := lexer.Next()
		if got := tok.StartPos.Line; got != want {
			t.Errorf("token %d (%s): line = %d, want %d", i, tok.Lexeme, got, want)
		}
	}
}
