package synparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.synparse.dev/internal/test"
)

func newTestLexer() *Lexer {
	l := NewLexer()
	l.AddTokenType(NewKeyword("let"))
	l.AddTokenType(NewKeyword("="))
	l.AddTokenType(NewSeparator(";"))
	l.AddTokenType(NewKeyword("+"))
	l.AddTokenType(NewPrefix("-"))
	l.AddTokenType(NewPostfix("!"))
	l.AddTokenType(NewSeparator(","))
	l.AddTokenType(NewWord(`[A-Za-z_][A-Za-z0-9_]*`))
	l.AddTokenType(NewWord(`[0-9]+`))
	l.AddTokenType(NewLiteral())
	return l
}

func lexAll(t *testing.T, l *Lexer, src string) []Token {
	t.Helper()
	l.SetInputStream(NewStringInputStream(src))

	var toks []Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func tokenTexts(toks []Token) []string {
	texts := make([]string, len(toks))
	for i, tok := range toks {
		texts[i] = tok.Text
	}
	return texts
}

func TestLexerBasicSequence(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, "let x = 42;")
	assert.Equal(t, []string{"let", "x", "=", "42", ";"}, tokenTexts(toks))
}

func TestLexerStringLiteral(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, `let s = "hello there";`)
	assert.Equal(t, []string{"let", "s", "=", "hello there", ";"}, tokenTexts(toks))
}

func TestLexerEmptyStringLiteral(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, `""`)
	assert.Equal(t, []string{""}, tokenTexts(toks))
}

func TestLexerLineComment(t *testing.T) {
	l := newTestLexer()
	l.EnableLineComments("//")
	toks := lexAll(t, l, "let x = 1; // trailing remark\nlet y = 2;")
	assert.Equal(t, []string{"let", "x", "=", "1", ";", "let", "y", "=", "2", ";"}, tokenTexts(toks))
}

func TestLexerBlockComment(t *testing.T) {
	l := newTestLexer()
	l.EnableBlockComments("/*", "*/")
	toks := lexAll(t, l, "let x /* a comment spanning\nmultiple lines */ = 1;")
	assert.Equal(t, []string{"let", "x", "=", "1", ";"}, tokenTexts(toks))
}

func TestLexerSeparatorSplitsAroundMatch(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, "a,b")
	assert.Equal(t, []string{"a", ",", "b"}, tokenTexts(toks))
}

func TestLexerPrefix(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, "-5")
	assert.Equal(t, []string{"-", "5"}, tokenTexts(toks))
}

func TestLexerPostfix(t *testing.T) {
	l := newTestLexer()
	toks := lexAll(t, l, "5!")
	assert.Equal(t, []string{"5", "!"}, tokenTexts(toks))
}

func TestLexerCaseInsensitiveKeyword(t *testing.T) {
	l := NewLexer()
	l.AddTokenType(NewCaseInsensitiveKeyword("let"))
	l.AddTokenType(NewWord(`[A-Za-z_][A-Za-z0-9_]*`))

	toks := lexAll(t, l, "LET")
	assert.Len(t, toks, 1)
	assert.True(t, toks[0].HasTypeID(l.keywords["let"].ID()))
}

func TestLexerUnknownLexemeErrors(t *testing.T) {
	l := newTestLexer()
	l.SetInputStream(NewStringInputStream("@"))

	_, ok, err := l.NextToken()
	assert.False(t, ok)
	assert.Error(t, err)

	var lexErr *LexError
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexerAmbiguousLexemeCarriesEveryMatchedType(t *testing.T) {
	l := NewLexer()
	word := NewWord(`[A-Za-z]+`)
	kw := NewKeyword("let")
	l.AddTokenType(word)
	l.AddTokenType(kw)

	toks := lexAll(t, l, "let")
	assert.Len(t, toks, 1)
	assert.True(t, toks[0].HasTypeID(word.ID()))
	assert.True(t, toks[0].HasTypeID(kw.ID()))
}

func TestLexerUnclosedLiteralIsNotALiteral(t *testing.T) {
	l := newTestLexer()
	l.SetInputStream(NewStringInputStream(`"unclosed`))

	_, ok, err := l.NextToken()
	assert.False(t, ok)
	assert.Error(t, err)
}

// Use a package-level variable to avoid compiler optimization dropping the call.
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := newTestLexer()
		l.SetInputStream(NewStringInputStream(data))
		b.StartTimer()

		var toks []Token
		for {
			tok, ok, err := l.NextToken()
			if err != nil {
				b.Fatal(err)
			}
			if !ok {
				break
			}
			toks = append(toks, tok)
		}
		benchResult = toks
	}
}

func BenchmarkLexer100(b *testing.B)     { benchmarkLexer(100, b) }
func BenchmarkLexer1000(b *testing.B)    { benchmarkLexer(1000, b) }
func BenchmarkLexer10000(b *testing.B)   { benchmarkLexer(10000, b) }
func BenchmarkLexer100000(b *testing.B)  { benchmarkLexer(100000, b) }
func BenchmarkLexer1000000(b *testing.B) { benchmarkLexer(1000000, b) }
