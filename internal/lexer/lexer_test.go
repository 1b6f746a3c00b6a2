package lexer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/token"
)

func scan(t *testing.T, src string) ([]token.Token, *diagnostics.Sink) {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)
	toks := lexer.New(src, sink).ScanTokens()
	return toks, sink
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, sink := scan(t, "(){},.-+;*!= = == <= >= < > /")
	require.False(t, sink.HadError)
	assert.Equal(t, []token.Type{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL,
		token.GREATER_EQUAL, token.LESS, token.GREATER, token.SLASH, token.EOF,
	}, types(toks))
}

func TestScanLineComment(t *testing.T) {
	toks, sink := scan(t, "// a comment\nvar x = 1;")
	require.False(t, sink.HadError)
	assert.Equal(t, []token.Type{token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON, token.EOF}, types(toks))
	assert.Equal(t, 2, toks[0].Line)
}

func TestScanString(t *testing.T) {
	toks, sink := scan(t, `"hello world"`)
	require.False(t, sink.HadError)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestScanUnterminatedString(t *testing.T) {
	_, sink := scan(t, `"unterminated`)
	assert.True(t, sink.HadError)
}

func TestScanNumber(t *testing.T) {
	toks, sink := scan(t, "123 45.67 8.")
	require.False(t, sink.HadError)
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, 123.0, toks[0].Literal)
	assert.Equal(t, 45.67, toks[1].Literal)
	// "8." has no digit after the dot so the dot is not part of the number
	assert.Equal(t, 8.0, toks[2].Literal)
	assert.Equal(t, token.DOT, toks[3].Type)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks, sink := scan(t, "orchid or class")
	require.False(t, sink.HadError)
	assert.Equal(t, []token.Type{token.IDENTIFIER, token.OR, token.CLASS, token.EOF}, types(toks))
}

func TestScanUnexpectedCharacter(t *testing.T) {
	_, sink := scan(t, "@")
	assert.True(t, sink.HadError)
}
