package astfmt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/astfmt"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
)

func TestEncodeProgramIsDeterministic(t *testing.T) {
	src := `var a = 1; fun f(x) { return x + a; } print f(2);`

	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)
	toks := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	require.False(t, sink.HadError)

	enc1, err := astfmt.EncodeProgram(stmts)
	require.NoError(t, err)
	enc2, err := astfmt.EncodeProgram(stmts)
	require.NoError(t, err)
	assert.Equal(t, enc1, enc2)

	full1, short1 := astfmt.ContentHash(enc1)
	full2, short2 := astfmt.ContentHash(enc2)
	assert.Equal(t, full1, full2)
	assert.Equal(t, short1, short2)
}

func TestEncodeProgramDiffersForDifferentSource(t *testing.T) {
	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)

	toksA := lexer.New(`print 1;`, sink).ScanTokens()
	stmtsA := parser.New(toksA, sink).Parse()
	encA, err := astfmt.EncodeProgram(stmtsA)
	require.NoError(t, err)

	toksB := lexer.New(`print 2;`, sink).ScanTokens()
	stmtsB := parser.New(toksB, sink).Parse()
	encB, err := astfmt.EncodeProgram(stmtsB)
	require.NoError(t, err)

	assert.NotEqual(t, encA, encB)
}
