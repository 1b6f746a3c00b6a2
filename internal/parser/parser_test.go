package parser_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *diagnostics.Sink) {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)
	toks := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	return stmts, sink
}

func TestParseVarDeclaration(t *testing.T) {
	stmts, sink := parse(t, `var x = 1 + 2;`)
	require.False(t, sink.HadError)
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Lexeme)
	_, ok = v.Initializer.(*ast.Binary)
	assert.True(t, ok)
}

func TestParsePrecedence(t *testing.T) {
	stmts, sink := parse(t, `1 + 2 * 3;`)
	require.False(t, sink.HadError)
	require.Len(t, stmts, 1)
	es := stmts[0].(*ast.ExpressionStmt)
	bin := es.Expression.(*ast.Binary)
	assert.Equal(t, "+", bin.Operator.Lexeme)
	_, ok := bin.Right.(*ast.Binary)
	assert.True(t, ok, "right side of + should be the * binary")
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, sink := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.False(t, sink.HadError)
	require.Len(t, stmts, 1)
	block := stmts[0].(*ast.BlockStmt)
	require.Len(t, block.Statements, 2)
	_, ok := block.Statements[0].(*ast.VarStmt)
	assert.True(t, ok)
	_, ok = block.Statements[1].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestParseClassWithSuperclass(t *testing.T) {
	stmts, sink := parse(t, `class B < A { greet() { return 1; } }`)
	require.False(t, sink.HadError)
	require.Len(t, stmts, 1)
	c := stmts[0].(*ast.ClassStmt)
	require.NotNil(t, c.Superclass)
	assert.Equal(t, "A", c.Superclass.Name.Lexeme)
	require.Len(t, c.Methods, 1)
	assert.Equal(t, "greet", c.Methods[0].Name.Lexeme)
}

func TestParseMissingSemicolonReportsError(t *testing.T) {
	_, sink := parse(t, `var x = 1`)
	assert.True(t, sink.HadError)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, sink := parse(t, `1 + 2 = 3;`)
	assert.True(t, sink.HadError)
}

func TestParseReplBareExpression(t *testing.T) {
	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)
	toks := lexer.New(`1 + 2`, sink).ScanTokens()
	stmts := parser.New(toks, sink).ParseRepl()
	require.False(t, sink.HadError)
	require.Len(t, stmts, 1)
	_, ok := stmts[0].(*ast.PrintStmt)
	assert.True(t, ok)
}
