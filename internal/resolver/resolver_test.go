package resolver_test

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
	"github.com/aledsdavies/lox/internal/resolver"
)

func resolve(t *testing.T, src string) (*diagnostics.Sink, resolver.Locals) {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.NewSink(&buf, false)
	toks := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	locals := resolver.New(sink).Resolve(stmts)
	return sink, locals
}

func TestResolveBlockShadowing(t *testing.T) {
	sink, _ := resolve(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
	`)
	assert.False(t, sink.HadError)
}

func TestResolveSelfReferenceInInitializerFails(t *testing.T) {
	sink, _ := resolve(t, `{ var a = a; }`)
	assert.True(t, sink.HadError)
}

func TestResolveDuplicateLocalFails(t *testing.T) {
	sink, _ := resolve(t, `{ var a = 1; var a = 2; }`)
	assert.True(t, sink.HadError)
}

func TestResolveReturnOutsideFunctionFails(t *testing.T) {
	sink, _ := resolve(t, `return 1;`)
	assert.True(t, sink.HadError)
}

func TestResolveThisOutsideClassFails(t *testing.T) {
	sink, _ := resolve(t, `print this;`)
	assert.True(t, sink.HadError)
}

func TestResolveClassInheritFromItselfFails(t *testing.T) {
	sink, _ := resolve(t, `class Oops < Oops {}`)
	assert.True(t, sink.HadError)
}

func TestResolveSuperWithoutSuperclassFails(t *testing.T) {
	sink, _ := resolve(t, `
		class A { f() { return super.f(); } }
	`)
	assert.True(t, sink.HadError)
}

func TestResolveInitializerReturnValueFails(t *testing.T) {
	sink, _ := resolve(t, `
		class A { init() { return 1; } }
	`)
	assert.True(t, sink.HadError)
}

func TestResolveValidClassHierarchy(t *testing.T) {
	sink, locals := resolve(t, `
		class A { f() { return 1; } }
		class B < A { g() { return super.f(); } }
	`)
	require.False(t, sink.HadError)
	assert.NotEmpty(t, locals)
}

func distances(locals resolver.Locals) []int {
	out := make([]int, 0, len(locals))
	for _, d := range locals {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

func TestResolveNestedClosureDistances(t *testing.T) {
	sink, locals := resolve(t, `
		fun outer() {
			var a = 1;
			fun inner() {
				var b = 2;
				print a;
				print b;
			}
			return inner;
		}
	`)
	require.False(t, sink.HadError)

	// "a" resolves one function scope out (distance 1), "b" in its own
	// scope (distance 0), and "inner" in `return inner` in outer's own
	// scope (distance 0).
	want := []int{0, 0, 1}
	if diff := cmp.Diff(want, distances(locals)); diff != "" {
		t.Errorf("resolved distances mismatch (-want +got):\n%s", diff)
	}
}
