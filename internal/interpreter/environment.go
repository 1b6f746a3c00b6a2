package interpreter

import (
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/invariant"
	"github.com/aledsdavies/lox/internal/token"
)

// Environment is one lexical scope: a name→value map chained to its
// enclosing scope. Closures capture an *Environment directly, so a
// function that outlives the block it was declared in keeps that block's
// bindings alive; Go's garbage collector reclaims the chain (including any
// cycle formed by a closure stored back into its own environment) once
// nothing reachable still points to it.
type Environment struct {
	values    map[string]interface{}
	enclosing *Environment
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]interface{}), enclosing: enclosing}
}

// Define creates or overwrites a binding in this scope. Re-declaring a
// variable at global/REPL scope is permitted (spec.md §4.3); block scopes
// reject the redeclaration earlier, during resolution.
func (e *Environment) Define(name string, value interface{}) {
	e.values[name] = value
}

func (e *Environment) Get(name token.Token) (interface{}, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, &diagnostics.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'." + suggestName(name.Lexeme, e)}
}

func (e *Environment) Assign(name token.Token, value interface{}) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return &diagnostics.RuntimeError{Token: name, Message: "Undefined variable '" + name.Lexeme + "'." + suggestName(name.Lexeme, e)}
}

// Ancestor walks distance scopes outward. distance comes from the
// resolver's side-table, so it is always in range for a correctly resolved
// program: the environment chain must not run out before distance steps,
// or the resolver and interpreter have disagreed about scope depth.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		invariant.NotNil(env, "environment chain")
		env = env.enclosing
	}
	invariant.NotNil(env, "environment chain")
	return env
}

func (e *Environment) GetAt(distance int, name string) interface{} {
	return e.Ancestor(distance).values[name]
}

func (e *Environment) AssignAt(distance int, name token.Token, value interface{}) {
	e.Ancestor(distance).values[name.Lexeme] = value
}

// suggestName collects every name visible from e outward and fuzzy-matches
// it against the one that failed to resolve.
func suggestName(name string, e *Environment) string {
	var names []string
	for env := e; env != nil; env = env.enclosing {
		for k := range env.values {
			names = append(names, k)
		}
	}
	return diagnostics.Suggest(name, names)
}
