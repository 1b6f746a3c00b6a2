// Package resolver runs the static resolution pass between parsing and
// evaluation: it walks the AST once, tracking lexically nested scopes, and
// produces a side-table mapping each variable-reference node to the number
// of environments to walk outward to find its binding. The interpreter
// consults this table instead of searching the environment chain at
// runtime, so a closure's free variables always resolve to the binding
// that was in scope when the closure was defined, not whatever happens to
// be named the same at call time.
package resolver

import (
	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/token"
)

type functionKind int

const (
	fnNone functionKind = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Locals maps a Variable/Assign/This/Super node's ID to the number of
// scopes outward its binding lives in. A node absent from the map resolves
// at global scope.
type Locals map[ast.NodeID]int

// Resolver performs the static pass over a parsed program.
type Resolver struct {
	sink    *diagnostics.Sink
	scopes  []map[string]bool
	locals  Locals
	currFn  functionKind
	currCls classKind
}

func New(sink *diagnostics.Sink) *Resolver {
	return &Resolver{sink: sink, locals: make(Locals)}
}

// Resolve walks every top-level statement and returns the completed side
// table. Call once per program (or once per REPL line, reusing the global
// scope implicitly since the REPL never pushes a block scope at top level).
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expression)

	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}

	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)

	case *ast.ReturnStmt:
		if r.currFn == fnNone {
			r.sink.ErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currFn == fnInitializer {
				r.sink.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)

	case *ast.ClassStmt:
		r.resolveClass(s)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.currCls
	r.currCls = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.sink.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currCls = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range s.Methods {
		kind := fnMethod
		if m.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(m, kind)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.currCls = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionKind) {
	enclosingFn := r.currFn
	r.currFn = kind

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currFn = enclosingFn
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.sink.ErrorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID(), e.Name)

	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID(), e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Arguments {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Expression)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		if r.currCls == classNone {
			r.sink.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currCls != classSubclass {
			r.sink.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e.ID(), e.Keyword)

	case *ast.This:
		if r.currCls == classNone {
			r.sink.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID(), e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) resolveLocal(id ast.NodeID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: treated as global, resolved by the
	// interpreter's global environment at call time.
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.sink.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
