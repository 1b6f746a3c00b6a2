// Package interpreter evaluates a resolved lox AST directly: each
// expression/statement type is handled by a Go type switch rather than a
// Visitor double-dispatch, and `return` propagates as an explicit result
// value (execResult) threaded back up through statement execution instead
// of as a panic/recover pair. Neither choice changes observable behavior;
// both replace patterns from the reference implementation that don't fit
// Go as well as a type switch and a return value do.
package interpreter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/resolver"
	"github.com/aledsdavies/lox/internal/token"
)

type execSignal int

const (
	signalNone execSignal = iota
	signalReturn
)

// execResult is the result-union mentioned in the package doc: every
// statement execution returns one, and a block propagates a non-none
// signal upward immediately instead of continuing to its next statement.
type execResult struct {
	signal execSignal
	value  interface{}
}

var normalResult = execResult{signal: signalNone}

// Interpreter holds the mutable state of one evaluation run: the global
// environment, the current environment, and the resolver's side-table.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  resolver.Locals
	sink    *diagnostics.Sink
	stdout  io.Writer
}

func New(sink *diagnostics.Sink, stdout io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []interface{}) (interface{}, error) {
			return float64(clockSeconds()), nil
		},
	})
	return &Interpreter{Globals: globals, env: globals, locals: make(resolver.Locals), sink: sink, stdout: stdout}
}

// SetSink swaps the sink runtime errors are reported to. Used by the REPL,
// which wants a fresh had-error flag per line while reusing the same
// Interpreter (and therefore the same global environment) across lines.
func (interp *Interpreter) SetSink(sink *diagnostics.Sink) {
	interp.sink = sink
}

// Interpret executes every top-level statement in order. locals is the
// side-table produced by internal/resolver for this same parse; its
// entries are merged into the interpreter's running side-table rather
// than replacing it, so a REPL can call Interpret once per line and still
// have earlier lines' closures resolve their free variables correctly. A
// runtime error aborts the remaining statements and is reported to the
// sink (spec.md §7: one uncaught runtime error halts the program).
func (interp *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) {
	for id, distance := range locals {
		interp.locals[id] = distance
	}
	for _, stmt := range stmts {
		if _, err := interp.execute(stmt); err != nil {
			if rerr, ok := err.(*diagnostics.RuntimeError); ok {
				interp.sink.ReportRuntime(rerr)
			}
			return
		}
	}
}

func (interp *Interpreter) execute(stmt ast.Stmt) (execResult, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := interp.evaluate(s.Expression)
		return normalResult, err

	case *ast.PrintStmt:
		v, err := interp.evaluate(s.Expression)
		if err != nil {
			return normalResult, err
		}
		fmt.Fprintln(interp.stdout, stringify(v))
		return normalResult, nil

	case *ast.VarStmt:
		var value interface{}
		if s.Initializer != nil {
			v, err := interp.evaluate(s.Initializer)
			if err != nil {
				return normalResult, err
			}
			value = v
		}
		interp.env.Define(s.Name.Lexeme, value)
		return normalResult, nil

	case *ast.BlockStmt:
		return interp.executeBlock(s.Statements, NewEnvironment(interp.env))

	case *ast.IfStmt:
		cond, err := interp.evaluate(s.Condition)
		if err != nil {
			return normalResult, err
		}
		if isTruthy(cond) {
			return interp.execute(s.ThenBranch)
		} else if s.ElseBranch != nil {
			return interp.execute(s.ElseBranch)
		}
		return normalResult, nil

	case *ast.WhileStmt:
		for {
			cond, err := interp.evaluate(s.Condition)
			if err != nil {
				return normalResult, err
			}
			if !isTruthy(cond) {
				return normalResult, nil
			}
			result, err := interp.execute(s.Body)
			if err != nil || result.signal != signalNone {
				return result, err
			}
		}

	case *ast.FunctionStmt:
		fn := NewFunction(s, interp.env, false)
		interp.env.Define(s.Name.Lexeme, fn)
		return normalResult, nil

	case *ast.ReturnStmt:
		var value interface{}
		if s.Value != nil {
			v, err := interp.evaluate(s.Value)
			if err != nil {
				return normalResult, err
			}
			value = v
		}
		return execResult{signal: signalReturn, value: value}, nil

	case *ast.ClassStmt:
		return normalResult, interp.executeClass(s)

	default:
		panic("interpreter: unhandled statement type")
	}
}

func (interp *Interpreter) executeClass(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := interp.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return &diagnostics.RuntimeError{Token: s.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	interp.env.Define(s.Name.Lexeme, nil)

	env := interp.env
	if s.Superclass != nil {
		env = NewEnvironment(interp.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, env, m.Name.Lexeme == "init")
	}

	class := NewClass(s.Name.Lexeme, superclass, methods)
	return interp.env.Assign(s.Name, class)
}

// executeBlock runs stmts in env, restoring the previous environment
// before returning (including on error or early return) with a deferred
// reset, the Go counterpart of the book's save/restore-around-try pattern;
// `return` itself arrives here as an execResult, not as a panic.
func (interp *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (execResult, error) {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range stmts {
		result, err := interp.execute(stmt)
		if err != nil || result.signal != signalNone {
			return result, err
		}
	}
	return normalResult, nil
}

func (interp *Interpreter) evaluate(expr ast.Expr) (interface{}, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return interp.evaluate(e.Expression)

	case *ast.Unary:
		right, err := interp.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Operator.Type {
		case token.MINUS:
			n, err := checkNumberOperand(e.Operator, right)
			if err != nil {
				return nil, err
			}
			return -n, nil
		case token.BANG:
			return !isTruthy(right), nil
		}
		panic("interpreter: unhandled unary operator")

	case *ast.Binary:
		return interp.evaluateBinary(e)

	case *ast.Logical:
		left, err := interp.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else {
			if !isTruthy(left) {
				return left, nil
			}
		}
		return interp.evaluate(e.Right)

	case *ast.Variable:
		return interp.lookUpVariable(e.Name, e.ID())

	case *ast.Assign:
		value, err := interp.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := interp.locals[e.ID()]; ok {
			interp.env.AssignAt(distance, e.Name, value)
		} else if err := interp.Globals.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Call:
		return interp.evaluateCall(e)

	case *ast.Get:
		object, err := interp.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Only instances have properties."}
		}
		value, found, err := instance.Get(e.Name.Lexeme)
		if err != nil {
			return nil, err
		}
		if !found {
			hint := diagnostics.Suggest(e.Name.Lexeme, instance.candidateNames())
			return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Undefined property '" + e.Name.Lexeme + "'." + hint}
		}
		return value, nil

	case *ast.Set:
		object, err := interp.evaluate(e.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, &diagnostics.RuntimeError{Token: e.Name, Message: "Only instances have fields."}
		}
		value, err := interp.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		instance.Set(e.Name.Lexeme, value)
		return value, nil

	case *ast.This:
		return interp.lookUpVariable(e.Keyword, e.ID())

	case *ast.Super:
		distance, ok := interp.locals[e.ID()]
		if !ok {
			panic("interpreter: unresolved super")
		}
		superclass := interp.env.GetAt(distance, "super").(*Class)
		instance := interp.env.GetAt(distance-1, "this").(*Instance)
		method := superclass.FindMethod(e.Method.Lexeme)
		if method == nil {
			var names []string
			for c := superclass; c != nil; c = c.Superclass {
				for k := range c.Methods {
					names = append(names, k)
				}
			}
			hint := diagnostics.Suggest(e.Method.Lexeme, names)
			return nil, &diagnostics.RuntimeError{Token: e.Method, Message: "Undefined property '" + e.Method.Lexeme + "'." + hint}
		}
		return method.Bind(instance), nil

	default:
		panic("interpreter: unhandled expression type")
	}
}

func (interp *Interpreter) lookUpVariable(name token.Token, id ast.NodeID) (interface{}, error) {
	if distance, ok := interp.locals[id]; ok {
		return interp.env.GetAt(distance, name.Lexeme), nil
	}
	return interp.Globals.Get(name)
}

func (interp *Interpreter) evaluateCall(e *ast.Call) (interface{}, error) {
	callee, err := interp.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := interp.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &diagnostics.RuntimeError{Token: e.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &diagnostics.RuntimeError{Token: e.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args))}
	}
	return fn.Call(interp, args)
}

func (interp *Interpreter) evaluateBinary(e *ast.Binary) (interface{}, error) {
	left, err := interp.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := interp.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.SLASH:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.STAR:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.PLUS:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, &diagnostics.RuntimeError{Token: e.Operator, Message: "Operands must be two numbers or two strings."}
	case token.GREATER:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln > rn, nil
	case token.GREATER_EQUAL:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln >= rn, nil
	case token.LESS:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln < rn, nil
	case token.LESS_EQUAL:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln <= rn, nil
	case token.BANG_EQUAL:
		return !isEqual(left, right), nil
	case token.EQUAL_EQUAL:
		return isEqual(left, right), nil
	}
	panic("interpreter: unhandled binary operator")
}

func checkNumberOperand(operator token.Token, operand interface{}) (float64, error) {
	if n, ok := operand.(float64); ok {
		return n, nil
	}
	return 0, &diagnostics.RuntimeError{Token: operator, Message: "Operand must be a number."}
}

func checkNumberOperands(operator token.Token, left, right interface{}) (float64, float64, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, &diagnostics.RuntimeError{Token: operator, Message: "Operands must be numbers."}
	}
	return ln, rn, nil
}

func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify renders a lox value for `print` and the REPL, per spec.md §4.4:
// numbers drop a trailing ".0", nil prints as "nil".
func stringify(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch val := v.(type) {
	case float64:
		text := strconv.FormatFloat(val, 'f', -1, 64)
		return text
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func clockSeconds() float64 {
	return float64(nowUnixNano()) / 1e9
}
