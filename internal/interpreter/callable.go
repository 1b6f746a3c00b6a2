package interpreter

import (
	"github.com/aledsdavies/lox/internal/ast"
)

// Callable is anything that can appear as the callee of a Call expression:
// a user-defined function, a bound method, a class (its constructor), or a
// native function like clock.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []interface{}) (interface{}, error)
	String() string
}

// NativeFunction wraps a Go function as a lox-callable value.
type NativeFunction struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []interface{}) (interface{}, error)
}

func (f *NativeFunction) Arity() int { return f.arity }

func (f *NativeFunction) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	return f.fn(interp, args)
}

func (f *NativeFunction) String() string { return "<native fn>" }

// Function is a user-defined function or method. It closes over the
// environment in effect where it was declared, not the one in effect where
// it is called, which is what makes lox closures behave as closures.
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

func NewFunction(declaration *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	result, err := interp.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	if result.signal == signalReturn {
		return result.value, nil
	}
	return nil, nil
}

func (f *Function) String() string { return "<fn " + f.declaration.Name.Lexeme + ">" }

// Bind returns a copy of the method with its closure extended by a "this"
// binding to instance, so `this` inside the method body resolves to the
// instance it was looked up on.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}

// Class is a lox class value. Calling it constructs an Instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(interp *Interpreter, args []interface{}) (interface{}, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string { return c.Name }

// Instance is a runtime object: a class plus its own field bindings.
type Instance struct {
	class  *Class
	fields map[string]interface{}
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]interface{})}
}

func (i *Instance) Get(name string) (interface{}, bool, error) {
	if v, ok := i.fields[name]; ok {
		return v, true, nil
	}
	if method := i.class.FindMethod(name); method != nil {
		return method.Bind(i), true, nil
	}
	return nil, false, nil
}

func (i *Instance) Set(name string, value interface{}) {
	i.fields[name] = value
}

func (i *Instance) String() string { return i.class.Name + " instance" }

func (i *Instance) candidateNames() []string {
	names := make([]string, 0, len(i.fields)+len(i.class.Methods))
	for k := range i.fields {
		names = append(names, k)
	}
	for c := i.class; c != nil; c = c.Superclass {
		for k := range c.Methods {
			names = append(names, k)
		}
	}
	return names
}
