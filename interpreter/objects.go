package interpreter

import (
	"fmt"
	"strconv"

	"github.com/marcuscaisey/golox/ast"
	"github.com/marcuscaisey/golox/token"
)

// loxType is the string representation of a Lox object's type.
type loxType string

const (
	loxTypeNumber   loxType = "number"
	loxTypeString   loxType = "string"
	loxTypeBool     loxType = "bool"
	loxTypeNil      loxType = "nil"
	loxTypeFunction loxType = "function"
	loxTypeClass    loxType = "class"
)

// loxObject is a runtime Lox value.
type loxObject interface {
	// String returns the representation of the object produced by the print statement.
	String() string
	Type() loxType
	// IsTruthy reports whether the object is considered true in a condition. Only nil and false are falsey.
	IsTruthy() bool
}

// loxCallable is a loxObject which can be invoked by a call expression.
type loxCallable interface {
	loxObject
	Arity() int
	Call(interpreter *Interpreter, args []loxObject) loxObject
}

type loxNumber float64

var _ loxObject = loxNumber(0)

func (n loxNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (n loxNumber) Type() loxType {
	return loxTypeNumber
}

func (n loxNumber) IsTruthy() bool {
	return true
}

type loxString string

var _ loxObject = loxString("")

func (s loxString) String() string {
	return string(s)
}

func (s loxString) Type() loxType {
	return loxTypeString
}

func (s loxString) IsTruthy() bool {
	return true
}

type loxBool bool

var _ loxObject = loxBool(false)

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b loxBool) Type() loxType {
	return loxTypeBool
}

func (b loxBool) IsTruthy() bool {
	return bool(b)
}

type loxNil struct{}

var _ loxObject = loxNil{}

func (n loxNil) String() string {
	return "nil"
}

func (n loxNil) Type() loxType {
	return loxTypeNil
}

func (n loxNil) IsTruthy() bool {
	return false
}

// loxFunction is a function or method declared in Lox code, together with the environment captured at its declaration.
type loxFunction struct {
	name          string
	params        []token.Token
	body          []ast.Stmt
	closure       *environment
	isInitializer bool
}

var _ loxCallable = &loxFunction{}

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.name)
}

func (f *loxFunction) Type() loxType {
	return loxTypeFunction
}

func (f *loxFunction) IsTruthy() bool {
	return true
}

func (f *loxFunction) Arity() int {
	return len(f.params)
}

func (f *loxFunction) Call(interpreter *Interpreter, args []loxObject) loxObject {
	env := f.closure.Child()
	for i, param := range f.params {
		env.Define(param.Lexeme, args[i])
	}
	result := interpreter.executeBlock(env, f.body)
	if f.isInitializer {
		// An initializer always returns the instance it was bound to, even when it returns early.
		return f.closure.GetAt(0, token.IdentThis)
	}
	if ret, ok := result.(stmtResultReturn); ok {
		return ret.Value
	}
	return loxNil{}
}

// Bind returns a copy of the function whose closure has been extended with a scope binding this to the given instance.
func (f *loxFunction) Bind(instance *loxInstance) *loxFunction {
	boundClosure := f.closure.Child()
	boundClosure.Define(token.IdentThis, instance)
	bound := *f
	bound.closure = boundClosure
	return &bound
}

// loxClass is a class declared in Lox code. Calling the class constructs an instance of it.
type loxClass struct {
	name       string
	superclass *loxClass
	methods    map[string]*loxFunction
}

var _ loxCallable = &loxClass{}

func (c *loxClass) String() string {
	return c.name
}

func (c *loxClass) Type() loxType {
	return loxTypeClass
}

func (c *loxClass) IsTruthy() bool {
	return true
}

// Arity returns the arity of the class's initializer, or 0 if it doesn't have one.
func (c *loxClass) Arity() int {
	if init, ok := c.FindMethod(token.IdentInit); ok {
		return init.Arity()
	}
	return 0
}

func (c *loxClass) Call(interpreter *Interpreter, args []loxObject) loxObject {
	instance := newLoxInstance(c)
	if init, ok := c.FindMethod(token.IdentInit); ok {
		init.Bind(instance).Call(interpreter, args)
	}
	return instance
}

// FindMethod returns the method with the given name, walking the superclass chain from this class upwards.
func (c *loxClass) FindMethod(name string) (*loxFunction, bool) {
	if method, ok := c.methods[name]; ok {
		return method, true
	}
	if c.superclass != nil {
		return c.superclass.FindMethod(name)
	}
	return nil, false
}

// loxInstance is an instance of a loxClass. Fields are created on first assignment and shadow methods of the same
// name; methods are never stored in the field map.
type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

func newLoxInstance(class *loxClass) *loxInstance {
	return &loxInstance{
		class:  class,
		fields: map[string]loxObject{},
	}
}

var _ loxObject = &loxInstance{}

func (i *loxInstance) String() string {
	return fmt.Sprintf("%s instance", i.class.name)
}

func (i *loxInstance) Type() loxType {
	return loxType(i.class.name)
}

func (i *loxInstance) IsTruthy() bool {
	return true
}

// Get returns the value of the property identified by name. Fields take precedence over methods; a method is returned
// bound to this instance.
func (i *loxInstance) Get(name token.Token) loxObject {
	if value, ok := i.fields[name.Lexeme]; ok {
		return value
	}
	if method, ok := i.class.FindMethod(name.Lexeme); ok {
		return method.Bind(i)
	}
	panic(newRuntimeErrorf(name, "Undefined property '%s'.", name.Lexeme))
}

// Set assigns a value to the field identified by name, creating it if necessary.
func (i *loxInstance) Set(name token.Token, value loxObject) {
	i.fields[name.Lexeme] = value
}
