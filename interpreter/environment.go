package interpreter

import (
	"fmt"

	"github.com/marcuscaisey/golox/token"
)

// environment stores the values of the variables in a lexical scope.
// Each environment holds the bindings made in its own scope and a link to the environment of the enclosing scope. The
// global environment has no enclosing link and is the only environment in which variable references are looked up by
// name at runtime; local variable references go through GetAt and AssignAt using the distances recorded by the
// resolver.
type environment struct {
	enclosing *environment
	values    map[string]loxObject
}

func newEnvironment(enclosing *environment) *environment {
	return &environment{
		enclosing: enclosing,
		values:    map[string]loxObject{},
	}
}

// Child creates a new environment whose enclosing environment is this one.
func (e *environment) Child() *environment {
	return newEnvironment(e)
}

// Define binds a name to a value in this environment. Any existing binding for the name is replaced; Lox permits
// redefining globals.
func (e *environment) Define(name string, value loxObject) {
	e.values[name] = value
}

// Get returns the value bound to the name identified by tok, searching this environment and then each enclosing one.
func (e *environment) Get(tok token.Token) loxObject {
	if value, ok := e.values[tok.Lexeme]; ok {
		return value
	}
	if e.enclosing != nil {
		return e.enclosing.Get(tok)
	}
	panic(newRuntimeErrorf(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// Assign sets the value bound to the name identified by tok, searching this environment and then each enclosing one.
func (e *environment) Assign(tok token.Token, value loxObject) {
	if _, ok := e.values[tok.Lexeme]; ok {
		e.values[tok.Lexeme] = value
		return
	}
	if e.enclosing != nil {
		e.enclosing.Assign(tok, value)
		return
	}
	panic(newRuntimeErrorf(tok, "Undefined variable '%s'.", tok.Lexeme))
}

// GetAt returns the value bound to name in the environment distance hops up the enclosing chain.
// The resolver guarantees that the binding exists.
func (e *environment) GetAt(distance int, name string) loxObject {
	value, ok := e.ancestor(distance).values[name]
	if !ok {
		panic(fmt.Sprintf("%s is not bound at distance %d", name, distance))
	}
	return value
}

// AssignAt sets the value bound to the name identified by tok in the environment distance hops up the enclosing chain.
func (e *environment) AssignAt(distance int, tok token.Token, value loxObject) {
	e.ancestor(distance).values[tok.Lexeme] = value
}

func (e *environment) ancestor(distance int) *environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
