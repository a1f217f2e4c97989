// Package interpreter defines the tree-walking evaluator for the language.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/marcuscaisey/golox/ast"
	"github.com/marcuscaisey/golox/token"
)

// stmtResult is the result of executing a statement. It's used to unwind a return out of the statements between the
// return statement and the function call boundary without using the error channel.
type stmtResult interface {
	stmtResult()
}

type stmtResultNone struct{}

func (stmtResultNone) stmtResult() {}

type stmtResultReturn struct {
	Value loxObject
}

func (stmtResultReturn) stmtResult() {}

// Interpreter is the interpreter for the language.
type Interpreter struct {
	globals            *environment
	declDistancesByTok map[token.Token]int
	stdout             io.Writer
}

// Option can be passed to New to configure the interpreter.
type Option func(*Interpreter)

// WithStdout sets the writer which print statements write to. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		i.stdout = w
	}
}

// New constructs a new Interpreter with the given options.
// The built-in functions are defined in the global environment.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment(nil)
	for name, builtin := range builtinsByName {
		globals.Define(name, builtin)
	}
	interpreter := &Interpreter{
		globals: globals,
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(interpreter)
	}
	return interpreter
}

// Interpret interprets a program and returns an error if a runtime error occurred.
// declDistancesByTok is the resolution table produced by the resolver; identifier tokens which are not present in it
// are looked up in the global environment.
func (i *Interpreter) Interpret(program ast.Program, declDistancesByTok map[token.Token]int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if runtimeErr, ok := r.(*runtimeError); ok {
				err = runtimeErr
			} else {
				panic(r)
			}
		}
	}()
	i.declDistancesByTok = declDistancesByTok
	for _, stmt := range program.Stmts {
		i.interpretStmt(i.globals, stmt)
	}
	return nil
}

func (i *Interpreter) interpretStmt(env *environment, stmt ast.Stmt) stmtResult {
	switch stmt := stmt.(type) {
	case ast.VarDecl:
		i.interpretVarDecl(env, stmt)
	case ast.FunDecl:
		i.interpretFunDecl(env, stmt)
	case ast.ClassDecl:
		i.interpretClassDecl(env, stmt)
	case ast.ExprStmt:
		i.interpretExpr(env, stmt.Expr)
	case ast.PrintStmt:
		i.interpretPrintStmt(env, stmt)
	case ast.BlockStmt:
		return i.executeBlock(env.Child(), stmt.Stmts)
	case ast.IfStmt:
		return i.interpretIfStmt(env, stmt)
	case ast.WhileStmt:
		return i.interpretWhileStmt(env, stmt)
	case ast.ReturnStmt:
		return i.interpretReturnStmt(env, stmt)
	default:
		panic(fmt.Sprintf("unexpected statement type: %T", stmt))
	}
	return stmtResultNone{}
}

func (i *Interpreter) interpretVarDecl(env *environment, stmt ast.VarDecl) {
	var value loxObject = loxNil{}
	if stmt.Initialiser != nil {
		value = i.interpretExpr(env, stmt.Initialiser)
	}
	env.Define(stmt.Name.Lexeme, value)
}

func (i *Interpreter) interpretFunDecl(env *environment, stmt ast.FunDecl) {
	fun := &loxFunction{
		name:    stmt.Name.Lexeme,
		params:  stmt.Params,
		body:    stmt.Body,
		closure: env,
	}
	env.Define(stmt.Name.Lexeme, fun)
}

func (i *Interpreter) interpretClassDecl(env *environment, stmt ast.ClassDecl) {
	var superclass *loxClass
	if stmt.Superclass != nil {
		object := i.interpretVariableExpr(env, *stmt.Superclass)
		var ok bool
		superclass, ok = object.(*loxClass)
		if !ok {
			panic(newRuntimeErrorf(stmt.Superclass.Name, "Superclass must be a class."))
		}
	}

	env.Define(stmt.Name.Lexeme, loxNil{})

	methodEnv := env
	if superclass != nil {
		methodEnv = env.Child()
		methodEnv.Define(token.IdentSuper, superclass)
	}

	methods := make(map[string]*loxFunction, len(stmt.Methods))
	for _, decl := range stmt.Methods {
		methods[decl.Name.Lexeme] = &loxFunction{
			name:          decl.Name.Lexeme,
			params:        decl.Params,
			body:          decl.Body,
			closure:       methodEnv,
			isInitializer: decl.Name.Lexeme == token.IdentInit,
		}
	}

	class := &loxClass{name: stmt.Name.Lexeme, superclass: superclass, methods: methods}
	env.Assign(stmt.Name, class)
}

func (i *Interpreter) interpretPrintStmt(env *environment, stmt ast.PrintStmt) {
	value := i.interpretExpr(env, stmt.Expr)
	fmt.Fprintln(i.stdout, value.String())
}

func (i *Interpreter) executeBlock(env *environment, stmts []ast.Stmt) stmtResult {
	for _, stmt := range stmts {
		result := i.interpretStmt(env, stmt)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) interpretIfStmt(env *environment, stmt ast.IfStmt) stmtResult {
	condition := i.interpretExpr(env, stmt.Condition)
	if condition.IsTruthy() {
		return i.interpretStmt(env, stmt.Then)
	} else if stmt.Else != nil {
		return i.interpretStmt(env, stmt.Else)
	}
	return stmtResultNone{}
}

func (i *Interpreter) interpretWhileStmt(env *environment, stmt ast.WhileStmt) stmtResult {
	for i.interpretExpr(env, stmt.Condition).IsTruthy() {
		if result, ok := i.interpretStmt(env, stmt.Body).(stmtResultReturn); ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (i *Interpreter) interpretReturnStmt(env *environment, stmt ast.ReturnStmt) stmtResultReturn {
	var value loxObject = loxNil{}
	if stmt.Value != nil {
		value = i.interpretExpr(env, stmt.Value)
	}
	return stmtResultReturn{Value: value}
}

func (i *Interpreter) interpretExpr(env *environment, expr ast.Expr) loxObject {
	switch expr := expr.(type) {
	case ast.GroupExpr:
		return i.interpretExpr(env, expr.Expr)
	case ast.LiteralExpr:
		return i.interpretLiteralExpr(expr)
	case ast.VariableExpr:
		return i.interpretVariableExpr(env, expr)
	case ast.ThisExpr:
		return i.lookUpVariable(env, expr.This)
	case ast.SuperExpr:
		return i.interpretSuperExpr(env, expr)
	case ast.CallExpr:
		return i.interpretCallExpr(env, expr)
	case ast.GetExpr:
		return i.interpretGetExpr(env, expr)
	case ast.SetExpr:
		return i.interpretSetExpr(env, expr)
	case ast.UnaryExpr:
		return i.interpretUnaryExpr(env, expr)
	case ast.BinaryExpr:
		return i.interpretBinaryExpr(env, expr)
	case ast.LogicalExpr:
		return i.interpretLogicalExpr(env, expr)
	case ast.AssignmentExpr:
		return i.interpretAssignmentExpr(env, expr)
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

func (i *Interpreter) interpretLiteralExpr(expr ast.LiteralExpr) loxObject {
	switch tok := expr.Value; tok.Type {
	case token.Number:
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			panic(fmt.Sprintf("unexpected error parsing number literal: %s", err))
		}
		return loxNumber(value)
	case token.String:
		return loxString(tok.Lexeme[1 : len(tok.Lexeme)-1]) // Remove surrounding quotes
	case token.True, token.False:
		return loxBool(tok.Type == token.True)
	case token.Nil:
		return loxNil{}
	default:
		panic(fmt.Sprintf("unexpected literal type: %s", tok.Type))
	}
}

func (i *Interpreter) interpretVariableExpr(env *environment, expr ast.VariableExpr) loxObject {
	return i.lookUpVariable(env, expr.Name)
}

// lookUpVariable returns the value of the variable identified by tok. If the resolver recorded a distance for the
// token then the binding is read from exactly that environment, otherwise the name refers to a global.
func (i *Interpreter) lookUpVariable(env *environment, tok token.Token) loxObject {
	if distance, ok := i.declDistancesByTok[tok]; ok {
		return env.GetAt(distance, tok.Lexeme)
	}
	return i.globals.Get(tok)
}

func (i *Interpreter) interpretSuperExpr(env *environment, expr ast.SuperExpr) loxObject {
	distance := i.declDistancesByTok[expr.Super]
	superclass := env.GetAt(distance, token.IdentSuper).(*loxClass)
	// The implicit this scope is always immediately inside the scope binding super.
	instance := env.GetAt(distance-1, token.IdentThis).(*loxInstance)
	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		panic(newRuntimeErrorf(expr.Method, "Undefined property '%s'.", expr.Method.Lexeme))
	}
	return method.Bind(instance)
}

func (i *Interpreter) interpretCallExpr(env *environment, expr ast.CallExpr) loxObject {
	callee := i.interpretExpr(env, expr.Callee)
	args := make([]loxObject, len(expr.Args))
	for j, arg := range expr.Args {
		args[j] = i.interpretExpr(env, arg)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(newRuntimeErrorf(expr, "Can only call functions and classes."))
	}

	if arity := callable.Arity(); len(args) != arity {
		panic(newRuntimeErrorf(expr, "Expected %d arguments but got %d.", arity, len(args)))
	}

	return callable.Call(i, args)
}

func (i *Interpreter) interpretGetExpr(env *environment, expr ast.GetExpr) loxObject {
	object := i.interpretExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(newRuntimeErrorf(expr.Name, "Only instances have properties."))
	}
	return instance.Get(expr.Name)
}

func (i *Interpreter) interpretSetExpr(env *environment, expr ast.SetExpr) loxObject {
	object := i.interpretExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(newRuntimeErrorf(expr.Name, "Only instances have fields."))
	}
	value := i.interpretExpr(env, expr.Value)
	instance.Set(expr.Name, value)
	return value
}

func (i *Interpreter) interpretUnaryExpr(env *environment, expr ast.UnaryExpr) loxObject {
	right := i.interpretExpr(env, expr.Right)
	switch expr.Op.Type {
	case token.Bang:
		return loxBool(!right.IsTruthy())
	case token.Minus:
		number, ok := right.(loxNumber)
		if !ok {
			panic(newRuntimeErrorf(expr, "Operand must be a number."))
		}
		return -number
	default:
		panic(fmt.Sprintf("unexpected unary operator: %s", expr.Op.Type))
	}
}

func (i *Interpreter) interpretBinaryExpr(env *environment, expr ast.BinaryExpr) loxObject {
	left := i.interpretExpr(env, expr.Left)
	right := i.interpretExpr(env, expr.Right)

	switch expr.Op.Type {
	case token.EqualEqual:
		return loxBool(left == right)
	case token.BangEqual:
		return loxBool(left != right)
	case token.Plus:
		switch left := left.(type) {
		case loxNumber:
			if right, ok := right.(loxNumber); ok {
				return left + right
			}
		case loxString:
			if right, ok := right.(loxString); ok {
				return left + right
			}
		}
		panic(newRuntimeErrorf(expr, "Operands must be two numbers or two strings."))
	}

	leftNumber, leftOK := left.(loxNumber)
	rightNumber, rightOK := right.(loxNumber)
	if !leftOK || !rightOK {
		panic(newRuntimeErrorf(expr, "Operands must be numbers."))
	}

	switch expr.Op.Type {
	case token.Minus:
		return leftNumber - rightNumber
	case token.Asterisk:
		return leftNumber * rightNumber
	case token.Slash:
		// Division by zero follows IEEE-754 and produces an infinity or NaN.
		return leftNumber / rightNumber
	case token.Less:
		return loxBool(leftNumber < rightNumber)
	case token.LessEqual:
		return loxBool(leftNumber <= rightNumber)
	case token.Greater:
		return loxBool(leftNumber > rightNumber)
	case token.GreaterEqual:
		return loxBool(leftNumber >= rightNumber)
	default:
		panic(fmt.Sprintf("unexpected binary operator: %s", expr.Op.Type))
	}
}

func (i *Interpreter) interpretLogicalExpr(env *environment, expr ast.LogicalExpr) loxObject {
	left := i.interpretExpr(env, expr.Left)
	switch expr.Op.Type {
	case token.Or:
		if left.IsTruthy() {
			return left
		}
	case token.And:
		if !left.IsTruthy() {
			return left
		}
	default:
		panic(fmt.Sprintf("unexpected logical operator: %s", expr.Op.Type))
	}
	return i.interpretExpr(env, expr.Right)
}

func (i *Interpreter) interpretAssignmentExpr(env *environment, expr ast.AssignmentExpr) loxObject {
	value := i.interpretExpr(env, expr.Right)
	if distance, ok := i.declDistancesByTok[expr.Left]; ok {
		env.AssignAt(distance, expr.Left, value)
	} else {
		i.globals.Assign(expr.Left, value)
	}
	return value
}

// runtimeError describes an error raised by the evaluator. It's reported with the message, the highlighted range of
// source code that the error applies to, and the line the error occurred on.
type runtimeError struct {
	start token.Position
	end   token.Position
	msg   string
}

func newRuntimeErrorf(rang token.Range, format string, args ...any) *runtimeError {
	return &runtimeError{
		start: rang.Start(),
		end:   rang.End(),
		msg:   fmt.Sprintf(format, args...),
	}
}

func (e *runtimeError) Error() string {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	line := string(e.start.File.Line(e.start.Line))

	var b strings.Builder
	bold.Fprintf(&b, "%s %s\n", red.Sprint("runtime error:"), e.msg)
	fmt.Fprintln(&b, line)
	if e.start.Line == e.end.Line && e.start.Column < e.end.Column {
		fmt.Fprint(&b, strings.Repeat(" ", runewidth.StringWidth(line[:e.start.Column])))
		fmt.Fprintln(&b, red.Sprint(strings.Repeat("~", runewidth.StringWidth(line[e.start.Column:e.end.Column]))))
	}
	fmt.Fprintf(&b, "[line %d]", e.start.Line)
	return b.String()
}
