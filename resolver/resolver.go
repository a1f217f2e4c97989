// Package resolver implements the static resolution pass which runs between parsing and evaluation.
package resolver

import (
	"fmt"

	"github.com/marcuscaisey/golox/ast"
	"github.com/marcuscaisey/golox/loxerr"
	"github.com/marcuscaisey/golox/token"
)

// Resolve resolves the variable references in the given program.
// It returns a map from each locally resolved identifier token to the distance from the scope of the reference to the
// scope where the name was declared. A distance of 0 means the name was declared in the scope of the reference, 1
// means it was declared in the parent scope, and so on. If a token is not present in the map, then the name refers to
// a global and is resolved dynamically at runtime.
// Resolution stops at the first static error.
func Resolve(program ast.Program) (map[token.Token]int, error) {
	r := &resolver{
		scopes:             newStack[scope](),
		declDistancesByTok: map[token.Token]int{},
	}
	return r.Resolve(program)
}

// scope maps each name declared in a lexical scope to whether its initialiser has completed.
type scope map[string]bool

type funcType int

const (
	funcTypeNone funcType = iota
	funcTypeFunction
	funcTypeInitializer
	funcTypeMethod
)

type classType int

const (
	classTypeNone classType = iota
	classTypeClass
	classTypeSubclass
)

type resolver struct {
	scopes *stack[scope]
	// declDistancesByTok maps identifier tokens which were resolved locally to the distance from the scope of the
	// reference to the scope of the declaration
	declDistancesByTok map[token.Token]int

	currentFunction funcType
	currentClass    classType

	errs loxerr.Errors
}

func (r *resolver) Resolve(program ast.Program) (m map[token.Token]int, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if _, ok := recovered.(unwind); ok {
				err = r.errs.Err()
			} else {
				panic(recovered)
			}
		}
	}()
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	return r.declDistancesByTok, r.errs.Err()
}

func (r *resolver) beginScope() func() {
	r.scopes.Push(scope{})
	return func() {
		r.scopes.Pop()
	}
}

// declareIdent marks a name as declared but not yet initialised in the innermost scope. Declarations in the global
// scope are not tracked; globals can be redeclared freely and are resolved dynamically.
func (r *resolver) declareIdent(tok token.Token) {
	if r.scopes.Len() == 0 {
		return
	}
	scope := r.scopes.Peek()
	if _, ok := scope[tok.Lexeme]; ok {
		r.addErrorf(tok, "already a variable with this name in this scope")
	}
	scope[tok.Lexeme] = false
}

// defineIdent marks a name as fully initialised in the innermost scope.
func (r *resolver) defineIdent(name string) {
	if r.scopes.Len() == 0 {
		return
	}
	r.scopes.Peek()[name] = true
}

// resolveIdent records the distance from the scope of the reference to the scope of the declaration against the given
// token. If the name is not declared in any enclosing scope then it refers to a global and no distance is recorded.
func (r *resolver) resolveIdent(tok token.Token) {
	for i := r.scopes.Len() - 1; i >= 0; i-- {
		if _, ok := r.scopes.Index(i)[tok.Lexeme]; ok {
			r.declDistancesByTok[tok] = r.scopes.Len() - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case ast.VarDecl:
		r.resolveVarDecl(stmt)
	case ast.FunDecl:
		r.resolveFunDecl(stmt)
	case ast.ClassDecl:
		r.resolveClassDecl(stmt)
	case ast.ExprStmt:
		r.resolveExpr(stmt.Expr)
	case ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case ast.BlockStmt:
		r.resolveBlockStmt(stmt)
	case ast.IfStmt:
		r.resolveIfStmt(stmt)
	case ast.WhileStmt:
		r.resolveWhileStmt(stmt)
	case ast.ReturnStmt:
		r.resolveReturnStmt(stmt)
	default:
		panic(fmt.Sprintf("unexpected statement type: %T", stmt))
	}
}

func (r *resolver) resolveVarDecl(stmt ast.VarDecl) {
	r.declareIdent(stmt.Name)
	if stmt.Initialiser != nil {
		r.resolveExpr(stmt.Initialiser)
	}
	r.defineIdent(stmt.Name.Lexeme)
}

func (r *resolver) resolveFunDecl(stmt ast.FunDecl) {
	r.declareIdent(stmt.Name)
	r.defineIdent(stmt.Name.Lexeme)
	r.resolveFunction(stmt.Params, stmt.Body, funcTypeFunction)
}

func (r *resolver) resolveFunction(params []token.Token, body []ast.Stmt, typ funcType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFunction }()

	endScope := r.beginScope()
	defer endScope()
	for _, param := range params {
		r.declareIdent(param)
		r.defineIdent(param.Lexeme)
	}
	for _, stmt := range body {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveClassDecl(stmt ast.ClassDecl) {
	enclosingClass := r.currentClass
	r.currentClass = classTypeClass
	defer func() { r.currentClass = enclosingClass }()

	r.declareIdent(stmt.Name)
	r.defineIdent(stmt.Name.Lexeme)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.addErrorf(stmt.Superclass.Name, "a class can't inherit from itself")
		}
		r.currentClass = classTypeSubclass
		r.resolveVariableExpr(*stmt.Superclass)

		endSuperScope := r.beginScope()
		defer endSuperScope()
		r.scopes.Peek()[token.IdentSuper] = true
	}

	endScope := r.beginScope()
	defer endScope()
	r.scopes.Peek()[token.IdentThis] = true

	for _, method := range stmt.Methods {
		typ := funcTypeMethod
		if method.Name.Lexeme == token.IdentInit {
			typ = funcTypeInitializer
		}
		r.resolveFunction(method.Params, method.Body, typ)
	}
}

func (r *resolver) resolveBlockStmt(stmt ast.BlockStmt) {
	endScope := r.beginScope()
	defer endScope()
	for _, stmt := range stmt.Stmts {
		r.resolveStmt(stmt)
	}
}

func (r *resolver) resolveIfStmt(stmt ast.IfStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
}

func (r *resolver) resolveWhileStmt(stmt ast.WhileStmt) {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
}

func (r *resolver) resolveReturnStmt(stmt ast.ReturnStmt) {
	if r.currentFunction == funcTypeNone {
		r.addErrorf(stmt.Return, "can't return from top-level code")
	}
	if stmt.Value != nil {
		if r.currentFunction == funcTypeInitializer {
			r.addErrorf(stmt.Value, "can't return a value from an initializer")
		}
		r.resolveExpr(stmt.Value)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case ast.GroupExpr:
		r.resolveExpr(expr.Expr)
	case ast.LiteralExpr:
	case ast.VariableExpr:
		r.resolveVariableExpr(expr)
	case ast.ThisExpr:
		r.resolveThisExpr(expr)
	case ast.SuperExpr:
		r.resolveSuperExpr(expr)
	case ast.CallExpr:
		r.resolveCallExpr(expr)
	case ast.GetExpr:
		r.resolveExpr(expr.Object)
	case ast.UnaryExpr:
		r.resolveExpr(expr.Right)
	case ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case ast.AssignmentExpr:
		r.resolveExpr(expr.Right)
		r.resolveIdent(expr.Left)
	case ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	default:
		panic(fmt.Sprintf("unexpected expression type: %T", expr))
	}
}

func (r *resolver) resolveVariableExpr(expr ast.VariableExpr) {
	if r.scopes.Len() > 0 {
		if defined, ok := r.scopes.Peek()[expr.Name.Lexeme]; ok && !defined {
			r.addErrorf(expr.Name, "can't read local variable in its own initializer")
		}
	}
	r.resolveIdent(expr.Name)
}

func (r *resolver) resolveThisExpr(expr ast.ThisExpr) {
	if r.currentClass == classTypeNone {
		r.addErrorf(expr.This, "can't use 'this' outside of a class")
	}
	r.resolveIdent(expr.This)
}

func (r *resolver) resolveSuperExpr(expr ast.SuperExpr) {
	switch r.currentClass {
	case classTypeNone:
		r.addErrorf(expr.Super, "can't use 'super' outside of a class")
	case classTypeClass:
		r.addErrorf(expr.Super, "can't use 'super' in a class with no superclass")
	}
	r.resolveIdent(expr.Super)
}

func (r *resolver) resolveCallExpr(expr ast.CallExpr) {
	r.resolveExpr(expr.Callee)
	for _, arg := range expr.Args {
		r.resolveExpr(arg)
	}
}

// addErrorf reports a static error and panics to unwind the stack. Resolution does not resume after an error, so the
// panic is recovered at the top level and the error returned.
func (r *resolver) addErrorf(rang token.Range, format string, args ...any) {
	r.errs.Addf(rang, format, args...)
	panic(unwind{})
}

// unwind is used as a panic value so that we can unwind the stack when a static error is encountered without having to
// check for errors after every call to each resolution method.
type unwind struct{}
