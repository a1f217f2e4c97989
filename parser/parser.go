// Package parser implements a parser for Lox source code.
package parser

import (
	"fmt"
	"io"

	"github.com/marcuscaisey/golox/ast"
	"github.com/marcuscaisey/golox/loxerr"
	"github.com/marcuscaisey/golox/token"
)

// maxArity is the maximum number of parameters or arguments that a function can have.
const maxArity = 255

// Parse parses the source code read from r.
// filename is the name of the file being parsed and is used in error messages.
// Parsing stops at the first parse error. Errors reported by the lexer are collected without stopping the parser, and
// all collected errors are returned.
func Parse(r io.Reader, filename string) (ast.Program, error) {
	lexer, err := newLexer(r, filename)
	if err != nil {
		return ast.Program{}, fmt.Errorf("constructing parser: %s", err)
	}

	p := &parser{lexer: lexer}
	lexer.SetErrorHandler(func(tok token.Token, format string, args ...any) {
		p.errs.Addf(tok, format, args...)
	})

	return p.Parse()
}

type parser struct {
	lexer   *lexer
	tok     token.Token // token currently being considered
	nextTok token.Token

	errs loxerr.Errors
}

// Parse parses the source code and returns the root node of the abstract syntax tree.
func (p *parser) Parse() (program ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				err = p.errs.Err()
			} else {
				panic(r)
			}
		}
	}()
	// Populate tok and nextTok
	p.next()
	p.next()
	for p.tok.Type != token.EOF {
		program.Stmts = append(program.Stmts, p.parseDecl())
	}
	return program, p.errs.Err()
}

func (p *parser) parseDecl() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.Var):
		return p.parseVarDecl(tok)
	case p.match(token.Fun):
		return p.parseFunDecl(tok)
	case p.match(token.Class):
		return p.parseClassDecl(tok)
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseVarDecl(varTok token.Token) ast.VarDecl {
	name := p.expectf(token.Ident, "expected variable name")
	var value ast.Expr
	if p.match(token.Equal) {
		value = p.parseExpr()
	}
	semicolon := p.expect(token.Semicolon)
	return ast.VarDecl{Var: varTok, Name: name, Initialiser: value, Semicolon: semicolon}
}

func (p *parser) parseFunDecl(funTok token.Token) ast.FunDecl {
	name := p.expectf(token.Ident, "expected function name")
	params, body, rightBrace := p.parseFunction()
	return ast.FunDecl{Fun: funTok, Name: name, Params: params, Body: body, RightBrace: rightBrace}
}

func (p *parser) parseClassDecl(classTok token.Token) ast.ClassDecl {
	name := p.expectf(token.Ident, "expected class name")
	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superName := p.expectf(token.Ident, "expected superclass name")
		superclass = &ast.VariableExpr{Name: superName}
	}
	p.expect(token.LeftBrace)
	var methods []ast.MethodDecl
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		methods = append(methods, p.parseMethodDecl())
	}
	rightBrace := p.expect(token.RightBrace)
	return ast.ClassDecl{Class: classTok, Name: name, Superclass: superclass, Methods: methods, RightBrace: rightBrace}
}

func (p *parser) parseMethodDecl() ast.MethodDecl {
	name := p.expectf(token.Ident, "expected method name")
	params, body, rightBrace := p.parseFunction()
	return ast.MethodDecl{Name: name, Params: params, Body: body, RightBrace: rightBrace}
}

func (p *parser) parseFunction() (params []token.Token, body []ast.Stmt, rightBrace token.Token) {
	p.expect(token.LeftParen)
	if p.tok.Type != token.RightParen {
		for {
			if len(params) == maxArity {
				p.addErrorf(p.tok, "cannot have more than %d parameters", maxArity)
				panic(unwind{})
			}
			params = append(params, p.expectf(token.Ident, "expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen)
	p.expect(token.LeftBrace)
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		body = append(body, p.parseDecl())
	}
	rightBrace = p.expect(token.RightBrace)
	return params, body, rightBrace
}

func (p *parser) parseStmt() ast.Stmt {
	switch tok := p.tok; {
	case p.match(token.Print):
		return p.parsePrintStmt(tok)
	case p.match(token.LeftBrace):
		return p.parseBlock(tok)
	case p.match(token.If):
		return p.parseIfStmt(tok)
	case p.match(token.While):
		return p.parseWhileStmt(tok)
	case p.match(token.For):
		return p.parseForStmt(tok)
	case p.match(token.Return):
		return p.parseReturnStmt(tok)
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() ast.ExprStmt {
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return ast.ExprStmt{Expr: expr, Semicolon: semicolon}
}

func (p *parser) parsePrintStmt(printTok token.Token) ast.PrintStmt {
	expr := p.parseExpr()
	semicolon := p.expect(token.Semicolon)
	return ast.PrintStmt{Print: printTok, Expr: expr, Semicolon: semicolon}
}

func (p *parser) parseBlock(leftBrace token.Token) ast.BlockStmt {
	var stmts []ast.Stmt
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		stmts = append(stmts, p.parseDecl())
	}
	rightBrace := p.expect(token.RightBrace)
	return ast.BlockStmt{LeftBrace: leftBrace, Stmts: stmts, RightBrace: rightBrace}
}

func (p *parser) parseIfStmt(ifTok token.Token) ast.IfStmt {
	p.expect(token.LeftParen)
	condition := p.parseExpr()
	p.expect(token.RightParen)
	thenBranch := p.parseStmt()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.parseStmt()
	}
	return ast.IfStmt{If: ifTok, Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *parser) parseWhileStmt(whileTok token.Token) ast.WhileStmt {
	p.expect(token.LeftParen)
	condition := p.parseExpr()
	p.expect(token.RightParen)
	body := p.parseStmt()
	return ast.WhileStmt{While: whileTok, Condition: condition, Body: body}
}

// parseForStmt desugars a for statement to an equivalent while loop:
// for (I; C; U) B becomes { I; while (C) { B; U; } }.
// The synthetic tokens this introduces reuse the positions of nearby real tokens so that diagnostics still point at
// the source.
func (p *parser) parseForStmt(forTok token.Token) ast.Stmt {
	p.expect(token.LeftParen)
	var initialise ast.Stmt
	switch tok := p.tok; {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		initialise = p.parseVarDecl(tok)
	default:
		initialise = p.parseExprStmt()
	}
	var condition ast.Expr
	semicolon, ok := p.match2(token.Semicolon)
	if !ok {
		condition = p.parseExpr()
		semicolon = p.expect(token.Semicolon)
	}
	var update ast.Expr
	if p.tok.Type != token.RightParen {
		update = p.parseExpr()
	}
	rightParen := p.expect(token.RightParen)
	body := p.parseStmt()

	if update != nil {
		body = ast.BlockStmt{
			LeftBrace: syntheticToken(token.LeftBrace, "{", body),
			Stmts: []ast.Stmt{
				body,
				ast.ExprStmt{Expr: update, Semicolon: syntheticToken(token.Semicolon, ";", rightParen)},
			},
			RightBrace: syntheticToken(token.RightBrace, "}", body),
		}
	}
	if condition == nil {
		condition = ast.LiteralExpr{Value: syntheticToken(token.True, "true", semicolon)}
	}
	var stmt ast.Stmt = ast.WhileStmt{While: forTok, Condition: condition, Body: body}
	if initialise != nil {
		stmt = ast.BlockStmt{
			LeftBrace:  syntheticToken(token.LeftBrace, "{", forTok),
			Stmts:      []ast.Stmt{initialise, stmt},
			RightBrace: syntheticToken(token.RightBrace, "}", body),
		}
	}
	return stmt
}

func syntheticToken(typ token.Type, lexeme string, rang token.Range) token.Token {
	return token.Token{StartPos: rang.Start(), EndPos: rang.End(), Type: typ, Lexeme: lexeme}
}

func (p *parser) parseReturnStmt(returnTok token.Token) ast.ReturnStmt {
	semicolon, ok := p.match2(token.Semicolon)
	var value ast.Expr
	if !ok {
		value = p.parseExpr()
		semicolon = p.expect(token.Semicolon)
	}
	return ast.ReturnStmt{Return: returnTok, Value: value, Semicolon: semicolon}
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignmentExpr()
}

func (p *parser) parseAssignmentExpr() ast.Expr {
	expr := p.parseLogicalOrExpr()
	if p.match(token.Equal) {
		switch left := expr.(type) {
		case ast.VariableExpr:
			right := p.parseAssignmentExpr()
			expr = ast.AssignmentExpr{Left: left.Name, Right: right}
		case ast.GetExpr:
			right := p.parseAssignmentExpr()
			expr = ast.SetExpr{Object: left.Object, Name: left.Name, Value: right}
		default:
			p.addErrorf(expr, "invalid assignment target")
			panic(unwind{})
		}
	}
	return expr
}

func (p *parser) parseLogicalOrExpr() ast.Expr {
	return p.parseLogicalExpr(p.parseLogicalAndExpr, token.Or)
}

func (p *parser) parseLogicalAndExpr() ast.Expr {
	return p.parseLogicalExpr(p.parseEqualityExpr, token.And)
}

// parseLogicalExpr parses a short-circuiting logical expression which uses the given operator. next is a function which
// parses an expression of next highest precedence.
func (p *parser) parseLogicalExpr(next func() ast.Expr, operator token.Type) ast.Expr {
	expr := next()
	for {
		op, ok := p.match2(operator)
		if !ok {
			break
		}
		right := next()
		expr = ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEqualityExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseRelationalExpr, token.EqualEqual, token.BangEqual)
}

func (p *parser) parseRelationalExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseAdditiveExpr, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *parser) parseAdditiveExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseMultiplicativeExpr, token.Plus, token.Minus)
}

func (p *parser) parseMultiplicativeExpr() ast.Expr {
	return p.parseBinaryExpr(p.parseUnaryExpr, token.Asterisk, token.Slash)
}

// parseBinaryExpr parses a binary expression which uses the given operators. next is a function which parses an
// expression of next highest precedence.
func (p *parser) parseBinaryExpr(next func() ast.Expr, operators ...token.Type) ast.Expr {
	expr := next()
	for {
		op, ok := p.match2(operators...)
		if !ok {
			break
		}
		right := next()
		expr = ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if op, ok := p.match2(token.Bang, token.Minus); ok {
		right := p.parseUnaryExpr()
		return ast.UnaryExpr{Op: op, Right: right}
	}
	return p.parseCallExpr()
}

func (p *parser) parseCallExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch {
		case p.match(token.LeftParen):
			var args []ast.Expr
			rightParen, ok := p.match2(token.RightParen)
			if !ok {
				args = p.parseArgs()
				rightParen = p.expect(token.RightParen)
			}
			expr = ast.CallExpr{Callee: expr, Args: args, RightParen: rightParen}
		case p.match(token.Dot):
			name := p.expectf(token.Ident, "expected property name")
			expr = ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	for {
		if len(args) == maxArity {
			p.addErrorf(p.tok, "cannot have more than %d arguments", maxArity)
			panic(unwind{})
		}
		args = append(args, p.parseExpr())
		if !p.match(token.Comma) {
			break
		}
	}
	return args
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch tok := p.tok; {
	case p.match(token.Number, token.String, token.True, token.False, token.Nil):
		return ast.LiteralExpr{Value: tok}
	case p.match(token.Ident):
		return ast.VariableExpr{Name: tok}
	case p.match(token.This):
		return ast.ThisExpr{This: tok}
	case p.match(token.Super):
		p.expect(token.Dot)
		method := p.expectf(token.Ident, "expected superclass method name")
		return ast.SuperExpr{Super: tok, Method: method}
	case p.match(token.LeftParen):
		expr := p.parseExpr()
		rightParen := p.expect(token.RightParen)
		return ast.GroupExpr{LeftParen: tok, Expr: expr, RightParen: rightParen}
	default:
		p.addErrorf(tok, "expected expression")
		panic(unwind{})
	}
}

// match reports whether the current token is one of the given types and advances the parser if so.
func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.tok.Type == t {
			p.next()
			return true
		}
	}
	return false
}

// match2 is like match but also returns the matched token.
func (p *parser) match2(types ...token.Type) (token.Token, bool) {
	tok := p.tok
	return tok, p.match(types...)
}

// expect returns the current token and advances the parser if it has the given type. Otherwise, an "expected %m" error
// is reported and parsing stops.
func (p *parser) expect(t token.Type) token.Token {
	return p.expectf(t, "expected %m", t)
}

// expectf is like expect but accepts a format string for the error message.
func (p *parser) expectf(t token.Type, format string, a ...any) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.next()
		return tok
	}
	p.addErrorf(p.tok, format, a...)
	panic(unwind{})
}

// next advances the parser to the next token.
func (p *parser) next() {
	p.tok = p.nextTok
	p.nextTok = p.lexer.Next()
}

func (p *parser) addErrorf(rang token.Range, format string, args ...any) {
	p.errs.Addf(rang, format, args...)
}

// unwind is used as a panic value so that we can unwind the stack when a parsing error is encountered without having
// to check for errors after every call to each parsing method.
type unwind struct{}
