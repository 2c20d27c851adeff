// Package parser implements a Pratt parser that converts a Lumen token
// stream into an AST, recovering operator precedence via prefix/infix
// parse function tables.
package parser

import (
	"fmt"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// Precedence levels, low to high.
const (
	LOWEST int = iota
	PIPE       // |>
	ASSIGN     // = += =>
	ANNOTATE   // :
	LOGICALOR  // ||
	LOGICALAND // &&
	EQUALS     // == !=
	LESSGREATER
	SUM     // + -
	PRODUCT // * / %
	PREFIX  // -x !x
	CALL    // f(x)
	INDEX   // a[i]
	MEMBER  // a.b
	TRY     // expr?
)

var precedences = map[lexer.TokenType]int{
	lexer.PIPE_OP:  PIPE,
	lexer.ASSIGN:   ASSIGN,
	lexer.PLUSEQ:   ASSIGN,
	lexer.FARROW:   ASSIGN,
	lexer.COLON:    ANNOTATE,
	lexer.OR:       LOGICALOR,
	lexer.AND:      LOGICALAND,
	lexer.EQ:       EQUALS,
	lexer.NOTEQ:    EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      MEMBER,
	lexer.QUESTION: TRY,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Parser converts a token stream into an ast.Program, accumulating error
// strings and continuing best-effort rather than aborting on the first
// syntax error.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseDoubleLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRIPLE_STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpr)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseHashLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpr)
	p.registerPrefix(lexer.MATCH, p.parseMatchExpr)
	p.registerPrefix(lexer.WHEN, p.parseWhenExpr)
	p.registerPrefix(lexer.FN, p.parseFunctionLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, tt := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NOTEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR,
	} {
		p.registerInfix(tt, p.parseInfixExpr)
	}
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseMemberExpr)
	p.registerInfix(lexer.QUESTION, p.parseTryExpr)
	p.registerInfix(lexer.PIPE_OP, p.parsePipeExpr)
	p.registerInfix(lexer.ASSIGN, p.parseAssignExpr)
	p.registerInfix(lexer.PLUSEQ, p.parseAssignExpr)
	p.registerInfix(lexer.FARROW, p.parseArrowLambda)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tt lexer.TokenType, fn prefixParseFn) { p.prefixParseFns[tt] = fn }
func (p *Parser) registerInfix(tt lexer.TokenType, fn infixParseFn)   { p.infixParseFns[tt] = fn }

// Errors returns the accumulated parse error messages.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(tt lexer.TokenType) bool  { return p.curToken.Kind == tt }
func (p *Parser) peekIs(tt lexer.TokenType) bool { return p.peekToken.Kind == tt }

func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekIs(tt) {
		p.nextToken()
		return true
	}
	p.peekError(tt)
	return false
}

func (p *Parser) peekError(tt lexer.TokenType) {
	p.errors = append(p.errors, fmt.Sprintf(
		"%d:%d: expected next token to be %s, got %s (%q) instead",
		p.peekToken.Line, p.peekToken.Column, tt, p.peekToken.Kind, p.peekToken.Literal))
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf("%d:%d: ", p.curToken.Line, p.curToken.Column) + fmt.Sprintf(format, args...)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Kind]; ok {
		return pr
	}
	return LOWEST
}

// consumeOptionalSemicolon advances onto a trailing ';' if the next token is
// one; semicolons are never required. Statement-level parse functions
// call this so they end with curToken on the semicolon (or their own last
// token, if none follows), letting ParseProgram and parseBlockExpr advance
// exactly one token per statement.
func (p *Parser) consumeOptionalSemicolon() {
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the full token stream into a Program. Parsing
// continues best-effort on error; callers should check Errors() before
// treating the result as valid (a program with any parser errors is
// considered invalid and not type-checked or evaluated).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}
	return prog
}
