package parser

import (
	"strconv"

	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// parseExpression is the Pratt core: it parses a prefix expression, then
// repeatedly consumes infix operators whose precedence is above prec.
func (p *Parser) parseExpression(prec int) ast.Expr {
	prefix, ok := p.prefixParseFns[p.curToken.Kind]
	if !ok {
		p.errorf("no prefix parse function for %s (%q)", p.curToken.Kind, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && prec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Kind]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expr {
	tok := p.curToken
	ident := &ast.Identifier{Tok: tok, Value: tok.Literal}
	if !p.peekIs(lexer.DOT) {
		return ident
	}
	// Speculatively build a dotted path; member-access vs module-path is
	// disambiguated by the type checker (member access on a Module
	// returns the exposed binding).
	segments := []string{ident.Value}
	for p.peekIs(lexer.DOT) && isIdentDotIdent(p) {
		p.nextToken() // consume '.'
		p.nextToken() // consume ident
		segments = append(segments, p.curToken.Literal)
	}
	if len(segments) == 1 {
		return ident
	}
	return &ast.PathExpr{Tok: tok, Segments: segments}
}

// isIdentDotIdent reports whether, with curToken on an identifier, the next
// token is '.'. The token after the '.' is not inspected; parseIdentifier
// takes it as the next path segment.
func isIdentDotIdent(p *Parser) bool {
	return p.peekToken.Kind == lexer.DOT
}

func (p *Parser) parseIntegerLiteral() ast.Expr {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", tok.Literal)
		return nil
	}
	return &ast.IntegerLit{Tok: tok, Value: v}
}

func (p *Parser) parseDoubleLiteral() ast.Expr {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as double", tok.Literal)
		return nil
	}
	return &ast.DoubleLit{Tok: tok, Value: v}
}

func (p *Parser) parseBooleanLiteral() ast.Expr {
	return &ast.BooleanLit{Tok: p.curToken, Value: p.curIs(lexer.TRUE)}
}

// parseStringLiteral splits a string literal's content into an
// InterpStringLit if it contains `{expr}` interpolations, else a plain
// StringLit.
func (p *Parser) parseStringLiteral() ast.Expr {
	tok := p.curToken
	parts, exprs, interpolated := p.splitInterpolations(tok.Literal)
	if !interpolated {
		return &ast.StringLit{Tok: tok, Value: tok.Literal}
	}
	return &ast.InterpStringLit{Tok: tok, Parts: parts, Exprs: exprs}
}

func (p *Parser) splitInterpolations(s string) ([]string, []ast.Expr, bool) {
	var parts []string
	var exprs []ast.Expr
	var cur []byte
	interpolated := false
	i := 0
	for i < len(s) {
		if s[i] == '{' {
			depth := 1
			j := i + 1
			for j < len(s) && depth > 0 {
				if s[j] == '{' {
					depth++
				} else if s[j] == '}' {
					depth--
				}
				j++
			}
			if depth == 0 {
				inner := s[i+1 : j-1]
				subParser := New(lexer.New(inner))
				expr := subParser.parseExpression(LOWEST)
				if expr != nil && len(subParser.Errors()) == 0 {
					parts = append(parts, string(cur))
					exprs = append(exprs, expr)
					cur = nil
					interpolated = true
					i = j
					continue
				}
			}
		}
		cur = append(cur, s[i])
		i++
	}
	parts = append(parts, string(cur))
	return parts, exprs, interpolated
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return &ast.PrefixExpr{Tok: tok, Operator: op, Right: right}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	op := tok.Literal
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	return &ast.InfixExpr{Tok: tok, Left: left, Operator: op, Right: right}
}

// parseGroupedOrTuple parses `()` as unit, `(expr)` as expr, and
// `(e1, e2, ...)` as a TupleLit.
func (p *Parser) parseGroupedOrTuple() ast.Expr {
	tok := p.curToken
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.TupleLit{Tok: tok}
	}
	p.nextToken()
	first := p.parseExpression(LOWEST)
	if p.peekIs(lexer.COMMA) {
		elements := []ast.Expr{first}
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			elements = append(elements, p.parseExpression(LOWEST))
		}
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
		return &ast.TupleLit{Tok: tok, Elements: elements}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	tok := p.curToken
	elements := p.parseExprListUntil(lexer.RBRACKET)
	return &ast.ArrayLit{Tok: tok, Elements: elements}
}

func (p *Parser) parseExprListUntil(end lexer.TokenType) []ast.Expr {
	var list []ast.Expr
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	p.expectPeek(end)
	return list
}

func (p *Parser) parseHashLiteral() ast.Expr {
	tok := p.curToken
	var entries []ast.HashEntry
	if p.peekIs(lexer.RBRACE) {
		p.nextToken()
		return &ast.HashLit{Tok: tok}
	}
	p.nextToken()
	for {
		key := p.parseExpression(ANNOTATE + 1)
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		entries = append(entries, ast.HashEntry{Key: key, Value: value})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE)
	return &ast.HashLit{Tok: tok, Entries: entries}
}

func (p *Parser) parseCallExpr(fn ast.Expr) ast.Expr {
	tok := p.curToken
	args := p.parseExprListUntil(lexer.RPAREN)
	return &ast.CallExpr{Tok: tok, Function: fn, Arguments: args}
}

func (p *Parser) parseIndexExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return &ast.IndexExpr{Tok: tok, Left: left, Index: idx}
}

func (p *Parser) parseMemberExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	return &ast.MemberExpr{Tok: tok, Left: left, Property: p.curToken.Literal}
}

func (p *Parser) parseTryExpr(left ast.Expr) ast.Expr {
	return &ast.TryExpr{Tok: p.curToken, Operand: left}
}

// parsePipeExpr implements `x |> f` as sugar for `f(x)`, and `x |> g(a, b)`
// as `g(x, a, b)`.
func (p *Parser) parsePipeExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PIPE)
	if call, ok := right.(*ast.CallExpr); ok {
		args := append([]ast.Expr{left}, call.Arguments...)
		return &ast.CallExpr{Tok: tok, Function: call.Function, Arguments: args}
	}
	return &ast.CallExpr{Tok: tok, Function: right, Arguments: []ast.Expr{left}}
}

// parseAssignExpr parses `target = value` / `target += value`.
func (p *Parser) parseAssignExpr(left ast.Expr) ast.Expr {
	tok := p.curToken
	op := tok.Literal
	p.nextToken()
	value := p.parseExpression(ASSIGN - 1)
	return &ast.AssignExpr{Tok: tok, Target: left, Operator: op, Value: value}
}

// parseArrowLambda implements `ident => body` and `(a, b, ...) => body` as
// sugar for a FunctionLit when the left-hand side is an identifier or a
// parenthesized identifier list.
func (p *Parser) parseArrowLambda(left ast.Expr) ast.Expr {
	tok := p.curToken
	var params []ast.Param
	switch l := left.(type) {
	case *ast.Identifier:
		params = []ast.Param{{Name: l.Value}}
	case *ast.TupleLit:
		for _, elem := range l.Elements {
			id, ok := elem.(*ast.Identifier)
			if !ok {
				p.errorf("left side of '=>' must be an identifier or identifier list")
				return nil
			}
			params = append(params, ast.Param{Name: id.Value})
		}
	default:
		p.errorf("left side of '=>' must be an identifier or identifier list")
		return nil
	}
	p.nextToken()
	body := p.parseExpression(ASSIGN - 1)
	return &ast.FunctionLit{Tok: tok, Params: params, Body: body}
}

func (p *Parser) parseIfExpr() ast.Expr {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(ANNOTATE + 1)
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	then := p.parseExpression(ASSIGN)
	expr := &ast.IfExpr{Tok: tok, Condition: cond, Then: then}
	if p.peekIs(lexer.ELSE) {
		p.nextToken()
		if !p.expectPeek(lexer.COLON) {
			return expr
		}
		p.nextToken()
		expr.Else = p.parseExpression(ASSIGN)
	}
	return expr
}

func (p *Parser) parseMatchExpr() ast.Expr {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	scrutinees := p.parseExprListUntil(lexer.RPAREN)
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	var arms []ast.MatchArm
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		var pats []ast.Pattern
		pats = append(pats, p.parsePattern())
		for p.peekIs(lexer.COMMA) && !p.isArmSeparator() {
			p.nextToken()
			p.nextToken()
			pats = append(pats, p.parsePattern())
		}
		if !p.expectPeek(lexer.FARROW) {
			break
		}
		p.nextToken()
		body := p.parseExpression(LOWEST)
		arms = append(arms, ast.MatchArm{Patterns: pats, Body: body})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	return &ast.MatchExpr{Tok: tok, Scrutinees: scrutinees, Arms: arms}
}

// isArmSeparator is a placeholder hook retained for future lookahead needs;
// match arms always separate patterns from each other by comma until '=>'.
func (p *Parser) isArmSeparator() bool { return false }

func (p *Parser) parseWhenExpr() ast.Expr {
	tok := p.curToken
	var subject ast.Expr
	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		subject = p.parseExpression(LOWEST)
		if !p.expectPeek(lexer.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	expr := &ast.WhenExpr{Tok: tok, Subject: subject}
	p.nextToken()
	for p.curIs(lexer.PIPE) {
		p.nextToken()
		var conds []ast.Expr
		conds = append(conds, p.parseExpression(ASSIGN))
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			if p.curIs(lexer.FARROW) {
				break
			}
			conds = append(conds, p.parseExpression(ASSIGN))
		}
		if !p.expectPeek(lexer.FARROW) {
			break
		}
		p.nextToken()
		body := p.parseExpression(LOWEST)
		expr.Arms = append(expr.Arms, ast.WhenArm{Conditions: conds, Body: body})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		} else {
			p.nextToken()
		}
	}
	if p.curIs(lexer.ELSE) {
		if !p.expectPeek(lexer.FARROW) {
			return expr
		}
		p.nextToken()
		expr.Else = p.parseExpression(LOWEST)
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	} else {
		p.errorf("when expression requires an else branch")
	}
	p.expectCur(lexer.RBRACE)
	return expr
}

// parseFunctionLiteral parses `fn [name][<params>](args [: T]*) [-> T]`
// followed by a `{ block }`, `: expr`, or `=> expr` body.
func (p *Parser) parseFunctionLiteral() ast.Expr {
	tok := p.curToken
	lit := &ast.FunctionLit{Tok: tok}
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		lit.Name = p.curToken.Literal
	}
	lit.TypeParams = p.parseOptionalTypeParams()
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	lit.Params = p.parseParamList()
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		lit.ReturnType = p.parseType()
	}
	switch {
	case p.peekIs(lexer.LBRACE):
		p.nextToken()
		lit.Body = p.parseBlockExpr()
	case p.peekIs(lexer.COLON):
		p.nextToken()
		p.nextToken()
		lit.Body = p.parseExpression(LOWEST)
	case p.peekIs(lexer.FARROW):
		p.nextToken()
		p.nextToken()
		lit.Body = p.parseExpression(LOWEST)
	default:
		p.peekError(lexer.LBRACE)
	}
	return lit
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		name := p.curToken.Literal
		param := ast.Param{Name: name}
		if p.peekIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseType()
		}
		params = append(params, param)
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

// parseBlockExpr parses `{ stmt; stmt; ...; tailExpr }` with curToken on
// the opening '{'.
func (p *Parser) parseBlockExpr() ast.Expr {
	tok := p.curToken
	block := &ast.BlockExpr{Tok: tok}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}
