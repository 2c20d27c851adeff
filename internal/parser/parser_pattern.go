package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// parsePattern parses a full match/when pattern: wildcard, variant
// (possibly nested), array, tuple, literal, or a bare identifier binding
// used in both let-bindings and match arms.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Kind {
	case lexer.IDENT:
		if p.curToken.Literal == "_" {
			return &ast.WildcardPattern{Tok: p.curToken}
		}
		return p.parseVariantOrBindingPattern()
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LPAREN:
		return p.parseTuplePattern()
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRIPLE_STRING, lexer.TRUE, lexer.FALSE, lexer.MINUS:
		return p.parseLiteralPattern()
	default:
		p.errorf("unexpected token %s in pattern", p.curToken.Kind)
		return nil
	}
}

// parseVariantOrBindingPattern handles `Name`, `Name(pat, ...)`, and a
// plain lowercase binding identifier, all sharing the IDENT lead token.
func (p *Parser) parseVariantOrBindingPattern() ast.Pattern {
	tok := p.curToken
	name := tok.Literal
	if !p.peekIs(lexer.LPAREN) {
		if isUpperIdent(name) {
			return &ast.VariantPattern{Tok: tok, Name: name}
		}
		return &ast.Identifier{Tok: tok, Value: name}
	}
	p.nextToken() // consume '('
	var subpats []ast.Pattern
	if !p.peekIs(lexer.RPAREN) {
		p.nextToken()
		subpats = append(subpats, p.parsePattern())
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			subpats = append(subpats, p.parsePattern())
		}
	}
	p.expectPeek(lexer.RPAREN)
	return &ast.VariantPattern{Tok: tok, Name: name, SubPats: subpats}
}

func isUpperIdent(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	tok := p.curToken
	pat := &ast.ArrayPattern{Tok: tok}
	if p.peekIs(lexer.RBRACKET) {
		p.nextToken()
		return pat
	}
	p.nextToken()
	for {
		if p.curIs(lexer.ELLIPSIS) {
			p.nextToken()
			pat.HasRest = true
			pat.Rest = p.curToken.Literal
			break
		}
		pat.Elements = append(pat.Elements, p.parsePattern())
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACKET)
	return pat
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	tok := p.curToken
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return &ast.TuplePattern{Tok: tok}
	}
	p.nextToken()
	first := p.parsePattern()
	if !p.peekIs(lexer.COMMA) {
		p.expectPeek(lexer.RPAREN)
		return first
	}
	elements := []ast.Pattern{first}
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elements = append(elements, p.parsePattern())
	}
	p.expectPeek(lexer.RPAREN)
	return &ast.TuplePattern{Tok: tok, Elements: elements}
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	tok := p.curToken
	expr := p.parseExpression(PREFIX)
	return &ast.LiteralPattern{Tok: tok, Value: expr}
}

// parseLetPattern restricts patterns allowed in `let` bindings to
// identifier, tuple, and array forms (no variant/literal/wildcard), per
// the let-statement grammar.
func (p *Parser) parseLetPattern() ast.Pattern {
	switch p.curToken.Kind {
	case lexer.IDENT:
		return &ast.Identifier{Tok: p.curToken, Value: p.curToken.Literal}
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	case lexer.LPAREN:
		return p.parseTuplePattern()
	default:
		p.errorf("expected an identifier, tuple pattern, or array pattern after 'let', got %s", p.curToken.Kind)
		return nil
	}
}
