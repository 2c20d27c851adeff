package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// parseType parses a type annotation: a named type, a dotted path type, a
// generic `Name<T, ...>`, a function type `fn(T, U) -> R`, or a tuple type
// `(T, U)`.
func (p *Parser) parseType() ast.TypeNode {
	switch p.curToken.Kind {
	case lexer.FN:
		return p.parseFuncTypeNode()
	case lexer.LPAREN:
		return p.parseTupleTypeNode()
	case lexer.IDENT:
		return p.parseNamedOrGenericType()
	default:
		p.errorf("expected a type, got %s", p.curToken.Kind)
		return nil
	}
}

func (p *Parser) parseNamedOrGenericType() ast.TypeNode {
	tok := p.curToken
	name := tok.Literal
	if p.peekIs(lexer.DOT) {
		segments := []string{name}
		for p.peekIs(lexer.DOT) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			segments = append(segments, p.curToken.Literal)
		}
		if p.peekIs(lexer.LT) {
			p.nextToken()
			args := p.parseTypeListUntil(lexer.GT)
			return &ast.GenericTypeNode{Tok: tok, Name: joinSegments(segments), Args: args}
		}
		return &ast.PathTypeNode{Tok: tok, Segments: segments}
	}
	if p.peekIs(lexer.LT) {
		p.nextToken()
		args := p.parseTypeListUntil(lexer.GT)
		return &ast.GenericTypeNode{Tok: tok, Name: name, Args: args}
	}
	return &ast.NamedTypeNode{Tok: tok, Name: name}
}

func joinSegments(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "." + s
	}
	return out
}

func (p *Parser) parseFuncTypeNode() ast.TypeNode {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params := p.parseTypeListUntil(lexer.RPAREN)
	if !p.expectPeek(lexer.ARROW) {
		return nil
	}
	p.nextToken()
	ret := p.parseType()
	return &ast.FuncTypeNode{Tok: tok, Params: params, Return: ret}
}

func (p *Parser) parseTupleTypeNode() ast.TypeNode {
	tok := p.curToken
	elements := p.parseTypeListUntil(lexer.RPAREN)
	if len(elements) == 1 {
		return elements[0]
	}
	return &ast.TupleTypeNode{Tok: tok, Elements: elements}
}

// parseTypeListUntil parses a comma-separated list of types terminated by
// end, with curToken sitting on the opening delimiter.
func (p *Parser) parseTypeListUntil(end lexer.TokenType) []ast.TypeNode {
	var types []ast.TypeNode
	if p.peekIs(end) {
		p.nextToken()
		return types
	}
	p.nextToken()
	types = append(types, p.parseType())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		types = append(types, p.parseType())
	}
	p.expectPeek(end)
	return types
}
