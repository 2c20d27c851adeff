package parser

import (
	"github.com/lumen-lang/lumen/internal/ast"
	"github.com/lumen-lang/lumen/internal/lexer"
)

// parseStatement dispatches on the leading token to one of the statement
// forms, falling back to an expression statement. Every statement
// parser leaves curToken on its own last token (its trailing ';' if one was
// consumed, or its own closing '}' for brace-bodied declarations); the
// caller (ParseProgram / parseBlockExpr) advances exactly one token past it.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Kind {
	case lexer.MODULE:
		return p.parseModuleHeader()
	case lexer.USE:
		return p.parseUseStmt()
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.RECORD:
		return p.parseRecordDecl()
	case lexer.TRAIT:
		return p.parseTraitDecl()
	case lexer.IMPL:
		return p.parseImplDecl()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseModuleHeader() ast.Stmt {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	for p.peekIs(lexer.DOT) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		name += "." + p.curToken.Literal
	}
	header := &ast.ModuleHeader{Tok: tok, Name: name}
	if p.peekIs(lexer.EXPOSING) {
		p.nextToken()
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		header.HasExposing = true
		header.ExposedNames = p.parseIdentList(lexer.RPAREN)
	}
	p.consumeOptionalSemicolon()
	return header
}

func (p *Parser) parseIdentList(end lexer.TokenType) []string {
	var names []string
	if p.peekIs(end) {
		p.nextToken()
		return names
	}
	p.nextToken()
	names = append(names, p.curToken.Literal)
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		names = append(names, p.curToken.Literal)
	}
	if !p.expectPeek(end) {
		return names
	}
	return names
}

func (p *Parser) parseUseStmt() ast.Stmt {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	path := []string{p.curToken.Literal}
	for p.peekIs(lexer.DOT) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		path = append(path, p.curToken.Literal)
	}
	stmt := &ast.UseStmt{Tok: tok, Path: path}
	if p.peekIs(lexer.AS) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		stmt.HasAlias = true
		stmt.Alias = p.curToken.Literal
	}
	if p.peekIs(lexer.EXPOSING) {
		p.nextToken()
		if !p.expectPeek(lexer.LPAREN) {
			return nil
		}
		stmt.HasExposing = true
		stmt.ExposedNames = p.parseIdentList(lexer.RPAREN)
	}
	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseLetStmt() ast.Stmt {
	tok := p.curToken
	mutable := false
	if p.peekIs(lexer.MUT) {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	pattern := p.parseLetPattern()
	if pattern == nil {
		return nil
	}

	var typeAnn ast.TypeNode
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		typeAnn = p.parseType()
		if _, ok := pattern.(*ast.Identifier); !ok {
			p.errorf("type annotation is not allowed on a destructuring let pattern")
		}
	}

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()

	return &ast.LetStmt{Tok: tok, Mutable: mutable, Pattern: pattern, TypeAnn: typeAnn, Value: value}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	tok := p.curToken
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
		return &ast.ReturnStmt{Tok: tok}
	}
	if p.peekIs(lexer.RBRACE) || p.peekIs(lexer.EOF) {
		return &ast.ReturnStmt{Tok: tok}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	return &ast.ReturnStmt{Tok: tok, Value: value}
}

// parseOptionalTypeParams parses `<T, U, ...>` using LT/GT tokens, returning
// nil if absent. Called with curToken sitting just before a possible '<'.
func (p *Parser) parseOptionalTypeParams() []string {
	if !p.peekIs(lexer.LT) {
		return nil
	}
	p.nextToken() // now at '<'
	var params []string
	p.nextToken()
	params = append(params, p.curToken.Literal)
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.curToken.Literal)
	}
	if !p.expectPeek(lexer.GT) {
		return params
	}
	return params
}

func (p *Parser) parseTypeDecl() ast.Stmt {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	typeParams := p.parseOptionalTypeParams()
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()

	var variants []ast.VariantSig
	for {
		if !p.curIs(lexer.IDENT) {
			p.errorf("expected variant name, got %s", p.curToken.Kind)
			break
		}
		v := ast.VariantSig{Name: p.curToken.Literal}
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			v.Params = p.parseTypeListUntil(lexer.RPAREN)
		}
		variants = append(variants, v)
		if p.peekIs(lexer.PIPE) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.consumeOptionalSemicolon()
	return &ast.TypeDecl{Tok: tok, Name: name, TypeParams: typeParams, Variants: variants}
}

func (p *Parser) parseRecordDecl() ast.Stmt {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	typeParams := p.parseOptionalTypeParams()
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	var fields []ast.FieldSig
	if !p.peekIs(lexer.RPAREN) {
		p.nextToken()
		for {
			if !p.curIs(lexer.IDENT) {
				p.errorf("expected field name, got %s", p.curToken.Kind)
				break
			}
			fname := p.curToken.Literal
			if !p.expectPeek(lexer.COLON) {
				break
			}
			p.nextToken()
			ftype := p.parseType()
			fields = append(fields, ast.FieldSig{Name: fname, Type: ftype})
			if p.peekIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.consumeOptionalSemicolon()
	return &ast.RecordDecl{Tok: tok, Name: name, TypeParams: typeParams, Fields: fields}
}

func (p *Parser) parseTraitDecl() ast.Stmt {
	tok := p.curToken
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	typeParams := p.parseOptionalTypeParams()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	var methods []ast.MethodSig
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.expectCur(lexer.FN) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		mname := p.curToken.Literal
		if !p.expectPeek(lexer.LPAREN) {
			break
		}
		params := p.parseParamList()
		var ret ast.TypeNode
		if p.peekIs(lexer.ARROW) {
			p.nextToken()
			p.nextToken()
			ret = p.parseType()
		}
		p.consumeOptionalSemicolon()
		methods = append(methods, ast.MethodSig{Name: mname, Params: params, ReturnType: ret})
		p.nextToken()
	}
	p.consumeOptionalSemicolon()
	return &ast.TraitDecl{Tok: tok, Name: name, TypeParams: typeParams, Methods: methods}
}

// expectCur checks the current token matches tt, recording an error if not.
func (p *Parser) expectCur(tt lexer.TokenType) bool {
	if p.curIs(tt) {
		return true
	}
	p.errorf("expected %s, got %s", tt, p.curToken.Kind)
	return false
}

func (p *Parser) parseImplDecl() ast.Stmt {
	tok := p.curToken
	typeParams := p.parseOptionalTypeParams()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	traitName := p.curToken.Literal
	var traitArgs []ast.TypeNode
	if p.peekIs(lexer.LT) {
		p.nextToken()
		traitArgs = p.parseTypeListUntil(lexer.GT)
	}
	if !p.expectPeekIdentLiteral("for") {
		return nil
	}
	p.nextToken()
	target := p.parseType()
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	var methods []*ast.FunctionLit
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if !p.curIs(lexer.FN) {
			p.nextToken()
			continue
		}
		fn := p.parseFunctionLiteral()
		if lit, ok := fn.(*ast.FunctionLit); ok {
			methods = append(methods, lit)
		}
		p.consumeOptionalSemicolon()
		p.nextToken()
	}
	p.consumeOptionalSemicolon()
	return &ast.ImplDecl{Tok: tok, TypeParams: typeParams, TraitName: traitName, TraitArgs: traitArgs, Target: target, Methods: methods}
}

// expectPeekIdentLiteral checks the peek token's literal equals lit and its
// kind is the one the lexer gives that spelling: IDENT, or the keyword token
// for a reserved word (used for the `for` keyword in `impl`).
func (p *Parser) expectPeekIdentLiteral(lit string) bool {
	kind := lexer.LookupIdent(lit)
	if p.peekIs(kind) && p.peekToken.Literal == lit {
		p.nextToken()
		return true
	}
	p.peekError(kind)
	return false
}

func (p *Parser) parseExprStmt() ast.Stmt {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	return &ast.ExprStmt{Tok: tok, Expr: expr}
}
