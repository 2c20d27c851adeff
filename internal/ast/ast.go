// Package ast defines the Lumen abstract syntax tree: a closed family of
// Statement, Expression, and Pattern node variants produced by the parser
// and consumed by the type checker and evaluator.
package ast

import "github.com/lumen-lang/lumen/internal/lexer"

// Pos is a source position, used for diagnostics.
type Pos struct {
	Line   int
	Column int
}

// Node is the base interface implemented by every AST node. Each node
// carries its originating token for diagnostics.
type Node interface {
	TokenLiteral() string
	Pos() Pos
}

// Stmt is implemented by the closed set of statement-position nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by the closed set of expression-position nodes.
type Expr interface {
	Node
	exprNode()
}

// Pattern is implemented by the closed set of pattern nodes.
type Pattern interface {
	Node
	patternNode()
}

// TypeNode is implemented by the closed set of type-annotation syntax nodes
// (distinct from the semantic types the checker produces).
type TypeNode interface {
	Node
	typeNode()
}

// Program is the root of a parsed module: a sequence of statements.
type Program struct {
	Statements []Stmt
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) Pos() Pos {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return Pos{}
}

func posOf(tok lexer.Token) Pos { return Pos{Line: tok.Line, Column: tok.Column} }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// LetStmt binds a pattern to the value of an expression: `let [mut] pattern
// [: type] = expr;`.
type LetStmt struct {
	Tok     lexer.Token
	Mutable bool
	Pattern Pattern
	TypeAnn TypeNode // nil if absent
	Value   Expr
}

func (s *LetStmt) TokenLiteral() string { return s.Tok.Literal }
func (s *LetStmt) Pos() Pos             { return posOf(s.Tok) }
func (s *LetStmt) stmtNode()            {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Tok   lexer.Token
	Value Expr // nil for bare `return;`
}

func (s *ReturnStmt) TokenLiteral() string { return s.Tok.Literal }
func (s *ReturnStmt) Pos() Pos             { return posOf(s.Tok) }
func (s *ReturnStmt) stmtNode()            {}

// VariantSig is one `Name(T, ...)` arm of a `type` declaration.
type VariantSig struct {
	Name   string
	Params []TypeNode
}

// TypeDecl declares a sum type: `type Name<T...> = V1(t...) | V2(...);`.
type TypeDecl struct {
	Tok        lexer.Token
	Name       string
	TypeParams []string
	Variants   []VariantSig
}

func (s *TypeDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *TypeDecl) Pos() Pos             { return posOf(s.Tok) }
func (s *TypeDecl) stmtNode()            {}

// FieldSig is one `name: Type` field of a `record` declaration.
type FieldSig struct {
	Name string
	Type TypeNode
}

// RecordDecl declares a record type: `record Name<T...>(f: T, ...);`.
type RecordDecl struct {
	Tok        lexer.Token
	Name       string
	TypeParams []string
	Fields     []FieldSig
}

func (s *RecordDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *RecordDecl) Pos() Pos             { return posOf(s.Tok) }
func (s *RecordDecl) stmtNode()            {}

// MethodSig is one `fn m(self, ...) -> T;` signature in a `trait` block.
type MethodSig struct {
	Name       string
	Params     []Param
	ReturnType TypeNode
}

// TraitDecl declares a trait: `trait Name<T...> { fn m(self, ...) -> T; ... }`.
type TraitDecl struct {
	Tok        lexer.Token
	Name       string
	TypeParams []string
	Methods    []MethodSig
}

func (s *TraitDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *TraitDecl) Pos() Pos             { return posOf(s.Tok) }
func (s *TraitDecl) stmtNode()            {}

// ImplDecl implements a trait for a target type:
// `impl [<U...>] Trait[<args>] for Type { fn m(...) ... }`.
type ImplDecl struct {
	Tok        lexer.Token
	TypeParams []string
	TraitName  string
	TraitArgs  []TypeNode
	Target     TypeNode
	Methods    []*FunctionLit
}

func (s *ImplDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *ImplDecl) Pos() Pos             { return posOf(s.Tok) }
func (s *ImplDecl) stmtNode()            {}

// ModuleHeader is the optional leading `module Name [exposing (a, b)];`.
type ModuleHeader struct {
	Tok          lexer.Token
	Name         string
	HasExposing  bool
	ExposedNames []string
}

func (s *ModuleHeader) TokenLiteral() string { return s.Tok.Literal }
func (s *ModuleHeader) Pos() Pos             { return posOf(s.Tok) }
func (s *ModuleHeader) stmtNode()            {}

// UseStmt is `use path [as alias] [exposing (n1, n2, ...)];`.
type UseStmt struct {
	Tok          lexer.Token
	Path         []string
	Alias        string
	HasAlias     bool
	HasExposing  bool
	ExposedNames []string
}

func (s *UseStmt) TokenLiteral() string { return s.Tok.Literal }
func (s *UseStmt) Pos() Pos             { return posOf(s.Tok) }
func (s *UseStmt) stmtNode()            {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Tok  lexer.Token
	Expr Expr
}

func (s *ExprStmt) TokenLiteral() string { return s.Tok.Literal }
func (s *ExprStmt) Pos() Pos             { return posOf(s.Tok) }
func (s *ExprStmt) stmtNode()            {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// IntegerLit is an integer literal.
type IntegerLit struct {
	Tok   lexer.Token
	Value int64
}

func (e *IntegerLit) TokenLiteral() string { return e.Tok.Literal }
func (e *IntegerLit) Pos() Pos             { return posOf(e.Tok) }
func (e *IntegerLit) exprNode()            {}

// DoubleLit is a double literal.
type DoubleLit struct {
	Tok   lexer.Token
	Value float64
}

func (e *DoubleLit) TokenLiteral() string { return e.Tok.Literal }
func (e *DoubleLit) Pos() Pos             { return posOf(e.Tok) }
func (e *DoubleLit) exprNode()            {}

// BooleanLit is `true` or `false`.
type BooleanLit struct {
	Tok   lexer.Token
	Value bool
}

func (e *BooleanLit) TokenLiteral() string { return e.Tok.Literal }
func (e *BooleanLit) Pos() Pos             { return posOf(e.Tok) }
func (e *BooleanLit) exprNode()            {}

// StringLit is a plain or triple-quoted string literal.
type StringLit struct {
	Tok   lexer.Token
	Value string
}

func (e *StringLit) TokenLiteral() string { return e.Tok.Literal }
func (e *StringLit) Pos() Pos             { return posOf(e.Tok) }
func (e *StringLit) exprNode()            {}

// InterpStringLit is a string literal containing `{expr}` interpolations.
// Parts alternates literal text and Exprs is the interpolated expressions
// in order; len(Parts) == len(Exprs)+1.
type InterpStringLit struct {
	Tok   lexer.Token
	Parts []string
	Exprs []Expr
}

func (e *InterpStringLit) TokenLiteral() string { return e.Tok.Literal }
func (e *InterpStringLit) Pos() Pos             { return posOf(e.Tok) }
func (e *InterpStringLit) exprNode()            {}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Tok      lexer.Token
	Elements []Expr
}

func (e *ArrayLit) TokenLiteral() string { return e.Tok.Literal }
func (e *ArrayLit) Pos() Pos             { return posOf(e.Tok) }
func (e *ArrayLit) exprNode()            {}

// HashEntry is one `key: value` pair of a HashLit.
type HashEntry struct {
	Key   Expr
	Value Expr
}

// HashLit is `{ k1: v1, k2: v2, ... }`.
type HashLit struct {
	Tok     lexer.Token
	Entries []HashEntry
}

func (e *HashLit) TokenLiteral() string { return e.Tok.Literal }
func (e *HashLit) Pos() Pos             { return posOf(e.Tok) }
func (e *HashLit) exprNode()            {}

// TupleLit is `(e1, e2, ...)` with at least two elements, or `()` for unit.
type TupleLit struct {
	Tok      lexer.Token
	Elements []Expr
}

func (e *TupleLit) TokenLiteral() string { return e.Tok.Literal }
func (e *TupleLit) Pos() Pos             { return posOf(e.Tok) }
func (e *TupleLit) exprNode()            {}

// Identifier names a variable, function, or data/record constructor.
type Identifier struct {
	Tok   lexer.Token
	Value string
}

func (e *Identifier) TokenLiteral() string { return e.Tok.Literal }
func (e *Identifier) Pos() Pos             { return posOf(e.Tok) }
func (e *Identifier) exprNode()            {}
func (e *Identifier) patternNode()         {}

// PathExpr is a dotted access, `a.b.c`, which the parser builds for every
// chain of identifiers joined by '.'. Whether it names a module export or a
// member of a bound value is decided when it is checked and evaluated.
type PathExpr struct {
	Tok      lexer.Token
	Segments []string
}

func (e *PathExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *PathExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *PathExpr) exprNode()            {}

// PrefixExpr is `-x` or `!x`.
type PrefixExpr struct {
	Tok      lexer.Token
	Operator string
	Right    Expr
}

func (e *PrefixExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *PrefixExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *PrefixExpr) exprNode()            {}

// InfixExpr is a binary operator application.
type InfixExpr struct {
	Tok      lexer.Token
	Left     Expr
	Operator string
	Right    Expr
}

func (e *InfixExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *InfixExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *InfixExpr) exprNode()            {}

// AssignExpr is `target = value` or `target += value`.
type AssignExpr struct {
	Tok      lexer.Token
	Target   Expr
	Operator string // "=" or "+="
	Value    Expr
}

func (e *AssignExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *AssignExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *AssignExpr) exprNode()            {}

// CallExpr is `fn(args...)`.
type CallExpr struct {
	Tok       lexer.Token
	Function  Expr
	Arguments []Expr
}

func (e *CallExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *CallExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *CallExpr) exprNode()            {}

// IndexExpr is `left[index]`.
type IndexExpr struct {
	Tok   lexer.Token
	Left  Expr
	Index Expr
}

func (e *IndexExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *IndexExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *IndexExpr) exprNode()            {}

// MemberExpr is `left.property`.
type MemberExpr struct {
	Tok      lexer.Token
	Left     Expr
	Property string
}

func (e *MemberExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *MemberExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *MemberExpr) exprNode()            {}

// IfExpr is `if cond: then else: elseBranch` (or the block form).
type IfExpr struct {
	Tok       lexer.Token
	Condition Expr
	Then      Expr
	Else      Expr // nil if absent
}

func (e *IfExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *IfExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *IfExpr) exprNode()            {}

// MatchArm is one `pattern => body` arm of a MatchExpr.
type MatchArm struct {
	Patterns []Pattern // one pattern per scrutinee
	Body     Expr
}

// MatchExpr is `match (v1, v2, ...) { pattern => body, ... }`.
type MatchExpr struct {
	Tok        lexer.Token
	Scrutinees []Expr
	Arms       []MatchArm
}

func (e *MatchExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *MatchExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *MatchExpr) exprNode()            {}

// WhenArm is one `| p1, p2 => body` arm of a WhenExpr.
type WhenArm struct {
	Conditions []Expr
	Body       Expr
}

// WhenExpr is `when [(subject)] { | p1, p2 => body, ..., else => body }`.
type WhenExpr struct {
	Tok     lexer.Token
	Subject Expr // nil if no subject
	Arms    []WhenArm
	Else    Expr
}

func (e *WhenExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *WhenExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *WhenExpr) exprNode()            {}

// TryExpr is the postfix `expr?` operator.
type TryExpr struct {
	Tok     lexer.Token
	Operand Expr
}

func (e *TryExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *TryExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *TryExpr) exprNode()            {}

// Param is one parameter of a FunctionLit.
type Param struct {
	Name string
	Type TypeNode // nil if not annotated
}

// FunctionLit is `fn [name][<params>](args [: T]*) [-> T] { body }`, or the
// `: expr` / `=> expr` single-expression-body forms.
type FunctionLit struct {
	Tok        lexer.Token
	Name       string // "" for anonymous
	TypeParams []string
	Params     []Param
	ReturnType TypeNode // nil if not annotated
	Body       Expr     // always an expression; block bodies are BlockExpr
}

func (e *FunctionLit) TokenLiteral() string { return e.Tok.Literal }
func (e *FunctionLit) Pos() Pos             { return posOf(e.Tok) }
func (e *FunctionLit) exprNode()            {}

// BlockExpr is `{ stmt; stmt; ...; tailExpr }`; its value is the value of
// its last statement if that statement is an ExprStmt, else Null.
type BlockExpr struct {
	Tok        lexer.Token
	Statements []Stmt
}

func (e *BlockExpr) TokenLiteral() string { return e.Tok.Literal }
func (e *BlockExpr) Pos() Pos             { return posOf(e.Tok) }
func (e *BlockExpr) exprNode()            {}

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

// WildcardPattern is `_`.
type WildcardPattern struct {
	Tok lexer.Token
}

func (p *WildcardPattern) TokenLiteral() string { return p.Tok.Literal }
func (p *WildcardPattern) Pos() Pos             { return posOf(p.Tok) }
func (p *WildcardPattern) patternNode()         {}

// VariantPattern matches a sum variant constructor applied to
// sub-patterns: `Name(p1, p2, ...)`.
type VariantPattern struct {
	Tok      lexer.Token
	Name     string
	SubPats  []Pattern
}

func (p *VariantPattern) TokenLiteral() string { return p.Tok.Literal }
func (p *VariantPattern) Pos() Pos             { return posOf(p.Tok) }
func (p *VariantPattern) patternNode()         {}

// ArrayPattern matches an array, optionally binding a rest identifier:
// `[p1, p2, ...rest]`.
type ArrayPattern struct {
	Tok      lexer.Token
	Elements []Pattern
	HasRest  bool
	Rest     string
}

func (p *ArrayPattern) TokenLiteral() string { return p.Tok.Literal }
func (p *ArrayPattern) Pos() Pos             { return posOf(p.Tok) }
func (p *ArrayPattern) patternNode()         {}

// TuplePattern matches a tuple: `(p1, p2, ...)`.
type TuplePattern struct {
	Tok      lexer.Token
	Elements []Pattern
}

func (p *TuplePattern) TokenLiteral() string { return p.Tok.Literal }
func (p *TuplePattern) Pos() Pos             { return posOf(p.Tok) }
func (p *TuplePattern) patternNode()         {}

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	Tok   lexer.Token
	Value Expr // one of IntegerLit, DoubleLit, BooleanLit, StringLit
}

func (p *LiteralPattern) TokenLiteral() string { return p.Tok.Literal }
func (p *LiteralPattern) Pos() Pos             { return posOf(p.Tok) }
func (p *LiteralPattern) patternNode()         {}

// ---------------------------------------------------------------------
// Type nodes
// ---------------------------------------------------------------------

// NamedTypeNode is a bare identifier type, e.g. `Integer`.
type NamedTypeNode struct {
	Tok  lexer.Token
	Name string
}

func (t *NamedTypeNode) TokenLiteral() string { return t.Tok.Literal }
func (t *NamedTypeNode) Pos() Pos             { return posOf(t.Tok) }
func (t *NamedTypeNode) typeNode()            {}

// PathTypeNode is a dotted type reference, e.g. `a.b.Type`.
type PathTypeNode struct {
	Tok      lexer.Token
	Segments []string
}

func (t *PathTypeNode) TokenLiteral() string { return t.Tok.Literal }
func (t *PathTypeNode) Pos() Pos             { return posOf(t.Tok) }
func (t *PathTypeNode) typeNode()            {}

// GenericTypeNode is `Name<T, U, ...>`.
type GenericTypeNode struct {
	Tok  lexer.Token
	Name string
	Args []TypeNode
}

func (t *GenericTypeNode) TokenLiteral() string { return t.Tok.Literal }
func (t *GenericTypeNode) Pos() Pos             { return posOf(t.Tok) }
func (t *GenericTypeNode) typeNode()            {}

// FuncTypeNode is `fn(T, ...) -> U`.
type FuncTypeNode struct {
	Tok     lexer.Token
	Params  []TypeNode
	Return  TypeNode
}

func (t *FuncTypeNode) TokenLiteral() string { return t.Tok.Literal }
func (t *FuncTypeNode) Pos() Pos             { return posOf(t.Tok) }
func (t *FuncTypeNode) typeNode()            {}

// TupleTypeNode is `(T, U, ...)`.
type TupleTypeNode struct {
	Tok      lexer.Token
	Elements []TypeNode
}

func (t *TupleTypeNode) TokenLiteral() string { return t.Tok.Literal }
func (t *TupleTypeNode) Pos() Pos             { return posOf(t.Tok) }
func (t *TupleTypeNode) typeNode()            {}
