package ast

import "strings"

// Print renders a Program back to Lumen source syntax. Re-lexing and
// re-parsing Print(p) must succeed for any well-formed program without
// interpolated strings, so a reparsed printout matches the original AST.
func Print(p *Program) string {
	var b strings.Builder
	for _, s := range p.Statements {
		b.WriteString(PrintStmt(s))
		b.WriteString(";\n")
	}
	return b.String()
}

func PrintStmt(s Stmt) string {
	switch n := s.(type) {
	case *LetStmt:
		mut := ""
		if n.Mutable {
			mut = "mut "
		}
		ann := ""
		if n.TypeAnn != nil {
			ann = ": " + PrintType(n.TypeAnn)
		}
		return "let " + mut + PrintPattern(n.Pattern) + ann + " = " + PrintExpr(n.Value)
	case *ReturnStmt:
		if n.Value == nil {
			return "return"
		}
		return "return " + PrintExpr(n.Value)
	case *TypeDecl:
		var variants []string
		for _, v := range n.Variants {
			variants = append(variants, v.Name+"("+joinTypes(v.Params)+")")
		}
		return "type " + n.Name + typeParams(n.TypeParams) + " = " + strings.Join(variants, " | ")
	case *RecordDecl:
		var fields []string
		for _, f := range n.Fields {
			fields = append(fields, f.Name+": "+PrintType(f.Type))
		}
		return "record " + n.Name + typeParams(n.TypeParams) + "(" + strings.Join(fields, ", ") + ")"
	case *TraitDecl:
		var methods []string
		for _, m := range n.Methods {
			methods = append(methods, "fn "+m.Name+"("+joinParams(m.Params)+") -> "+PrintType(m.ReturnType)+";")
		}
		return "trait " + n.Name + typeParams(n.TypeParams) + " { " + strings.Join(methods, " ") + " }"
	case *ImplDecl:
		var methods []string
		for _, m := range n.Methods {
			methods = append(methods, PrintExpr(m))
		}
		traitArgs := ""
		if len(n.TraitArgs) > 0 {
			traitArgs = "<" + joinTypes(n.TraitArgs) + ">"
		}
		return "impl " + typeParams(n.TypeParams) + n.TraitName + traitArgs + " for " + PrintType(n.Target) + " { " + strings.Join(methods, " ") + " }"
	case *ModuleHeader:
		if n.HasExposing {
			return "module " + n.Name + " exposing (" + strings.Join(n.ExposedNames, ", ") + ")"
		}
		return "module " + n.Name
	case *UseStmt:
		out := "use " + strings.Join(n.Path, ".")
		if n.HasAlias {
			out += " as " + n.Alias
		}
		if n.HasExposing {
			out += " exposing (" + strings.Join(n.ExposedNames, ", ") + ")"
		}
		return out
	case *ExprStmt:
		return PrintExpr(n.Expr)
	}
	return ""
}

func PrintExpr(e Expr) string {
	switch n := e.(type) {
	case *IntegerLit:
		return n.Tok.Literal
	case *DoubleLit:
		return n.Tok.Literal
	case *BooleanLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *StringLit:
		return `"` + escapeString(n.Value) + `"`
	case *InterpStringLit:
		var b strings.Builder
		b.WriteString(`"`)
		for i, part := range n.Parts {
			b.WriteString(escapeString(part))
			if i < len(n.Exprs) {
				b.WriteString("{")
				b.WriteString(PrintExpr(n.Exprs[i]))
				b.WriteString("}")
			}
		}
		b.WriteString(`"`)
		return b.String()
	case *ArrayLit:
		return "[" + joinExprs(n.Elements) + "]"
	case *HashLit:
		var entries []string
		for _, entry := range n.Entries {
			entries = append(entries, PrintExpr(entry.Key)+": "+PrintExpr(entry.Value))
		}
		return "{ " + strings.Join(entries, ", ") + " }"
	case *TupleLit:
		return "(" + joinExprs(n.Elements) + ")"
	case *Identifier:
		return n.Value
	case *PathExpr:
		return strings.Join(n.Segments, ".")
	case *PrefixExpr:
		return "(" + n.Operator + PrintExpr(n.Right) + ")"
	case *InfixExpr:
		return "(" + PrintExpr(n.Left) + " " + n.Operator + " " + PrintExpr(n.Right) + ")"
	case *AssignExpr:
		return PrintExpr(n.Target) + " " + n.Operator + " " + PrintExpr(n.Value)
	case *CallExpr:
		return PrintExpr(n.Function) + "(" + joinExprs(n.Arguments) + ")"
	case *IndexExpr:
		return PrintExpr(n.Left) + "[" + PrintExpr(n.Index) + "]"
	case *MemberExpr:
		return PrintExpr(n.Left) + "." + n.Property
	case *IfExpr:
		out := "if " + PrintExpr(n.Condition) + ": " + PrintExpr(n.Then)
		if n.Else != nil {
			out += " else: " + PrintExpr(n.Else)
		}
		return out
	case *MatchExpr:
		var scrutinees []string
		for _, s := range n.Scrutinees {
			scrutinees = append(scrutinees, PrintExpr(s))
		}
		var arms []string
		for _, a := range n.Arms {
			var pats []string
			for _, p := range a.Patterns {
				pats = append(pats, PrintPattern(p))
			}
			arms = append(arms, strings.Join(pats, ", ")+" => "+PrintExpr(a.Body))
		}
		return "match (" + strings.Join(scrutinees, ", ") + ") { " + strings.Join(arms, ", ") + " }"
	case *WhenExpr:
		out := "when "
		if n.Subject != nil {
			out += "(" + PrintExpr(n.Subject) + ") "
		}
		out += "{ "
		var arms []string
		for _, a := range n.Arms {
			var conds []string
			for _, c := range a.Conditions {
				conds = append(conds, PrintExpr(c))
			}
			arms = append(arms, "| "+strings.Join(conds, ", ")+" => "+PrintExpr(a.Body))
		}
		arms = append(arms, "else => "+PrintExpr(n.Else))
		out += strings.Join(arms, ", ") + " }"
		return out
	case *TryExpr:
		return PrintExpr(n.Operand) + "?"
	case *FunctionLit:
		out := "fn"
		if n.Name != "" {
			out += " " + n.Name
		}
		out += typeParams(n.TypeParams)
		out += "(" + joinParams(n.Params) + ")"
		if n.ReturnType != nil {
			out += " -> " + PrintType(n.ReturnType)
		}
		if _, ok := n.Body.(*BlockExpr); ok {
			out += " " + PrintExpr(n.Body)
		} else {
			out += " { " + PrintExpr(n.Body) + " }"
		}
		return out
	case *BlockExpr:
		var parts []string
		for _, s := range n.Statements {
			parts = append(parts, PrintStmt(s))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	}
	return ""
}

func PrintPattern(p Pattern) string {
	switch n := p.(type) {
	case *Identifier:
		return n.Value
	case *WildcardPattern:
		return "_"
	case *VariantPattern:
		if len(n.SubPats) == 0 {
			return n.Name
		}
		var subs []string
		for _, sp := range n.SubPats {
			subs = append(subs, PrintPattern(sp))
		}
		return n.Name + "(" + strings.Join(subs, ", ") + ")"
	case *ArrayPattern:
		var elems []string
		for _, e := range n.Elements {
			elems = append(elems, PrintPattern(e))
		}
		if n.HasRest {
			elems = append(elems, "..."+n.Rest)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *TuplePattern:
		var elems []string
		for _, e := range n.Elements {
			elems = append(elems, PrintPattern(e))
		}
		return "(" + strings.Join(elems, ", ") + ")"
	case *LiteralPattern:
		return PrintExpr(n.Value)
	}
	return ""
}

func PrintType(t TypeNode) string {
	switch n := t.(type) {
	case *NamedTypeNode:
		return n.Name
	case *PathTypeNode:
		return strings.Join(n.Segments, ".")
	case *GenericTypeNode:
		return n.Name + "<" + joinTypes(n.Args) + ">"
	case *FuncTypeNode:
		return "fn(" + joinTypes(n.Params) + ") -> " + PrintType(n.Return)
	case *TupleTypeNode:
		return "(" + joinTypes(n.Elements) + ")"
	}
	return ""
}

func joinExprs(es []Expr) string {
	var parts []string
	for _, e := range es {
		parts = append(parts, PrintExpr(e))
	}
	return strings.Join(parts, ", ")
}

func joinTypes(ts []TypeNode) string {
	var parts []string
	for _, t := range ts {
		parts = append(parts, PrintType(t))
	}
	return strings.Join(parts, ", ")
}

func joinParams(ps []Param) string {
	var parts []string
	for _, p := range ps {
		if p.Type != nil {
			parts = append(parts, p.Name+": "+PrintType(p.Type))
		} else {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func typeParams(tps []string) string {
	if len(tps) == 0 {
		return ""
	}
	return "<" + strings.Join(tps, ", ") + ">"
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
