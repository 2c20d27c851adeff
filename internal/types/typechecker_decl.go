package types

import "github.com/lumen-lang/lumen/internal/ast"

// resolveTypeNode converts a parsed ast.TypeNode into a semantic Type,
// resolving named types against declared sums/records/traits and leaving
// unknown names as fresh type variables bound by name (so repeated uses of
// the same type parameter within one signature unify together).
func (c *Checker) resolveTypeNode(node ast.TypeNode, env *TypeEnv) Type {
	return c.resolveTypeNodeIn(node, env, map[string]*TVar{})
}

func (c *Checker) resolveTypeNodeIn(node ast.TypeNode, env *TypeEnv, tparams map[string]*TVar) Type {
	switch n := node.(type) {
	case *ast.NamedTypeNode:
		if v, ok := tparams[n.Name]; ok {
			return v
		}
		switch n.Name {
		case "Integer":
			return TInteger
		case "Double":
			return TDouble
		case "Boolean":
			return TBoolean
		case "String":
			return TString
		case "Null":
			return TNull
		case "Any":
			return TAny
		}
		if sum, ok := env.root().sumByName(n.Name); ok {
			return sum
		}
		if rec, ok := env.root().recordByName(n.Name); ok {
			return rec
		}
		// Unresolved name: treat as an implicit type parameter, consistent
		// with generic records/sums whose type params aren't re-declared
		// at every use site.
		v := c.fresh()
		tparams[n.Name] = v
		return v
	case *ast.PathTypeNode:
		return TAny // module-qualified types resolve once the module loader registers them
	case *ast.GenericTypeNode:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = c.resolveTypeNodeIn(a, env, tparams)
		}
		switch n.Name {
		case "Array":
			if len(args) == 1 {
				return &TArray{Elem: args[0]}
			}
		case "Hash":
			if len(args) == 2 {
				return &THash{Key: args[0], Value: args[1]}
			}
			if len(args) == 1 {
				return &THash{Key: TString, Value: args[0]}
			}
		}
		if sum, ok := env.root().sumByName(n.Name); ok {
			inst := *sum
			inst.TypeArgs = args
			return &inst
		}
		if rec, ok := env.root().recordByName(n.Name); ok {
			inst := *rec
			inst.TypeArgs = args
			return &inst
		}
		return TAny
	case *ast.FuncTypeNode:
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = c.resolveTypeNodeIn(p, env, tparams)
		}
		return &TFunction{Params: params, Return: c.resolveTypeNodeIn(n.Return, env, tparams)}
	case *ast.TupleTypeNode:
		elems := make([]Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = c.resolveTypeNodeIn(e, env, tparams)
		}
		return &TTuple{Elements: elems}
	}
	return c.fresh()
}

// sumByName / recordByName are looked up via a side table the declare pass
// populates, keyed independently of the constructor table (which is keyed
// by variant/record name, not the sum/record type name itself).
func (e *TypeEnv) sumByName(name string) (*TSum, bool) {
	s, ok := e.sumsByName()[name]
	return s, ok
}
func (e *TypeEnv) recordByName(name string) (*TRecord, bool) {
	r, ok := e.recordsByName()[name]
	return r, ok
}

func (c *Checker) declareTypeDecl(s *ast.TypeDecl, env *TypeEnv) {
	tparams := map[string]*TVar{}
	typeArgs := make([]Type, len(s.TypeParams))
	for i, p := range s.TypeParams {
		v := c.fresh()
		tparams[p] = v
		typeArgs[i] = v
	}
	sum := &TSum{Name: s.Name, TypeArgs: typeArgs, Variants: map[string]*TVariant{}}
	env.root().registerSum(sum)

	for _, variant := range s.Variants {
		params := make([]Type, len(variant.Params))
		for i, p := range variant.Params {
			params[i] = c.resolveTypeNodeIn(p, env, tparams)
		}
		v := &TVariant{Name: variant.Name, Parent: s.Name, Params: params}
		sum.Variants[variant.Name] = v
		env.RegisterVariant(variant.Name, sum)
		env.RegisterConstructor(variant.Name, &ConstructorInfo{
			Name: variant.Name, ParamTypes: params, Result: sum,
		})
	}
}

func (c *Checker) declareRecordDecl(s *ast.RecordDecl, env *TypeEnv) {
	tparams := map[string]*TVar{}
	typeArgs := make([]Type, len(s.TypeParams))
	for i, p := range s.TypeParams {
		v := c.fresh()
		tparams[p] = v
		typeArgs[i] = v
	}
	fields := make(map[string]Type, len(s.Fields))
	order := make([]string, len(s.Fields))
	paramTypes := make([]Type, len(s.Fields))
	for i, f := range s.Fields {
		ft := c.resolveTypeNodeIn(f.Type, env, tparams)
		fields[f.Name] = ft
		order[i] = f.Name
		paramTypes[i] = ft
	}
	rec := &TRecord{Name: s.Name, TypeArgs: typeArgs, FieldOrder: order, Fields: fields}
	env.root().registerRecord(rec)
	env.RegisterConstructor(s.Name, &ConstructorInfo{Name: s.Name, ParamTypes: paramTypes, Result: rec})
}

func (c *Checker) declareTraitDecl(s *ast.TraitDecl, env *TypeEnv) {
	selfVar := c.fresh()
	tparams := map[string]*TVar{"Self": selfVar}
	for _, p := range s.TypeParams {
		tparams[p] = c.fresh()
	}
	methods := make(map[string]*TFunction, len(s.Methods))
	for _, m := range s.Methods {
		params := make([]Type, len(m.Params))
		for i, p := range m.Params {
			if p.Type == nil {
				params[i] = selfVar
				continue
			}
			params[i] = c.resolveTypeNodeIn(p.Type, env, tparams)
		}
		ret := Type(TNull)
		if m.ReturnType != nil {
			ret = c.resolveTypeNodeIn(m.ReturnType, env, tparams)
		}
		methods[m.Name] = &TFunction{Params: params, Return: ret}
	}
	trait := &TTrait{Name: s.Name, TypeParams: s.TypeParams, Methods: methods, SelfVar: selfVar}
	env.RegisterTrait(trait)
}

func (c *Checker) functionSignature(fn *ast.FunctionLit, env *TypeEnv) Type {
	tparams := map[string]*TVar{}
	for _, p := range fn.TypeParams {
		tparams[p] = c.fresh()
	}
	params := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.Type == nil {
			params[i] = c.fresh()
			continue
		}
		params[i] = c.resolveTypeNodeIn(p.Type, env, tparams)
	}
	ret := Type(c.fresh())
	if fn.ReturnType != nil {
		ret = c.resolveTypeNodeIn(fn.ReturnType, env, tparams)
	}
	return &TFunction{Params: params, Return: ret}
}

func (c *Checker) checkImplDecl(s *ast.ImplDecl, env *TypeEnv) Type {
	tparams := map[string]*TVar{}
	for _, p := range s.TypeParams {
		tparams[p] = c.fresh()
	}
	target := c.resolveTypeNodeIn(s.Target, env, tparams)

	trait, ok := env.LookupTrait(s.TraitName)
	if !ok {
		c.errorf(s.Pos(), "unknown trait %q", s.TraitName)
		trait = &TTrait{Name: s.TraitName, Methods: map[string]*TFunction{}}
	}

	methods := make(map[string]*TFunction, len(s.Methods))
	for _, m := range s.Methods {
		sig, ok := trait.Methods[m.Name]
		methodEnv := env.Child()
		params := make([]Type, len(m.Params))
		for i, p := range m.Params {
			pt := Type(c.fresh())
			if ok && i < len(sig.Params) {
				pt = substituteSelf(sig.Params[i], trait.SelfVar, target)
			} else if p.Type != nil {
				pt = c.resolveTypeNodeIn(p.Type, env, tparams)
			}
			params[i] = pt
			methodEnv.Define(p.Name, pt, false)
		}
		ret := Type(c.fresh())
		if ok {
			ret = substituteSelf(sig.Return, trait.SelfVar, target)
		} else if m.ReturnType != nil {
			ret = c.resolveTypeNodeIn(m.ReturnType, env, tparams)
		}
		bodyEnv := methodEnv.WithReturn(ret)
		bodyType := c.inferExpr(m.Body, bodyEnv)
		c.unify(m.Pos(), ret, bodyType)
		methods[m.Name] = &TFunction{Params: params, Return: ret}
	}
	env.RegisterImpl(s.TraitName, target, methods)
	return TNull
}

// substituteSelf replaces a trait method signature's Self-typed pieces with
// the impl's concrete target type. Trait methods are modeled with Self as
// an ordinary fresh TVar, so this is an ordinary substitution keyed by that
// TVar's name.
func substituteSelf(t Type, selfVar *TVar, target Type) Type {
	if selfVar == nil {
		return t
	}
	return t.Substitute(map[string]Type{selfVar.Name: target})
}
