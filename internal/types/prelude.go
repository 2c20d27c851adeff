package types

// seedPrelude registers the types every Lumen program sees without a `use`:
// the Result/Option sum types and the small set of always-available builtin
// functions (`len`, `toString`, `writeln`, ...).
func seedPrelude(env *TypeEnv) {
	seedResultOption(env)
	seedBuiltins(env)
}

func seedResultOption(env *TypeEnv) {
	okT, errT := &TVar{Name: "ok"}, &TVar{Name: "err"}
	result := &TSum{
		Name:     "Result",
		TypeArgs: []Type{okT, errT},
		Variants: map[string]*TVariant{},
	}
	result.Variants["Ok"] = &TVariant{Name: "Ok", Parent: "Result", Params: []Type{okT}}
	result.Variants["Err"] = &TVariant{Name: "Err", Parent: "Result", Params: []Type{errT}}
	env.registerSum(result)
	env.RegisterVariant("Ok", result)
	env.RegisterVariant("Err", result)
	env.RegisterConstructor("Ok", &ConstructorInfo{Name: "Ok", ParamTypes: []Type{okT}, Result: result})
	env.RegisterConstructor("Err", &ConstructorInfo{Name: "Err", ParamTypes: []Type{errT}, Result: result})

	someT := &TVar{Name: "some"}
	option := &TSum{
		Name:     "Option",
		TypeArgs: []Type{someT},
		Variants: map[string]*TVariant{},
	}
	option.Variants["Some"] = &TVariant{Name: "Some", Parent: "Option", Params: []Type{someT}}
	option.Variants["None"] = &TVariant{Name: "None", Parent: "Option", Params: nil}
	env.registerSum(option)
	env.RegisterVariant("Some", option)
	env.RegisterVariant("None", option)
	env.RegisterConstructor("Some", &ConstructorInfo{Name: "Some", ParamTypes: []Type{someT}, Result: option})
	env.RegisterConstructor("None", &ConstructorInfo{Name: "None", ParamTypes: nil, Result: option})

	env.Define("NULL", TNull, false)
}

// seedBuiltins registers the signatures of the always-in-scope native
// functions. Several are genuinely polymorphic (map, filter, reduce); their
// type variables are fresh per Check() run, one set shared across the whole
// program the way a Hindley-Milner prelude would be instantiated once and
// reused (Lumen does not generalize/instantiate per call site, so a single
// call site fixes the variable for the rest of the program, acceptable for
// a tree-walking, non-generalizing checker per the documented Open Question
// decision in DESIGN.md).
func seedBuiltins(env *TypeEnv) {
	a := &TVar{Name: "a"}
	b := &TVar{Name: "b"}

	env.Define("len", &TFunction{Params: []Type{TAny}, Return: TInteger}, false)
	env.Define("toString", &TFunction{Params: []Type{TAny}, Return: TString}, false)
	env.Define("writeln", &TFunction{Params: []Type{TAny}, Return: TNull}, false)
	env.Define("write", &TFunction{Params: []Type{TAny}, Return: TNull}, false)
	env.Define("strFormat", &TFunction{Params: []Type{TString, &TArray{Elem: TAny}}, Return: TString}, false)

	env.Define("map", &TFunction{
		Params: []Type{&TArray{Elem: a}, &TFunction{Params: []Type{a}, Return: b}},
		Return: &TArray{Elem: b},
	}, false)
	env.Define("filter", &TFunction{
		Params: []Type{&TArray{Elem: a}, &TFunction{Params: []Type{a}, Return: TBoolean}},
		Return: &TArray{Elem: a},
	}, false)
	env.Define("reduce", &TFunction{
		Params: []Type{&TArray{Elem: a}, b, &TFunction{Params: []Type{b, a}, Return: b}},
		Return: b,
	}, false)
	env.Define("first", &TFunction{Params: []Type{&TArray{Elem: a}}, Return: a}, false)
	env.Define("rest", &TFunction{Params: []Type{&TArray{Elem: a}}, Return: &TArray{Elem: a}}, false)
	env.Define("prepend", &TFunction{Params: []Type{a, &TArray{Elem: a}}, Return: &TArray{Elem: a}}, false)
}
