package eval

// RecordInfo is a declared record type's runtime shape: just enough to
// construct and print instances (the checker already verified field types).
type RecordInfo struct {
	Name       string
	FieldOrder []string
}

// VariantInfo is a declared sum variant's runtime shape.
type VariantInfo struct {
	Name   string
	Parent string
	Arity  int
}

type implKey struct {
	trait  string
	target string
}

// Registry holds the whole-program runtime tables populated by a
// declaration pass before any statement runs: record/variant shapes and
// trait impl method tables, the runtime mirror of types.TypeEnv's root
// tables. Shared across every Environment in one program run.
type Registry struct {
	records  map[string]*RecordInfo
	variants map[string]*VariantInfo
	impls    map[implKey]map[string]*FunctionValue
	modules  map[string]*ModuleValue
}

func NewRegistry() *Registry {
	return &Registry{
		records:  map[string]*RecordInfo{},
		variants: map[string]*VariantInfo{},
		impls:    map[implKey]map[string]*FunctionValue{},
		modules:  map[string]*ModuleValue{},
	}
}

func (r *Registry) RegisterRecord(info *RecordInfo) { r.records[info.Name] = info }
func (r *Registry) Record(name string) (*RecordInfo, bool) {
	info, ok := r.records[name]
	return info, ok
}

func (r *Registry) RegisterVariant(info *VariantInfo) { r.variants[info.Name] = info }
func (r *Registry) Variant(name string) (*VariantInfo, bool) {
	info, ok := r.variants[name]
	return info, ok
}

func (r *Registry) RegisterImpl(trait, target string, methods map[string]*FunctionValue) {
	r.impls[implKey{trait: trait, target: target}] = methods
}

// MethodFor finds method registered on target's head type under any trait,
// mirroring types.TypeEnv.LookupMethodOnAnyTrait.
func (r *Registry) MethodFor(target, method string) (*FunctionValue, bool) {
	for key, methods := range r.impls {
		if key.target != target {
			continue
		}
		if fn, ok := methods[method]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (r *Registry) RegisterModule(m *ModuleValue) { r.modules[m.Name] = m }
func (r *Registry) Module(name string) (*ModuleValue, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// headTypeName is the runtime type name used to key method dispatch,
// mirroring types.headName: a record/sum's own name, or "Array"/"Hash"/
// "Tuple"/"Integer"/etc. for builtin shapes.
func headTypeName(v Value) string {
	switch v.(type) {
	case *RecordValue:
		return v.(*RecordValue).TypeName
	case *SumValue:
		return v.(*SumValue).SumName
	default:
		return v.Type()
	}
}
