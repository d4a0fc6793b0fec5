package glint

// MaxParams caps declared arity. Bound slots are tracked in a 64-bit mask, so
// a callable may declare at most 63 parameters; the dispatcher rejects
// anything at or above the cap before binding.
const MaxParams = 64

// ScriptFunction is a user-defined callable compiled from a `def` statement.
// A non-empty RestName makes it variadic: values beyond the declared slots
// collect into that binding as an array.
type ScriptFunction struct {
	Name     string
	Params   []Param
	RestName string
	Body     []Statement
	Pos      Position
	Env      *Env
}

// callableInfo is the binder's view of a callable: parameter metadata plus
// the variant-specific behavior flags. It is derived per call by pattern
// matching on the value kind, never by open-ended dispatch.
type callableInfo struct {
	name        string
	params      []Param
	variadic    bool
	settable    map[string]Value
	defaultsEnv *Env
	needsScope  bool
	fn          *ScriptFunction
	builtin     *Builtin
	block       *Block
}

// callableDescriptor resolves the descriptor for a callable value. The
// second result is false when the value is not a callable capability.
func callableDescriptor(v Value) (*callableInfo, bool) {
	switch v.Kind() {
	case KindFunction:
		fn := v.Function()
		if fn == nil {
			return nil, false
		}
		return &callableInfo{
			name:        fn.Name,
			params:      fn.Params,
			variadic:    fn.RestName != "",
			defaultsEnv: fn.Env,
			needsScope:  len(fn.Params) > 0 || fn.RestName != "",
			fn:          fn,
		}, true
	case KindBuiltin:
		b := v.Builtin()
		if b == nil {
			return nil, false
		}
		info := &callableInfo{
			name:     b.Name,
			params:   b.Params,
			variadic: b.Variadic,
			builtin:  b,
		}
		if b.Variadic && len(b.Fields) > 0 {
			// Per-call copy: the binder overwrites entries for named
			// arguments, and the registered defaults must stay intact.
			settable := make(map[string]Value, len(b.Fields))
			for name, val := range b.Fields {
				settable[name] = val
			}
			info.settable = settable
		}
		return info, true
	case KindBlock:
		b := v.Block()
		if b == nil {
			return nil, false
		}
		params := make([]Param, len(b.Params))
		for i, name := range b.Params {
			params[i] = Param{Name: name}
		}
		return &callableInfo{
			name:        "block",
			params:      params,
			defaultsEnv: b.Env,
			needsScope:  len(params) > 0,
			block:       b,
		}, true
	default:
		return nil, false
	}
}

// IsCallable reports whether a value carries the callable capability. Other
// expression forms use it to decide whether a bare reference should
// auto-invoke.
func IsCallable(v Value) bool {
	_, ok := callableDescriptor(v)
	return ok
}

func (info *callableInfo) paramIndex(name string) int {
	for i, p := range info.params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// requiredParamCount counts parameters without defaults from the front of the
// list; a defaulted parameter ends the required prefix.
func (info *callableInfo) requiredParamCount() int {
	for i, p := range info.params {
		if p.Default != nil {
			return i
		}
	}
	return len(info.params)
}

func (info *callableInfo) isLazy(slot int) bool {
	return slot >= 0 && slot < len(info.params) && info.params[slot].Lazy
}

func (t ParamType) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	default:
		return "any"
	}
}

// convertToParamType converts an argument value to a slot's declared type.
// TypeAny accepts everything; numeric slots coerce between int and float, a
// float narrows to int only when it has no fractional part.
func (exec *Execution) convertToParamType(pos Position, v Value, t ParamType) (Value, error) {
	switch t {
	case TypeAny:
		return v, nil
	case TypeBool:
		if v.Kind() == KindBool {
			return v, nil
		}
	case TypeInt:
		switch v.Kind() {
		case KindInt:
			return v, nil
		case KindFloat:
			f := v.Float()
			if f == float64(int64(f)) {
				return NewInt(int64(f)), nil
			}
		}
	case TypeFloat:
		switch v.Kind() {
		case KindInt:
			return NewFloat(v.Float()), nil
		case KindFloat:
			return v, nil
		}
	case TypeString:
		if v.Kind() == KindString {
			return v, nil
		}
	case TypeArray:
		if v.Kind() == KindArray {
			return v, nil
		}
	}
	return NewNil(), exec.kindErrorAt(ErrTypeConversion, pos, "cannot convert %s to %s", v.Kind(), t)
}
