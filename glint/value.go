package glint

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindHash
	KindFunction
	KindBuiltin
	KindBlock
	KindExpr
)

type Value struct {
	kind ValueKind
	data any
}

// Builtin is a host-registered callable. Params declares its slots for the
// binder; Variadic accepts values beyond the declared slots. Fields, when
// non-nil on a variadic builtin, makes it a named-settable target: a named
// argument matching no declared parameter is written into Fields instead of
// failing the bind.
type Builtin struct {
	Name       string
	Params     []Param
	Variadic   bool
	AutoInvoke bool
	Fields     map[string]Value
	Fn         BuiltinFunc
}

type BuiltinFunc func(exec *Execution, args []Value, block Value) (Value, error)

// BoundExpr is an unevaluated argument expression captured together with the
// environment it would have been evaluated in. Lazy parameter slots receive
// one of these instead of a value.
type BoundExpr struct {
	Expr Expression
	Env  *Env
}

// Block is a deferred body passed to a call with `do ... end`.
type Block struct {
	Params []string
	Body   []Statement
	Env    *Env
}
