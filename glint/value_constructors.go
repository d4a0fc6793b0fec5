package glint

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewArray(a []Value) Value { return Value{kind: KindArray, data: a} }
func NewHash(h map[string]Value) Value {
	return Value{kind: KindHash, data: h}
}

func NewBlock(params []string, body []Statement, env *Env) Value {
	return Value{kind: KindBlock, data: &Block{Params: params, Body: body, Env: env}}
}

func NewBlockValue(b *Block) Value {
	return Value{kind: KindBlock, data: b}
}

// NewExpr captures an unevaluated expression and its environment as a value,
// the form delivered to lazy parameter slots.
func NewExpr(expr Expression, env *Env) Value {
	return Value{kind: KindExpr, data: &BoundExpr{Expr: expr, Env: env}}
}

func NewBuiltin(b *Builtin) Value {
	return Value{kind: KindBuiltin, data: b}
}

func NewFunction(fn *ScriptFunction) Value {
	return Value{kind: KindFunction, data: fn}
}
