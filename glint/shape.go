package glint

// FunctionShape is the structural reading of a call site as a function
// declaration head: `f(a, b)` seen as name plus parameter names.
type FunctionShape struct {
	Name   string
	Params []string
}

// TryExtractDeclarationShape reads an explicit call whose target and every
// argument are bare identifiers as a declaration head. Grammar paths that
// accept inline function literals use it to tell `f(a, b)` the declaration
// from `f(a, b)` the invocation; it never runs as part of call evaluation.
func TryExtractDeclarationShape(call *CallExpr) (*FunctionShape, bool) {
	if call == nil || !call.ExplicitCall {
		return nil, false
	}
	target, ok := call.Target.(*Identifier)
	if !ok {
		return nil, false
	}
	params := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		if arg.Name != "" || arg.Expand {
			return nil, false
		}
		ident, ok := arg.Value.(*Identifier)
		if !ok {
			return nil, false
		}
		params = append(params, ident.Name)
	}
	return &FunctionShape{Name: target.Name, Params: params}, true
}
