package glint

// rewriteImplicitCall turns an implicit (no parameter list) call with
// arguments into a left-associative juxtaposition chain: `f x y` becomes
// `((f APPLY x) APPLY y)`. Under scientific evaluation the chain reads as
// application when the left operand is callable and as multiplication
// otherwise, which is what lets `a x` mean a product when `a` holds a number
// while `sin x` stays a call. The original call site is left untouched; the result is a BinaryExpr
// tree, so re-running the rewriter on its output can never trigger again.
func rewriteImplicitCall(call *CallExpr) Expression {
	expr := call.Target
	for _, arg := range call.Args {
		expr = &BinaryExpr{
			Left:     expr,
			Operator: tokenApply,
			Right:    arg.Value,
			position: expr.Pos(),
		}
	}
	return expr
}

// shouldRewriteCall reports whether the scientific-mode rewrite applies: the
// mode is on, the call was written without a parameter list, and every
// argument is plain positional. Named and spread arguments have no
// juxtaposition reading, so their presence keeps the call a call.
func shouldRewriteCall(call *CallExpr, scientific bool) bool {
	if !scientific || call.ExplicitCall || len(call.Args) == 0 || call.Block != nil {
		return false
	}
	for _, arg := range call.Args {
		if arg.Name != "" || arg.Expand {
			return false
		}
	}
	return true
}
