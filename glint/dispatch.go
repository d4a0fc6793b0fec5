package glint

import "errors"

// evalCallExpr is the single entry point for evaluating a call site. It runs
// the full pipeline: scientific-mode rewrite, block queueing, target
// resolution, pipe injection, binding, arity enforcement, invocation, and
// diagnostic remapping.
func (exec *Execution) evalCallExpr(call *CallExpr, env *Env) (Value, error) {
	if shouldRewriteCall(call, exec.scientific) {
		return exec.evalExpression(rewriteImplicitCall(call), env)
	}

	callee, err := exec.resolveCallTarget(call, env)
	if err != nil {
		return NewNil(), err
	}

	if call.Block != nil {
		blockVal, err := exec.evalExpression(call.Block, env)
		if err != nil {
			return NewNil(), err
		}
		exec.pushPendingBlock(blockVal)
	}

	return exec.dispatchCall(callee, call.Args, env, call.Pos(), true)
}

// resolveCallTarget evaluates the call target without auto-invocation. A
// bare name that resolves to nothing is reported as an uncallable target
// rather than a plain undefined-name error.
func (exec *Execution) resolveCallTarget(call *CallExpr, env *Env) (Value, error) {
	if ident, ok := call.Target.(*Identifier); ok {
		if val, found := env.Get(ident.Name); found {
			return val, nil
		}
		if val, found := exec.engine.builtins[ident.Name]; found {
			return val, nil
		}
		return NewNil(), exec.kindErrorAt(ErrTargetNotCallable, ident.Pos(),
			"%s is not defined and cannot be called", ident.Name)
	}
	return exec.evalExpression(call.Target, env)
}

// dispatchCall orchestrates one call end to end. args is the call site's own
// argument list; pipe injection may prepend a value argument, but diagnostics
// keep mapping against the pre-injection list. The pooled argument buffer is
// released on every exit path.
func (exec *Execution) dispatchCall(callee Value, args []Argument, env *Env, pos Position, usePipe bool) (Value, error) {
	// The pending block belongs to this call even when dispatch fails, so
	// consume it before any check can bail out.
	block := NewNil()
	if pending, found := exec.popPendingBlock(); found {
		block = pending
	}

	info, ok := callableDescriptor(callee)
	if !ok {
		return NewNil(), exec.kindErrorAt(ErrInvalidCallTarget, pos,
			"cannot call a value of type %s", callee.Kind())
	}
	if len(info.params) >= MaxParams {
		return NewNil(), exec.kindErrorAt(ErrArityLimitExceeded, pos,
			"%s declares %d parameters, limit is %d", info.name, len(info.params), MaxParams-1)
	}

	origArgs := args
	if usePipe {
		if piped, found := exec.popPipeValue(); found {
			injected := make([]Argument, 0, len(args)+1)
			injected = append(injected, Argument{Value: NewValueExpr(piped, pos)})
			injected = append(injected, args...)
			args = injected
		}
	}

	required := info.requiredParamCount()
	buf := exec.argPool.acquire(max(required, len(args)))
	defer exec.argPool.release(buf)

	if err := exec.bindArguments(info, args, env, buf); err != nil {
		return NewNil(), err
	}

	if want := lowBits(required); buf.mask&want != want {
		return NewNil(), exec.kindErrorAt(ErrMissingRequiredArgs, pos,
			"%s is missing required arguments: %d of %d required parameters bound",
			info.name, buf.boundCount(required), required)
	}
	if !info.variadic && len(buf.vals) > len(info.params) {
		excessPos := pos
		if len(info.params) < len(origArgs) {
			excessPos = origArgs[len(info.params)].Pos()
		}
		return NewNil(), exec.kindErrorAt(ErrTooManyArguments, excessPos,
			"%s expects at most %d arguments, got %d", info.name, len(info.params), len(buf.vals))
	}

	if err := exec.pushFrame(info.name, pos, info.needsScope); err != nil {
		return NewNil(), err
	}
	defer exec.popFrame()

	prevFields := exec.callFields
	exec.callFields = info.settable
	defer func() { exec.callFields = prevFields }()

	result, err := exec.invokeCallable(info, buf, block)
	if err != nil {
		return NewNil(), exec.translateInvocationError(err, info, origArgs, pos)
	}
	return result, nil
}

// invokeCallable dispatches over the closed set of callable variants. The
// argument buffer is pool-owned: callables may read it during the invocation
// but must not retain it.
func (exec *Execution) invokeCallable(info *callableInfo, buf *boundArgs, block Value) (Value, error) {
	switch {
	case info.fn != nil:
		return exec.callFunction(info.fn, buf, block)
	case info.builtin != nil:
		return info.builtin.Fn(exec, buf.vals, block)
	case info.block != nil:
		return exec.CallBlock(NewBlockValue(info.block), buf.vals)
	default:
		return NewNil(), errors.New("callable descriptor without a variant")
	}
}

func (exec *Execution) callFunction(fn *ScriptFunction, buf *boundArgs, block Value) (Value, error) {
	callEnv := newEnv(fn.Env)
	for i, param := range fn.Params {
		val := NewNil()
		if i < len(buf.vals) {
			val = buf.vals[i]
		}
		callEnv.Define(param.Name, val)
	}
	if fn.RestName != "" {
		var rest []Value
		if len(buf.vals) > len(fn.Params) {
			rest = append(rest, buf.vals[len(fn.Params):]...)
		}
		callEnv.Define(fn.RestName, NewArray(rest))
	}
	if !block.IsNil() {
		callEnv.Define("__block__", block)
	}

	result, _, err := exec.evalStatements(fn.Body, callEnv)
	if err != nil {
		return NewNil(), err
	}
	return result, nil
}

// translateInvocationError converts invocation failures into span-bound
// diagnostics. Loop-control signals are absorbed at the call boundary, and a
// callable's own ArgumentError (by name or slot index) is mapped back to the
// originating argument's span when that slot exists in the pre-injection
// argument list, else to the call site. Host cancellation passes through
// untouched.
func (exec *Execution) translateInvocationError(err error, info *callableInfo, origArgs []Argument, callPos Position) error {
	if isHostControlSignal(err) {
		return err
	}
	if errors.Is(err, errLoopBreak) {
		return exec.errorAt(callPos, "break cannot cross call boundary")
	}
	if errors.Is(err, errLoopNext) {
		return exec.errorAt(callPos, "next cannot cross call boundary")
	}

	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return exec.kindErrorAt(ErrInvocationArgument, invocationArgPos(argErr, info, origArgs, callPos),
			"%s rejected an argument: %s", info.name, argErr.Message)
	}

	return exec.wrapError(err, callPos)
}

// invocationArgPos finds the call-site span of a rejected argument. A named
// rejection prefers the argument written with that name; otherwise the
// parameter's slot is matched against the positional argument list. When the
// rejected value never appeared at the call site (a default, or a variadic
// tail past the written arguments) the call span is used.
func invocationArgPos(argErr *ArgumentError, info *callableInfo, origArgs []Argument, callPos Position) Position {
	if argErr.Name != "" {
		for _, arg := range origArgs {
			if arg.Name == argErr.Name {
				return arg.Pos()
			}
		}
	}
	slot := argErr.Index
	if argErr.Name != "" {
		slot = info.paramIndex(argErr.Name)
	}
	if slot >= 0 && slot < len(origArgs) && origArgs[slot].Name == "" {
		return origArgs[slot].Pos()
	}
	return callPos
}

// CallBlock invokes a block value passed to a builtin with `do ... end`.
// Loop-control signals raised inside the block body propagate to the caller,
// which decides whether they terminate an iteration or escape too far.
func (exec *Execution) CallBlock(block Value, args []Value) (Value, error) {
	b := block.Block()
	if b == nil {
		return NewNil(), errors.New("value is not a block")
	}
	blockEnv := newEnv(b.Env)
	for i, name := range b.Params {
		val := NewNil()
		if i < len(args) {
			val = args[i]
		}
		blockEnv.Define(name, val)
	}
	result, _, err := exec.evalStatements(b.Body, blockEnv)
	if err != nil {
		return NewNil(), err
	}
	return result, nil
}
