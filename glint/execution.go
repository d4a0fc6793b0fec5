package glint

import (
	"context"
	"errors"
	"fmt"
)

// Execution is one evaluation context: a single-threaded, recursive-descent
// run over a compiled script. The argument-buffer pool and the pending
// pipe/block stacks are fields here, never process globals; concurrent
// evaluations each need their own Execution.
type Execution struct {
	engine       *Engine
	script       *Script
	ctx          context.Context
	quota        int
	recursionCap int
	steps        int
	scientific   bool
	callStack    []callFrame
	root         *Env
	pipeStack    []Value
	blockStack   []Value
	callFields   map[string]Value
	argPool      argBufferPool
}

// callFrame is the scoped bookkeeping entered on invocation and exited on
// return. NeedsScope records whether the callable declares its own parameter
// bindings.
type callFrame struct {
	Function   string
	Pos        Position
	NeedsScope bool
}

func newExecution(script *Script, ctx context.Context, root *Env) *Execution {
	return &Execution{
		engine:       script.engine,
		script:       script,
		ctx:          ctx,
		quota:        script.engine.config.StepQuota,
		recursionCap: script.engine.config.RecursionLimit,
		scientific:   script.engine.config.ScientificMode,
		callStack:    make([]callFrame, 0, 8),
		root:         root,
	}
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return fmt.Errorf("%w (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

func (exec *Execution) pushFrame(function string, pos Position, needsScope bool) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos, NeedsScope: needsScope})
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

// Field returns a settable field of the builtin currently being invoked. The
// call site's named arguments overwrite the registered defaults, so the value
// seen here is whatever this particular call settled on.
func (exec *Execution) Field(name string) Value {
	if val, ok := exec.callFields[name]; ok {
		return val
	}
	return NewNil()
}

func (exec *Execution) pushPipeValue(v Value) {
	exec.pipeStack = append(exec.pipeStack, v)
}

// popPipeValue consumes the pending piped value, if any. At most one value is
// consumed per call.
func (exec *Execution) popPipeValue() (Value, bool) {
	if len(exec.pipeStack) == 0 {
		return Value{}, false
	}
	v := exec.pipeStack[len(exec.pipeStack)-1]
	exec.pipeStack = exec.pipeStack[:len(exec.pipeStack)-1]
	return v, true
}

func (exec *Execution) pushPendingBlock(v Value) {
	exec.blockStack = append(exec.blockStack, v)
}

func (exec *Execution) popPendingBlock() (Value, bool) {
	if len(exec.blockStack) == 0 {
		return Value{}, false
	}
	v := exec.blockStack[len(exec.blockStack)-1]
	exec.blockStack = exec.blockStack[:len(exec.blockStack)-1]
	return v, true
}

func (exec *Execution) evalStatements(stmts []Statement, env *Env) (Value, bool, error) {
	result := NewNil()
	for _, stmt := range stmts {
		val, returned, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, bool, error) {
	if err := exec.step(); err != nil {
		return NewNil(), false, exec.wrapError(err, stmt.Pos())
	}

	switch s := stmt.(type) {
	case *FunctionStmt:
		fn := &ScriptFunction{
			Name:     s.Name,
			Params:   s.Params,
			RestName: s.RestName,
			Body:     s.Body,
			Pos:      s.Pos(),
			Env:      env,
		}
		env.Define(s.Name, NewFunction(fn))
		return NewNil(), false, nil

	case *AssignStmt:
		val, err := exec.evalExpressionWithAuto(s.Value, env, true)
		if err != nil {
			return NewNil(), false, err
		}
		env.Assign(s.Name, val)
		return val, false, nil

	case *ReturnStmt:
		if s.Value == nil {
			return NewNil(), true, nil
		}
		val, err := exec.evalExpressionWithAuto(s.Value, env, true)
		if err != nil {
			return NewNil(), false, err
		}
		return val, true, nil

	case *BreakStmt:
		return NewNil(), false, errLoopBreak

	case *NextStmt:
		return NewNil(), false, errLoopNext

	case *ExprStmt:
		val, err := exec.evalExpressionWithAuto(s.Expr, env, true)
		if err != nil {
			return NewNil(), false, err
		}
		return val, false, nil

	case *IfStmt:
		return exec.evalIfStatement(s, env)

	case *ForStmt:
		return exec.evalForStatement(s, env)

	default:
		return NewNil(), false, exec.errorAt(stmt.Pos(), "unsupported statement")
	}
}

func (exec *Execution) evalIfStatement(stmt *IfStmt, env *Env) (Value, bool, error) {
	cond, err := exec.evalExpressionWithAuto(stmt.Condition, env, true)
	if err != nil {
		return NewNil(), false, err
	}
	if cond.truthy() {
		return exec.evalStatements(stmt.Consequent, newEnv(env))
	}
	for _, elseif := range stmt.ElseIf {
		cond, err := exec.evalExpressionWithAuto(elseif.Condition, env, true)
		if err != nil {
			return NewNil(), false, err
		}
		if cond.truthy() {
			return exec.evalStatements(elseif.Consequent, newEnv(env))
		}
	}
	if stmt.Alternate != nil {
		return exec.evalStatements(stmt.Alternate, newEnv(env))
	}
	return NewNil(), false, nil
}

func (exec *Execution) evalForStatement(stmt *ForStmt, env *Env) (Value, bool, error) {
	iterable, err := exec.evalExpressionWithAuto(stmt.Iterable, env, true)
	if err != nil {
		return NewNil(), false, err
	}
	if iterable.Kind() != KindArray {
		return NewNil(), false, exec.errorAt(stmt.Iterable.Pos(), "cannot iterate over %s", iterable.Kind())
	}
	for _, item := range iterable.Array() {
		loopEnv := newEnv(env)
		loopEnv.Define(stmt.Iterator, item)
		val, returned, err := exec.evalStatements(stmt.Body, loopEnv)
		if err != nil {
			if errors.Is(err, errLoopBreak) {
				break
			}
			if errors.Is(err, errLoopNext) {
				continue
			}
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
	}
	return NewNil(), false, nil
}

func (exec *Execution) evalExpressionWithAuto(expr Expression, env *Env, auto bool) (Value, error) {
	val, err := exec.evalExpression(expr, env)
	if err != nil {
		return NewNil(), err
	}
	if auto {
		return exec.autoInvokeIfNeeded(expr, val, env)
	}
	return val, nil
}

// autoInvokeIfNeeded invokes zero-parameter functions and auto-invoke
// builtins when their bare reference is used as a value. The callable test
// (not the value kind) decides, so other expression forms share the same
// rule.
func (exec *Execution) autoInvokeIfNeeded(expr Expression, val Value, env *Env) (Value, error) {
	switch val.Kind() {
	case KindFunction:
		fn := val.Function()
		if fn != nil && len(fn.Params) == 0 && fn.RestName == "" {
			return exec.dispatchCall(val, nil, env, expr.Pos(), false)
		}
	case KindBuiltin:
		builtin := val.Builtin()
		if builtin != nil && builtin.AutoInvoke {
			return exec.dispatchCall(val, nil, env, expr.Pos(), false)
		}
	}
	return val, nil
}

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	if err := exec.step(); err != nil {
		return NewNil(), exec.wrapError(err, expr.Pos())
	}

	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NilLiteral:
		return NewNil(), nil
	case *ValueExpr:
		return e.Value, nil

	case *Identifier:
		if val, ok := env.Get(e.Name); ok {
			return val, nil
		}
		if val, ok := exec.engine.builtins[e.Name]; ok {
			return val, nil
		}
		return NewNil(), exec.errorAt(e.Pos(), "undefined name %s", e.Name)

	case *ArrayLiteral:
		elements := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			val, err := exec.evalExpressionWithAuto(el, env, true)
			if err != nil {
				return NewNil(), err
			}
			elements[i] = val
		}
		return NewArray(elements), nil

	case *HashLiteral:
		pairs := make(map[string]Value, len(e.Pairs))
		for _, pair := range e.Pairs {
			val, err := exec.evalExpressionWithAuto(pair.Value, env, true)
			if err != nil {
				return NewNil(), err
			}
			pairs[pair.Key] = val
		}
		return NewHash(pairs), nil

	case *MemberExpr:
		return exec.evalMemberExpr(e, env)

	case *IndexExpr:
		return exec.evalIndexExpr(e, env)

	case *UnaryExpr:
		return exec.evalUnaryExpr(e, env)

	case *BinaryExpr:
		return exec.evalBinaryExpr(e, env)

	case *PipeExpr:
		return exec.evalPipeExpr(e, env)

	case *CallExpr:
		return exec.evalCallExpr(e, env)

	case *BlockLiteral:
		return NewBlock(e.Params, e.Body, env), nil

	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported expression")
	}
}

func (exec *Execution) evalMemberExpr(e *MemberExpr, env *Env) (Value, error) {
	object, err := exec.evalExpression(e.Object, env)
	if err != nil {
		return NewNil(), err
	}
	switch object.Kind() {
	case KindHash:
		if val, ok := object.Hash()[e.Property]; ok {
			return val, nil
		}
		return NewNil(), nil
	case KindBuiltin:
		b := object.Builtin()
		if b.Fields != nil {
			if val, ok := b.Fields[e.Property]; ok {
				return val, nil
			}
		}
		return NewNil(), exec.errorAt(e.Pos(), "%s has no member %s", b.Name, e.Property)
	default:
		return NewNil(), exec.errorAt(e.Pos(), "%s has no members", object.Kind())
	}
}

func (exec *Execution) evalIndexExpr(e *IndexExpr, env *Env) (Value, error) {
	object, err := exec.evalExpressionWithAuto(e.Object, env, true)
	if err != nil {
		return NewNil(), err
	}
	index, err := exec.evalExpressionWithAuto(e.Index, env, true)
	if err != nil {
		return NewNil(), err
	}
	switch object.Kind() {
	case KindArray:
		arr := object.Array()
		i := index.Int()
		if index.Kind() != KindInt {
			return NewNil(), exec.errorAt(e.Index.Pos(), "array index must be int, got %s", index.Kind())
		}
		if i < 0 {
			i += int64(len(arr))
		}
		if i < 0 || i >= int64(len(arr)) {
			return NewNil(), nil
		}
		return arr[i], nil
	case KindHash:
		if index.Kind() != KindString {
			return NewNil(), exec.errorAt(e.Index.Pos(), "hash key must be string, got %s", index.Kind())
		}
		if val, ok := object.Hash()[index.String()]; ok {
			return val, nil
		}
		return NewNil(), nil
	default:
		return NewNil(), exec.errorAt(e.Pos(), "cannot index %s", object.Kind())
	}
}

// evalPipeExpr evaluates the left side, queues it as the pending piped value,
// and evaluates the call on the right, which consumes it. The stack is
// restored to its entry depth on every path so a failing pipe target cannot
// leak a pending value into an unrelated later call.
func (exec *Execution) evalPipeExpr(e *PipeExpr, env *Env) (Value, error) {
	left, err := exec.evalExpressionWithAuto(e.Left, env, true)
	if err != nil {
		return NewNil(), err
	}
	depth := len(exec.pipeStack)
	exec.pushPipeValue(left)
	defer func() {
		if len(exec.pipeStack) > depth {
			exec.pipeStack = exec.pipeStack[:depth]
		}
	}()
	return exec.evalCallExpr(e.Right, env)
}
