package glint

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// Config controls evaluation bounds and grammar mode.
type Config struct {
	// ScientificMode reinterprets implicit calls with arguments as
	// juxtaposition chains, so `a x` multiplies when `a` holds a number
	// while `sin x` still applies.
	ScientificMode bool
	StepQuota      int
	RecursionLimit int
}

// Engine compiles and runs glint scripts with deterministic limits.
type Engine struct {
	config   Config
	builtins map[string]Value
}

// NewEngine constructs an Engine with sane defaults and registers built-ins.
func NewEngine(cfg Config) *Engine {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 100000
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 64
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]Value),
	}
	engine.registerCoreBuiltins()
	return engine
}

// RegisterBuiltin makes a host callable available to scripts under its name.
func (e *Engine) RegisterBuiltin(b *Builtin) {
	e.builtins[b.Name] = NewBuiltin(b)
}

// Builtins returns a copy of the registered builtin map.
func (e *Engine) Builtins() map[string]Value {
	out := make(map[string]Value, len(e.builtins))
	maps.Copy(out, e.builtins)
	return out
}

// Script is a compiled program bound to the engine that produced it.
type Script struct {
	engine  *Engine
	program *Program
	source  string
}

// RunOptions configures one evaluation of a script.
type RunOptions struct {
	Globals map[string]Value
}

// Compile parses source into a Script, reporting every parse error found.
func (e *Engine) Compile(source string) (*Script, error) {
	program, errs := parse(source)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Script{engine: e, program: program, source: source}, nil
}

// Run evaluates the script top to bottom and returns the value of its last
// statement.
func (s *Script) Run(ctx context.Context, opts RunOptions) (Value, error) {
	exec, root := s.newRun(ctx, opts)
	result, _, err := exec.evalStatements(s.program.Statements, root)
	if err != nil {
		return NewNil(), err
	}
	return result, nil
}

// Call runs the script's top level (so its definitions exist) and then
// invokes the named function with the given argument values.
func (s *Script) Call(ctx context.Context, name string, args []Value, opts RunOptions) (Value, error) {
	exec, root := s.newRun(ctx, opts)
	if _, _, err := exec.evalStatements(s.program.Statements, root); err != nil {
		return NewNil(), err
	}
	target, ok := root.Get(name)
	if !ok {
		return NewNil(), fmt.Errorf("function %s is not defined", name)
	}
	callArgs := make([]Argument, len(args))
	for i, arg := range args {
		callArgs[i] = Argument{Value: NewValueExpr(arg, Position{})}
	}
	return exec.dispatchCall(target, callArgs, root, Position{}, false)
}

func (s *Script) newRun(ctx context.Context, opts RunOptions) (*Execution, *Env) {
	root := newEnv(nil)
	for name, val := range opts.Globals {
		root.Define(name, val)
	}
	exec := newExecution(s, ctx, root)
	return exec, root
}

// EvalLazy forces a lazy argument: an expression value evaluates in its
// captured environment, anything else passes through unchanged.
func (exec *Execution) EvalLazy(v Value) (Value, error) {
	if v.Kind() != KindExpr {
		return v, nil
	}
	bound := v.Expr()
	env := bound.Env
	if env == nil {
		env = exec.root
	}
	return exec.evalExpressionWithAuto(bound.Expr, env, true)
}
