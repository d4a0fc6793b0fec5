package glint

import (
	"errors"
	"math"
	"strings"
)

func constDefault(v Value) Expression {
	return NewValueExpr(v, Position{})
}

func (e *Engine) registerCoreBuiltins() {
	e.RegisterBuiltin(mathBuiltin("sin", math.Sin))
	e.RegisterBuiltin(mathBuiltin("cos", math.Cos))
	e.RegisterBuiltin(mathBuiltin("sqrt", math.Sqrt))
	e.RegisterBuiltin(&Builtin{
		Name:   "abs",
		Params: []Param{{Name: "value", Type: TypeFloat}},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			return NewFloat(math.Abs(args[0].Float())), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name:   "len",
		Params: []Param{{Name: "value"}},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			switch args[0].Kind() {
			case KindString:
				return NewInt(int64(len([]rune(args[0].String())))), nil
			case KindArray:
				return NewInt(int64(len(args[0].Array()))), nil
			case KindHash:
				return NewInt(int64(len(args[0].Hash()))), nil
			default:
				return NewNil(), ArgumentErrorf("value", "%s has no length", args[0].Kind())
			}
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name:   "range",
		Params: []Param{{Name: "count", Type: TypeInt}},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			n := args[0].Int()
			if n < 0 {
				return NewNil(), ArgumentErrorf("count", "must not be negative")
			}
			out := make([]Value, n)
			for i := int64(0); i < n; i++ {
				out[i] = NewInt(i)
			}
			return NewArray(out), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "min",
		Params: []Param{
			{Name: "first", Type: TypeFloat},
		},
		Variadic: true,
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			return foldNumeric(args, func(best, next float64) bool { return next < best })
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "max",
		Params: []Param{
			{Name: "first", Type: TypeFloat},
		},
		Variadic: true,
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			return foldNumeric(args, func(best, next float64) bool { return next > best })
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "clamp",
		Params: []Param{
			{Name: "value", Type: TypeFloat},
			{Name: "low", Type: TypeFloat, Default: constDefault(NewFloat(0))},
			{Name: "high", Type: TypeFloat, Default: constDefault(NewFloat(1))},
		},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			v, lo, hi := args[0].Float(), args[1].Float(), args[2].Float()
			if lo > hi {
				return NewNil(), ArgumentErrorf("low", "must not exceed high")
			}
			return NewFloat(math.Min(math.Max(v, lo), hi)), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "join",
		Params: []Param{
			{Name: "separator", Type: TypeString},
		},
		Variadic: true,
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			parts := make([]string, 0, len(args)-1)
			for _, v := range args[1:] {
				parts = append(parts, v.String())
			}
			return NewString(strings.Join(parts, args[0].String())), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "format",
		Params: []Param{
			{Name: "template", Type: TypeString},
		},
		Variadic: true,
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			out := args[0].String()
			for _, v := range args[1:] {
				idx := strings.Index(out, "{}")
				if idx < 0 {
					break
				}
				out = out[:idx] + v.String() + out[idx+2:]
			}
			return NewString(out), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "assert",
		Params: []Param{
			{Name: "condition"},
			{Name: "message", Lazy: true, Default: constDefault(NewNil())},
		},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			if args[0].truthy() {
				return NewBool(true), nil
			}
			// The message is lazy: it only evaluates when the assertion fails.
			msg, err := exec.EvalLazy(args[1])
			if err != nil {
				return NewNil(), err
			}
			if msg.IsNil() {
				return NewNil(), errors.New("assertion failed")
			}
			return NewNil(), errors.New("assertion failed: " + msg.String())
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "each",
		Params: []Param{
			{Name: "items", Type: TypeArray},
		},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			if block.IsNil() {
				return NewNil(), ArgumentErrorf("items", "each requires a block")
			}
			for _, item := range args[0].Array() {
				if _, err := exec.CallBlock(block, []Value{item}); err != nil {
					if errors.Is(err, errLoopBreak) {
						break
					}
					if errors.Is(err, errLoopNext) {
						continue
					}
					return NewNil(), err
				}
			}
			return args[0], nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name: "map",
		Params: []Param{
			{Name: "items", Type: TypeArray},
		},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			if block.IsNil() {
				return NewNil(), ArgumentErrorf("items", "map requires a block")
			}
			items := args[0].Array()
			out := make([]Value, 0, len(items))
			for _, item := range items {
				mapped, err := exec.CallBlock(block, []Value{item})
				if err != nil {
					if errors.Is(err, errLoopBreak) {
						break
					}
					if errors.Is(err, errLoopNext) {
						continue
					}
					return NewNil(), err
				}
				out = append(out, mapped)
			}
			return NewArray(out), nil
		},
	})
	e.RegisterBuiltin(&Builtin{
		Name:     "tag",
		Variadic: true,
		Fields: map[string]Value{
			"name":   NewString(""),
			"weight": NewInt(1),
		},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			items := make([]Value, len(args))
			copy(items, args)
			return NewHash(map[string]Value{
				"name":   exec.Field("name"),
				"weight": exec.Field("weight"),
				"items":  NewArray(items),
			}), nil
		},
	})
}

func mathBuiltin(name string, fn func(float64) float64) *Builtin {
	return &Builtin{
		Name:   name,
		Params: []Param{{Name: "value", Type: TypeFloat}},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			return NewFloat(fn(args[0].Float())), nil
		},
	}
}

func foldNumeric(args []Value, better func(best, next float64) bool) (Value, error) {
	best := args[0]
	for i, v := range args[1:] {
		if !isNumeric(v) {
			return NewNil(), ArgumentIndexErrorf(i+1, "all values must be numeric, got %s", v.Kind())
		}
		if better(best.Float(), v.Float()) {
			best = v
		}
	}
	return best, nil
}
