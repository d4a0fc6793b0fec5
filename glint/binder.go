package glint

// bindArguments maps a call site's argument list onto the callable's
// parameter slots, filling buf in slot order and recording explicit or
// defaulted slots in its mask. Arguments are evaluated strictly left to
// right: evaluation order is observable because argument expressions may
// have side effects.
func (exec *Execution) bindArguments(info *callableInfo, args []Argument, env *Env, buf *boundArgs) error {
	seenNamed := false

	for _, arg := range args {
		var slot int
		if arg.Name != "" {
			seenNamed = true
			slot = info.paramIndex(arg.Name)
			if slot < 0 {
				if info.variadic && info.settable != nil {
					val, err := exec.evalExpressionWithAuto(arg.Value, env, true)
					if err != nil {
						return err
					}
					info.settable[arg.Name] = val
					continue
				}
				return exec.kindErrorAt(ErrUnknownNamedArgument, arg.Pos(),
					"unknown named argument %s for %s", arg.Name, info.name)
			}
		} else {
			if seenNamed {
				return exec.kindErrorAt(ErrPositionalAfterNamed, arg.Pos(),
					"positional argument cannot follow a named argument")
			}
			slot = len(buf.vals)
		}

		var val Value
		if info.isLazy(slot) {
			val = NewExpr(arg.Value, env)
		} else {
			evaluated, err := exec.evalExpressionWithAuto(arg.Value, env, true)
			if err != nil {
				return err
			}
			val = evaluated
		}

		if arg.Expand && val.Kind() == KindArray {
			// Spread: each element lands in the next sequential slot. Elements
			// beyond the declared arity are collected for variadic callables
			// but never set mask bits past it.
			for _, el := range val.Array() {
				at := len(buf.vals)
				buf.vals = append(buf.vals, el)
				if at < len(info.params) {
					buf.markBound(at)
				}
			}
			continue
		}

		if slot < len(info.params) && !info.isLazy(slot) {
			converted, err := exec.convertToParamType(arg.Pos(), val, info.params[slot].Type)
			if err != nil {
				return err
			}
			val = converted
		}

		if err := exec.writeSlot(info, env, buf, slot, val); err != nil {
			return err
		}
	}

	// Default-fill the remaining declared slots.
	for len(buf.vals) < len(info.params) {
		if err := exec.fillSlotDefault(info, env, buf, len(buf.vals)); err != nil {
			return err
		}
	}

	return nil
}

// writeSlot places val into its target slot. A slot that was already written
// is overwritten silently (last write wins), and a named argument pointing
// past the current vector length back-fills the gap with each skipped slot's
// default or a nil sentinel.
func (exec *Execution) writeSlot(info *callableInfo, env *Env, buf *boundArgs, slot int, val Value) error {
	switch {
	case slot < len(buf.vals):
		buf.vals[slot] = val
		if slot < len(info.params) {
			buf.markBound(slot)
		}
	case slot == len(buf.vals):
		buf.vals = append(buf.vals, val)
		if slot < len(info.params) {
			buf.markBound(slot)
		}
	default:
		for len(buf.vals) < slot {
			if err := exec.fillSlotDefault(info, env, buf, len(buf.vals)); err != nil {
				return err
			}
		}
		buf.vals = append(buf.vals, val)
		buf.markBound(slot)
	}
	return nil
}

// fillSlotDefault appends slot's declared default (marking it bound) or a nil
// sentinel (leaving its bit clear).
func (exec *Execution) fillSlotDefault(info *callableInfo, env *Env, buf *boundArgs, slot int) error {
	if slot < len(info.params) && info.params[slot].Default != nil {
		defEnv := info.defaultsEnv
		if defEnv == nil {
			defEnv = env
		}
		val, err := exec.evalExpressionWithAuto(info.params[slot].Default, defEnv, true)
		if err != nil {
			return err
		}
		buf.vals = append(buf.vals, val)
		buf.markBound(slot)
		return nil
	}
	buf.vals = append(buf.vals, NewNil())
	return nil
}
