package glint

import "math"

func (exec *Execution) evalUnaryExpr(e *UnaryExpr, env *Env) (Value, error) {
	val, err := exec.evalExpressionWithAuto(e.Right, env, true)
	if err != nil {
		return NewNil(), err
	}
	switch e.Operator {
	case tokenMinus:
		switch val.Kind() {
		case KindInt:
			return NewInt(-val.Int()), nil
		case KindFloat:
			return NewFloat(-val.Float()), nil
		}
		return NewNil(), exec.errorAt(e.Pos(), "cannot negate %s", val.Kind())
	case tokenBang:
		return NewBool(!val.truthy()), nil
	default:
		return NewNil(), exec.errorAt(e.Pos(), "unsupported unary operator %s", e.Operator)
	}
}

func (exec *Execution) evalBinaryExpr(e *BinaryExpr, env *Env) (Value, error) {
	switch e.Operator {
	case tokenAnd:
		left, err := exec.evalExpressionWithAuto(e.Left, env, true)
		if err != nil {
			return NewNil(), err
		}
		if !left.truthy() {
			return left, nil
		}
		return exec.evalExpressionWithAuto(e.Right, env, true)
	case tokenOr:
		left, err := exec.evalExpressionWithAuto(e.Left, env, true)
		if err != nil {
			return NewNil(), err
		}
		if left.truthy() {
			return left, nil
		}
		return exec.evalExpressionWithAuto(e.Right, env, true)
	case tokenApply:
		return exec.evalApplyExpr(e, env)
	}

	left, err := exec.evalExpressionWithAuto(e.Left, env, true)
	if err != nil {
		return NewNil(), err
	}
	right, err := exec.evalExpressionWithAuto(e.Right, env, true)
	if err != nil {
		return NewNil(), err
	}
	return exec.applyBinaryOperator(e.Operator, left, right, e.Pos())
}

// evalApplyExpr evaluates one link of a juxtaposition chain produced by the
// scientific-mode rewrite: application when the left operand is callable,
// multiplication otherwise. The left side is evaluated without
// auto-invocation so the callable itself reaches the apply.
func (exec *Execution) evalApplyExpr(e *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(e.Left, env)
	if err != nil {
		return NewNil(), err
	}
	if IsCallable(left) {
		args := []Argument{{Value: e.Right}}
		return exec.dispatchCall(left, args, env, e.Right.Pos(), false)
	}
	right, err := exec.evalExpressionWithAuto(e.Right, env, true)
	if err != nil {
		return NewNil(), err
	}
	return exec.applyBinaryOperator(tokenAsterisk, left, right, e.Pos())
}

func (exec *Execution) applyBinaryOperator(op TokenType, left, right Value, pos Position) (Value, error) {
	switch op {
	case tokenPlus:
		if left.Kind() == KindString && right.Kind() == KindString {
			return NewString(left.String() + right.String()), nil
		}
		if left.Kind() == KindArray && right.Kind() == KindArray {
			merged := make([]Value, 0, len(left.Array())+len(right.Array()))
			merged = append(merged, left.Array()...)
			merged = append(merged, right.Array()...)
			return NewArray(merged), nil
		}
		return exec.applyArithmetic(op, left, right, pos)
	case tokenMinus, tokenAsterisk, tokenSlash, tokenPercent:
		return exec.applyArithmetic(op, left, right, pos)
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenLT, tokenLTE, tokenGT, tokenGTE:
		return exec.applyComparison(op, left, right, pos)
	default:
		return NewNil(), exec.errorAt(pos, "unsupported operator %s", op)
	}
}

func (exec *Execution) applyArithmetic(op TokenType, left, right Value, pos Position) (Value, error) {
	if !isNumeric(left) || !isNumeric(right) {
		return NewNil(), exec.errorAt(pos, "cannot apply %s to %s and %s", op, left.Kind(), right.Kind())
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		l, r := left.Int(), right.Int()
		switch op {
		case tokenPlus:
			return NewInt(l + r), nil
		case tokenMinus:
			return NewInt(l - r), nil
		case tokenAsterisk:
			return NewInt(l * r), nil
		case tokenSlash:
			if r == 0 {
				return NewNil(), exec.errorAt(pos, "division by zero")
			}
			return NewInt(l / r), nil
		case tokenPercent:
			if r == 0 {
				return NewNil(), exec.errorAt(pos, "division by zero")
			}
			return NewInt(l % r), nil
		}
	}

	l, r := left.Float(), right.Float()
	switch op {
	case tokenPlus:
		return NewFloat(l + r), nil
	case tokenMinus:
		return NewFloat(l - r), nil
	case tokenAsterisk:
		return NewFloat(l * r), nil
	case tokenSlash:
		if r == 0 {
			return NewNil(), exec.errorAt(pos, "division by zero")
		}
		return NewFloat(l / r), nil
	case tokenPercent:
		return NewFloat(math.Mod(l, r)), nil
	}
	return NewNil(), exec.errorAt(pos, "unsupported operator %s", op)
}

func (exec *Execution) applyComparison(op TokenType, left, right Value, pos Position) (Value, error) {
	if left.Kind() == KindString && right.Kind() == KindString {
		l, r := left.String(), right.String()
		switch op {
		case tokenLT:
			return NewBool(l < r), nil
		case tokenLTE:
			return NewBool(l <= r), nil
		case tokenGT:
			return NewBool(l > r), nil
		case tokenGTE:
			return NewBool(l >= r), nil
		}
	}
	if !isNumeric(left) || !isNumeric(right) {
		return NewNil(), exec.errorAt(pos, "cannot compare %s and %s", left.Kind(), right.Kind())
	}
	l, r := left.Float(), right.Float()
	switch op {
	case tokenLT:
		return NewBool(l < r), nil
	case tokenLTE:
		return NewBool(l <= r), nil
	case tokenGT:
		return NewBool(l > r), nil
	case tokenGTE:
		return NewBool(l >= r), nil
	}
	return NewNil(), exec.errorAt(pos, "unsupported comparison %s", op)
}

func isNumeric(v Value) bool {
	return v.Kind() == KindInt || v.Kind() == KindFloat
}
