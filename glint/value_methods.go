package glint

import (
	"fmt"
	"sort"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindHash:
		return "hash"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindBlock:
		return "block"
	case KindExpr:
		return "expression"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNil:
		return ""
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.data.(int64))
	case KindFloat:
		return fmt.Sprintf("%g", v.data.(float64))
	case KindArray:
		parts := make([]string, len(v.Array()))
		for i, el := range v.Array() {
			parts[i] = el.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindHash:
		pairs := v.Hash()
		keys := make([]string, 0, len(pairs))
		for k := range pairs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, pairs[k].Inspect())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		fn := v.Function()
		if fn != nil && fn.Name != "" {
			return fmt.Sprintf("<function %s>", fn.Name)
		}
		return "<function>"
	case KindBuiltin:
		b := v.Builtin()
		if b != nil {
			return fmt.Sprintf("<builtin %s>", b.Name)
		}
		return "<builtin>"
	case KindBlock:
		return "<block>"
	case KindExpr:
		return "<expression>"
	default:
		return ""
	}
}

// Inspect renders the value for diagnostics, quoting strings so arrays and
// hashes read unambiguously.
func (v Value) Inspect() string {
	if v.kind == KindString {
		return fmt.Sprintf("%q", v.data.(string))
	}
	if v.kind == KindNil {
		return "nil"
	}
	return v.String()
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		if (v.kind == KindInt || v.kind == KindFloat) && (other.kind == KindInt || other.kind == KindFloat) {
			return v.Float() == other.Float()
		}
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.Int() == other.Int()
	case KindFloat:
		return v.Float() == other.Float()
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		a, b := v.Array(), other.Array()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	default:
		return v.data == other.data
	}
}
