package glint

import (
	"context"
	"strings"
	"testing"
)

func TestCompileAndCallAdd(t *testing.T) {
	engine := NewEngine(Config{})
	script, err := engine.Compile(`
def add(a: int, b: int)
  return a + b
end
`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	result, err := script.Call(context.Background(), "add", []Value{NewInt(2), NewInt(3)}, RunOptions{})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Kind() != KindInt || result.Int() != 5 {
		t.Fatalf("expected 5, got %s", result.Inspect())
	}
}

func TestCallAppliesDefaultsAndConversion(t *testing.T) {
	script := compileScriptDefault(t, `
def scale(value: float, factor = 2.0)
  return value * factor
end
`)
	result, err := script.Call(context.Background(), "scale", []Value{NewInt(3)}, RunOptions{})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Float() != 6.0 {
		t.Fatalf("expected 6.0, got %s", result.Inspect())
	}
}

func TestCallUndefinedFunction(t *testing.T) {
	script := compileScriptDefault(t, `x = 1`)
	_, err := script.Call(context.Background(), "missing", nil, RunOptions{})
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	if !strings.Contains(err.Error(), "function missing is not defined") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReturnsLastStatementValue(t *testing.T) {
	result := runScript(t, `
x = 10
y = 4
x - y
`)
	if result.Kind() != KindInt || result.Int() != 6 {
		t.Fatalf("expected 6, got %s", result.Inspect())
	}
}

func TestRunGlobals(t *testing.T) {
	script := compileScriptDefault(t, `base * 3`)
	result, err := script.Run(context.Background(), RunOptions{
		Globals: map[string]Value{"base": NewInt(7)},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Int() != 21 {
		t.Fatalf("expected 21, got %s", result.Inspect())
	}
}

func TestCompileCollectsParseErrors(t *testing.T) {
	_, err := NewEngine(Config{}).Compile(`
def f(a,)
end
x = = 2
`)
	if err == nil {
		t.Fatalf("expected parse errors, got none")
	}
	if !strings.Contains(err.Error(), "parse error at") {
		t.Fatalf("expected positioned parse errors, got: %v", err)
	}
}

func TestUndefinedNameError(t *testing.T) {
	err := runScriptErr(t, `nope + 1`)
	if !strings.Contains(err.Error(), "undefined name nope") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRegisteredBuiltinOverridesNothing(t *testing.T) {
	engine := NewEngine(Config{})
	engine.RegisterBuiltin(&Builtin{
		Name:   "double",
		Params: []Param{{Name: "value", Type: TypeInt}},
		Fn: func(exec *Execution, args []Value, block Value) (Value, error) {
			return NewInt(args[0].Int() * 2), nil
		},
	})
	script, err := engine.Compile(`double 21`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	result, err := script.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Int() != 42 {
		t.Fatalf("expected 42, got %s", result.Inspect())
	}
}

func TestBuiltinsCopyIsDetached(t *testing.T) {
	engine := NewEngine(Config{})
	snapshot := engine.Builtins()
	if _, ok := snapshot["len"]; !ok {
		t.Fatalf("expected len in builtin snapshot")
	}
	delete(snapshot, "len")
	if _, ok := engine.Builtins()["len"]; !ok {
		t.Fatalf("mutating the snapshot must not touch the engine")
	}
}

func TestCoreBuiltins(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`abs(-4.5)`, "4.5"},
		{`len("hello")`, "5"},
		{`len([1, 2, 3])`, "3"},
		{`min(3, 1, 2)`, "1"},
		{`max(3, 1, 2)`, "3"},
		{`clamp(1.5)`, "1"},
		{`clamp(-2, low: -1)`, "-1"},
		{`clamp(5, 0, 10)`, "5"},
		{`join(", ", 1, 2, 3)`, `"1, 2, 3"`},
		{`format("{} and {}", 1, "two")`, `"1 and two"`},
	}
	for _, tt := range tests {
		result := runScript(t, tt.source)
		if result.Inspect() != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.source, tt.want, result.Inspect())
		}
	}
}

func TestRangeBuiltin(t *testing.T) {
	expectInts(t, runScript(t, `range(4)`), 0, 1, 2, 3)
	expectInts(t, runScript(t, `range(0)`))
}

func TestAssertBuiltin(t *testing.T) {
	if result := runScript(t, `assert 1 < 2`); result.Kind() != KindBool || !result.Bool() {
		t.Fatalf("passing assert should return true, got %s", result.Inspect())
	}
	err := runScriptErr(t, `assert 1 > 2, "one is small"`)
	if !strings.Contains(err.Error(), "one is small") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestControlFlowLoop(t *testing.T) {
	result := runScript(t, `
total = 0
for n in range(10)
  if n == 7
    break
  end
  if n % 2 == 1
    next
  end
  total = total + n
end
total
`)
	if result.Int() != 12 {
		t.Fatalf("expected 12, got %s", result.Inspect())
	}
}

func TestRecursionAcrossCalls(t *testing.T) {
	script := compileScript(t, Config{RecursionLimit: 128}, `
def fib(n: int)
  if n < 2
    return n
  end
  return fib(n - 1) + fib(n - 2)
end
`)
	result, err := script.Call(context.Background(), "fib", []Value{NewInt(10)}, RunOptions{})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Int() != 55 {
		t.Fatalf("expected 55, got %s", result.Inspect())
	}
}

func TestScientificModeEngine(t *testing.T) {
	script := compileScript(t, Config{ScientificMode: true}, `
a = 6
b = 7
a b
`)
	result, err := script.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Int() != 42 {
		t.Fatalf("expected 42, got %s", result.Inspect())
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	result := runScript(t, `
def keep_even(items: array)
  return map(items) do |n|
    n * 10
  end
end
[1, 2, 3] | keep_even | len
`)
	if result.Int() != 3 {
		t.Fatalf("expected 3, got %s", result.Inspect())
	}
}
