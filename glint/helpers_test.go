package glint

import (
	"context"
	"errors"
	"testing"
)

func compileScriptDefault(t testing.TB, source string) *Script {
	t.Helper()
	engine := NewEngine(Config{})
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return script
}

func compileScript(t testing.TB, cfg Config, source string) *Script {
	t.Helper()
	script, err := NewEngine(cfg).Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return script
}

func runScript(t testing.TB, source string) Value {
	t.Helper()
	result, err := compileScriptDefault(t, source).Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return result
}

func runScriptErr(t testing.TB, source string) error {
	t.Helper()
	_, err := compileScriptDefault(t, source).Run(context.Background(), RunOptions{})
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	return err
}

func runtimeKind(t testing.TB, err error) ErrorKind {
	t.Helper()
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected a RuntimeError, got %T: %v", err, err)
	}
	return re.Kind
}

func expectInts(t testing.TB, v Value, want ...int64) {
	t.Helper()
	if v.Kind() != KindArray {
		t.Fatalf("expected array, got %s (%s)", v.Kind(), v.Inspect())
	}
	arr := v.Array()
	if len(arr) != len(want) {
		t.Fatalf("expected %d elements, got %s", len(want), v.Inspect())
	}
	for i, w := range want {
		if arr[i].Kind() != KindInt || arr[i].Int() != w {
			t.Fatalf("element %d: expected %d, got %s", i, w, arr[i].Inspect())
		}
	}
}
