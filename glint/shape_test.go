package glint

import "testing"

func TestTryExtractDeclarationShape(t *testing.T) {
	expr := firstExpr(t, "f(a, b)")
	shape, ok := TryExtractDeclarationShape(expr.(*CallExpr))
	if !ok {
		t.Fatalf("expected a declaration shape")
	}
	if shape.Name != "f" {
		t.Fatalf("expected name f, got %s", shape.Name)
	}
	if len(shape.Params) != 2 || shape.Params[0] != "a" || shape.Params[1] != "b" {
		t.Fatalf("unexpected params: %v", shape.Params)
	}
}

func TestTryExtractDeclarationShapeZeroParams(t *testing.T) {
	expr := firstExpr(t, "f()")
	shape, ok := TryExtractDeclarationShape(expr.(*CallExpr))
	if !ok || len(shape.Params) != 0 {
		t.Fatalf("expected empty declaration shape, got %v %v", shape, ok)
	}
}

func TestTryExtractDeclarationShapeRejectsNonIdentifiers(t *testing.T) {
	if _, ok := TryExtractDeclarationShape(firstExpr(t, "f(1, b)").(*CallExpr)); ok {
		t.Fatalf("literal arguments are not parameter names")
	}
	if _, ok := TryExtractDeclarationShape(firstExpr(t, "f(a, low: b)").(*CallExpr)); ok {
		t.Fatalf("named arguments are not parameter names")
	}
	if _, ok := TryExtractDeclarationShape(firstExpr(t, "f(*a)").(*CallExpr)); ok {
		t.Fatalf("spread arguments are not parameter names")
	}
	if _, ok := TryExtractDeclarationShape(firstExpr(t, "f a").(*CallExpr)); ok {
		t.Fatalf("implicit calls have no declaration reading")
	}
	if _, ok := TryExtractDeclarationShape(nil); ok {
		t.Fatalf("nil call has no shape")
	}
}
