package glint

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

// Param describes one declared parameter slot of a callable. A nil Default
// marks the parameter as required; Lazy slots receive the unevaluated
// argument expression instead of its value.
type Param struct {
	Name    string
	Type    ParamType
	Default Expression
	Lazy    bool
}

// ParamType is the declared dynamic type of a parameter slot. Arguments are
// converted to it at bind time.
type ParamType int

const (
	TypeAny ParamType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeArray
)

type FunctionStmt struct {
	Name     string
	Params   []Param
	RestName string
	Body     []Statement
	position Position
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.position }

type ReturnStmt struct {
	Value    Expression
	position Position
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.position }

type BreakStmt struct {
	position Position
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.position }

type NextStmt struct {
	position Position
}

func (s *NextStmt) stmtNode()     {}
func (s *NextStmt) Pos() Position { return s.position }

type AssignStmt struct {
	Name     string
	Value    Expression
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition  Expression
	Consequent []Statement
	ElseIf     []*IfStmt
	Alternate  []Statement
	position   Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type ForStmt struct {
	Iterator string
	Iterable Expression
	Body     []Statement
	position Position
}

func (s *ForStmt) stmtNode()     {}
func (s *ForStmt) Pos() Position { return s.position }

type Identifier struct {
	Name     string
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Value    float64
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type NilLiteral struct {
	position Position
}

func (e *NilLiteral) exprNode()     {}
func (e *NilLiteral) Pos() Position { return e.position }

type ArrayLiteral struct {
	Elements []Expression
	position Position
}

func (e *ArrayLiteral) exprNode()     {}
func (e *ArrayLiteral) Pos() Position { return e.position }

type HashPair struct {
	Key   string
	Value Expression
}

type HashLiteral struct {
	Pairs    []HashPair
	position Position
}

func (e *HashLiteral) exprNode()     {}
func (e *HashLiteral) Pos() Position { return e.position }

// ValueExpr wraps an already-computed value so it can stand where the grammar
// expects an expression: piped values injected into argument lists and
// parameter defaults for builtins registered from Go.
type ValueExpr struct {
	Value    Value
	position Position
}

func (e *ValueExpr) exprNode()     {}
func (e *ValueExpr) Pos() Position { return e.position }

// NewValueExpr builds a ValueExpr anchored at pos.
func NewValueExpr(v Value, pos Position) *ValueExpr {
	return &ValueExpr{Value: v, position: pos}
}

// Argument is one call-site argument: positional when Name is empty, named
// otherwise. Expand marks a `*expr` spread of an iterable value across
// consecutive slots.
type Argument struct {
	Name   string
	Value  Expression
	Expand bool
}

func (a Argument) Pos() Position {
	if a.Value == nil {
		return Position{}
	}
	return a.Value.Pos()
}

// CallExpr is a call site. ExplicitCall distinguishes `f(x)` from the
// juxtaposition form `f x`; only the latter is subject to the scientific-mode
// rewrite.
type CallExpr struct {
	Target       Expression
	Args         []Argument
	Block        *BlockLiteral
	ExplicitCall bool
	position     Position
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.position }

type MemberExpr struct {
	Object   Expression
	Property string
	position Position
}

func (e *MemberExpr) exprNode()     {}
func (e *MemberExpr) Pos() Position { return e.position }

type IndexExpr struct {
	Object   Expression
	Index    Expression
	position Position
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

// tokenApply is the operator of the juxtaposition chain produced by the
// scientific-mode rewrite. It has no lexical form, which is what makes the
// rewrite idempotent: a BinaryExpr never re-enters the rewriter.
const tokenApply TokenType = "APPLY"

// PipeExpr forwards the value of Left as the leading argument of the call on
// its right. The parser guarantees Right is always a *CallExpr.
type PipeExpr struct {
	Left     Expression
	Right    *CallExpr
	position Position
}

func (e *PipeExpr) exprNode()     {}
func (e *PipeExpr) Pos() Position { return e.position }

type BlockLiteral struct {
	Params   []string
	Body     []Statement
	position Position
}

func (b *BlockLiteral) exprNode()     {}
func (b *BlockLiteral) Pos() Position { return b.position }
