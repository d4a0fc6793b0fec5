package glint

import (
	"fmt"
	"strconv"
)

type parseError struct {
	pos Position
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors []error

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

// parse runs the full front end over source, collecting every error rather
// than stopping at the first.
func parse(source string) (*Program, []error) {
	return newParser(source).parseProgram()
}

func newParser(input string) *parser {
	l := newLexer(input)
	p := &parser{l: l}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNil, p.parseNilLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayLiteral)
	p.registerPrefix(tokenLBrace, p.parseHashLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)

	p.infixFns[tokenPlus] = p.parseInfixExpression
	p.infixFns[tokenMinus] = p.parseInfixExpression
	p.infixFns[tokenSlash] = p.parseInfixExpression
	p.infixFns[tokenAsterisk] = p.parseInfixExpression
	p.infixFns[tokenPercent] = p.parseInfixExpression
	p.infixFns[tokenEQ] = p.parseInfixExpression
	p.infixFns[tokenNotEQ] = p.parseInfixExpression
	p.infixFns[tokenLT] = p.parseInfixExpression
	p.infixFns[tokenLTE] = p.parseInfixExpression
	p.infixFns[tokenGT] = p.parseInfixExpression
	p.infixFns[tokenGTE] = p.parseInfixExpression
	p.infixFns[tokenAnd] = p.parseInfixExpression
	p.infixFns[tokenOr] = p.parseInfixExpression
	p.infixFns[tokenPipe] = p.parsePipeExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseMemberExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) parseProgram() (*Program, []error) {
	program := &Program{}

	for p.curToken.Type != tokenEOF {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program, p.errors
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenDef:
		return p.parseFunctionStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenBreak:
		return &BreakStmt{position: p.curToken.Pos}
	case tokenNext:
		return &NextStmt{position: p.curToken.Pos}
	case tokenIf:
		return p.parseIfStatement()
	case tokenFor:
		return p.parseForStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *parser) parseFunctionStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(tokenLParen) {
		return nil
	}

	params, restName, ok := p.parseFunctionParams()
	if !ok {
		return nil
	}

	body := []Statement{}
	p.nextToken()
	for p.curToken.Type != tokenEnd && p.curToken.Type != tokenEOF {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.nextToken()
	}

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "end")
	}

	return &FunctionStmt{Name: name, Params: params, RestName: restName, Body: body, position: pos}
}

// parseFunctionParams parses the declaration list between the parentheses of
// a def: plain names, `name: type` annotations, `name = expr` defaults, and a
// trailing `*rest` collector.
func (p *parser) parseFunctionParams() ([]Param, string, bool) {
	params := []Param{}
	restName := ""

	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params, restName, true
	}

	for {
		p.nextToken()

		if p.curToken.Type == tokenAsterisk {
			if !p.expectPeek(tokenIdent) {
				return nil, "", false
			}
			restName = p.curToken.Literal
			if p.peekToken.Type == tokenComma {
				p.errorAt(p.peekToken.Pos, "rest parameter must be last")
				return nil, "", false
			}
			break
		}

		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "parameter name")
			return nil, "", false
		}
		param := Param{Name: p.curToken.Literal}

		if p.peekToken.Type == tokenColon {
			p.nextToken()
			if !p.expectPeek(tokenIdent) {
				return nil, "", false
			}
			t, ok := paramTypeFromName(p.curToken.Literal)
			if !ok {
				p.errorAt(p.curToken.Pos, fmt.Sprintf("unknown parameter type %s", p.curToken.Literal))
				return nil, "", false
			}
			param.Type = t
		}

		if p.peekToken.Type == tokenAssign {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(lowestPrec)
		}

		params = append(params, param)

		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(tokenRParen) {
		return nil, "", false
	}
	return params, restName, true
}

func paramTypeFromName(name string) (ParamType, bool) {
	switch name {
	case "any":
		return TypeAny, true
	case "bool":
		return TypeBool, true
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "string":
		return TypeString, true
	case "array":
		return TypeArray, true
	}
	return TypeAny, false
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.curToken.Pos
	if p.peekToken.Type == tokenEnd || p.peekToken.Type == tokenEOF ||
		p.peekToken.Pos.Line != p.curToken.Pos.Line {
		return &ReturnStmt{position: pos}
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	return &ReturnStmt{Value: value, position: pos}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)

	p.nextToken()
	consequent := p.parseBlock(tokenEnd, tokenElse, tokenElsif)

	var elseifClauses []*IfStmt
	for p.curToken.Type == tokenElsif {
		p.nextToken()
		cond := p.parseExpression(lowestPrec)
		p.nextToken()
		body := p.parseBlock(tokenEnd, tokenElse, tokenElsif)
		clause := &IfStmt{Condition: cond, Consequent: body, position: cond.Pos()}
		elseifClauses = append(elseifClauses, clause)
	}

	var alternate []Statement
	if p.curToken.Type == tokenElse {
		p.nextToken()
		alternate = p.parseBlock(tokenEnd)
	}

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "end")
	}

	return &IfStmt{Condition: condition, Consequent: consequent, ElseIf: elseifClauses, Alternate: alternate, position: pos}
}

func (p *parser) parseForStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	iterator := p.curToken.Literal

	if !p.expectPeek(tokenIn) {
		return nil
	}

	p.nextToken()
	iterable := p.parseExpression(lowestPrec)

	p.nextToken()
	body := p.parseBlock(tokenEnd)

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "end")
	}

	return &ForStmt{Iterator: iterator, Iterable: iterable, Body: body, position: pos}
}

func (p *parser) parseBlock(stop ...TokenType) []Statement {
	stmts := []Statement{}
	stopSet := make(map[TokenType]struct{}, len(stop))
	for _, tt := range stop {
		stopSet[tt] = struct{}{}
	}

	for {
		if _, ok := stopSet[p.curToken.Type]; ok || p.curToken.Type == tokenEOF {
			return stmts
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
}

// parseExpressionOrAssignStatement handles the statement forms that start
// with an expression: assignment to a name, a paren-free call with its
// arguments laid out after the callee, an expression followed by a do-block,
// or a plain expression.
func (p *parser) parseExpressionOrAssignStatement() Statement {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}

	if ident, ok := expr.(*Identifier); ok && p.peekToken.Type == tokenAssign {
		pos := ident.Pos()
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value != nil && p.peekToken.Type == tokenDo {
			p.nextToken()
			value = attachBlock(value, p.parseBlockLiteral())
		}
		return &AssignStmt{Name: ident.Name, Value: value, position: pos}
	}

	expr = p.collectImplicitArgs(expr)

	// An implicit call stops collecting arguments at `|`, so pick the
	// pipeline back up here: `f x | g` reads as f(x) | g.
	for p.peekToken.Type == tokenPipe {
		p.nextToken()
		expr = p.parsePipeExpression(expr)
		if expr == nil {
			return nil
		}
	}

	if p.peekToken.Type == tokenDo {
		p.nextToken()
		block := p.parseBlockLiteral()
		expr = attachBlock(expr, block)
	}

	if expr == nil {
		return nil
	}
	return &ExprStmt{Expr: expr, position: expr.Pos()}
}

// attachBlock hangs a do-block on the nearest call site, wrapping non-call
// expressions in one. For a pipeline the block belongs to the final stage.
func attachBlock(expr Expression, block *BlockLiteral) Expression {
	switch e := expr.(type) {
	case *PipeExpr:
		e.Right.Block = block
		return e
	case *CallExpr:
		e.Block = block
		return e
	default:
		return &CallExpr{Target: expr, Block: block, position: expr.Pos()}
	}
}

// collectImplicitArgs extends a bare callee with the paren-free argument list
// that follows it on the same line: `sin x`, `f x, y`, `assert n > 0, "msg"`.
// Arguments parse above pipe precedence so a trailing `| g` stays a pipeline
// stage rather than being swallowed into the last argument.
func (p *parser) collectImplicitArgs(expr Expression) Expression {
	if !isImplicitCallTarget(expr) || !p.startsImplicitArgument() {
		return expr
	}

	call := &CallExpr{Target: expr, position: expr.Pos()}
	for {
		p.nextToken()

		name := ""
		if p.curToken.Type == tokenIdent && p.peekToken.Type == tokenColon {
			name = p.curToken.Literal
			p.nextToken()
			p.nextToken()
		}
		arg := p.parseExpression(precPipe)
		if arg == nil {
			return call
		}
		call.Args = append(call.Args, Argument{Name: name, Value: arg})

		if p.peekToken.Type == tokenComma {
			p.nextToken()
			continue
		}
		if !p.startsImplicitArgument() {
			return call
		}
	}
}

func isImplicitCallTarget(expr Expression) bool {
	switch expr.(type) {
	case *Identifier, *MemberExpr:
		return true
	default:
		return false
	}
}

// startsImplicitArgument reports whether the peek token opens another
// paren-free argument. Only tokens that cannot continue the expression just
// parsed qualify, and a line break always ends the list.
func (p *parser) startsImplicitArgument() bool {
	if p.peekToken.Pos.Line != p.curToken.Pos.Line {
		return false
	}
	switch p.peekToken.Type {
	case tokenIdent, tokenInt, tokenFloat, tokenString, tokenTrue, tokenFalse, tokenNil:
		return true
	default:
		return false
	}
}

const (
	lowestPrec = iota
	precPipe
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenPipe:     precPipe,
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquality,
	tokenNotEQ:    precEquality,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
	tokenPercent:  precProduct,
	tokenLParen:   precCall,
	tokenDot:      precCall,
	tokenLBracket: precCall,
}

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.curToken.Pos, "invalid integer literal")
		return nil
	}
	return &IntegerLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorAt(p.curToken.Pos, "invalid float literal")
		return nil
	}
	return &FloatLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseNilLiteral() Expression {
	return &NilLiteral{position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parseArrayLiteral() Expression {
	pos := p.curToken.Pos
	elements := []Expression{}

	if p.peekToken.Type == tokenRBracket {
		p.nextToken()
		return &ArrayLiteral{Elements: elements, position: pos}
	}

	p.nextToken()
	elements = append(elements, p.parseExpression(lowestPrec))

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		elements = append(elements, p.parseExpression(lowestPrec))
	}

	if !p.expectPeek(tokenRBracket) {
		return nil
	}

	return &ArrayLiteral{Elements: elements, position: pos}
}

func (p *parser) parseHashLiteral() Expression {
	pos := p.curToken.Pos
	pairs := []HashPair{}

	if p.peekToken.Type == tokenRBrace {
		p.nextToken()
		return &HashLiteral{Pairs: pairs, position: pos}
	}

	p.nextToken()
	if pair, ok := p.parseHashPair(); ok {
		pairs = append(pairs, pair)
	}

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		if pair, ok := p.parseHashPair(); ok {
			pairs = append(pairs, pair)
		}
	}

	if !p.expectPeek(tokenRBrace) {
		return nil
	}

	return &HashLiteral{Pairs: pairs, position: pos}
}

func (p *parser) parseHashPair() (HashPair, bool) {
	if (p.curToken.Type != tokenIdent && p.curToken.Type != tokenString) || p.peekToken.Type != tokenColon {
		p.errorAt(p.curToken.Pos, "hash entries must use key: value form")
		return HashPair{}, false
	}

	key := p.curToken.Literal
	p.nextToken()
	p.nextToken()

	value := p.parseExpression(lowestPrec)
	if value == nil {
		return HashPair{}, false
	}
	return HashPair{Key: key, Value: value}, true
}

func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	p.nextToken()
	right := p.parseExpression(precPrefix)
	return &UnaryExpr{Operator: operator, Right: right, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &BinaryExpr{Left: left, Operator: operator, Right: right, position: pos}
}

// parsePipeExpression parses one pipeline stage. The right side is always
// normalized to a call so the evaluator has a call site to inject the piped
// value into, and a bare callee may take paren-free arguments: `xs | join ","`.
func (p *parser) parsePipeExpression(left Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()

	target := p.parseExpression(precPipe)
	if target == nil {
		return nil
	}
	target = p.collectImplicitArgs(target)

	call, ok := target.(*CallExpr)
	if !ok {
		call = &CallExpr{Target: target, position: target.Pos()}
	}
	return &PipeExpr{Left: left, Right: call, position: pos}
}

// parseCallExpression parses an explicit, parenthesized call. Arguments may
// be positional, named (`name: expr`), or spreads (`*expr`), and the closing
// paren may be followed by a do-block.
func (p *parser) parseCallExpression(target Expression) Expression {
	expr := &CallExpr{Target: target, ExplicitCall: true, position: target.Pos()}

	if p.peekToken.Type == tokenRParen {
		p.nextToken()
	} else {
		p.nextToken()
		p.parseCallArgument(expr)

		for p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			p.parseCallArgument(expr)
		}

		if !p.expectPeek(tokenRParen) {
			return nil
		}
	}

	if p.peekToken.Type == tokenDo {
		p.nextToken()
		expr.Block = p.parseBlockLiteral()
	}
	return expr
}

func (p *parser) parseCallArgument(call *CallExpr) {
	if p.curToken.Type == tokenAsterisk {
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value != nil {
			call.Args = append(call.Args, Argument{Value: value, Expand: true})
		}
		return
	}

	if p.curToken.Type == tokenIdent && p.peekToken.Type == tokenColon {
		name := p.curToken.Literal
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(lowestPrec)
		if value != nil {
			call.Args = append(call.Args, Argument{Name: name, Value: value})
		}
		return
	}

	value := p.parseExpression(lowestPrec)
	if value != nil {
		call.Args = append(call.Args, Argument{Value: value})
	}
}

func (p *parser) parseBlockLiteral() *BlockLiteral {
	pos := p.curToken.Pos
	params := []string{}

	p.nextToken()
	if p.curToken.Type == tokenPipe {
		var ok bool
		params, ok = p.parseBlockParameters()
		if !ok {
			return nil
		}
		p.nextToken()
	}

	body := p.parseBlock(tokenEnd)
	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "end")
	}

	return &BlockLiteral{Params: params, Body: body, position: pos}
}

func (p *parser) parseBlockParameters() ([]string, bool) {
	params := []string{}
	p.nextToken()
	if p.curToken.Type == tokenPipe {
		return params, true
	}

	if p.curToken.Type != tokenIdent {
		p.errorExpected(p.curToken, "block parameter")
		return nil, false
	}
	params = append(params, p.curToken.Literal)

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "block parameter")
			return nil, false
		}
		params = append(params, p.curToken.Literal)
	}

	if !p.expectPeek(tokenPipe) {
		return nil, false
	}

	return params, true
}

func (p *parser) parseMemberExpression(object Expression) Expression {
	p.nextToken()
	if p.curToken.Type != tokenIdent {
		p.errorExpected(p.curToken, "identifier after .")
		return nil
	}
	return &MemberExpr{Object: object, Property: p.curToken.Literal, position: object.Pos()}
}

func (p *parser) parseIndexExpression(object Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()
	index := p.parseExpression(lowestPrec)
	if !p.expectPeek(tokenRBracket) {
		return nil
	}
	return &IndexExpr{Object: object, Index: index, position: pos}
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, string(tt))
	return false
}

func (p *parser) errorAt(pos Position, msg string) {
	p.errors = append(p.errors, &parseError{pos: pos, msg: msg})
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.errorAt(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tok.Type))
}

func (p *parser) errorUnexpected(tok Token) {
	p.errorAt(tok.Pos, fmt.Sprintf("unexpected token %s", tok.Type))
}
