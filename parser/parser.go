package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/formjs/ast"
	"github.com/example/formjs/lexer"
	"github.com/example/formjs/token"
)

// Error is a syntax error pointing at the offending token.
type Error struct {
	TokenIndex int
	Start      int
	End        int
	Msg        string
	Snippet    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at token %d (offset %d): %s\n%s", e.TokenIndex, e.Start, e.Msg, e.Snippet)
}

// snippet renders the source line containing offset with a caret marker.
func snippet(source string, offset int) string {
	if offset > len(source) {
		offset = len(source)
	}
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	lineEnd := strings.IndexByte(source[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += offset
	}
	line := source[lineStart:lineEnd]
	caret := strings.Repeat(" ", offset-lineStart) + "^"
	return line + "\n" + caret
}

type Parser struct {
	source string
	tokens []token.Token
	pos    int
	noIn   bool // suppress 'in' as a binary operator (for-in disambiguation)
}

// Parse tokenizes and parses source into a Program. It is a pure function:
// no side effects, and every failure is reported as a *lexer.Error or *Error.
func Parse(source string) (prog *ast.Program, err error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &Parser{source: source, tokens: tokens}

	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			prog, err = nil, pe
		}
	}()

	prog = &ast.Program{}
	for !p.curIs(token.EOF) {
		prog.Statements = append(prog.Statements, p.parseStatement())
	}
	return prog, nil
}

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur().Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) next() { p.pos++ }

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.curIs(k) {
		p.fail("expected %s, got %s (%q)", k, p.cur().Kind, p.cur().Literal)
	}
	tok := p.cur()
	p.next()
	return tok
}

func (p *Parser) fail(format string, args ...interface{}) {
	tok := p.cur()
	panic(&Error{
		TokenIndex: p.pos,
		Start:      tok.Start,
		End:        tok.End,
		Msg:        fmt.Sprintf(format, args...),
		Snippet:    snippet(p.source, tok.Start),
	})
}

// consumeSemicolon eats a statement-terminating semicolon when present.
// Scripts extracted from documents frequently omit them, so absence is legal.
func (p *Parser) consumeSemicolon() {
	if p.curIs(token.Semicolon) {
		p.next()
	}
}

// ---------- Statements ----------

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.Var:
		return p.parseVariableDeclaration()
	case token.LeftBrace:
		return p.parseBlockStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.If:
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.For:
		return p.parseForStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Function:
		return p.parseFunctionDeclaration()
	case token.Semicolon:
		stmt := &ast.EmptyStatement{Token: p.cur()}
		p.next()
		return stmt
	default:
		if p.curIs(token.Identifier) && p.peekIs(token.Colon) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	stmt := &ast.VariableDeclaration{Token: p.cur()}
	p.next() // var

	for {
		decl := &ast.VariableDeclarator{Token: p.cur()}
		decl.Name = p.parseIdentifier()
		if p.curIs(token.Assign) {
			p.next()
			decl.Value = p.parseAssignmentExpression()
		}
		stmt.Declarations = append(stmt.Declarations, decl)
		if !p.curIs(token.Comma) {
			break
		}
		p.next()
	}

	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur()}
	p.expect(token.LeftBrace)
	for !p.curIs(token.RightBrace) && !p.curIs(token.EOF) {
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.expect(token.RightBrace)
	return block
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.cur()}
	p.next() // return
	if !p.curIs(token.Semicolon) && !p.curIs(token.RightBrace) && !p.curIs(token.EOF) {
		stmt.Value = p.parseExpression()
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.cur()}
	p.next() // if
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression()
	p.expect(token.RightParen)
	stmt.Consequence = p.parseStatement()
	if p.curIs(token.Else) {
		p.next()
		stmt.Alternative = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.cur()}
	p.next() // while
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression()
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	stmt := &ast.DoWhileStatement{Token: p.cur()}
	p.next() // do
	stmt.Body = p.parseStatement()
	p.expect(token.While)
	p.expect(token.LeftParen)
	stmt.Condition = p.parseExpression()
	p.expect(token.RightParen)
	p.consumeSemicolon()
	return stmt
}

// parseForStatement handles both classic for and for-in. A for-in head is
// detected by parsing a left-hand-side candidate and checking for 'in'; on
// mismatch the parser rewinds and reinterprets the candidate as the start of
// an ordinary initializer expression.
func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.cur()
	p.next() // for
	p.expect(token.LeftParen)

	if p.curIs(token.Var) {
		varTok := p.cur()
		p.next()
		name := p.parseIdentifier()
		if p.curIs(token.In) {
			p.next()
			decl := &ast.VariableDeclaration{Token: varTok, Declarations: []*ast.VariableDeclarator{
				{Token: name.Token, Name: name},
			}}
			return p.finishForIn(forTok, decl)
		}
		decl := &ast.VariableDeclaration{Token: varTok}
		d := &ast.VariableDeclarator{Token: name.Token, Name: name}
		if p.curIs(token.Assign) {
			p.next()
			p.noIn = true
			d.Value = p.parseAssignmentExpression()
			p.noIn = false
		}
		decl.Declarations = append(decl.Declarations, d)
		for p.curIs(token.Comma) {
			p.next()
			d := &ast.VariableDeclarator{Token: p.cur()}
			d.Name = p.parseIdentifier()
			if p.curIs(token.Assign) {
				p.next()
				p.noIn = true
				d.Value = p.parseAssignmentExpression()
				p.noIn = false
			}
			decl.Declarations = append(decl.Declarations, d)
		}
		return p.finishForClassic(forTok, decl)
	}

	if p.curIs(token.Semicolon) {
		return p.finishForClassic(forTok, nil)
	}

	// Try a left-hand-side candidate followed by 'in'.
	mark := p.pos
	lhs := p.tryParseLeftHandSide()
	if lhs != nil && p.curIs(token.In) {
		p.next()
		return p.finishForIn(forTok, lhs)
	}
	p.pos = mark // backtrack

	p.noIn = true
	init := p.parseExpression()
	p.noIn = false
	return p.finishForClassic(forTok, init)
}

// tryParseLeftHandSide parses a member/call chain candidate for a for-in
// head, returning nil when the tokens cannot form one.
func (p *Parser) tryParseLeftHandSide() ast.Expression {
	if !p.curIs(token.Identifier) && !p.curIs(token.This) {
		return nil
	}
	var expr ast.Expression
	if p.curIs(token.This) {
		expr = &ast.ThisExpression{Token: p.cur()}
		p.next()
	} else {
		expr = p.parseIdentifier()
	}
	for {
		switch {
		case p.curIs(token.Dot):
			tok := p.cur()
			p.next()
			prop := p.parsePropertyIdentifier()
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: prop}
		case p.curIs(token.LeftBracket):
			tok := p.cur()
			p.next()
			idx := p.parseExpression()
			p.expect(token.RightBracket)
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: idx, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) finishForIn(forTok token.Token, left ast.Node) *ast.ForInStatement {
	stmt := &ast.ForInStatement{Token: forTok, Left: left}
	stmt.Right = p.parseExpression()
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) finishForClassic(forTok token.Token, init ast.Node) *ast.ForStatement {
	stmt := &ast.ForStatement{Token: forTok, Init: init}
	p.expect(token.Semicolon)
	if !p.curIs(token.Semicolon) {
		stmt.Test = p.parseExpression()
	}
	p.expect(token.Semicolon)
	if !p.curIs(token.RightParen) {
		stmt.Update = p.parseExpression()
	}
	p.expect(token.RightParen)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	stmt := &ast.BreakStatement{Token: p.cur()}
	p.next() // break
	if p.curIs(token.Identifier) {
		stmt.Label = p.cur().Literal
		p.next()
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	stmt := &ast.ContinueStatement{Token: p.cur()}
	p.next() // continue
	if p.curIs(token.Identifier) {
		stmt.Label = p.cur().Literal
		p.next()
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	stmt := &ast.SwitchStatement{Token: p.cur()}
	p.next() // switch
	p.expect(token.LeftParen)
	stmt.Discriminant = p.parseExpression()
	p.expect(token.RightParen)
	p.expect(token.LeftBrace)

	for !p.curIs(token.RightBrace) && !p.curIs(token.EOF) {
		c := &ast.SwitchCase{Token: p.cur()}
		if p.curIs(token.Case) {
			p.next()
			c.Test = p.parseExpression()
		} else if p.curIs(token.Default) {
			p.next()
		} else {
			p.fail("expected 'case' or 'default', got %s", p.cur().Kind)
		}
		p.expect(token.Colon)
		for !p.curIs(token.Case) && !p.curIs(token.Default) && !p.curIs(token.RightBrace) && !p.curIs(token.EOF) {
			c.Consequent = append(c.Consequent, p.parseStatement())
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(token.RightBrace)
	return stmt
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	stmt := &ast.ThrowStatement{Token: p.cur()}
	p.next() // throw
	stmt.Argument = p.parseExpression()
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	stmt := &ast.TryStatement{Token: p.cur()}
	p.next() // try
	stmt.Block = p.parseBlockStatement()
	p.expect(token.Catch)
	p.expect(token.LeftParen)
	stmt.CatchParam = p.parseIdentifier()
	p.expect(token.RightParen)
	stmt.CatchBody = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	stmt := &ast.FunctionDeclaration{Token: p.cur()}
	p.next() // function
	stmt.Name = p.parseIdentifier()
	stmt.Params = p.parseFunctionParams()
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseFunctionParams() []*ast.Identifier {
	p.expect(token.LeftParen)
	var params []*ast.Identifier
	for !p.curIs(token.RightParen) && !p.curIs(token.EOF) {
		params = append(params, p.parseIdentifier())
		if !p.curIs(token.Comma) {
			break
		}
		p.next()
	}
	p.expect(token.RightParen)
	return params
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	stmt := &ast.LabeledStatement{Token: p.cur(), Label: p.cur().Literal}
	p.next() // label
	p.next() // colon
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.cur()}
	stmt.Expression = p.parseExpression()
	p.consumeSemicolon()
	return stmt
}

// ---------- Expressions ----------

// Precedence levels for the binary-operator ladder, lowest first.
var binaryPrec = map[token.Kind]int{
	token.Or:                 1,
	token.And:                2,
	token.Equal:              3,
	token.NotEqual:           3,
	token.StrictEqual:        3,
	token.StrictNotEqual:     3,
	token.BitwiseOr:          4,
	token.BitwiseXor:         5,
	token.BitwiseAnd:         6,
	token.In:                 7,
	token.Instanceof:         7,
	token.LeftShift:          8,
	token.RightShift:         8,
	token.UnsignedRightShift: 8,
	token.LessThan:           9,
	token.GreaterThan:        9,
	token.LessThanOrEqual:    9,
	token.GreaterThanOrEqual: 9,
	token.Plus:               10,
	token.Minus:              10,
	token.Star:               11,
	token.Slash:              11,
	token.Percent:            11,
}

var assignOps = map[token.Kind]string{
	token.Assign:                   "=",
	token.PlusAssign:               "+=",
	token.MinusAssign:              "-=",
	token.StarAssign:               "*=",
	token.SlashAssign:              "/=",
	token.PercentAssign:            "%=",
	token.AmpersandAssign:          "&=",
	token.PipeAssign:               "|=",
	token.CaretAssign:              "^=",
	token.LeftShiftAssign:          "<<=",
	token.RightShiftAssign:         ">>=",
	token.UnsignedRightShiftAssign: ">>>=",
}

// parseExpression parses at the comma level, the lowest precedence.
func (p *Parser) parseExpression() ast.Expression {
	expr := p.parseAssignmentExpression()
	if !p.curIs(token.Comma) {
		return expr
	}
	seq := &ast.SequenceExpression{Token: p.cur(), Expressions: []ast.Expression{expr}}
	for p.curIs(token.Comma) {
		p.next()
		seq.Expressions = append(seq.Expressions, p.parseAssignmentExpression())
	}
	return seq
}

func (p *Parser) parseAssignmentExpression() ast.Expression {
	left := p.parseConditionalExpression()

	op, ok := assignOps[p.cur().Kind]
	if !ok {
		return left
	}
	if !isAssignable(left) {
		p.fail("invalid assignment target %s", ast.NodeType(left))
	}
	tok := p.cur()
	p.next()
	right := p.parseAssignmentExpression() // right-associative
	return &ast.AssignmentExpression{Token: tok, Operator: op, Left: left, Right: right}
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	test := p.parseBinaryExpression(1)
	if !p.curIs(token.QuestionMark) {
		return test
	}
	tok := p.cur()
	p.next()
	consequent := p.parseAssignmentExpression()
	p.expect(token.Colon)
	alternate := p.parseAssignmentExpression()
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseBinaryExpression(minPrec int) ast.Expression {
	left := p.parseUnaryExpression()

	for {
		kind := p.cur().Kind
		if kind == token.In && p.noIn {
			return left
		}
		prec, ok := binaryPrec[kind]
		if !ok || prec < minPrec {
			return left
		}
		tok := p.cur()
		p.next()
		right := p.parseBinaryExpression(prec + 1)
		if kind == token.And || kind == token.Or {
			left = &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
		}
	}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	switch p.cur().Kind {
	case token.Minus, token.Plus, token.Not, token.BitwiseNot,
		token.Delete, token.Typeof, token.Void:
		tok := p.cur()
		p.next()
		operand := p.parseUnaryExpression()
		return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
	case token.Increment, token.Decrement:
		tok := p.cur()
		p.next()
		operand := p.parseUnaryExpression()
		if !isAssignable(operand) {
			p.fail("invalid %s target %s", tok.Literal, ast.NodeType(operand))
		}
		return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: operand, Prefix: true}
	case token.New:
		return p.parsePostfixChain(p.parseNewExpression())
	default:
		return p.parsePostfixExpression()
	}
}

// parseNewExpression parses 'new Callee(args)'. The callee is a member chain
// only: calls bind tighter than 'new' argument lists do not apply here.
func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.cur()
	p.next() // new
	callee := p.parseMemberChain(p.parsePrimaryExpression())
	expr := &ast.NewExpression{Token: tok, Callee: callee}
	if p.curIs(token.LeftParen) {
		expr.Arguments = p.parseArguments()
	}
	return expr
}

func (p *Parser) parsePostfixExpression() ast.Expression {
	return p.parsePostfixChain(p.parsePrimaryExpression())
}

// parsePostfixChain applies the left-associative call/member/index/update
// chain to an already-parsed expression.
func (p *Parser) parsePostfixChain(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.curIs(token.LeftParen):
			tok := p.cur()
			args := p.parseArguments()
			expr = &ast.CallExpression{Token: tok, Callee: expr, Arguments: args}
		case p.curIs(token.Dot):
			tok := p.cur()
			p.next()
			prop := p.parsePropertyIdentifier()
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: prop}
		case p.curIs(token.LeftBracket):
			tok := p.cur()
			p.next()
			idx := p.parseExpression()
			p.expect(token.RightBracket)
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: idx, Computed: true}
		case p.curIs(token.Increment) || p.curIs(token.Decrement):
			tok := p.cur()
			if !isAssignable(expr) {
				return expr
			}
			p.next()
			expr = &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: expr}
		default:
			return expr
		}
	}
}

// parseMemberChain is the call-free subset of parsePostfixChain, used for
// 'new' callees.
func (p *Parser) parseMemberChain(expr ast.Expression) ast.Expression {
	for {
		switch {
		case p.curIs(token.Dot):
			tok := p.cur()
			p.next()
			prop := p.parsePropertyIdentifier()
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: prop}
		case p.curIs(token.LeftBracket):
			tok := p.cur()
			p.next()
			idx := p.parseExpression()
			p.expect(token.RightBracket)
			expr = &ast.MemberExpression{Token: tok, Object: expr, Property: idx, Computed: true}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LeftParen)
	var args []ast.Expression
	for !p.curIs(token.RightParen) && !p.curIs(token.EOF) {
		args = append(args, p.parseAssignmentExpression())
		if !p.curIs(token.Comma) {
			break
		}
		p.next()
	}
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	switch p.cur().Kind {
	case token.Number:
		return p.parseNumberLiteral()
	case token.String:
		tok := p.cur()
		p.next()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.Pattern:
		tok := p.cur()
		p.next()
		return &ast.PatternLiteral{Token: tok, Raw: tok.Literal}
	case token.True, token.False:
		tok := p.cur()
		p.next()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Kind == token.True}
	case token.Null:
		tok := p.cur()
		p.next()
		return &ast.NullLiteral{Token: tok}
	case token.Undefined:
		tok := p.cur()
		p.next()
		return &ast.UndefinedLiteral{Token: tok}
	case token.This:
		tok := p.cur()
		p.next()
		return &ast.ThisExpression{Token: tok}
	case token.Identifier:
		if p.peekIs(token.Arrow) {
			return p.parseSingleParamArrow()
		}
		return p.parseIdentifier()
	case token.Function:
		return p.parseFunctionExpression()
	case token.LeftParen:
		return p.parseParenOrArrow()
	case token.LeftBracket:
		return p.parseArrayLiteral()
	case token.LeftBrace:
		return p.parseObjectLiteral()
	default:
		p.fail("unexpected token %s (%q) in expression", p.cur().Kind, p.cur().Literal)
		return nil
	}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	tok := p.expect(token.Identifier)
	return &ast.Identifier{Token: tok, Name: tok.Literal}
}

// parsePropertyIdentifier accepts keywords after a dot, so obj.delete and
// obj.in parse as ordinary member access.
func (p *Parser) parsePropertyIdentifier() *ast.Identifier {
	tok := p.cur()
	if tok.Kind != token.Identifier {
		if _, isKeyword := token.Keywords[tok.Literal]; !isKeyword {
			p.fail("expected property name, got %s (%q)", tok.Kind, tok.Literal)
		}
	}
	p.next()
	return &ast.Identifier{Token: tok, Name: tok.Literal}
}

func (p *Parser) parseNumberLiteral() *ast.NumberLiteral {
	tok := p.expect(token.Number)
	var value float64
	if strings.HasPrefix(tok.Literal, "0x") || strings.HasPrefix(tok.Literal, "0X") {
		n, err := strconv.ParseUint(tok.Literal[2:], 16, 64)
		if err != nil {
			p.fail("invalid hex literal %q", tok.Literal)
		}
		value = float64(n)
	} else {
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.fail("invalid number literal %q", tok.Literal)
		}
		value = n
	}
	return &ast.NumberLiteral{Token: tok, Value: value}
}

func (p *Parser) parseFunctionExpression() *ast.FunctionLiteral {
	fn := &ast.FunctionLiteral{Token: p.cur()}
	p.next() // function
	if p.curIs(token.Identifier) {
		fn.Name = p.parseIdentifier()
	}
	fn.Params = p.parseFunctionParams()
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseSingleParamArrow() *ast.ArrowFunctionLiteral {
	param := p.parseIdentifier()
	arrow := &ast.ArrowFunctionLiteral{Token: param.Token, Params: []*ast.Identifier{param}}
	p.expect(token.Arrow)
	arrow.Body = p.parseArrowBody()
	return arrow
}

// parseParenOrArrow distinguishes '(a, b) => ...' from a parenthesized
// expression by scanning ahead for a simple parameter list.
func (p *Parser) parseParenOrArrow() ast.Expression {
	if p.isArrowParamList() {
		tok := p.cur()
		arrow := &ast.ArrowFunctionLiteral{Token: tok}
		p.next() // (
		for !p.curIs(token.RightParen) {
			arrow.Params = append(arrow.Params, p.parseIdentifier())
			if !p.curIs(token.Comma) {
				break
			}
			p.next()
		}
		p.expect(token.RightParen)
		p.expect(token.Arrow)
		arrow.Body = p.parseArrowBody()
		return arrow
	}

	p.next() // (
	expr := p.parseExpression()
	p.expect(token.RightParen)
	return expr
}

// isArrowParamList reports whether the tokens from the current '(' form
// '( ident (, ident)* )' or '()' followed by '=>'.
func (p *Parser) isArrowParamList() bool {
	i := p.pos + 1
	at := func(j int) token.Kind {
		if j < len(p.tokens) {
			return p.tokens[j].Kind
		}
		return token.EOF
	}
	if at(i) == token.RightParen {
		return at(i+1) == token.Arrow
	}
	for {
		if at(i) != token.Identifier {
			return false
		}
		i++
		if at(i) == token.Comma {
			i++
			continue
		}
		break
	}
	return at(i) == token.RightParen && at(i+1) == token.Arrow
}

func (p *Parser) parseArrowBody() ast.Node {
	if p.curIs(token.LeftBrace) {
		return p.parseBlockStatement()
	}
	return p.parseAssignmentExpression()
}

func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	arr := &ast.ArrayLiteral{Token: p.cur()}
	p.expect(token.LeftBracket)

	for !p.curIs(token.RightBracket) && !p.curIs(token.EOF) {
		if p.curIs(token.Comma) {
			// elided hole
			arr.Elements = append(arr.Elements, nil)
			p.next()
			continue
		}
		arr.Elements = append(arr.Elements, p.parseAssignmentExpression())
		if !p.curIs(token.Comma) {
			break
		}
		p.next() // trailing comma falls out of the loop at ']'
	}
	p.expect(token.RightBracket)
	return arr
}

func (p *Parser) parseObjectLiteral() *ast.ObjectLiteral {
	obj := &ast.ObjectLiteral{Token: p.cur()}
	p.expect(token.LeftBrace)

	for !p.curIs(token.RightBrace) && !p.curIs(token.EOF) {
		prop := &ast.ObjectProperty{Token: p.cur()}
		switch p.cur().Kind {
		case token.String:
			prop.Key = p.cur().Literal
			p.next()
		case token.Number:
			num := p.parseNumberLiteral()
			prop.Key = formatNumericKey(num.Value)
		case token.Identifier:
			prop.Key = p.cur().Literal
			p.next()
		default:
			if _, isKeyword := token.Keywords[p.cur().Literal]; isKeyword {
				prop.Key = p.cur().Literal
				p.next()
			} else {
				p.fail("expected property key, got %s (%q)", p.cur().Kind, p.cur().Literal)
			}
		}
		p.expect(token.Colon)
		prop.Value = p.parseAssignmentExpression()
		obj.Properties = append(obj.Properties, prop)
		if !p.curIs(token.Comma) {
			break
		}
		p.next()
	}
	p.expect(token.RightBrace)
	return obj
}

func formatNumericKey(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
