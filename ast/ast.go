package ast

import "github.com/example/formjs/token"

// Node is the interface all AST nodes implement. Nodes are pure syntax:
// created once per parse, immutable, and never reference runtime state.
type Node interface {
	Span() (start, end int)
	nodeType() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST.
type Program struct {
	Statements []Statement
}

func (p *Program) Span() (int, int) {
	if len(p.Statements) == 0 {
		return 0, 0
	}
	s, _ := p.Statements[0].Span()
	_, e := p.Statements[len(p.Statements)-1].Span()
	return s, e
}
func (p *Program) nodeType() string { return "Program" }

// ---------- Statements ----------

type VariableDeclaration struct {
	Token        token.Token // the 'var'
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	Token token.Token
	Name  *Identifier
	Value Expression // may be nil
}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil yields undefined
}

type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence Statement
	Alternative Statement // may be nil
}

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      Statement
}

type DoWhileStatement struct {
	Token     token.Token
	Body      Statement
	Condition Expression
}

type ForStatement struct {
	Token  token.Token
	Init   Node       // *VariableDeclaration or Expression, may be nil
	Test   Expression // may be nil
	Update Expression // may be nil
	Body   Statement
}

type ForInStatement struct {
	Token token.Token
	Left  Node // *VariableDeclaration or assignable Expression
	Right Expression
	Body  Statement
}

type BreakStatement struct {
	Token token.Token
	Label string // "" when unlabeled
}

type ContinueStatement struct {
	Token token.Token
	Label string
}

type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

type SwitchCase struct {
	Token      token.Token
	Test       Expression // nil for default
	Consequent []Statement
}

type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

type TryStatement struct {
	Token      token.Token
	Block      *BlockStatement
	CatchParam *Identifier
	CatchBody  *BlockStatement
}

type FunctionDeclaration struct {
	Token  token.Token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

type LabeledStatement struct {
	Token token.Token
	Label string
	Body  Statement
}

type EmptyStatement struct {
	Token token.Token
}

// ---------- Expressions ----------

type Identifier struct {
	Token token.Token
	Name  string
}

type NumberLiteral struct {
	Token token.Token
	Value float64
}

type StringLiteral struct {
	Token token.Token
	Value string
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

type NullLiteral struct {
	Token token.Token
}

type UndefinedLiteral struct {
	Token token.Token
}

// PatternLiteral holds a regular-expression literal as raw source text,
// flags included. The payload is never structurally parsed.
type PatternLiteral struct {
	Token token.Token
	Raw   string
}

type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression // nil entries are elided holes
}

type ObjectLiteral struct {
	Token      token.Token
	Properties []*ObjectProperty
}

type ObjectProperty struct {
	Token token.Token
	Key   string
	Value Expression
}

type FunctionLiteral struct {
	Token  token.Token
	Name   *Identifier // may be nil for anonymous
	Params []*Identifier
	Body   *BlockStatement
}

// ArrowFunctionLiteral covers the shorthand form with identifier parameters
// and either an expression body or a block body.
type ArrowFunctionLiteral struct {
	Token  token.Token
	Params []*Identifier
	Body   Node // Expression or *BlockStatement
}

type UnaryExpression struct {
	Token    token.Token
	Operator string // - + ! ~ delete typeof void
	Operand  Expression
}

type UpdateExpression struct {
	Token    token.Token
	Operator string // ++ or --
	Operand  Expression
	Prefix   bool
}

type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

type LogicalExpression struct {
	Token    token.Token
	Operator string // && or ||
	Left     Expression
	Right    Expression
}

type AssignmentExpression struct {
	Token    token.Token
	Operator string // = += -= *= /= %= &= |= ^= <<= >>= >>>=
	Left     Expression
	Right    Expression
}

type ConditionalExpression struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression // *Identifier when !Computed
	Computed bool
}

type NewExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

type ThisExpression struct {
	Token token.Token
}

// --- marker methods ---

func (s *VariableDeclaration) statementNode() {}
func (s *ExpressionStatement) statementNode() {}
func (s *BlockStatement) statementNode()      {}
func (s *ReturnStatement) statementNode()     {}
func (s *IfStatement) statementNode()         {}
func (s *WhileStatement) statementNode()      {}
func (s *DoWhileStatement) statementNode()    {}
func (s *ForStatement) statementNode()        {}
func (s *ForInStatement) statementNode()      {}
func (s *BreakStatement) statementNode()      {}
func (s *ContinueStatement) statementNode()   {}
func (s *SwitchStatement) statementNode()     {}
func (s *ThrowStatement) statementNode()      {}
func (s *TryStatement) statementNode()        {}
func (s *FunctionDeclaration) statementNode() {}
func (s *LabeledStatement) statementNode()    {}
func (s *EmptyStatement) statementNode()      {}

func (e *Identifier) expressionNode()            {}
func (e *NumberLiteral) expressionNode()         {}
func (e *StringLiteral) expressionNode()         {}
func (e *BooleanLiteral) expressionNode()        {}
func (e *NullLiteral) expressionNode()           {}
func (e *UndefinedLiteral) expressionNode()      {}
func (e *PatternLiteral) expressionNode()        {}
func (e *ArrayLiteral) expressionNode()          {}
func (e *ObjectLiteral) expressionNode()         {}
func (e *FunctionLiteral) expressionNode()       {}
func (e *ArrowFunctionLiteral) expressionNode()  {}
func (e *UnaryExpression) expressionNode()       {}
func (e *UpdateExpression) expressionNode()      {}
func (e *BinaryExpression) expressionNode()      {}
func (e *LogicalExpression) expressionNode()     {}
func (e *AssignmentExpression) expressionNode()  {}
func (e *ConditionalExpression) expressionNode() {}
func (e *CallExpression) expressionNode()        {}
func (e *MemberExpression) expressionNode()      {}
func (e *NewExpression) expressionNode()         {}
func (e *SequenceExpression) expressionNode()    {}
func (e *ThisExpression) expressionNode()        {}

// --- Span implementations ---

func span(t token.Token) (int, int) { return t.Start, t.End }

func (s *VariableDeclaration) Span() (int, int) { return span(s.Token) }
func (s *VariableDeclarator) Span() (int, int)  { return span(s.Token) }
func (s *ExpressionStatement) Span() (int, int) { return s.Expression.Span() }
func (s *BlockStatement) Span() (int, int)      { return span(s.Token) }
func (s *ReturnStatement) Span() (int, int)     { return span(s.Token) }
func (s *IfStatement) Span() (int, int)         { return span(s.Token) }
func (s *WhileStatement) Span() (int, int)      { return span(s.Token) }
func (s *DoWhileStatement) Span() (int, int)    { return span(s.Token) }
func (s *ForStatement) Span() (int, int)        { return span(s.Token) }
func (s *ForInStatement) Span() (int, int)      { return span(s.Token) }
func (s *BreakStatement) Span() (int, int)      { return span(s.Token) }
func (s *ContinueStatement) Span() (int, int)   { return span(s.Token) }
func (s *SwitchStatement) Span() (int, int)     { return span(s.Token) }
func (s *ThrowStatement) Span() (int, int)      { return span(s.Token) }
func (s *TryStatement) Span() (int, int)        { return span(s.Token) }
func (s *FunctionDeclaration) Span() (int, int) { return span(s.Token) }
func (s *LabeledStatement) Span() (int, int)    { return span(s.Token) }
func (s *EmptyStatement) Span() (int, int)      { return span(s.Token) }

func (e *Identifier) Span() (int, int)            { return span(e.Token) }
func (e *NumberLiteral) Span() (int, int)         { return span(e.Token) }
func (e *StringLiteral) Span() (int, int)         { return span(e.Token) }
func (e *BooleanLiteral) Span() (int, int)        { return span(e.Token) }
func (e *NullLiteral) Span() (int, int)           { return span(e.Token) }
func (e *UndefinedLiteral) Span() (int, int)      { return span(e.Token) }
func (e *PatternLiteral) Span() (int, int)        { return span(e.Token) }
func (e *ArrayLiteral) Span() (int, int)          { return span(e.Token) }
func (e *ObjectLiteral) Span() (int, int)         { return span(e.Token) }
func (e *FunctionLiteral) Span() (int, int)       { return span(e.Token) }
func (e *ArrowFunctionLiteral) Span() (int, int)  { return span(e.Token) }
func (e *UnaryExpression) Span() (int, int)       { return span(e.Token) }
func (e *UpdateExpression) Span() (int, int)      { return span(e.Token) }
func (e *BinaryExpression) Span() (int, int)      { return span(e.Token) }
func (e *LogicalExpression) Span() (int, int)     { return span(e.Token) }
func (e *AssignmentExpression) Span() (int, int)  { return span(e.Token) }
func (e *ConditionalExpression) Span() (int, int) { return span(e.Token) }
func (e *CallExpression) Span() (int, int)        { return span(e.Token) }
func (e *MemberExpression) Span() (int, int)      { return span(e.Token) }
func (e *NewExpression) Span() (int, int)         { return span(e.Token) }
func (e *SequenceExpression) Span() (int, int)    { return span(e.Token) }
func (e *ThisExpression) Span() (int, int)        { return span(e.Token) }

// --- nodeType implementations ---

func (s *VariableDeclaration) nodeType() string { return "VariableDeclaration" }
func (s *VariableDeclarator) nodeType() string  { return "VariableDeclarator" }
func (s *ExpressionStatement) nodeType() string { return "ExpressionStatement" }
func (s *BlockStatement) nodeType() string      { return "BlockStatement" }
func (s *ReturnStatement) nodeType() string     { return "ReturnStatement" }
func (s *IfStatement) nodeType() string         { return "IfStatement" }
func (s *WhileStatement) nodeType() string      { return "WhileStatement" }
func (s *DoWhileStatement) nodeType() string    { return "DoWhileStatement" }
func (s *ForStatement) nodeType() string        { return "ForStatement" }
func (s *ForInStatement) nodeType() string      { return "ForInStatement" }
func (s *BreakStatement) nodeType() string      { return "BreakStatement" }
func (s *ContinueStatement) nodeType() string   { return "ContinueStatement" }
func (s *SwitchStatement) nodeType() string     { return "SwitchStatement" }
func (s *ThrowStatement) nodeType() string      { return "ThrowStatement" }
func (s *TryStatement) nodeType() string        { return "TryStatement" }
func (s *FunctionDeclaration) nodeType() string { return "FunctionDeclaration" }
func (s *LabeledStatement) nodeType() string    { return "LabeledStatement" }
func (s *EmptyStatement) nodeType() string      { return "EmptyStatement" }

func (e *Identifier) nodeType() string            { return "Identifier" }
func (e *NumberLiteral) nodeType() string         { return "NumberLiteral" }
func (e *StringLiteral) nodeType() string         { return "StringLiteral" }
func (e *BooleanLiteral) nodeType() string        { return "BooleanLiteral" }
func (e *NullLiteral) nodeType() string           { return "NullLiteral" }
func (e *UndefinedLiteral) nodeType() string      { return "UndefinedLiteral" }
func (e *PatternLiteral) nodeType() string        { return "PatternLiteral" }
func (e *ArrayLiteral) nodeType() string          { return "ArrayLiteral" }
func (e *ObjectLiteral) nodeType() string         { return "ObjectLiteral" }
func (e *FunctionLiteral) nodeType() string       { return "FunctionLiteral" }
func (e *ArrowFunctionLiteral) nodeType() string  { return "ArrowFunctionLiteral" }
func (e *UnaryExpression) nodeType() string       { return "UnaryExpression" }
func (e *UpdateExpression) nodeType() string      { return "UpdateExpression" }
func (e *BinaryExpression) nodeType() string      { return "BinaryExpression" }
func (e *LogicalExpression) nodeType() string     { return "LogicalExpression" }
func (e *AssignmentExpression) nodeType() string  { return "AssignmentExpression" }
func (e *ConditionalExpression) nodeType() string { return "ConditionalExpression" }
func (e *CallExpression) nodeType() string        { return "CallExpression" }
func (e *MemberExpression) nodeType() string      { return "MemberExpression" }
func (e *NewExpression) nodeType() string         { return "NewExpression" }
func (e *SequenceExpression) nodeType() string    { return "SequenceExpression" }
func (e *ThisExpression) nodeType() string        { return "ThisExpression" }

// NodeType reports the tag name of a node, used in diagnostics.
func NodeType(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.nodeType()
}
