package token

type Kind int

const (
	// Literals
	EOF Kind = iota
	Identifier
	Number
	String
	Pattern // regular-expression literal, stored as raw source text

	// Operators
	opBegin
	Plus
	Minus
	Star
	Slash
	Percent
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpersandAssign
	PipeAssign
	CaretAssign
	LeftShiftAssign
	RightShiftAssign
	UnsignedRightShiftAssign
	Equal
	NotEqual
	StrictEqual
	StrictNotEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Not
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseNot
	LeftShift
	RightShift
	UnsignedRightShift
	Increment
	Decrement
	Arrow
	opEnd

	// Delimiters
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftBracket
	RightBracket
	Semicolon
	Colon
	Comma
	Dot
	QuestionMark

	// Keywords
	Var
	Function
	Return
	If
	Else
	While
	For
	Do
	Break
	Continue
	Switch
	Case
	Default
	Throw
	Try
	Catch
	New
	Delete
	Typeof
	Void
	In
	Instanceof
	This
	True
	False
	Null
	Undefined
)

// Token is a single lexeme with its half-open byte span in the source.
type Token struct {
	Kind    Kind
	Literal string
	Start   int
	End     int
}

var Keywords = map[string]Kind{
	"var":        Var,
	"function":   Function,
	"return":     Return,
	"if":         If,
	"else":       Else,
	"while":      While,
	"for":        For,
	"do":         Do,
	"break":      Break,
	"continue":   Continue,
	"switch":     Switch,
	"case":       Case,
	"default":    Default,
	"throw":      Throw,
	"try":        Try,
	"catch":      Catch,
	"new":        New,
	"delete":     Delete,
	"typeof":     Typeof,
	"void":       Void,
	"in":         In,
	"instanceof": Instanceof,
	"this":       This,
	"true":       True,
	"false":      False,
	"null":       Null,
	"undefined":  Undefined,
}

func LookupIdentifier(ident string) Kind {
	if k, ok := Keywords[ident]; ok {
		return k
	}
	return Identifier
}

// IsOperator reports whether k is an operator token, including the
// compound-assignment and update forms.
func (k Kind) IsOperator() bool {
	return k > opBegin && k < opEnd
}

var names = map[Kind]string{
	EOF:                      "EOF",
	Identifier:               "identifier",
	Number:                   "number",
	String:                   "string",
	Pattern:                  "pattern",
	Plus:                     "'+'",
	Minus:                    "'-'",
	Star:                     "'*'",
	Slash:                    "'/'",
	Percent:                  "'%'",
	Assign:                   "'='",
	PlusAssign:               "'+='",
	MinusAssign:              "'-='",
	StarAssign:               "'*='",
	SlashAssign:              "'/='",
	PercentAssign:            "'%='",
	AmpersandAssign:          "'&='",
	PipeAssign:               "'|='",
	CaretAssign:              "'^='",
	LeftShiftAssign:          "'<<='",
	RightShiftAssign:         "'>>='",
	UnsignedRightShiftAssign: "'>>>='",
	Equal:                    "'=='",
	NotEqual:                 "'!='",
	StrictEqual:              "'==='",
	StrictNotEqual:           "'!=='",
	LessThan:                 "'<'",
	GreaterThan:              "'>'",
	LessThanOrEqual:          "'<='",
	GreaterThanOrEqual:       "'>='",
	And:                      "'&&'",
	Or:                       "'||'",
	Not:                      "'!'",
	BitwiseAnd:               "'&'",
	BitwiseOr:                "'|'",
	BitwiseXor:               "'^'",
	BitwiseNot:               "'~'",
	LeftShift:                "'<<'",
	RightShift:               "'>>'",
	UnsignedRightShift:       "'>>>'",
	Increment:                "'++'",
	Decrement:                "'--'",
	Arrow:                    "'=>'",
	LeftParen:                "'('",
	RightParen:               "')'",
	LeftBrace:                "'{'",
	RightBrace:               "'}'",
	LeftBracket:              "'['",
	RightBracket:             "']'",
	Semicolon:                "';'",
	Colon:                    "':'",
	Comma:                    "','",
	Dot:                      "'.'",
	QuestionMark:             "'?'",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	for lit, kw := range Keywords {
		if kw == k {
			return "'" + lit + "'"
		}
	}
	return "unknown"
}
