package runtime

import (
	"math"
	"strconv"

	"github.com/example/formjs/ast"
)

// Type is the tag of a script value.
type Type int

const (
	TypeUndefined Type = iota
	TypeNull
	TypeBoolean
	TypeNumber
	TypeString
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged script value.
type Value struct {
	Type   Type
	Bool   bool
	Number float64
	Str    string
	Object *Object
}

var (
	Undefined = &Value{Type: TypeUndefined}
	Null      = &Value{Type: TypeNull}
	True      = &Value{Type: TypeBoolean, Bool: true}
	False     = &Value{Type: TypeBoolean, Bool: false}
)

func NewNumber(n float64) *Value {
	return &Value{Type: TypeNumber, Number: n}
}

func NewString(s string) *Value {
	return &Value{Type: TypeString, Str: s}
}

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func NewObjectValue(obj *Object) *Value {
	return &Value{Type: TypeObject, Object: obj}
}

// IsCallable reports whether v is a function value.
func (v *Value) IsCallable() bool {
	return v != nil && v.Type == TypeObject && v.Object != nil && v.Object.Fn != nil
}

func (v *Value) ToBoolean() bool {
	switch v.Type {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.Bool
	case TypeNumber:
		return v.Number != 0 && !math.IsNaN(v.Number)
	case TypeString:
		return len(v.Str) > 0
	case TypeObject:
		return true
	default:
		return false
	}
}

func (v *Value) ToString() string {
	switch v.Type {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNumber:
		return FormatNumber(v.Number)
	case TypeString:
		return v.Str
	case TypeObject:
		if v.Object != nil && v.Object.Fn != nil {
			name := v.Object.Fn.Name
			if name == "" {
				name = "anonymous"
			}
			return "function " + name + "() { ... }"
		}
		return "[object Object]"
	default:
		return "undefined"
	}
}

// FormatNumber renders a number the way scripts expect: integral values
// without a fractional part, NaN and the infinities by name.
func FormatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Caller is the evaluator handle handed to native functions. Natives call
// back into script code through it; there is no fallback to a shared
// runtime, the handle must be threaded explicitly.
type Caller interface {
	// Call invokes fn with the given this value and arguments.
	Call(fn, this *Value, args []*Value) (*Value, error)
}

// NativeFunc is the host-function signature. Failure is signalled with the
// runtime's error type (Throw) so scripted try/catch observes it.
type NativeFunc func(rt Caller, this *Value, args []*Value) (*Value, error)

// Function is the function-value variant: exactly one of {script body,
// native callable} is present.
type Function struct {
	Name   string
	Params []string

	// Script function: body + captured definition environment. Arrow
	// shorthand with an expression body uses Expr instead of Body.
	Body *ast.BlockStatement
	Expr ast.Expression
	Env  *Environment

	// Arrow functions keep the enclosing 'this' instead of receiving one.
	Arrow bool

	// Native function.
	Native NativeFunc
}

// IsNative reports whether the function-value carries a host callable.
func (f *Function) IsNative() bool { return f.Native != nil }
