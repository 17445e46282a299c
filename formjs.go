// Package formjs embeds a small dynamically typed scripting runtime for
// logic extracted from interactive documents. Scripts use a JavaScript-like
// surface syntax; evaluation is a plain tree walk with an explicit statement
// watchdog, a prototype-based object model, and a host-drained queue for
// deferred callbacks.
//
// Typical use:
//
//	ctx := formjs.NewContext(os.Stdout)
//	result, err := formjs.Run(`var x = 2; x * 21`, ctx)
package formjs

import (
	"io"

	"github.com/example/formjs/ast"
	"github.com/example/formjs/builtins"
	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/parser"
	"github.com/example/formjs/runtime"
)

// NewContext builds an execution context with the full builtin registry
// installed. Console output goes to log; pass nil to discard it.
func NewContext(log io.Writer) *interpreter.Context {
	ctx := interpreter.NewContext(log)
	builtins.Install(ctx)
	return ctx
}

// Parse returns the syntax tree of source without evaluating it.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// Run evaluates source in ctx and returns the value of the last evaluated
// expression statement.
func Run(source string, ctx *interpreter.Context) (*runtime.Value, error) {
	val, _, err := interpreter.Execute(source, ctx)
	return val, err
}
