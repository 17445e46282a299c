// Package builtins provides the standard registry of host functions and
// prototype method sets for a script context: console, conversion globals,
// deferred-call scheduling, array/object/function methods, the JSON codec,
// and the Event constructor.
package builtins

import "github.com/example/formjs/interpreter"

// Install wires the full builtin registry into ctx.
func Install(ctx *interpreter.Context) {
	installConsole(ctx)
	installGlobals(ctx)
	installTimers(ctx)
	installArray(ctx)
	installObject(ctx)
	installFunction(ctx)
	installJSON(ctx)
	installEvent(ctx)
}
