package interpreter

import (
	"io"

	"github.com/example/formjs/runtime"
)

const (
	// DefaultStepLimit is the watchdog ceiling on evaluated statements.
	DefaultStepLimit = 500000
	// DefaultCallDepthLimit bounds nested invocations, converting runaway
	// recursion in script or builtin callbacks into a reportable error.
	DefaultCallDepthLimit = 200
)

// Context owns everything shared across executions: the global environment,
// the per-context prototype objects, the deferred-call queue, and the log
// sink the console builtin writes to.
type Context struct {
	Global *runtime.Environment
	Log    io.Writer

	StepLimit      int
	CallDepthLimit int

	// Shared prototypes for the value model. Builtin installation hangs
	// the method sets off these.
	ObjectProto   *runtime.Object
	ArrayProto    *runtime.Object
	FunctionProto *runtime.Object

	timers timerQueue
}

// NewContext builds a bare context: global scope, prototype objects, and an
// empty deferred-call queue. The builtin registry is installed separately so
// hosts can choose what to expose.
func NewContext(log io.Writer) *Context {
	ctx := &Context{
		Global:         runtime.NewEnvironment(nil),
		Log:            log,
		StepLimit:      DefaultStepLimit,
		CallDepthLimit: DefaultCallDepthLimit,
	}
	ctx.ObjectProto = runtime.NewObject(nil)
	ctx.ArrayProto = runtime.NewObject(ctx.ObjectProto)
	ctx.FunctionProto = runtime.NewObject(ctx.ObjectProto)
	return ctx
}

// SetGlobal injects a host value into the global scope before execution.
func (ctx *Context) SetGlobal(name string, v *runtime.Value) {
	ctx.Global.DeclareLocal(name, v)
}

// RegisterNative exposes a host function as a global.
func (ctx *Context) RegisterNative(name string, fn runtime.NativeFunc) {
	ctx.SetGlobal(name, ctx.NewNativeFunction(name, fn))
}

// NewNativeFunction wraps a host callable as a function value sharing the
// context's function prototype.
func (ctx *Context) NewNativeFunction(name string, fn runtime.NativeFunc) *runtime.Value {
	obj := runtime.NewFunctionObject(&runtime.Function{Name: name, Native: fn}, ctx.FunctionProto, ctx.ObjectProto)
	return runtime.NewObjectValue(obj)
}

// NewArrayValue builds an array value with the context's array prototype.
func (ctx *Context) NewArrayValue(elements []*runtime.Value) *runtime.Value {
	return runtime.NewObjectValue(runtime.NewArray(ctx.ArrayProto, elements))
}

// NewObjectValue builds a plain object value with the context's object
// prototype.
func (ctx *Context) NewObjectValue() *runtime.Value {
	return runtime.NewObjectValue(runtime.NewObject(ctx.ObjectProto))
}
