package builtins

import (
	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installFunction exposes call, apply and bind on the function prototype.
func installFunction(ctx *interpreter.Context) {
	proto := ctx.FunctionProto

	defineMethod(ctx, proto, "call", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if !this.IsCallable() {
			return nil, runtime.Throwf("call invoked on a non-function")
		}
		var rest []*runtime.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return rt.Call(this, arg(args, 0), rest)
	})

	defineMethod(ctx, proto, "apply", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if !this.IsCallable() {
			return nil, runtime.Throwf("apply invoked on a non-function")
		}
		argList := arg(args, 1)
		var rest []*runtime.Value
		switch argList.Type {
		case runtime.TypeUndefined, runtime.TypeNull:
		case runtime.TypeObject:
			if argList.Object.Kind != runtime.KindArray {
				return nil, runtime.Throwf("apply: argument list must be an array")
			}
			n := int(argList.Object.Length())
			rest = make([]*runtime.Value, n)
			for i := 0; i < n; i++ {
				v, _ := argList.Object.Index(i)
				rest[i] = v
			}
		default:
			return nil, runtime.Throwf("apply: argument list must be an array")
		}
		return rt.Call(this, arg(args, 0), rest)
	})

	defineMethod(ctx, proto, "bind", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if !this.IsCallable() {
			return nil, runtime.Throwf("bind invoked on a non-function")
		}
		target := this
		boundThis := arg(args, 0)
		bound := make([]*runtime.Value, 0, len(args))
		if len(args) > 1 {
			bound = append(bound, args[1:]...)
		}
		name := "bound " + target.Object.Fn.Name
		return ctx.NewNativeFunction(name, func(rt runtime.Caller, _ *runtime.Value, callArgs []*runtime.Value) (*runtime.Value, error) {
			full := make([]*runtime.Value, 0, len(bound)+len(callArgs))
			full = append(full, bound...)
			full = append(full, callArgs...)
			return rt.Call(target, boundThis, full)
		}), nil
	})
}
