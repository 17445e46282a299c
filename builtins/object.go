package builtins

import (
	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installObject exposes the Object constructor with its static helpers and
// the shared object-prototype methods.
func installObject(ctx *interpreter.Context) {
	objectCtor := ctx.NewNativeFunction("Object", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		v := arg(args, 0)
		if v.Type == runtime.TypeObject {
			return v, nil
		}
		return ctx.NewObjectValue(), nil
	})

	objectCtor.Object.Set("create", ctx.NewNativeFunction("create", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		protoArg := arg(args, 0)
		switch protoArg.Type {
		case runtime.TypeNull:
			return runtime.NewObjectValue(runtime.NewObject(nil)), nil
		case runtime.TypeObject:
			return runtime.NewObjectValue(runtime.NewObject(protoArg.Object)), nil
		default:
			return nil, runtime.Throwf("Object.create: prototype must be an object or null")
		}
	}))

	objectCtor.Object.Set("keys", ctx.NewNativeFunction("keys", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		v := arg(args, 0)
		if v.Type != runtime.TypeObject || v.Object == nil {
			return nil, runtime.Throwf("Object.keys called on a non-object")
		}
		keys := v.Object.OwnKeys()
		elements := make([]*runtime.Value, len(keys))
		for i, k := range keys {
			elements[i] = runtime.NewString(k)
		}
		return ctx.NewArrayValue(elements), nil
	}))

	objectCtor.Object.Set("assign", ctx.NewNativeFunction("assign", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		target := arg(args, 0)
		if target.Type != runtime.TypeObject || target.Object == nil {
			return nil, runtime.Throwf("Object.assign: target is not an object")
		}
		for _, src := range args[1:] {
			if src.Type != runtime.TypeObject || src.Object == nil {
				continue
			}
			for _, k := range src.Object.OwnKeys() {
				if k == "__proto__" {
					continue // never a copyable key
				}
				v, _ := src.Object.Get(k)
				target.Object.Set(k, v)
			}
		}
		return target, nil
	}))

	ctx.SetGlobal("Object", objectCtor)

	defineMethod(ctx, ctx.ObjectProto, "hasOwnProperty", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("hasOwnProperty", this)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(obj.HasOwn(arg(args, 0).ToString())), nil
	})

	defineMethod(ctx, ctx.ObjectProto, "toString", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if this == nil {
			return runtime.NewString("undefined"), nil
		}
		return runtime.NewString(this.ToString()), nil
	})
}
