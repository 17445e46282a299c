package builtins

import (
	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installEvent exposes the Event constructor used by host-dispatched
// callbacks. An event instance records its type string and two latching
// flags; the flag methods live on the constructor's prototype so every
// instance shares them.
func installEvent(ctx *interpreter.Context) {
	eventCtor := ctx.NewNativeFunction("Event", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("Event", this)
		if err != nil {
			return nil, err
		}
		obj.Set("type", runtime.NewString(arg(args, 0).ToString()))
		obj.Set("defaultPrevented", runtime.False)
		obj.Set("cancelBubble", runtime.False)
		return runtime.Undefined, nil
	})

	protoVal, _ := eventCtor.Object.Get("prototype")
	proto := protoVal.Object

	defineMethod(ctx, proto, "preventDefault", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("preventDefault", this)
		if err != nil {
			return nil, err
		}
		obj.Set("defaultPrevented", runtime.True)
		return runtime.Undefined, nil
	})

	defineMethod(ctx, proto, "stopPropagation", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("stopPropagation", this)
		if err != nil {
			return nil, err
		}
		obj.Set("cancelBubble", runtime.True)
		return runtime.Undefined, nil
	})

	ctx.SetGlobal("Event", eventCtor)
}
