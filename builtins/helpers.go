package builtins

import (
	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// arg returns the i-th argument, or undefined when the caller supplied
// fewer.
func arg(args []*runtime.Value, i int) *runtime.Value {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return runtime.Undefined
}

func defineMethod(ctx *interpreter.Context, obj *runtime.Object, name string, fn runtime.NativeFunc) {
	obj.Set(name, ctx.NewNativeFunction(name, fn))
}

// receiver validates that a method was invoked on an object value.
func receiver(name string, this *runtime.Value) (*runtime.Object, error) {
	if this == nil || this.Type != runtime.TypeObject || this.Object == nil {
		return nil, runtime.Throwf("%s called on a non-object receiver", name)
	}
	return this.Object, nil
}

// callback validates that a method argument is callable.
func callback(name string, v *runtime.Value) (*runtime.Value, error) {
	if !v.IsCallable() {
		return nil, runtime.Throwf("%s: callback is not a function", name)
	}
	return v, nil
}

// normalizeIndex maps a possibly-negative position onto [0, length].
func normalizeIndex(n float64, length int) int {
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}
