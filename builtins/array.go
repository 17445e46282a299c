package builtins

import (
	"strings"

	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installArray exposes the Array constructor and the array prototype
// methods. Arrays are keyed objects, so every method works off the numeric
// length property and the present index keys; holes are skipped by the
// iteration methods.
func installArray(ctx *interpreter.Context) {
	arrayCtor := ctx.NewNativeFunction("Array", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 1 && args[0].Type == runtime.TypeNumber {
			n := int(args[0].Number)
			if n < 0 || float64(n) != args[0].Number {
				return nil, runtime.Throwf("invalid array length %s", args[0].ToString())
			}
			arr := runtime.NewArray(ctx.ArrayProto, nil)
			arr.SetLength(n)
			return runtime.NewObjectValue(arr), nil
		}
		return ctx.NewArrayValue(args), nil
	})
	arrayCtor.Object.Set("isArray", ctx.NewNativeFunction("isArray", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		v := arg(args, 0)
		return runtime.NewBool(v.Type == runtime.TypeObject && v.Object != nil && v.Object.Kind == runtime.KindArray), nil
	}))
	ctx.SetGlobal("Array", arrayCtor)

	proto := ctx.ArrayProto

	defineMethod(ctx, proto, "push", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("push", this)
		if err != nil {
			return nil, err
		}
		for _, a := range args {
			obj.Append(a)
		}
		return runtime.NewNumber(obj.Length()), nil
	})

	defineMethod(ctx, proto, "pop", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("pop", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		if n == 0 {
			return runtime.Undefined, nil
		}
		val, _ := obj.Index(n - 1)
		obj.SetLength(n - 1)
		return val, nil
	})

	defineMethod(ctx, proto, "shift", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("shift", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		if n == 0 {
			return runtime.Undefined, nil
		}
		first, _ := obj.Index(0)
		for i := 1; i < n; i++ {
			if v, ok := obj.Index(i); ok {
				obj.SetIndex(i-1, v)
			} else {
				obj.Delete(indexKey(i - 1))
			}
		}
		obj.SetLength(n - 1)
		return first, nil
	})

	defineMethod(ctx, proto, "unshift", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("unshift", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		k := len(args)
		for i := n - 1; i >= 0; i-- {
			if v, ok := obj.Index(i); ok {
				obj.SetIndex(i+k, v)
			} else {
				obj.Delete(indexKey(i + k))
			}
		}
		for i, a := range args {
			obj.SetIndex(i, a)
		}
		if n+k > int(obj.Length()) {
			obj.SetLength(n + k)
		}
		return runtime.NewNumber(obj.Length()), nil
	})

	defineMethod(ctx, proto, "indexOf", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("indexOf", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		start := 0
		if len(args) > 1 {
			start = normalizeIndex(arg(args, 1).ToNumber(), n)
		}
		target := arg(args, 0)
		for i := start; i < n; i++ {
			if v, ok := obj.Index(i); ok && runtime.Equals(v, target) {
				return runtime.NewNumber(float64(i)), nil
			}
		}
		return runtime.NewNumber(-1), nil
	})

	defineMethod(ctx, proto, "join", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("join", this)
		if err != nil {
			return nil, err
		}
		sep := ","
		if len(args) > 0 && args[0].Type != runtime.TypeUndefined {
			sep = args[0].ToString()
		}
		n := int(obj.Length())
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			v, ok := obj.Index(i)
			if !ok || v.Type == runtime.TypeUndefined || v.Type == runtime.TypeNull {
				continue // holes, undefined and null render empty
			}
			parts[i] = v.ToString()
		}
		return runtime.NewString(strings.Join(parts, sep)), nil
	})

	defineMethod(ctx, proto, "slice", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("slice", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		begin := 0
		if len(args) > 0 && args[0].Type != runtime.TypeUndefined {
			begin = normalizeIndex(args[0].ToNumber(), n)
		}
		end := n
		if len(args) > 1 && args[1].Type != runtime.TypeUndefined {
			end = normalizeIndex(args[1].ToNumber(), n)
		}
		out := runtime.NewArray(ctx.ArrayProto, nil)
		for i := begin; i < end; i++ {
			if v, ok := obj.Index(i); ok {
				out.SetIndex(i-begin, v)
			}
		}
		if end > begin {
			out.SetLength(end - begin)
		}
		return runtime.NewObjectValue(out), nil
	})

	defineMethod(ctx, proto, "splice", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("splice", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		start := normalizeIndex(arg(args, 0).ToNumber(), n)
		deleteCount := n - start
		if len(args) > 1 {
			dc := int(arg(args, 1).ToNumber())
			if dc < 0 {
				dc = 0
			}
			if dc < deleteCount {
				deleteCount = dc
			}
		}
		var items []*runtime.Value
		if len(args) > 2 {
			items = args[2:]
		}

		// removed elements, holes preserved
		removed := runtime.NewArray(ctx.ArrayProto, nil)
		for i := 0; i < deleteCount; i++ {
			if v, ok := obj.Index(start + i); ok {
				removed.SetIndex(i, v)
			}
		}
		removed.SetLength(deleteCount)

		shift := len(items) - deleteCount
		switch {
		case shift < 0:
			for i := start + deleteCount; i < n; i++ {
				if v, ok := obj.Index(i); ok {
					obj.SetIndex(i+shift, v)
				} else {
					obj.Delete(indexKey(i + shift))
				}
			}
		case shift > 0:
			for i := n - 1; i >= start+deleteCount; i-- {
				if v, ok := obj.Index(i); ok {
					obj.SetIndex(i+shift, v)
				} else {
					obj.Delete(indexKey(i + shift))
				}
			}
		}
		for i, item := range items {
			obj.SetIndex(start+i, item)
		}
		obj.SetLength(n + shift)
		return runtime.NewObjectValue(removed), nil
	})

	defineMethod(ctx, proto, "concat", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("concat", this)
		if err != nil {
			return nil, err
		}
		out := runtime.NewArray(ctx.ArrayProto, nil)
		pos := 0
		appendFrom := func(src *runtime.Object) {
			n := int(src.Length())
			for i := 0; i < n; i++ {
				if v, ok := src.Index(i); ok {
					out.SetIndex(pos, v)
				}
				pos++
			}
		}
		appendFrom(obj)
		for _, a := range args {
			if a.Type == runtime.TypeObject && a.Object != nil && a.Object.Kind == runtime.KindArray {
				appendFrom(a.Object)
			} else {
				out.SetIndex(pos, a)
				pos++
			}
		}
		out.SetLength(pos)
		return runtime.NewObjectValue(out), nil
	})

	defineMethod(ctx, proto, "reverse", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("reverse", this)
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vi, oki := obj.Index(i)
			vj, okj := obj.Index(j)
			if okj {
				obj.SetIndex(i, vj)
			} else {
				obj.Delete(indexKey(i))
			}
			if oki {
				obj.SetIndex(j, vi)
			} else {
				obj.Delete(indexKey(j))
			}
		}
		return this, nil
	})

	defineMethod(ctx, proto, "forEach", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		_, err := iterate(rt, this, args, "forEach", func(*runtime.Value, int, *runtime.Value) (bool, error) {
			return false, nil
		})
		return runtime.Undefined, err
	})

	defineMethod(ctx, proto, "map", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("map", this)
		if err != nil {
			return nil, err
		}
		out := runtime.NewArray(ctx.ArrayProto, nil)
		_, err = iterate(rt, this, args, "map", func(result *runtime.Value, i int, _ *runtime.Value) (bool, error) {
			out.SetIndex(i, result)
			return false, nil
		})
		if err != nil {
			return nil, err
		}
		// result length matches the source even when it ends in holes
		if n := int(obj.Length()); n > int(out.Length()) {
			out.SetLength(n)
		}
		return runtime.NewObjectValue(out), nil
	})

	defineMethod(ctx, proto, "filter", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		out := runtime.NewArray(ctx.ArrayProto, nil)
		_, err := iterate(rt, this, args, "filter", func(result *runtime.Value, _ int, el *runtime.Value) (bool, error) {
			if result.ToBoolean() {
				out.Append(el)
			}
			return false, nil
		})
		if err != nil {
			return nil, err
		}
		return runtime.NewObjectValue(out), nil
	})

	defineMethod(ctx, proto, "some", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		hit, err := iterate(rt, this, args, "some", func(result *runtime.Value, _ int, _ *runtime.Value) (bool, error) {
			return result.ToBoolean(), nil
		})
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(hit >= 0), nil
	})

	defineMethod(ctx, proto, "every", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		miss, err := iterate(rt, this, args, "every", func(result *runtime.Value, _ int, _ *runtime.Value) (bool, error) {
			return !result.ToBoolean(), nil
		})
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(miss < 0), nil
	})

	defineMethod(ctx, proto, "find", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("find", this)
		if err != nil {
			return nil, err
		}
		hit, err := iterate(rt, this, args, "find", func(result *runtime.Value, _ int, _ *runtime.Value) (bool, error) {
			return result.ToBoolean(), nil
		})
		if err != nil {
			return nil, err
		}
		if hit < 0 {
			return runtime.Undefined, nil
		}
		v, _ := obj.Index(hit)
		return v, nil
	})

	defineMethod(ctx, proto, "findIndex", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		hit, err := iterate(rt, this, args, "findIndex", func(result *runtime.Value, _ int, _ *runtime.Value) (bool, error) {
			return result.ToBoolean(), nil
		})
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(float64(hit)), nil
	})

	defineMethod(ctx, proto, "reduce", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		obj, err := receiver("reduce", this)
		if err != nil {
			return nil, err
		}
		fn, err := callback("reduce", arg(args, 0))
		if err != nil {
			return nil, err
		}
		n := int(obj.Length())
		var acc *runtime.Value
		i := 0
		if len(args) > 1 {
			acc = args[1]
		} else {
			for i < n {
				if v, ok := obj.Index(i); ok {
					acc = v
					i++
					break
				}
				i++
			}
			if acc == nil {
				return nil, runtime.Throwf("reduce of empty array with no initial value")
			}
		}
		for ; i < n; i++ {
			v, ok := obj.Index(i)
			if !ok {
				continue
			}
			acc, err = rt.Call(fn, runtime.Undefined, []*runtime.Value{acc, v, runtime.NewNumber(float64(i)), this})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
}

func indexKey(i int) string {
	return runtime.FormatNumber(float64(i))
}

// iterate drives the element-callback methods: it snapshots the length,
// skips holes, invokes the callback as fn(element, index, array), and hands
// the result to decide. A true decision stops iteration and reports the
// index; -1 means the walk completed.
func iterate(rt runtime.Caller, this *runtime.Value, args []*runtime.Value, name string,
	decide func(result *runtime.Value, i int, el *runtime.Value) (bool, error)) (int, error) {
	obj, err := receiver(name, this)
	if err != nil {
		return -1, err
	}
	fn, err := callback(name, arg(args, 0))
	if err != nil {
		return -1, err
	}
	thisArg := arg(args, 1)

	n := int(obj.Length())
	for i := 0; i < n; i++ {
		el, ok := obj.Index(i)
		if !ok {
			continue
		}
		result, err := rt.Call(fn, thisArg, []*runtime.Value{el, runtime.NewNumber(float64(i)), this})
		if err != nil {
			return -1, err
		}
		stop, err := decide(result, i, el)
		if err != nil {
			return -1, err
		}
		if stop {
			return i, nil
		}
	}
	return -1, nil
}
