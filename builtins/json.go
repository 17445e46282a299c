package builtins

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installJSON exposes the JSON object with parse and stringify.
func installJSON(ctx *interpreter.Context) {
	jsonObj := runtime.NewObject(ctx.ObjectProto)

	defineMethod(ctx, jsonObj, "parse", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		var decoded interface{}
		if err := json.Unmarshal([]byte(arg(args, 0).ToString()), &decoded); err != nil {
			return nil, runtime.Throwf("JSON.parse: %s", err)
		}
		result := decodedToValue(ctx, decoded)

		reviver := arg(args, 1)
		if !reviver.IsCallable() {
			return result, nil
		}
		holder := runtime.NewObject(ctx.ObjectProto)
		holder.Set("", result)
		return revive(rt, reviver, runtime.NewObjectValue(holder), "")
	})

	defineMethod(ctx, jsonObj, "stringify", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		s := &stringifier{rt: rt, seen: make(map[*runtime.Object]bool)}
		s.configure(arg(args, 1), arg(args, 2))

		holder := runtime.NewObject(ctx.ObjectProto)
		holder.Set("", arg(args, 0))
		text, present, err := s.value(runtime.NewObjectValue(holder), "", "")
		if err != nil {
			return nil, err
		}
		if !present {
			return runtime.Undefined, nil
		}
		return runtime.NewString(text), nil
	})

	ctx.SetGlobal("JSON", runtime.NewObjectValue(jsonObj))
}

// decodedToValue converts the stdlib decoding of a JSON document into
// script values. A "__proto__" key in source text is dropped rather than
// materialized as a property.
func decodedToValue(ctx *interpreter.Context, v interface{}) *runtime.Value {
	switch x := v.(type) {
	case nil:
		return runtime.Null
	case bool:
		return runtime.NewBool(x)
	case float64:
		return runtime.NewNumber(x)
	case string:
		return runtime.NewString(x)
	case []interface{}:
		elements := make([]*runtime.Value, len(x))
		for i, el := range x {
			elements[i] = decodedToValue(ctx, el)
		}
		return ctx.NewArrayValue(elements)
	case map[string]interface{}:
		obj := runtime.NewObject(ctx.ObjectProto)
		for k, el := range x {
			if k == "__proto__" {
				continue
			}
			obj.Set(k, decodedToValue(ctx, el))
		}
		return runtime.NewObjectValue(obj)
	default:
		return runtime.Undefined
	}
}

// revive applies a parse reviver bottom-up. The reviver runs on every
// key/value pair after the pair's children; returning undefined deletes the
// key from its holder.
func revive(rt runtime.Caller, reviver, holderVal *runtime.Value, key string) (*runtime.Value, error) {
	val, _ := holderVal.Object.Get(key)
	if val.Type == runtime.TypeObject && val.Object != nil {
		for _, k := range val.Object.OwnKeys() {
			revived, err := revive(rt, reviver, val, k)
			if err != nil {
				return nil, err
			}
			if revived.Type == runtime.TypeUndefined {
				val.Object.Delete(k)
			} else {
				val.Object.Set(k, revived)
			}
		}
	}
	return rt.Call(reviver, holderVal, []*runtime.Value{runtime.NewString(key), val})
}

type stringifier struct {
	rt       runtime.Caller
	seen     map[*runtime.Object]bool
	replacer *runtime.Value // callable replacer
	allow    []string       // key allow-list from an array replacer
	indent   string
}

func (s *stringifier) configure(replacer, space *runtime.Value) {
	if replacer.IsCallable() {
		s.replacer = replacer
	} else if replacer.Type == runtime.TypeObject && replacer.Object != nil && replacer.Object.Kind == runtime.KindArray {
		n := int(replacer.Object.Length())
		for i := 0; i < n; i++ {
			v, ok := replacer.Object.Index(i)
			if !ok {
				continue
			}
			if v.Type == runtime.TypeString || v.Type == runtime.TypeNumber {
				s.allow = append(s.allow, v.ToString())
			}
		}
		if s.allow == nil {
			s.allow = []string{}
		}
	}

	switch space.Type {
	case runtime.TypeNumber:
		n := int(space.Number)
		if n > 10 {
			n = 10
		}
		if n > 0 {
			s.indent = strings.Repeat(" ", n)
		}
	case runtime.TypeString:
		str := space.Str
		if len(str) > 10 {
			str = str[:10]
		}
		s.indent = str
	}
}

// value serializes holder[key]. The present flag is false when the value
// does not serialize at all (undefined or a function), which omits the pair
// in objects and becomes null in arrays.
func (s *stringifier) value(holderVal *runtime.Value, key, gap string) (string, bool, error) {
	val, _ := holderVal.Object.Get(key)

	// toJSON runs before the replacer sees the value
	if val.Type == runtime.TypeObject && val.Object != nil {
		if toJSON, ok := val.Object.Get("toJSON"); ok && toJSON.IsCallable() {
			replaced, err := s.rt.Call(toJSON, val, []*runtime.Value{runtime.NewString(key)})
			if err != nil {
				return "", false, err
			}
			val = replaced
		}
	}
	if s.replacer != nil {
		replaced, err := s.rt.Call(s.replacer, holderVal, []*runtime.Value{runtime.NewString(key), val})
		if err != nil {
			return "", false, err
		}
		val = replaced
	}

	switch val.Type {
	case runtime.TypeUndefined:
		return "", false, nil
	case runtime.TypeNull:
		return "null", true, nil
	case runtime.TypeBoolean:
		return val.ToString(), true, nil
	case runtime.TypeNumber:
		if math.IsNaN(val.Number) || math.IsInf(val.Number, 0) {
			return "null", true, nil
		}
		return runtime.FormatNumber(val.Number), true, nil
	case runtime.TypeString:
		return quoteJSON(val.Str), true, nil
	case runtime.TypeObject:
		if val.IsCallable() {
			return "", false, nil
		}
		return s.object(val, gap)
	default:
		return "", false, nil
	}
}

func (s *stringifier) object(val *runtime.Value, gap string) (string, bool, error) {
	obj := val.Object
	if s.seen[obj] {
		return "", false, runtime.Throwf("JSON.stringify: converting circular structure")
	}
	s.seen[obj] = true
	defer delete(s.seen, obj)

	inner := gap + s.indent
	lead, trail := "", ""
	if s.indent != "" {
		lead = "\n" + inner
		trail = "\n" + gap
	}

	if obj.Kind == runtime.KindArray {
		n := int(obj.Length())
		if n == 0 {
			return "[]", true, nil
		}
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			text, present, err := s.value(val, indexKey(i), inner)
			if err != nil {
				return "", false, err
			}
			if !present {
				text = "null" // holes, undefined and functions
			}
			parts[i] = text
		}
		sep := ","
		if s.indent != "" {
			sep = "," + lead
		}
		return "[" + lead + strings.Join(parts, sep) + trail + "]", true, nil
	}

	keys := obj.OwnKeys()
	if s.allow != nil {
		keys = s.allow
	}
	var parts []string
	for _, k := range keys {
		if s.allow != nil && !obj.HasOwn(k) {
			continue
		}
		text, present, err := s.value(val, k, inner)
		if err != nil {
			return "", false, err
		}
		if !present {
			continue
		}
		colon := ":"
		if s.indent != "" {
			colon = ": "
		}
		parts = append(parts, quoteJSON(k)+colon+text)
	}
	if len(parts) == 0 {
		return "{}", true, nil
	}
	sep := ","
	if s.indent != "" {
		sep = "," + lead
	}
	return "{" + lead + strings.Join(parts, sep) + trail + "}", true, nil
}

func quoteJSON(s string) string {
	out, err := json.Marshal(s)
	if err != nil {
		return "\"\""
	}
	return string(out)
}
