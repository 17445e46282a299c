package runtime

import (
	"sort"
	"strconv"
)

// ObjectKind discriminates the object shapes the runtime knows about.
type ObjectKind int

const (
	KindOrdinary ObjectKind = iota
	KindArray
	KindFunction
)

// Object is a plain object: a string-keyed property map plus a distinguished
// internal prototype reference. Arrays are plain objects with decimal-string
// index keys and a numeric "length" property; holes (missing indices below
// length) are legal. Function objects additionally carry Fn.
type Object struct {
	Kind  ObjectKind
	Props map[string]*Value
	Proto *Object
	Fn    *Function
}

func NewObject(proto *Object) *Object {
	return &Object{Kind: KindOrdinary, Props: make(map[string]*Value), Proto: proto}
}

// NewArray creates an array-shaped object holding the given elements.
// A nil element leaves a hole at that index.
func NewArray(proto *Object, elements []*Value) *Object {
	obj := &Object{Kind: KindArray, Props: make(map[string]*Value), Proto: proto}
	for i, el := range elements {
		if el != nil {
			obj.Props[strconv.Itoa(i)] = el
		}
	}
	obj.Props["length"] = NewNumber(float64(len(elements)))
	return obj
}

// NewFunctionObject wraps a Function into an object. The own "prototype"
// property gets a fresh plain object so 'new' constructions have somewhere
// to hang methods.
func NewFunctionObject(fn *Function, proto, objectProto *Object) *Object {
	obj := &Object{Kind: KindFunction, Props: make(map[string]*Value), Proto: proto, Fn: fn}
	obj.Props["prototype"] = NewObjectValue(NewObject(objectProto))
	return obj
}

// Get resolves key against own properties, then the prototype chain.
// The second result is false when the chain is exhausted; host-language
// methods are never exposed.
func (o *Object) Get(key string) (*Value, bool) {
	for cur := o; cur != nil; cur = cur.Proto {
		if v, ok := cur.Props[key]; ok {
			return v, true
		}
	}
	return Undefined, false
}

// Set always writes an own property; it never walks the prototype chain.
// Writing an index key on an array keeps length in sync.
func (o *Object) Set(key string, v *Value) {
	if o.Kind == KindArray {
		if idx, ok := arrayIndex(key); ok {
			o.Props[key] = v
			if float64(idx) >= o.Length() {
				o.Props["length"] = NewNumber(float64(idx + 1))
			}
			return
		}
	}
	o.Props[key] = v
}

// Delete removes an own key. It reports true even when the key was absent,
// matching relaxed delete semantics.
func (o *Object) Delete(key string) bool {
	delete(o.Props, key)
	return true
}

func (o *Object) HasOwn(key string) bool {
	_, ok := o.Props[key]
	return ok
}

// Length reads the numeric length property of an array-shaped object.
func (o *Object) Length() float64 {
	if v, ok := o.Props["length"]; ok && v.Type == TypeNumber {
		return v.Number
	}
	return 0
}

// SetLength truncates an array to n elements, deleting own index keys at or
// above the new length.
func (o *Object) SetLength(n int) {
	old := int(o.Length())
	for i := n; i < old; i++ {
		delete(o.Props, strconv.Itoa(i))
	}
	o.Props["length"] = NewNumber(float64(n))
}

// Index reads an array element, reporting false for a hole.
func (o *Object) Index(i int) (*Value, bool) {
	v, ok := o.Props[strconv.Itoa(i)]
	if !ok {
		return Undefined, false
	}
	return v, true
}

// SetIndex writes an array element, growing length as needed.
func (o *Object) SetIndex(i int, v *Value) {
	o.Set(strconv.Itoa(i), v)
}

// Append pushes a value at the current length.
func (o *Object) Append(v *Value) {
	o.SetIndex(int(o.Length()), v)
}

// OwnKeys returns the enumerable own keys: for arrays the present
// decimal-string indices in order (holes skipped, length excluded), for
// ordinary objects the own mapping keys sorted for determinism.
func (o *Object) OwnKeys() []string {
	if o.Kind == KindArray {
		n := int(o.Length())
		keys := make([]string, 0, n)
		for i := 0; i < n; i++ {
			key := strconv.Itoa(i)
			if _, ok := o.Props[key]; ok {
				keys = append(keys, key)
			}
		}
		return keys
	}
	keys := make([]string, 0, len(o.Props))
	for k := range o.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// arrayIndex reports whether key is a canonical decimal array index.
func arrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	if strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}

// ArrayIndex is the exported form of the index-key test.
func ArrayIndex(key string) (int, bool) { return arrayIndex(key) }
