package runtime

// Environment is one lexical scope: a name→value mapping plus a read-only
// link to its parent. Closures share environments; a scope's own bindings
// are the only mutable part.
type Environment struct {
	store  map[string]*Value
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{store: make(map[string]*Value), parent: parent}
}

// Get resolves name by walking from the current scope outward. The second
// result is false when the name is not bound anywhere; callers typically
// treat that as undefined at the language level.
func (e *Environment) Get(name string) (*Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.store[name]; ok {
			return v, true
		}
	}
	return Undefined, false
}

// Set overwrites the binding in the nearest scope that already defines name.
// When no scope defines it, the binding is created in the global scope, not
// the local one: assignment to an undeclared name creates an implicit
// global.
func (e *Environment) Set(name string, v *Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.store[name]; ok {
			cur.store[name] = v
			return
		}
	}
	e.Global().store[name] = v
}

// DeclareLocal always defines name in the current scope. Used for var,
// parameters, and a function's own-name self-binding.
func (e *Environment) DeclareLocal(name string, v *Value) {
	e.store[name] = v
}

// HasLocal reports whether the current scope itself binds name, without
// consulting parents.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Global walks to the root scope.
func (e *Environment) Global() *Environment {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Remove implements delete on a bare identifier: a local binding is never
// removed (reports false), a global binding is (reports true). An unbound
// name deletes vacuously.
func (e *Environment) Remove(name string) bool {
	global := e.Global()
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.store[name]; ok {
			if cur != global {
				return false
			}
			delete(cur.store, name)
			return true
		}
	}
	return true
}
