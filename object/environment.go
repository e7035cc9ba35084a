package object

import "sort"

// Environment associates names with values. Every Environment except the global one has an outer Environment, and name
// lookups walk outwards through that chain.
// An Environment never knows about the environments nested inside it, so closures and sibling scopes can share one
// parent and the chain can never form a cycle.
type Environment struct {
	store map[string]Object // store holds the bindings made in this layer only
	outer *Environment
}

// NewEnvironment initializes a new Environment NOT enclosed (Environment.outer is nil!) and returns a pointer to it.
// If you want to create a new environment with an enclosing environment you should call NewEnclosedEnvironment
// instead!
func NewEnvironment() *Environment {
	s := make(map[string]Object)
	return &Environment{store: s, outer: nil}
}

// NewEnclosedEnvironment creates a new, empty Environment whose outer (enclosing) environment is outer.
// The evaluator creates one per block, per function call and per variable declaration.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Outer returns the enclosing Environment, nil for the global one.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Define binds name to val in this Environment, overwriting any binding of the same name made in this layer.
// Bindings of the same name in outer environments are shadowed, not touched.
func (e *Environment) Define(name string, val Object) {
	e.store[name] = val
}

// Get looks name up in this Environment and then in every enclosing one.
// It returns an *UndefinedVariableError when no environment in the chain binds name.
func (e *Environment) Get(name string) (Object, error) {
	for env := e; env != nil; env = env.outer {
		if obj, ok := env.store[name]; ok {
			return obj, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Assign replaces the value of the nearest existing binding of name and returns val.
// Unlike Define it never creates a binding: assigning to a name nothing defines is an *UndefinedVariableError.
func (e *Environment) Assign(name string, val Object) (Object, error) {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return val, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Names returns the sorted names bound in this layer, outer environments are not included.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
