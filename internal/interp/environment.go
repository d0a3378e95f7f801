package interp

import (
	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/types"
)

// binding pairs a stored value with the declared type recorded at its
// `let` site (nil for an unannotated binding), so that a later
// assignment can be checked against it and `any`-pinning (spec.md §4.3)
// can consult the first-assigned value's computed type.
//
// pinnedTyp is only meaningful when declTyp is `any`: it records the
// computed type of the first value ever assigned to this binding, so a
// later assignment of a structurally different type is rejected (spec.md
// §4.3's any-pinning rule) rather than silently accepted the way a bare
// `any` site otherwise would be.
type binding struct {
	value     Value
	declTyp   ast.TypeExpr
	isConst   bool
	pinnedTyp ast.TypeExpr
}

// Environment is a lexically scoped binding table with an outer-chain
// pointer, grounded on the teacher's map-based scope/outer design.
// Closures hold a strong reference to their defining Environment, so a
// function literal keeps its whole enclosing scope chain alive (spec.md
// §3 invariant, §9 "no cycle collector needed because ownership is
// tree-shaped").
type Environment struct {
	store map[string]*binding
	outer *Environment
}

// NewEnvironment creates a root environment with no outer scope.
func NewEnvironment() *Environment {
	return &Environment{store: map[string]*binding{}}
}

// NewEnclosedEnvironment creates a child scope of outer, used for block
// bodies, function calls, for/while loop bodies and scope{} blocks.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: map[string]*binding{}, outer: outer}
}

// Get resolves name by walking the outer-chain, spec.md §4.2 "lexical
// scoping: a name resolves to the nearest enclosing binding".
func (e *Environment) Get(name string) (Value, bool) {
	b, ok := e.lookup(name)
	if !ok {
		return nil, false
	}
	return b.value, true
}

func (e *Environment) lookup(name string) (*binding, bool) {
	if b, ok := e.store[name]; ok {
		return b, true
	}
	if e.outer != nil {
		return e.outer.lookup(name)
	}
	return nil, false
}

// Has reports whether name is bound in this scope or an enclosing one.
func (e *Environment) Has(name string) bool {
	_, ok := e.lookup(name)
	return ok
}

// HasLocal reports whether name is bound directly in this scope
// (ignoring outer scopes), used to detect re-declaration within one
// block (spec.md §6 IdentifierAlreadyExists).
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.store[name]
	return ok
}

// Define introduces a new binding in this scope (a `let` statement).
// Returns an Error value (IdentifierAlreadyExists) if name is already
// bound in this exact scope.
func (e *Environment) Define(name string, val Value, declTyp ast.TypeExpr, isConst bool) *ErrorValue {
	if e.HasLocal(name) {
		return NewError(IdentifierAlreadyExists, "identifier already exists: "+name)
	}
	b := &binding{value: val, declTyp: declTyp, isConst: isConst}
	if _, isAny := declTyp.(*ast.AnyType); isAny {
		b.pinnedTyp = ValueType(val)
	}
	e.store[name] = b
	return nil
}

// Set assigns to an existing binding found anywhere on the outer-chain.
// Returns IdentifierNotFound if name is unbound, ConstError if the
// binding was declared `const` (spec.md §6), or TypeError if computedTyp
// is incompatible with the binding's declared type — including the
// any-pinning rule, once a pin exists (spec.md §4.4 "Identifier ->
// look up binding, check declared-type compatibility, replace value").
// computedTyp may be nil (e.g. a for-loop's internal rebinding), in
// which case the type check is skipped.
func (e *Environment) Set(name string, val Value, computedTyp ast.TypeExpr) *ErrorValue {
	b, ok := e.lookup(name)
	if !ok {
		return NewError(IdentifierNotFound, "identifier not found: "+name)
	}
	if b.isConst {
		return NewError(ConstError, "cannot assign to const: "+name)
	}
	if b.declTyp != nil && computedTyp != nil {
		if !types.IsCompatibleWithValue(b.declTyp, computedTyp, b.pinnedTyp) {
			return NewError(TypeError, "incompatible type "+computedTyp.TypeString()+" for "+name)
		}
		if _, isAny := b.declTyp.(*ast.AnyType); isAny && b.pinnedTyp == nil {
			b.pinnedTyp = computedTyp
		}
	}
	b.value = val
	return nil
}

// LookupType implements types.Context: the declared type recorded at
// the binding's `let` site, or (if unannotated) the computed type of
// its current value — used to pin `any`-declared bindings to the type
// of their first-assigned value (spec.md §4.3).
func (e *Environment) LookupType(name string) (ast.TypeExpr, bool) {
	b, ok := e.lookup(name)
	if !ok {
		return nil, false
	}
	if b.declTyp != nil {
		return b.declTyp, true
	}
	return ValueType(b.value), true
}

// DeclaredType returns the declared type recorded at name's `let` site
// and whether name is bound at all.
func (e *Environment) DeclaredType(name string) (ast.TypeExpr, bool) {
	b, ok := e.lookup(name)
	if !ok {
		return nil, false
	}
	return b.declTyp, true
}

// Names returns the names bound directly in this scope (spec.md
// §4.8 "scope_names()"), not walking the outer chain — scope_names()
// reports the caller's own local scope, not everything currently
// reachable from it.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for name := range e.store {
		names = append(names, name)
	}
	return names
}

// Clone produces a fresh environment with the same bindings (by
// reference) but no outer link, used to give thread() an independent
// evaluator over a starting snapshot of the spawning scope (spec.md §5
// "Concurrency").
func (e *Environment) Clone() *Environment {
	clone := NewEnvironment()
	for k, v := range e.store {
		cp := *v
		clone.store[k] = &cp
	}
	return clone
}
