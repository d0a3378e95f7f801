package interp

// builtinMembers holds the bound-method/property table for built-in
// (non-user) tags — e.g. `arr.append(x)`, `s.upper()`, `d.keys()`.
// internal/builtins populates this at init time via RegisterMember, so
// interp never imports builtins (avoiding an import cycle) while still
// letting member access on scalar/container values dispatch to
// library-backed implementations (spec.md §4.4 "Built-in types").
var builtinMembers = map[string]map[string]BuiltinFunc{}

// RegisterMember installs a bound-method implementation for tag.name,
// called with the receiver prepended to the call arguments.
func RegisterMember(tag, name string, fn BuiltinFunc) {
	m, ok := builtinMembers[tag]
	if !ok {
		m = map[string]BuiltinFunc{}
		builtinMembers[tag] = m
	}
	m[name] = fn
}

func lookupBuiltinMember(receiver Value, name string) (*BoundBuiltinTypeFunction, bool) {
	m, ok := builtinMembers[receiver.Tag()]
	if !ok {
		return nil, false
	}
	fn, ok := m[name]
	if !ok {
		return nil, false
	}
	return &BoundBuiltinTypeFunction{Receiver: receiver, Name: name, Fn: fn}, true
}
