// Package interp implements the luci evaluator: the runtime Value model,
// lexical Environment, the mutually recursive evalX family, the
// freeze/hash protocol, and destructor-on-scope-exit (spec.md §3, §4.4,
// §4.7). The format mini-language lives in internal/builtins.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/types"
)

// Value is a runtime value in the luci interpreter. All concrete value
// types embed Base for the shared frozen-counter/declared-type fields
// spec.md §3 requires every value to carry.
type Value interface {
	// Tag returns the value's runtime tag name (e.g. "Integer", "Array").
	Tag() string
	// String renders the value for print()/format() and diagnostics.
	String() string
	// Inspect renders a debug/REPL form; for containers, recurses with
	// quoting (e.g. strings inside an array are quoted, but not at top
	// level — spec.md §6 "print(x): strings are printed unquoted").
	Inspect() string
	// base returns the shared Base fields for the freeze/declared-type
	// protocol without exposing them for direct mutation outside this
	// package.
	base() *Base
}

// Base carries the frozen counter and optional declared-type pointer
// every value carries per spec.md §3's invariants.
type Base struct {
	Frozen       int
	DeclaredType ast.TypeExpr // preserved from a `let x: T = …` site; nil if none
}

var (
	vtInt     = identTypeExpr("int")
	vtDouble  = identTypeExpr("double")
	vtComplex = identTypeExpr("complex")
	vtBool    = identTypeExpr("bool")
	vtChar    = identTypeExpr("char")
	vtStr     = identTypeExpr("str")
	vtRange   = identTypeExpr("range")
	vtError   = identTypeExpr("error")
	vtIO      = identTypeExpr("io")
	vtModule  = identTypeExpr("module")
	vtThread  = identTypeExpr("thread")
	vtRegex   = identTypeExpr("regex")
	vtNull    ast.TypeExpr = &ast.NullType{}
	vtAll     ast.TypeExpr = &ast.AllType{}
)

func identTypeExpr(name string) ast.TypeExpr {
	return &ast.IdentifierType{Name: name}
}

// ValueType computes the type expression a runtime value satisfies, for
// the declared-type compatibility check an assignment performs (spec.md
// §4.4) and for pinning an `any`-declared binding to its first-assigned
// value's type (spec.md §4.3). Aggregate element types are folded the
// same way types.ComputeType folds literal elements; a value with no
// useful static shape (closures over builtins, bound methods, control
// values) reports `all` so the compatibility check never blocks it.
func ValueType(v Value) ast.TypeExpr {
	switch vv := v.(type) {
	case *NullValue:
		return vtNull
	case *IntegerValue:
		return vtInt
	case *DoubleValue:
		return vtDouble
	case *ComplexValue:
		return vtComplex
	case *BooleanValue:
		return vtBool
	case *CharValue:
		return vtChar
	case *StringValue:
		return vtStr
	case *RangeValue:
		return vtRange
	case *ErrorValue:
		return vtError
	case *IOObjectValue:
		return vtIO
	case *ModuleValue:
		return vtModule
	case *ThreadValue:
		return vtThread
	case *RegexValue:
		return vtRegex
	case *ArrayValue:
		elem := make([]ast.TypeExpr, len(vv.Elements))
		for i, e := range vv.Elements {
			elem[i] = ValueType(e)
		}
		return &ast.ArrayType{Element: types.MergeAll(elem)}
	case *ArrayDoubleValue:
		return &ast.ArrayType{Element: vtDouble}
	case *ArrayComplexValue:
		return &ast.ArrayType{Element: vtComplex}
	case *DictValue:
		keys := make([]ast.TypeExpr, len(vv.Keys))
		vals := make([]ast.TypeExpr, len(vv.Values))
		for i := range vv.Keys {
			keys[i] = ValueType(vv.Keys[i])
			vals[i] = ValueType(vv.Values[i])
		}
		return &ast.DictType{Key: types.MergeAll(keys), Value: types.MergeAll(vals)}
	case *SetValue:
		elem := make([]ast.TypeExpr, len(vv.Elements))
		for i, e := range vv.Elements {
			elem[i] = ValueType(e)
		}
		return &ast.SetType{Element: types.MergeAll(elem)}
	case *FunctionValue:
		params := make([]ast.TypeExpr, len(vv.Params))
		for i, p := range vv.Params {
			if p.DeclaredType != nil {
				params[i] = p.DeclaredType
			} else {
				params[i] = vtAll
			}
		}
		ret := vv.Return
		if ret == nil {
			ret = vtAll
		}
		return &ast.FunctionType{Parameters: params, Return: ret}
	case *UserObjectValue:
		return &ast.UserTypeRef{Name: vv.Type.Name}
	default:
		return vtAll
	}
}

func (b *Base) base() *Base { return b }

// Freeze increments the frozen counter.
func (b *Base) Freeze() { b.Frozen++ }

// Defrost decrements the frozen counter, clamped at 0.
func (b *Base) Defrost() {
	if b.Frozen > 0 {
		b.Frozen--
	}
}

// IsFrozen reports whether the value may not be mutated right now.
func (b *Base) IsFrozen() bool { return b.Frozen > 0 }

// --- scalar values -----------------------------------------------------------

type NullValue struct{ Base }

func (v *NullValue) Tag() string    { return "Null" }
func (v *NullValue) String() string  { return "null" }
func (v *NullValue) Inspect() string { return "null" }

type IntegerValue struct {
	Base
	Value int64
}

func (v *IntegerValue) Tag() string    { return "Integer" }
func (v *IntegerValue) String() string  { return strconv.FormatInt(v.Value, 10) }
func (v *IntegerValue) Inspect() string { return v.String() }

type DoubleValue struct {
	Base
	Value float64
}

func (v *DoubleValue) Tag() string   { return "Double" }
func (v *DoubleValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}
func (v *DoubleValue) Inspect() string { return v.String() }

type ComplexValue struct {
	Base
	Real, Imag float64
}

func (v *ComplexValue) Tag() string { return "Complex" }
func (v *ComplexValue) String() string {
	sign := "+"
	if v.Imag < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s%si", strconv.FormatFloat(v.Real, 'g', -1, 64), sign,
		strconv.FormatFloat(abs(v.Imag), 'g', -1, 64))
}
func (v *ComplexValue) Inspect() string { return v.String() }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

type BooleanValue struct {
	Base
	Value bool
}

func (v *BooleanValue) Tag() string { return "Boolean" }
func (v *BooleanValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}
func (v *BooleanValue) Inspect() string { return v.String() }

type CharValue struct {
	Base
	Value rune
}

func (v *CharValue) Tag() string    { return "Char" }
func (v *CharValue) String() string  { return string(v.Value) }
func (v *CharValue) Inspect() string { return "'" + string(v.Value) + "'" }

type StringValue struct {
	Base
	Value string
}

func (v *StringValue) Tag() string    { return "String" }
func (v *StringValue) String() string  { return v.Value }
func (v *StringValue) Inspect() string { return "\"" + v.Value + "\"" }

// RangeValue is `lower..upper` with a stride, per spec.md §3.
type RangeValue struct {
	Base
	Lower, Upper, Stride int64
}

func (v *RangeValue) Tag() string { return "Range" }
func (v *RangeValue) String() string {
	return fmt.Sprintf("range(%d, %d, %d)", v.Lower, v.Upper, v.Stride)
}
func (v *RangeValue) Inspect() string { return v.String() }

// Len returns the number of elements a full iteration of the range
// produces (zero for an empty or degenerate range).
func (v *RangeValue) Len() int {
	if v.Stride == 0 {
		return 0
	}
	if v.Stride > 0 {
		if v.Upper <= v.Lower {
			return 0
		}
		return int((v.Upper - v.Lower + v.Stride - 1) / v.Stride)
	}
	if v.Lower <= v.Upper {
		return 0
	}
	return int((v.Lower - v.Upper - v.Stride - 1) / -v.Stride)
}

// --- aggregate values ---------------------------------------------------------

// ArrayValue is an ordered, reference-shared sequence of values.
type ArrayValue struct {
	Base
	Elements []Value
}

func (v *ArrayValue) Tag() string { return "Array" }
func (v *ArrayValue) String() string {
	return v.join(false)
}
func (v *ArrayValue) Inspect() string { return v.join(true) }
func (v *ArrayValue) join(quote bool) string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		if quote {
			parts[i] = e.Inspect()
		} else {
			parts[i] = e.Inspect()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ArrayDoubleValue is a specialized dense array of doubles.
type ArrayDoubleValue struct {
	Base
	Elements []float64
}

func (v *ArrayDoubleValue) Tag() string { return "ArrayDouble" }
func (v *ArrayDoubleValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = strconv.FormatFloat(e, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *ArrayDoubleValue) Inspect() string { return v.String() }

// ArrayComplexValue is a specialized dense array of complex numbers.
type ArrayComplexValue struct {
	Base
	Elements []complex128
}

func (v *ArrayComplexValue) Tag() string { return "ArrayComplex" }
func (v *ArrayComplexValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = fmt.Sprintf("%g+%gi", real(e), imag(e))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *ArrayComplexValue) Inspect() string { return v.String() }

// DictValue preserves insertion order for display while HashKey lookups
// use the map below (spec.md: "Dictionary (insertion-agnostic mapping)" —
// iteration order is not semantically meaningful, but a stable display
// order makes output reproducible within one run).
type DictValue struct {
	Base
	Keys   []Value
	Values []Value
	index  map[string]int // HashKey() -> position in Keys/Values
}

func NewDict() *DictValue { return &DictValue{index: map[string]int{}} }

func (v *DictValue) Tag() string { return "Dictionary" }
func (v *DictValue) String() string {
	parts := make([]string, len(v.Keys))
	for i := range v.Keys {
		parts[i] = v.Keys[i].Inspect() + ": " + v.Values[i].Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v *DictValue) Inspect() string { return v.String() }

// Get looks up key by HashKey(), returning (value, true) if present.
func (v *DictValue) Get(key Value) (Value, bool) {
	hk, err := HashKey(key)
	if err != nil {
		return nil, false
	}
	if i, ok := v.index[hk]; ok {
		return v.Values[i], true
	}
	return nil, false
}

// Set inserts or updates key -> val.
func (v *DictValue) Set(key, val Value) error {
	hk, err := HashKey(key)
	if err != nil {
		return err
	}
	if i, ok := v.index[hk]; ok {
		v.Values[i] = val
		return nil
	}
	if v.index == nil {
		v.index = map[string]int{}
	}
	v.index[hk] = len(v.Keys)
	v.Keys = append(v.Keys, key)
	v.Values = append(v.Values, val)
	return nil
}

// Delete removes key if present.
func (v *DictValue) Delete(key Value) {
	hk, err := HashKey(key)
	if err != nil {
		return
	}
	i, ok := v.index[hk]
	if !ok {
		return
	}
	v.Keys = append(v.Keys[:i], v.Keys[i+1:]...)
	v.Values = append(v.Values[:i], v.Values[i+1:]...)
	delete(v.index, hk)
	for k, idx := range v.index {
		if idx > i {
			v.index[k] = idx - 1
		}
	}
}

// SetValue is an unordered collection of distinct, hashable values.
type SetValue struct {
	Base
	Elements []Value
	index    map[string]int
}

func NewSet() *SetValue { return &SetValue{index: map[string]int{}} }

func (v *SetValue) Tag() string { return "Set" }
func (v *SetValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v *SetValue) Inspect() string { return v.String() }

// Add inserts val if not already present (by hash equality).
func (v *SetValue) Add(val Value) error {
	hk, err := HashKey(val)
	if err != nil {
		return err
	}
	if _, ok := v.index[hk]; ok {
		return nil
	}
	if v.index == nil {
		v.index = map[string]int{}
	}
	v.index[hk] = len(v.Elements)
	v.Elements = append(v.Elements, val)
	return nil
}

// Has reports whether val is a member.
func (v *SetValue) Has(val Value) bool {
	hk, err := HashKey(val)
	if err != nil {
		return false
	}
	_, ok := v.index[hk]
	return ok
}

// --- functions / builtins -----------------------------------------------------

// FunctionValue captures its argument list (with declared types), return
// type, body, and the defining environment — a strong reference, so the
// closure keeps its scope alive (spec.md §3 invariant).
type FunctionValue struct {
	Base
	Name   string // "" for anonymous function literals
	Params []ast.Parameter
	Return ast.TypeExpr
	Body   *ast.BlockStatement
	Env    *Environment
}

func (v *FunctionValue) Tag() string { return "Function" }
func (v *FunctionValue) String() string {
	if v.Name != "" {
		return "<function " + v.Name + ">"
	}
	return "<function>"
}
func (v *FunctionValue) Inspect() string { return v.String() }

// BuiltinFunc is the native implementation signature every Builtin value
// wraps: receive already-evaluated arguments, return a Value (an Error
// value on failure — builtins never panic for user-triggered conditions).
type BuiltinFunc func(e *Evaluator, args []Value) Value

// BuiltinValue wraps a native function pointer plus its declared function
// type, used for type-inference and arity checking (spec.md §4.4
// "Built-in types").
type BuiltinValue struct {
	Base
	Name string
	Type *ast.FunctionType
	Fn   BuiltinFunc
}

func (v *BuiltinValue) Tag() string    { return "Builtin" }
func (v *BuiltinValue) String() string  { return "<builtin " + v.Name + ">" }
func (v *BuiltinValue) Inspect() string { return v.String() }

// PropertySlot is one UserType property definition: its default value
// expression (evaluated fresh per instance), const flag, and declared
// type.
type PropertySlot struct {
	Const        bool
	DeclaredType ast.TypeExpr
	Default      ast.Expression
}

// UserTypeValue is a program-defined aggregate type: name, doc, a
// method table, and a property-defaults table (spec.md §3, §4.4).
type UserTypeValue struct {
	Base
	Name       string
	Doc        string
	Methods    map[string]*FunctionValue
	Properties map[string]PropertySlot
}

func (v *UserTypeValue) Tag() string    { return "UserType" }
func (v *UserTypeValue) String() string  { return "<type " + v.Name + ">" }
func (v *UserTypeValue) Inspect() string { return v.String() }

// UserObjectValue is an instance of a UserTypeValue: a per-instance
// property map and an optional destructor (the `destruct` method,
// detached and invoked exactly once on scope exit per spec.md §4.7).
type UserObjectValue struct {
	Base
	Type       *UserTypeValue
	Properties map[string]Value
	Destructor *FunctionValue // nil once invoked/detached
}

func (v *UserObjectValue) Tag() string { return "UserObject" }
func (v *UserObjectValue) String() string {
	return "<" + v.Type.Name + " instance>"
}
func (v *UserObjectValue) Inspect() string { return v.String() }

// ErrorValue is a structured error: kind, message, optional originating
// token (spec.md §3, §7). ErrorKind values are the taxonomy in spec.md §6.
type ErrorValue struct {
	Base
	Kind    ErrorKind
	Message string
	HasTok  bool
	TokLine int
	TokCol  int
}

func (v *ErrorValue) Tag() string    { return "Error" }
func (v *ErrorValue) String() string  { return v.Kind.String() + ": " + v.Message }
func (v *ErrorValue) Inspect() string { return v.String() }

// ErrorKind is the closed taxonomy exported (as integers) from the
// error_type built-in module (spec.md §6).
type ErrorKind int

const (
	UndefinedError ErrorKind = iota
	TypeError
	ConstError
	IdentifierNotFound
	IdentifierAlreadyExists
	ValueError
	KeyError
	IndexError
	ImportError
	SyntaxError
	OSError
)

var errorKindNames = map[ErrorKind]string{
	UndefinedError: "UndefinedError", TypeError: "TypeError", ConstError: "ConstError",
	IdentifierNotFound: "IdentifierNotFound", IdentifierAlreadyExists: "IdentifierAlreadyExists",
	ValueError: "ValueError", KeyError: "KeyError", IndexError: "IndexError",
	ImportError: "ImportError", SyntaxError: "SyntaxError", OSError: "OSError",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UndefinedError"
}

// NewError constructs an Error value of the given kind/message.
func NewError(kind ErrorKind, msg string) *ErrorValue {
	return &ErrorValue{Kind: kind, Message: msg}
}

// --- control-flow carriers (never user-visible) -------------------------------

// ReturnValue, BreakValue, ContinueValue and Exit are never inspected by
// user code directly; they bubble up through statement lists and loops
// until consumed at their matching construct (spec.md §4.4).
type ReturnValue struct {
	Base
	Value Value
}

func (v *ReturnValue) Tag() string    { return "ReturnValue" }
func (v *ReturnValue) String() string  { return v.Value.String() }
func (v *ReturnValue) Inspect() string { return v.String() }

type BreakValue struct{ Base }

func (v *BreakValue) Tag() string    { return "BreakValue" }
func (v *BreakValue) String() string  { return "<break>" }
func (v *BreakValue) Inspect() string { return v.String() }

type ContinueValue struct{ Base }

func (v *ContinueValue) Tag() string    { return "ContinueValue" }
func (v *ContinueValue) String() string  { return "<continue>" }
func (v *ContinueValue) Inspect() string { return v.String() }

// ExitValue carries the process exit code requested by exit(n); it
// cooperatively unwinds to the top of evalProgram (spec.md §5
// "Cancellation").
type ExitValue struct {
	Base
	Code int
}

func (v *ExitValue) Tag() string    { return "Exit" }
func (v *ExitValue) String() string  { return fmt.Sprintf("<exit %d>", v.Code) }
func (v *ExitValue) Inspect() string { return v.String() }

// --- module / misc values -----------------------------------------------------

// ModuleState tracks a module's loading lifecycle (spec.md §4.5).
type ModuleState int

const (
	ModuleUnknown ModuleState = iota
	ModuleDefined
	ModuleLoaded
)

type ModuleValue struct {
	Base
	Name  string
	State ModuleState
	Env   *Environment
	File  string // "" for built-in modules
}

func (v *ModuleValue) Tag() string    { return "Module" }
func (v *ModuleValue) String() string  { return "<module " + v.Name + ">" }
func (v *ModuleValue) Inspect() string { return v.String() }

// IOObjectValue wraps an open file stream (spec.md §3, §6).
type IOObjectValue struct {
	Base
	Path   string
	Mode   string
	Closed bool
	data   []byte
	pos    int
}

func (v *IOObjectValue) Tag() string    { return "IOObject" }
func (v *IOObjectValue) String() string  { return "<io " + v.Path + ">" }
func (v *IOObjectValue) Inspect() string { return v.String() }

// RegexValue wraps a compiled regular expression (spec.md §3, §6).
type RegexValue struct {
	Base
	Pattern string
}

func (v *RegexValue) Tag() string    { return "Regex" }
func (v *RegexValue) String() string  { return "<regex " + v.Pattern + ">" }
func (v *RegexValue) Inspect() string { return v.String() }

// BoundBuiltinTypeFunction / BoundBuiltinTypeProperty / BoundUserTypeFunction /
// BoundUserTypeProperty carry a receiver plus a method/property slot
// reference, produced by member access and consumed by call or by
// member-assignment (GLOSSARY "Bound function/property").
type BoundBuiltinTypeFunction struct {
	Base
	Receiver Value
	Name     string
	Fn       BuiltinFunc
	Type     *ast.FunctionType
}

func (v *BoundBuiltinTypeFunction) Tag() string    { return "BoundBuiltinTypeFunction" }
func (v *BoundBuiltinTypeFunction) String() string  { return "<bound " + v.Name + ">" }
func (v *BoundBuiltinTypeFunction) Inspect() string { return v.String() }

type BoundBuiltinTypeProperty struct {
	Base
	Receiver Value
	Name     string
}

func (v *BoundBuiltinTypeProperty) Tag() string    { return "BoundBuiltinTypeProperty" }
func (v *BoundBuiltinTypeProperty) String() string  { return "<bound property " + v.Name + ">" }
func (v *BoundBuiltinTypeProperty) Inspect() string { return v.String() }

type BoundUserTypeFunction struct {
	Base
	Receiver Value
	Method   *FunctionValue
}

func (v *BoundUserTypeFunction) Tag() string { return "BoundUserTypeFunction" }
func (v *BoundUserTypeFunction) String() string {
	return "<bound method " + v.Method.Name + ">"
}
func (v *BoundUserTypeFunction) Inspect() string { return v.String() }

type BoundUserTypeProperty struct {
	Base
	Receiver *UserObjectValue
	Name     string
}

func (v *BoundUserTypeProperty) Tag() string    { return "BoundUserTypeProperty" }
func (v *BoundUserTypeProperty) String() string  { return "<bound property " + v.Name + ">" }
func (v *BoundUserTypeProperty) Inspect() string { return v.String() }

// ObjectFreezer is a lifetime-scoped increment of an owned value's freeze
// counter (GLOSSARY, spec.md §3, §4.4 "for loop"). Release decrements.
type ObjectFreezer struct {
	Base
	Target Value
}

func (v *ObjectFreezer) Tag() string    { return "ObjectFreezer" }
func (v *ObjectFreezer) String() string  { return "<freezer>" }
func (v *ObjectFreezer) Inspect() string { return v.String() }

// NewFreezer increments target's freeze counter and returns a guard whose
// Release decrements it again. Used by for-loop iteration to guarantee
// the iterable cannot be mutated mid-loop (spec.md §4.4, §5).
func NewFreezer(target Value) *ObjectFreezer {
	target.base().Freeze()
	return &ObjectFreezer{Target: target}
}

// Release decrements the target's freeze counter. Safe to call at most
// once per NewFreezer call (idempotence is the caller's responsibility,
// typically via defer).
func (f *ObjectFreezer) Release() {
	f.Target.base().Defrost()
}

// ThreadValue wraps a function + optional argument that `.start()` runs
// on an independent evaluator over a cloned environment (spec.md §5).
type ThreadValue struct {
	Base
	Fn       *FunctionValue
	Arg      Value
	started  bool
	done     bool
	result   Value
	waitChan chan struct{}
}

func (v *ThreadValue) Tag() string    { return "Thread" }
func (v *ThreadValue) String() string  { return "<thread>" }
func (v *ThreadValue) Inspect() string { return v.String() }

// --- equality / hashing --------------------------------------------------------

// Equal implements structural equality for aggregates and by-value
// equality for scalars; mismatched, incompatible tags are never equal
// (spec.md §3 invariant).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *IntegerValue:
		switch bv := b.(type) {
		case *IntegerValue:
			return av.Value == bv.Value
		case *DoubleValue:
			return float64(av.Value) == bv.Value
		}
		return false
	case *DoubleValue:
		switch bv := b.(type) {
		case *DoubleValue:
			return av.Value == bv.Value
		case *IntegerValue:
			return av.Value == float64(bv.Value)
		}
		return false
	case *BooleanValue:
		bv, ok := b.(*BooleanValue)
		return ok && av.Value == bv.Value
	case *CharValue:
		bv, ok := b.(*CharValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *ComplexValue:
		bv, ok := b.(*ComplexValue)
		return ok && av.Real == bv.Real && av.Imag == bv.Imag
	case *RangeValue:
		bv, ok := b.(*RangeValue)
		return ok && av.Lower == bv.Lower && av.Upper == bv.Upper && av.Stride == bv.Stride
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *DictValue:
		bv, ok := b.(*DictValue)
		if !ok || len(av.Keys) != len(bv.Keys) {
			return false
		}
		for i, k := range av.Keys {
			other, ok := bv.Get(k)
			if !ok || !Equal(av.Values[i], other) {
				return false
			}
		}
		return true
	case *SetValue:
		bv, ok := b.(*SetValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for _, e := range av.Elements {
			if !bv.Has(e) {
				return false
			}
		}
		return true
	case *UserObjectValue:
		bv, ok := b.(*UserObjectValue)
		return ok && av == bv
	default:
		return a == b
	}
}

// IsHashable reports whether v may be used as a dict/set key: frozen
// (transitively, for containers) and, for aggregates, every contained
// value hashable too (spec.md §3 invariants).
func IsHashable(v Value) bool {
	switch vv := v.(type) {
	case *ArrayValue:
		if !vv.IsFrozen() {
			return false
		}
		for _, e := range vv.Elements {
			if !IsHashable(e) {
				return false
			}
		}
		return true
	case *DictValue:
		if !vv.IsFrozen() {
			return false
		}
		for i := range vv.Keys {
			if !IsHashable(vv.Keys[i]) || !IsHashable(vv.Values[i]) {
				return false
			}
		}
		return true
	case *SetValue:
		if !vv.IsFrozen() {
			return false
		}
		for _, e := range vv.Elements {
			if !IsHashable(e) {
				return false
			}
		}
		return true
	case *UserObjectValue:
		return vv.IsFrozen()
	default:
		return true // scalars are always hashable
	}
}

// HashKey computes a string hash key for v, failing for unhashable
// aggregates (spec.md §3 "Array, Dictionary, and Set hash only when
// frozen and every transitively contained value is hashable").
func HashKey(v Value) (string, error) {
	if !IsHashable(v) {
		return "", fmt.Errorf("unhashable value of tag %s", v.Tag())
	}
	switch vv := v.(type) {
	case *NullValue:
		return "null", nil
	case *IntegerValue:
		return "i:" + strconv.FormatInt(vv.Value, 10), nil
	case *DoubleValue:
		return "d:" + strconv.FormatFloat(vv.Value, 'g', -1, 64), nil
	case *BooleanValue:
		return "b:" + strconv.FormatBool(vv.Value), nil
	case *CharValue:
		return "c:" + string(vv.Value), nil
	case *StringValue:
		return "s:" + vv.Value, nil
	case *ComplexValue:
		return fmt.Sprintf("x:%g:%g", vv.Real, vv.Imag), nil
	case *RangeValue:
		return fmt.Sprintf("r:%d:%d:%d", vv.Lower, vv.Upper, vv.Stride), nil
	case *ArrayValue:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			k, err := HashKey(e)
			if err != nil {
				return "", err
			}
			parts[i] = k
		}
		return "a:[" + strings.Join(parts, ",") + "]", nil
	case *SetValue:
		parts := make([]string, len(vv.Elements))
		for i, e := range vv.Elements {
			k, err := HashKey(e)
			if err != nil {
				return "", err
			}
			parts[i] = k
		}
		sort.Strings(parts)
		return "e:{" + strings.Join(parts, ",") + "}", nil
	case *DictValue:
		parts := make([]string, len(vv.Keys))
		for i := range vv.Keys {
			kk, err := HashKey(vv.Keys[i])
			if err != nil {
				return "", err
			}
			vk, err := HashKey(vv.Values[i])
			if err != nil {
				return "", err
			}
			parts[i] = kk + "=" + vk
		}
		sort.Strings(parts)
		return "m:{" + strings.Join(parts, ",") + "}", nil
	case *UserObjectValue:
		return fmt.Sprintf("u:%p", vv), nil
	default:
		return fmt.Sprintf("v:%p", v), nil
	}
}

// IsTruthy implements scalar-only truthiness (spec.md §4.4 "if"): a
// boolean by its value, an integer by non-zero, null as false, anything
// else by identity (always true — "otherwise the value is truthy").
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case *BooleanValue:
		return vv.Value
	case *IntegerValue:
		return vv.Value != 0
	case *NullValue:
		return false
	default:
		return true
	}
}

// Clone produces a value-typed copy: scalars are copied by value;
// aggregates are deep-cloned so that `clone(x) == x` but mutating the
// clone never affects x (spec.md §8 testable property).
func Clone(v Value) Value {
	switch vv := v.(type) {
	case *IntegerValue:
		c := *vv
		return &c
	case *DoubleValue:
		c := *vv
		return &c
	case *ComplexValue:
		c := *vv
		return &c
	case *BooleanValue:
		c := *vv
		return &c
	case *CharValue:
		c := *vv
		return &c
	case *StringValue:
		c := *vv
		return &c
	case *NullValue:
		c := *vv
		return &c
	case *RangeValue:
		c := *vv
		return &c
	case *ArrayValue:
		elems := make([]Value, len(vv.Elements))
		for i, e := range vv.Elements {
			elems[i] = Clone(e)
		}
		return &ArrayValue{Elements: elems}
	case *ArrayDoubleValue:
		elems := make([]float64, len(vv.Elements))
		copy(elems, vv.Elements)
		return &ArrayDoubleValue{Elements: elems}
	case *ArrayComplexValue:
		elems := make([]complex128, len(vv.Elements))
		copy(elems, vv.Elements)
		return &ArrayComplexValue{Elements: elems}
	case *DictValue:
		d := NewDict()
		for i := range vv.Keys {
			_ = d.Set(Clone(vv.Keys[i]), Clone(vv.Values[i]))
		}
		return d
	case *SetValue:
		s := NewSet()
		for _, e := range vv.Elements {
			_ = s.Add(Clone(e))
		}
		return s
	case *UserObjectValue:
		props := make(map[string]Value, len(vv.Properties))
		for k, val := range vv.Properties {
			props[k] = Clone(val)
		}
		return &UserObjectValue{Type: vv.Type, Properties: props, Destructor: vv.Destructor}
	default:
		// Functions, modules, IO handles etc. are reference-shared:
		// cloning returns the same reference (spec.md §9 "shared_ptr-based
		// graphs" — aliasing is semantically observable for these tags).
		return v
	}
}
