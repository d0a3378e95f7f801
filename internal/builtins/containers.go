package builtins

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// registerArrayMembers installs the Array bound-method table (spec.md
// §4.6 "Containers"): append, pop, sort, sort_natural, reverse, contains.
func registerArrayMembers() {
	interp.RegisterMember("Array", "append", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot append to frozen array")
		}
		arr.Elements = append(arr.Elements, args[1:]...)
		return &interp.NullValue{}
	})
	interp.RegisterMember("Array", "pop", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot pop from frozen array")
		}
		if len(arr.Elements) == 0 {
			return interp.NewError(interp.IndexError, "pop from empty array")
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last
	})
	interp.RegisterMember("Array", "reverse", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
			arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
		}
		return arr
	})
	interp.RegisterMember("Array", "contains", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		for _, el := range arr.Elements {
			if interp.Equal(el, args[1]) {
				return &interp.BooleanValue{Value: true}
			}
		}
		return &interp.BooleanValue{Value: false}
	})
	// sort mirrors the global sort() builtin below (same permutation-based
	// algorithm), bound as a.sort([cmp]) for method-call style.
	interp.RegisterMember("Array", "sort", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		var cmp interp.Value
		if len(args) > 1 {
			cmp = args[1]
		}
		return arraySort(e, arr, cmp)
	})
	// sort_natural orders string elements the way a human would ("file2"
	// before "file10"), delegating to github.com/maruel/natural's Less,
	// the same library the teacher pack's CLI-tooling example pulls in
	// for human-friendly ordering.
	interp.RegisterMember("Array", "sort_natural", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		arr := args[0].(*interp.ArrayValue)
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot sort frozen array")
		}
		sort.SliceStable(arr.Elements, func(i, j int) bool {
			si, oki := arr.Elements[i].(*interp.StringValue)
			sj, okj := arr.Elements[j].(*interp.StringValue)
			if oki && okj {
				return natural.Less(si.Value, sj.Value)
			}
			return lessValue(arr.Elements[i], arr.Elements[j])
		})
		return arr
	})
}

func lessValue(a, b interp.Value) bool {
	switch av := a.(type) {
	case *interp.IntegerValue:
		if bv, ok := b.(*interp.IntegerValue); ok {
			return av.Value < bv.Value
		}
	case *interp.DoubleValue:
		if bv, ok := b.(*interp.DoubleValue); ok {
			return av.Value < bv.Value
		}
	case *interp.StringValue:
		if bv, ok := b.(*interp.StringValue); ok {
			return av.Value < bv.Value
		}
	}
	return false
}

// compareLess runs the comparator (cmp if given, else the `<` infix
// operator) between a and b, returning its bool result or the first
// error value the comparator (or the default operator) produced.
func compareLess(e *interp.Evaluator, cmp interp.Value, a, b interp.Value) (bool, *interp.ErrorValue) {
	var res interp.Value
	if cmp != nil {
		res = e.Call(cmp, []interp.Value{a, b})
	} else {
		res = interp.LessThan(a, b)
	}
	if ev, ok := res.(*interp.ErrorValue); ok {
		return false, ev
	}
	bv, ok := res.(*interp.BooleanValue)
	if !ok {
		return false, interp.NewError(interp.TypeError, "comparator must return a bool")
	}
	return bv.Value, nil
}

// arraySort implements the Sort contract (spec.md §4.4): sort a
// permutation of arr's indices (rather than arr.Elements directly) so
// that if cmp raises partway through, arr's data is left completely
// unchanged and sort() reports failure with false, instead of leaving
// the array half-reordered.
func arraySort(e *interp.Evaluator, arr *interp.ArrayValue, cmp interp.Value) interp.Value {
	if arr.IsFrozen() {
		return interp.NewError(interp.ConstError, "cannot sort frozen array")
	}
	n := len(arr.Elements)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	var cmpErr *interp.ErrorValue
	sort.SliceStable(perm, func(i, j int) bool {
		if cmpErr != nil {
			return false
		}
		less, err := compareLess(e, cmp, arr.Elements[perm[i]], arr.Elements[perm[j]])
		if err != nil {
			cmpErr = err
			return false
		}
		return less
	})
	if cmpErr != nil {
		return &interp.BooleanValue{Value: false}
	}
	reordered := make([]interp.Value, n)
	for i, p := range perm {
		reordered[i] = arr.Elements[p]
	}
	arr.Elements = reordered
	return &interp.BooleanValue{Value: true}
}

// isSortedArray reports whether arr is already ordered under cmp (or the
// default `<`), without mutating it; a comparator error propagates as
// that error value.
func isSortedArray(e *interp.Evaluator, arr *interp.ArrayValue, cmp interp.Value) interp.Value {
	for i := 1; i < len(arr.Elements); i++ {
		less, err := compareLess(e, cmp, arr.Elements[i], arr.Elements[i-1])
		if err != nil {
			return err
		}
		if less {
			return &interp.BooleanValue{Value: false}
		}
	}
	return &interp.BooleanValue{Value: true}
}

func optionalComparator(args []interp.Value, minArgs int) interp.Value {
	if len(args) > minArgs {
		return args[minArgs]
	}
	return nil
}

// registerContainerGlobals installs the container constructors and
// free-function array/dict operations spec.md §6 names as globals
// alongside (not instead of) their bound-method equivalents: array,
// array_double, array_complex, dict, set, append, slice, update,
// rotate, rotated, reverse, reversed, sort, sorted, is_sorted, keys,
// values.
func registerContainerGlobals(e *interp.Evaluator) {
	def := func(name string, fn interp.BuiltinFunc) {
		_ = e.Global.Define(name, builtin(name, fn), nil, true)
	}

	def("array", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		return &interp.ArrayValue{Elements: append([]interp.Value{}, args...)}
	})
	def("array_double", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		elems := make([]float64, len(args))
		for i, a := range args {
			f, ok := asFloat(a)
			if !ok {
				return interp.NewError(interp.TypeError, "array_double() arguments must be numeric")
			}
			elems[i] = f
		}
		return &interp.ArrayDoubleValue{Elements: elems}
	})
	def("array_complex", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		elems := make([]complex128, len(args))
		for i, a := range args {
			if cv, ok := a.(*interp.ComplexValue); ok {
				elems[i] = complex(cv.Real, cv.Imag)
				continue
			}
			f, ok := asFloat(a)
			if !ok {
				return interp.NewError(interp.TypeError, "array_complex() arguments must be numeric")
			}
			elems[i] = complex(f, 0)
		}
		return &interp.ArrayComplexValue{Elements: elems}
	})
	def("dict", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args)%2 != 0 {
			return interp.NewError(interp.TypeError, "dict() requires key/value pairs")
		}
		d := interp.NewDict()
		for i := 0; i < len(args); i += 2 {
			if err := d.Set(args[i], args[i+1]); err != nil {
				return interp.NewError(interp.ValueError, err.Error())
			}
		}
		return d
	})
	def("set", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := interp.NewSet()
		for _, a := range args {
			if err := s.Add(a); err != nil {
				return interp.NewError(interp.ValueError, err.Error())
			}
		}
		return s
	})

	def("append", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) < 1 {
			return arityError("append", 1, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "append() requires an array")
		}
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot append to frozen array")
		}
		arr.Elements = append(arr.Elements, args[1:]...)
		return arr
	})
	def("slice", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) < 3 || len(args) > 4 {
			return interp.NewError(interp.TypeError, "slice() expects (container, start, stop[, step])")
		}
		start, ok1 := args[1].(*interp.IntegerValue)
		stop, ok2 := args[2].(*interp.IntegerValue)
		if !ok1 || !ok2 {
			return interp.NewError(interp.TypeError, "slice() bounds must be int")
		}
		step := int64(1)
		if len(args) == 4 {
			sv, ok := args[3].(*interp.IntegerValue)
			if !ok {
				return interp.NewError(interp.TypeError, "slice() step must be int")
			}
			step = sv.Value
		}
		if step == 0 {
			return interp.NewError(interp.ValueError, "slice() step must not be 0")
		}
		switch c := args[0].(type) {
		case *interp.ArrayValue:
			idxs := sliceIndices(len(c.Elements), start.Value, stop.Value, step)
			out := make([]interp.Value, len(idxs))
			for i, idx := range idxs {
				out[i] = c.Elements[idx]
			}
			return &interp.ArrayValue{Elements: out}
		case *interp.StringValue:
			runes := []rune(c.Value)
			idxs := sliceIndices(len(runes), start.Value, stop.Value, step)
			out := make([]rune, len(idxs))
			for i, idx := range idxs {
				out[i] = runes[idx]
			}
			return &interp.StringValue{Value: string(out)}
		}
		return interp.NewError(interp.TypeError, "slice() not defined for "+args[0].Tag())
	})
	def("update", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("update", 2, len(args))
		}
		d, ok := args[0].(*interp.DictValue)
		if !ok {
			return interp.NewError(interp.TypeError, "update() requires a dict")
		}
		if d.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot mutate frozen dictionary")
		}
		other, ok := args[1].(*interp.DictValue)
		if !ok {
			return interp.NewError(interp.TypeError, "update() requires a dict argument")
		}
		for i, k := range other.Keys {
			if err := d.Set(k, other.Values[i]); err != nil {
				return interp.NewError(interp.ValueError, err.Error())
			}
		}
		return d
	})
	def("rotate", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("rotate", 2, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "rotate() requires an array")
		}
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot rotate frozen array")
		}
		n, ok := args[1].(*interp.IntegerValue)
		if !ok {
			return interp.NewError(interp.TypeError, "rotate() shift must be int")
		}
		arr.Elements = rotateElements(arr.Elements, int(n.Value))
		return arr
	})
	def("rotated", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("rotated", 2, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "rotated() requires an array")
		}
		n, ok := args[1].(*interp.IntegerValue)
		if !ok {
			return interp.NewError(interp.TypeError, "rotated() shift must be int")
		}
		return &interp.ArrayValue{Elements: rotateElements(arr.Elements, int(n.Value))}
	})
	def("reverse", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("reverse", 1, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "reverse() requires an array")
		}
		if arr.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot reverse frozen array")
		}
		for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
			arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
		}
		return arr
	})
	def("reversed", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("reversed", 1, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "reversed() requires an array")
		}
		out := make([]interp.Value, len(arr.Elements))
		for i, el := range arr.Elements {
			out[len(out)-1-i] = el
		}
		return &interp.ArrayValue{Elements: out}
	})
	def("sort", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) < 1 || len(args) > 2 {
			return interp.NewError(interp.TypeError, "sort() expects (array[, comparator])")
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "sort() requires an array")
		}
		return arraySort(e, arr, optionalComparator(args, 1))
	})
	def("sorted", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) < 1 || len(args) > 2 {
			return interp.NewError(interp.TypeError, "sorted() expects (array[, comparator])")
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "sorted() requires an array")
		}
		copyArr := &interp.ArrayValue{Elements: append([]interp.Value{}, arr.Elements...)}
		arraySort(e, copyArr, optionalComparator(args, 1))
		return copyArr
	})
	def("is_sorted", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) < 1 || len(args) > 2 {
			return interp.NewError(interp.TypeError, "is_sorted() expects (array[, comparator])")
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "is_sorted() requires an array")
		}
		return isSortedArray(e, arr, optionalComparator(args, 1))
	})
	def("keys", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("keys", 1, len(args))
		}
		d, ok := args[0].(*interp.DictValue)
		if !ok {
			return interp.NewError(interp.TypeError, "keys() requires a dict")
		}
		return &interp.ArrayValue{Elements: append([]interp.Value{}, d.Keys...)}
	})
	def("values", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("values", 1, len(args))
		}
		d, ok := args[0].(*interp.DictValue)
		if !ok {
			return interp.NewError(interp.TypeError, "values() requires a dict")
		}
		return &interp.ArrayValue{Elements: append([]interp.Value{}, d.Values...)}
	})
}

// rotateElements returns a fresh slice shifted left by n positions
// (negative n shifts right), wrapping modulo the slice length.
func rotateElements(elems []interp.Value, n int) []interp.Value {
	ln := len(elems)
	if ln == 0 {
		return elems
	}
	n = ((n % ln) + ln) % ln
	out := make([]interp.Value, ln)
	copy(out, elems[n:])
	copy(out[ln-n:], elems[:n])
	return out
}

// normalizeSliceIndex folds a negative slice bound by the same modulo
// wrap as indexing a single element (calls.go's normalizeIndex in
// internal/interp) rather than a single length adjustment.
func normalizeSliceIndex(i, n int64) int64 {
	if i >= 0 || n <= 0 {
		return i
	}
	abs := -i
	return (n - (abs % n)) % n
}

func sliceIndices(n int, start, stop, step int64) []int {
	nn := int64(n)
	s := normalizeSliceIndex(start, nn)
	stopN := normalizeSliceIndex(stop, nn)
	var out []int
	if step > 0 {
		for i := s; i < stopN && i < nn; i += step {
			if i >= 0 {
				out = append(out, int(i))
			}
		}
	} else {
		for i := s; i > stopN && i >= 0; i += step {
			if i < nn {
				out = append(out, int(i))
			}
		}
	}
	return out
}

// registerDictMembers installs keys/values/has_key/get/remove
// (spec.md §4.6).
func registerDictMembers() {
	interp.RegisterMember("Dictionary", "keys", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		d := args[0].(*interp.DictValue)
		return &interp.ArrayValue{Elements: append([]interp.Value{}, d.Keys...)}
	})
	interp.RegisterMember("Dictionary", "values", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		d := args[0].(*interp.DictValue)
		return &interp.ArrayValue{Elements: append([]interp.Value{}, d.Values...)}
	})
	interp.RegisterMember("Dictionary", "has_key", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		d := args[0].(*interp.DictValue)
		_, ok := d.Get(args[1])
		return &interp.BooleanValue{Value: ok}
	})
	interp.RegisterMember("Dictionary", "get", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		d := args[0].(*interp.DictValue)
		if v, ok := d.Get(args[1]); ok {
			return v
		}
		if len(args) > 2 {
			return args[2]
		}
		return &interp.NullValue{}
	})
	interp.RegisterMember("Dictionary", "remove", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		d := args[0].(*interp.DictValue)
		if d.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot mutate frozen dictionary")
		}
		d.Delete(args[1])
		return &interp.NullValue{}
	})
}

// registerSetMembers installs add/contains/union/intersection
// (spec.md §4.6).
func registerSetMembers() {
	interp.RegisterMember("Set", "add", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.SetValue)
		if s.IsFrozen() {
			return interp.NewError(interp.ConstError, "cannot mutate frozen set")
		}
		if err := s.Add(args[1]); err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		return &interp.NullValue{}
	})
	interp.RegisterMember("Set", "contains", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.SetValue)
		return &interp.BooleanValue{Value: s.Has(args[1])}
	})
	interp.RegisterMember("Set", "union", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.SetValue)
		other := args[1].(*interp.SetValue)
		out := interp.NewSet()
		for _, el := range s.Elements {
			_ = out.Add(el)
		}
		for _, el := range other.Elements {
			_ = out.Add(el)
		}
		return out
	})
	interp.RegisterMember("Set", "intersection", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.SetValue)
		other := args[1].(*interp.SetValue)
		out := interp.NewSet()
		for _, el := range s.Elements {
			if other.Has(el) {
				_ = out.Add(el)
			}
		}
		return out
	})
}
