package docval

// Value is a sealed interface over the kinds a document tree may hold.
// Only Null, String, Long, Bool, Object, and *Array implement it.
// There is no float kind: the engine stores dates as epoch milliseconds
// and currency as integer cents, so every number in a document is a long.
type Value interface {
	docValue()
}

// Null is an explicit null. Typed writes store Null when the raw input is
// empty, which is distinct from the path being absent.
type Null struct{}

func (Null) docValue() {}

// String is a string scalar.
type String string

func (String) docValue() {}

// Long is an integer scalar. Always int64.
type Long int64

func (Long) docValue() {}

// Bool is a boolean scalar. The engine never writes booleans itself but
// tolerates them when hydrating documents produced elsewhere.
type Bool bool

func (Bool) docValue() {}

// Object is a map of field names to values. Objects are mutated in place
// by the document engine.
type Object map[string]Value

func (Object) docValue() {}

// Array holds an ordered list of values. It is a pointer type so that
// appends and deletions are visible through the parent that holds it.
type Array struct {
	Elems []Value
}

func (*Array) docValue() {}

// NewArray creates an array from the given elements.
func NewArray(elems ...Value) *Array {
	return &Array{Elems: elems}
}

// Append adds a value to the end of the array.
func (a *Array) Append(v Value) {
	a.Elems = append(a.Elems, v)
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.Elems)
}

// At returns the element at index i, or false if i is out of range.
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.Elems) {
		return nil, false
	}
	return a.Elems[i], true
}

// Remove deletes the element at index i, shifting later elements down.
// Out-of-range indices are a no-op.
func (a *Array) Remove(i int) {
	if i < 0 || i >= len(a.Elems) {
		return
	}
	a.Elems = append(a.Elems[:i], a.Elems[i+1:]...)
}

// IsScalar reports whether v is a leaf value rather than a container.
func IsScalar(v Value) bool {
	switch v.(type) {
	case Object, *Array:
		return false
	default:
		return true
	}
}

// ScalarEqual compares two scalar values for equality. Containers and
// mismatched kinds compare unequal.
func ScalarEqual(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Long:
		bv, ok := b.(Long)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return false
	}
}

// Clone returns a deep copy of v. Scalars are returned as-is since they
// are immutable by construction.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	case *Array:
		out := &Array{Elems: make([]Value, len(val.Elems))}
		for i, elem := range val.Elems {
			out.Elems[i] = Clone(elem)
		}
		return out
	default:
		return v
	}
}
