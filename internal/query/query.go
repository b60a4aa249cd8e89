// Package query executes compiled path-query expressions against a document
// tree. The document engine holds an Engine handle and delegates predicate
// evaluation to it; nothing in this package mutates a document.
package query

import (
	"strings"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
)

// Expression is a compiled query: a target path plus an optional filter over
// the values found there. When the target resolves to an array the filter is
// applied per element; otherwise it is applied to the single value.
type Expression struct {
	Target docpath.Path
	Filter Condition // nil means a bare existence probe
}

// Condition is a sealed filter node. Only Compare, And, and Or implement it.
type Condition interface {
	condNode()
}

// Operator enumerates the supported scalar comparisons.
type Operator string

const (
	OpEqualTo            Operator = "=="
	OpNotEqualTo         Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	// OpIn matches when the candidate scalar equals any element of the
	// expression value, which must be an array.
	OpIn Operator = "in"
)

// Compare filters a candidate by comparing one of its scalar fields to a
// literal value. An empty Field compares the candidate itself.
type Compare struct {
	Field string
	Op    Operator
	Value docval.Value
}

func (Compare) condNode() {}

// And matches when every child condition matches. Empty is vacuously true.
type And struct {
	Conditions []Condition
}

func (And) condNode() {}

// Or matches when at least one child condition matches.
type Or struct {
	Conditions []Condition
}

func (Or) condNode() {}

// Engine evaluates expressions. It is stateless; a single engine may serve
// any number of documents. It exists as a value so the document can carry an
// explicit handle instead of reaching for package-level state.
type Engine struct{}

// NewEngine returns a query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Exec resolves the expression target within root and returns the values
// matching the filter. A target that does not exist yields no matches; it
// is never an error.
func (e *Engine) Exec(root docval.Object, expr Expression) []docval.Value {
	target, ok := resolve(root, expr.Target)
	if !ok {
		return nil
	}

	var candidates []docval.Value
	if arr, isArr := target.(*docval.Array); isArr {
		candidates = arr.Elems
	} else {
		candidates = []docval.Value{target}
	}

	var matches []docval.Value
	for _, candidate := range candidates {
		if expr.Filter == nil || e.matches(candidate, expr.Filter) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

func (e *Engine) matches(candidate docval.Value, cond Condition) bool {
	switch c := cond.(type) {
	case Compare:
		return compare(fieldOf(candidate, c.Field), c.Op, c.Value)
	case And:
		for _, child := range c.Conditions {
			if !e.matches(candidate, child) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range c.Conditions {
			if e.matches(candidate, child) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func fieldOf(candidate docval.Value, field string) docval.Value {
	if field == "" {
		return candidate
	}
	obj, ok := candidate.(docval.Object)
	if !ok {
		return nil
	}
	return obj[field]
}

func compare(actual docval.Value, op Operator, expected docval.Value) bool {
	if actual == nil {
		return false
	}

	if op == OpIn {
		arr, ok := expected.(*docval.Array)
		if !ok {
			return false
		}
		for _, elem := range arr.Elems {
			if docval.ScalarEqual(actual, elem) {
				return true
			}
		}
		return false
	}

	switch op {
	case OpEqualTo:
		return docval.ScalarEqual(actual, expected)
	case OpNotEqualTo:
		return docval.IsScalar(actual) && !docval.ScalarEqual(actual, expected)
	}

	// Ordering operators: longs compare numerically, strings
	// lexicographically, anything else never matches.
	cmp, ok := order(actual, expected)
	if !ok {
		return false
	}
	switch op {
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessThanOrEqual:
		return cmp <= 0
	default:
		return false
	}
}

func order(actual, expected docval.Value) (int, bool) {
	switch av := actual.(type) {
	case docval.Long:
		ev, ok := expected.(docval.Long)
		if !ok {
			return 0, false
		}
		switch {
		case av < ev:
			return -1, true
		case av > ev:
			return 1, true
		default:
			return 0, true
		}
	case docval.String:
		ev, ok := expected.(docval.String)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(ev)), true
	default:
		return 0, false
	}
}

// resolve walks a path from root, returning the value it addresses. Any
// missing key, out-of-range index, or non-container along the way resolves
// to absent.
func resolve(root docval.Object, path docpath.Path) (docval.Value, bool) {
	var current docval.Value = root
	for _, seg := range path.Segments() {
		obj, ok := current.(docval.Object)
		if !ok {
			return nil, false
		}
		child, ok := obj[seg.Key]
		if !ok {
			return nil, false
		}
		if seg.HasIndex {
			arr, ok := child.(*docval.Array)
			if !ok {
				return nil, false
			}
			child, ok = arr.At(seg.Index)
			if !ok {
				return nil, false
			}
		}
		current = child
	}
	return current, true
}
