// Package predicate models the typed visibility and eligibility conditions
// program authors attach to screens. A predicate is a tree of leaf
// comparisons combined with AND/OR; leaves compile to query expressions
// that the document engine executes.
package predicate

import (
	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/query"
)

// Node is a sealed predicate tree node. Only Leaf, AndNode, and OrNode
// implement it.
type Node interface {
	predicateNode()
}

// Leaf compares one scalar of an answered question against a literal value.
type Leaf struct {
	// QuestionID identifies the question the comparison depends on; programs
	// use it to validate that predicates only reference earlier screens.
	QuestionID int64
	// Path addresses the question's answer object within the document.
	Path docpath.Path
	// Scalar is the key of the compared scalar inside the answer object,
	// e.g. "text" or "entity_name".
	Scalar string
	Op     query.Operator
	Value  docval.Value
}

func (Leaf) predicateNode() {}

// AndNode matches when all children match.
type AndNode struct {
	Children []Node
}

func (AndNode) predicateNode() {}

// OrNode matches when any child matches.
type OrNode struct {
	Children []Node
}

func (OrNode) predicateNode() {}

// Compile lowers a leaf into the query expression the document engine
// understands: probe the answer path and filter on the scalar.
func (l Leaf) Compile() query.Expression {
	return query.Expression{
		Target: l.Path,
		Filter: query.Compare{Field: l.Scalar, Op: l.Op, Value: l.Value},
	}
}

// QuestionIDs returns every question a predicate tree depends on.
func QuestionIDs(node Node) []int64 {
	var ids []int64
	walk(node, func(l Leaf) {
		ids = append(ids, l.QuestionID)
	})
	return ids
}

func walk(node Node, visit func(Leaf)) {
	switch n := node.(type) {
	case Leaf:
		visit(n)
	case AndNode:
		for _, child := range n.Children {
			walk(child, visit)
		}
	case OrNode:
		for _, child := range n.Children {
			walk(child, visit)
		}
	}
}

// Action says what a matching predicate does to its screen.
type Action string

const (
	ActionShowBlock Action = "show"
	ActionHideBlock Action = "hide"
)

// Definition pairs a predicate tree with the action it drives.
type Definition struct {
	Root   Node
	Action Action
}

// DataSource is the slice of the document engine the evaluator needs. The
// applicant document satisfies it.
type DataSource interface {
	EvalPredicate(query.Expression) bool
}

// Evaluator resolves predicate trees against one applicant's answers.
// Comparison semantics live in the compiled expressions; the evaluator only
// delegates leaves and combines results.
type Evaluator struct {
	src DataSource
}

// NewEvaluator creates an evaluator over the given answer source.
func NewEvaluator(src DataSource) *Evaluator {
	return &Evaluator{src: src}
}

// Evaluate walks the tree. A leaf whose path has no answer evaluates to
// false, never an error.
func (e *Evaluator) Evaluate(node Node) bool {
	switch n := node.(type) {
	case Leaf:
		return e.src.EvalPredicate(n.Compile())
	case AndNode:
		for _, child := range n.Children {
			if !e.Evaluate(child) {
				return false
			}
		}
		return true
	case OrNode:
		for _, child := range n.Children {
			if e.Evaluate(child) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
