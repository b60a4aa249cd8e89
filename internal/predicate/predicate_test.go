package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openbenefits/formd/internal/docpath"
	"github.com/openbenefits/formd/internal/docval"
	"github.com/openbenefits/formd/internal/query"
	"github.com/openbenefits/formd/internal/scalar"
)

// stubSource answers leaf evaluations by target path string.
type stubSource struct {
	results map[string]bool
}

func (s *stubSource) EvalPredicate(expr query.Expression) bool {
	return s.results[expr.Target.String()]
}

func leafFor(id int64, path string) Leaf {
	return Leaf{
		QuestionID: id,
		Path:       docpath.MustParse(path),
		Scalar:     scalar.Text,
		Op:         query.OpEqualTo,
		Value:      docval.String("yellow"),
	}
}

func TestLeafCompile(t *testing.T) {
	leaf := leafFor(1, "applicant.favorite_color")
	expr := leaf.Compile()

	assert.Equal(t, "applicant.favorite_color", expr.Target.String())
	cmp, ok := expr.Filter.(query.Compare)
	assert.True(t, ok)
	assert.Equal(t, scalar.Text, cmp.Field)
	assert.Equal(t, query.OpEqualTo, cmp.Op)
	assert.Equal(t, docval.String("yellow"), cmp.Value)
}

func TestEvaluateLeaf(t *testing.T) {
	src := &stubSource{results: map[string]bool{"applicant.favorite_color": true}}
	eval := NewEvaluator(src)

	assert.True(t, eval.Evaluate(leafFor(1, "applicant.favorite_color")))
	assert.False(t, eval.Evaluate(leafFor(2, "applicant.unanswered")))
}

func TestEvaluateAndOr(t *testing.T) {
	src := &stubSource{results: map[string]bool{"a": true, "b": false}}
	eval := NewEvaluator(src)

	yes := leafFor(1, "a")
	no := leafFor(2, "b")

	assert.True(t, eval.Evaluate(AndNode{Children: []Node{yes}}))
	assert.False(t, eval.Evaluate(AndNode{Children: []Node{yes, no}}))
	assert.True(t, eval.Evaluate(OrNode{Children: []Node{no, yes}}))
	assert.False(t, eval.Evaluate(OrNode{Children: []Node{no, no}}))

	// Empty AND is vacuously true; empty OR never matches.
	assert.True(t, eval.Evaluate(AndNode{}))
	assert.False(t, eval.Evaluate(OrNode{}))
}

func TestEvaluateNested(t *testing.T) {
	src := &stubSource{results: map[string]bool{"a": true, "b": false, "c": true}}
	eval := NewEvaluator(src)

	tree := AndNode{Children: []Node{
		leafFor(1, "a"),
		OrNode{Children: []Node{leafFor(2, "b"), leafFor(3, "c")}},
	}}
	assert.True(t, eval.Evaluate(tree))
}

func TestQuestionIDs(t *testing.T) {
	tree := OrNode{Children: []Node{
		leafFor(10, "a"),
		AndNode{Children: []Node{leafFor(20, "b"), leafFor(30, "c")}},
	}}
	assert.Equal(t, []int64{10, 20, 30}, QuestionIDs(tree))
	assert.Empty(t, QuestionIDs(AndNode{}))
}
