package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolLeaf(b bool) *Node {
	return &Node{Kind: KindValue, Value: b}
}

func cmp(kind Kind, left, right *Node) *Node {
	return &Node{Kind: kind, Children: []*Node{left, right}}
}

func selfNode() *Node       { return &Node{Kind: KindSelf} }
func valueNode(v any) *Node { return &Node{Kind: KindValue, Value: v} }

func variable(path string) *Node {
	return &Node{Kind: KindVariable, Value: path}
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	ctx := Context{Self: int64(10)}

	assert.True(t, Evaluate(cmp(KindGt, selfNode(), valueNode(5)), ctx))
	assert.False(t, Evaluate(cmp(KindLt, selfNode(), valueNode(5)), ctx))
	assert.True(t, Evaluate(cmp(KindGte, selfNode(), valueNode(10)), ctx))
	assert.True(t, Evaluate(cmp(KindLte, selfNode(), valueNode(10)), ctx))
}

func TestEvaluate_NumericStringOperand(t *testing.T) {
	// Canonical string values still compare numerically.
	ctx := Context{Self: "10"}
	assert.True(t, Evaluate(cmp(KindGt, selfNode(), valueNode("9.5")), ctx))
}

func TestEvaluate_StrictNonNumericIsFalse(t *testing.T) {
	ctx := Context{Self: "banana"}
	assert.False(t, Evaluate(cmp(KindGt, selfNode(), valueNode(5)), ctx))
	assert.False(t, Evaluate(cmp(KindLt, selfNode(), valueNode(5)), ctx))
}

func TestEvaluate_EqualAndRegex(t *testing.T) {
	ctx := Context{Self: "P01"}
	assert.True(t, Evaluate(cmp(KindEq, selfNode(), valueNode("P01")), ctx))
	assert.True(t, Evaluate(cmp(KindNotEq, selfNode(), valueNode("P02")), ctx))
	assert.True(t, Evaluate(cmp(KindRegex, selfNode(), valueNode("^P[0-9]+$")), ctx))
	assert.False(t, Evaluate(cmp(KindRegex, selfNode(), valueNode("^Q")), ctx))
	// Broken pattern is strict-false, never an error.
	assert.False(t, Evaluate(cmp(KindRegex, selfNode(), valueNode("[")), ctx))
}

func TestEvaluate_VariableResolution(t *testing.T) {
	record := map[string]any{
		"properties": map[string]any{"SubjectId": "P01"},
	}
	resolve := func(path string) (any, bool) {
		if path == "properties.SubjectId" {
			return record["properties"].(map[string]any)["SubjectId"], true
		}
		return nil, false
	}
	ctx := Context{Resolve: resolve}

	assert.True(t, Evaluate(cmp(KindEq, variable("properties.SubjectId"), valueNode("P01")), ctx))
	assert.False(t, Evaluate(cmp(KindEq, variable("properties.Missing"), valueNode("P01")), ctx))
}

func TestEvaluate_BooleanOperators(t *testing.T) {
	ctx := Context{}
	and := &Node{Kind: KindAnd, Children: []*Node{boolLeaf(true), boolLeaf(true)}}
	assert.True(t, Evaluate(and, ctx))

	or := &Node{Kind: KindOr, Children: []*Node{boolLeaf(false), boolLeaf(true)}}
	assert.True(t, Evaluate(or, ctx))

	not := &Node{Kind: KindNot, Children: []*Node{boolLeaf(false)}}
	assert.True(t, Evaluate(not, ctx))
}

// [[A,B],[C]] passes iff (A AND B) OR C, for every boolean assignment.
func TestEvaluateGroup_TruthTable(t *testing.T) {
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			for _, c := range []bool{false, true} {
				g := Group{
					{boolLeaf(a), boolLeaf(b)},
					{boolLeaf(c)},
				}
				expected := (a && b) || c
				assert.Equal(t, expected, EvaluateGroup(g, Context{}), "a=%v b=%v c=%v", a, b, c)
			}
		}
	}
}

func TestEvaluateGroup_EmptyPasses(t *testing.T) {
	assert.True(t, EvaluateGroup(nil, Context{}))
}

func TestValidate_RejectsCycle(t *testing.T) {
	n := &Node{Kind: KindAnd}
	n.Children = []*Node{n}
	err := Validate(Group{{n}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidate_RejectsBadArity(t *testing.T) {
	bad := &Node{Kind: KindGt, Children: []*Node{selfNode()}}
	assert.Error(t, Validate(Group{{bad}}))

	unknown := &Node{Kind: Kind("frobnicate")}
	assert.Error(t, Validate(Group{{unknown}}))
}

func TestValidate_AcceptsWellFormed(t *testing.T) {
	g := Group{
		{cmp(KindGt, selfNode(), valueNode(0)), cmp(KindLt, selfNode(), valueNode(100))},
		{cmp(KindEq, variable("properties.VisitId"), valueNode("V1"))},
	}
	assert.NoError(t, Validate(g))
}
