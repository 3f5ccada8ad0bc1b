// Package verifier implements the boolean/arithmetic condition trees used
// to validate clip values and properties, and to drive pipeline filters.
// A Group is a disjunction of conjunctions: the outer slice ORs the inner
// slices, each inner slice ANDs its nodes.
package verifier

import "fmt"

type Kind string

const (
	KindSelf     Kind = "self"
	KindValue    Kind = "value"
	KindVariable Kind = "variable"
	KindAnd      Kind = "and"
	KindOr       Kind = "or"
	KindNot      Kind = "not"
	KindEq       Kind = "="
	KindNotEq    Kind = "!="
	KindGt       Kind = ">"
	KindGte      Kind = ">="
	KindLt       Kind = "<"
	KindLte      Kind = "<="
	KindRegex    Kind = "regex"
)

// Node is one vertex of a condition tree. Leaf kinds (self, value,
// variable) evaluate to an operand; comparison kinds take exactly two
// operand children; and/or/not combine boolean children.
type Node struct {
	Kind     Kind    `json:"kind"`
	Value    any     `json:"value,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

type Group [][]*Node

func isComparison(k Kind) bool {
	switch k {
	case KindEq, KindNotEq, KindGt, KindGte, KindLt, KindLte, KindRegex:
		return true
	}
	return false
}

func isLeaf(k Kind) bool {
	return k == KindSelf || k == KindValue || k == KindVariable
}

// Validate checks a group at dictionary write time: known kinds, correct
// arity, and no cycles. Evaluation relies on these holding, so a group
// that fails here must never be stored.
func Validate(g Group) error {
	for _, conj := range g {
		for _, n := range conj {
			if err := validateNode(n, make(map[*Node]bool)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNode(n *Node, onPath map[*Node]bool) error {
	if n == nil {
		return fmt.Errorf("verifier contains a nil node")
	}
	if onPath[n] {
		return fmt.Errorf("verifier contains a cycle")
	}
	onPath[n] = true
	defer delete(onPath, n)

	switch {
	case isLeaf(n.Kind):
		if len(n.Children) != 0 {
			return fmt.Errorf("verifier leaf %q must not have children", n.Kind)
		}
	case isComparison(n.Kind):
		if len(n.Children) != 2 {
			return fmt.Errorf("verifier comparison %q requires two operands", n.Kind)
		}
		for _, c := range n.Children {
			if c == nil || !isLeaf(c.Kind) {
				return fmt.Errorf("verifier comparison %q operands must be leaves", n.Kind)
			}
		}
	case n.Kind == KindNot:
		if len(n.Children) != 1 {
			return fmt.Errorf("verifier not requires one child")
		}
	case n.Kind == KindAnd || n.Kind == KindOr:
		if len(n.Children) == 0 {
			return fmt.Errorf("verifier %q requires at least one child", n.Kind)
		}
	default:
		return fmt.Errorf("unknown verifier kind %q", n.Kind)
	}

	for _, c := range n.Children {
		if err := validateNode(c, onPath); err != nil {
			return err
		}
	}
	return nil
}
