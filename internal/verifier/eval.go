package verifier

import (
	"regexp"
	"strconv"

	"github.com/spf13/cast"
)

// Resolver looks up a dotted variable path in the record under test.
type Resolver func(path string) (any, bool)

// Context supplies the value under test (self) and the variable resolver.
type Context struct {
	Self    any
	Resolve Resolver
}

// EvaluateGroup returns true iff at least one inner conjunction evaluates
// entirely true. An empty group always passes.
func EvaluateGroup(g Group, ctx Context) bool {
	if len(g) == 0 {
		return true
	}
	for _, conj := range g {
		ok := true
		for _, n := range conj {
			if !Evaluate(n, ctx) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Evaluate walks a condition tree. Comparisons are strict: an operand that
// cannot be interpreted for the operator's family yields false, never an
// error. Evaluation is side-effect-free and terminates on any tree that
// passed Validate.
func Evaluate(n *Node, ctx Context) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindAnd:
		for _, c := range n.Children {
			if !Evaluate(c, ctx) {
				return false
			}
		}
		return len(n.Children) > 0
	case KindOr:
		for _, c := range n.Children {
			if Evaluate(c, ctx) {
				return true
			}
		}
		return false
	case KindNot:
		if len(n.Children) != 1 {
			return false
		}
		return !Evaluate(n.Children[0], ctx)
	case KindSelf, KindValue, KindVariable:
		// A bare leaf used as a condition: truthy when it is a bool true.
		v, ok := operand(n, ctx)
		if !ok {
			return false
		}
		b, okb := v.(bool)
		return okb && b
	}

	if !isComparison(n.Kind) || len(n.Children) != 2 {
		return false
	}
	left, lok := operand(n.Children[0], ctx)
	right, rok := operand(n.Children[1], ctx)
	if !lok || !rok {
		return false
	}

	switch n.Kind {
	case KindEq:
		return cast.ToString(left) == cast.ToString(right)
	case KindNotEq:
		return cast.ToString(left) != cast.ToString(right)
	case KindRegex:
		re, err := regexp.Compile(cast.ToString(right))
		if err != nil {
			return false
		}
		return re.MatchString(cast.ToString(left))
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return false
	}
	switch n.Kind {
	case KindGt:
		return lf > rf
	case KindGte:
		return lf >= rf
	case KindLt:
		return lf < rf
	case KindLte:
		return lf <= rf
	}
	return false
}

func operand(n *Node, ctx Context) (any, bool) {
	switch n.Kind {
	case KindSelf:
		return ctx.Self, true
	case KindValue:
		return n.Value, true
	case KindVariable:
		if ctx.Resolve == nil {
			return nil, false
		}
		return ctx.Resolve(cast.ToString(n.Value))
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	case bool:
		return 0, false
	case nil:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	return f, err == nil
}
