package oracle

import (
	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"

	"github.com/pkg/errors"
)

// Gold is a static oracle that proposes the single transition leading to a
// reference tree, with probability 1.
type Gold struct {
	gold     nlp.Labeled
	eager    bool
	children map[int][]int
}

var _ transition.Oracle = &Gold{}

func NewGold(sys transition.TransitionSystem, gold nlp.DependencyGraph) (*Gold, error) {
	o := &Gold{gold: gold, children: make(map[int][]int)}
	switch sys.Name() {
	case "eager":
		o.eager = true
	case "standard":
	default:
		return nil, errors.Errorf("no gold oracle for transition system %s", sys.Name())
	}
	for i := 1; i < gold.NumberOfNodes(); i++ {
		if head := gold.Head(i); head >= 0 {
			o.children[head] = append(o.children[head], i)
		}
	}
	return o, nil
}

func (o *Gold) Decide(c *transition.SimpleConfiguration) ([]transition.Decision, error) {
	var t transition.Transition
	if o.eager {
		t = o.arcEager(c)
	} else {
		t = o.arcStandard(c)
	}
	return []transition.Decision{transition.NewDecision(t.Code(), 1.0)}, nil
}

func (o *Gold) arcEager(c *transition.SimpleConfiguration) transition.Transition {
	// Given Gd=(Vd,Ad) # gold dependencies
	// o(c = (S,B,A)) =
	// LA-r	if	(B[0],r,S[0]) in Ad
	// RA-r	if	(S[0],r,B[0]) in Ad
	// RE	if	i=S[0],  j=B[0], exists k<i and exists r: (B[0],r,k) in Ad or (k,r,B[0]) in Ad
	// SH	otherwise
	bTop, bExists := c.B(0)
	sTop, sExists := c.S(0)
	if bExists && sExists {
		if sTop != 0 && o.gold.Head(sTop) == bTop {
			return transition.Transition{Kind: transition.LeftArc, Label: o.gold.Label(sTop)}
		}
		if o.gold.Head(bTop) == sTop {
			return transition.Transition{Kind: transition.RightArc, Label: o.gold.Label(bTop)}
		}
		if sTop != 0 && c.HasHead(sTop) {
			for _, modifier := range o.children[bTop] {
				if modifier < sTop {
					return transition.Transition{Kind: transition.Reduce}
				}
			}
			if head := o.gold.Head(bTop); head >= 0 && head < sTop {
				return transition.Transition{Kind: transition.Reduce}
			}
		}
	}
	return transition.Transition{Kind: transition.Shift}
}

func (o *Gold) arcStandard(c *transition.SimpleConfiguration) transition.Transition {
	// Given Gd=(Vd,Ad) # gold dependencies
	// o(c = (S,B,A)) =
	// LA-r	if	(B[0],r,S[0]) in Ad
	// RA-r	if	(S[0],r,B[0]) in Ad; and for all w,r', if (B[0],r',w) in Ad then (B[0],r',w) in A
	// SH	otherwise
	bTop, bExists := c.B(0)
	sTop, sExists := c.S(0)
	if bExists && sExists {
		if sTop != 0 && o.gold.Head(sTop) == bTop {
			return transition.Transition{Kind: transition.LeftArc, Label: o.gold.Label(sTop)}
		}
		if bTop != 0 && o.gold.Head(bTop) == sTop {
			for _, modifier := range o.children[bTop] {
				if !c.HasHead(modifier) {
					return transition.Transition{Kind: transition.Shift}
				}
			}
			return transition.Transition{Kind: transition.RightArc, Label: o.gold.Label(bTop)}
		}
	}
	return transition.Transition{Kind: transition.Shift}
}
