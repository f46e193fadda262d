package transition

import nlp "depbeam/nlp/types"

// ArcStandard is the shift-reduce system: arcs are only built between the
// stack top and the buffer head, and a right attachment returns the head to
// the buffer so it can collect further dependents.
type ArcStandard struct {
	labelSet
}

// Verify that ArcStandard is a TransitionSystem
var _ TransitionSystem = &ArcStandard{}

func NewArcStandard(labels []nlp.DepRel) (*ArcStandard, error) {
	set, err := newLabelSet(labels, Shift, LeftArc, RightArc)
	if err != nil {
		return nil, err
	}
	return &ArcStandard{set}, nil
}

func (a *ArcStandard) Name() string {
	return "standard"
}

func (a *ArcStandard) CheckPreconditions(t Transition, c *SimpleConfiguration) bool {
	if !a.known(t) {
		return false
	}
	s0, sExists := c.S(0)
	b0, bExists := c.B(0)
	switch t.Kind {
	case Shift:
		return bExists
	case LeftArc:
		return sExists && bExists && s0 != 0 && !c.HasHead(s0)
	case RightArc:
		return sExists && bExists && b0 != 0 && !c.HasHead(b0)
	}
	return false
}

func (a *ArcStandard) Apply(t Transition, c *SimpleConfiguration) error {
	if !a.CheckPreconditions(t, c) {
		return invalid(t, c)
	}
	// Transition System:
	// LA-r	(S|wi,	wj|B,	A) => (S   ,	wj|B,	A+{(wj,r,wi)})	if: i != 0
	// RA-r	(S|wi,	wj|B,	A) => (S   ,	wi|B,	A+{(wi,r,wj)})
	// SH	(S   ,	wi|B,	A) => (S|wi,	   B,	A)
	s0, _ := c.S(0)
	b0, _ := c.B(0)
	switch t.Kind {
	case LeftArc:
		if _, err := c.AddDependency(b0, s0, t.Label); err != nil {
			return err
		}
		c.pop()
	case RightArc:
		if _, err := c.AddDependency(s0, b0, t.Label); err != nil {
			return err
		}
		c.shift()
		c.pop()
		c.unshift(s0)
	case Shift:
		c.shift()
		c.push(b0)
	}
	return c.commit(t)
}

func (a *ArcStandard) YieldTransitions(c *SimpleConfiguration) []Transition {
	return yieldTransitions(a, c)
}
