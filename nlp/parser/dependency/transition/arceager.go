package transition

import nlp "depbeam/nlp/types"

type ArcEager struct {
	labelSet
}

// Verify that ArcEager is a TransitionSystem
var _ TransitionSystem = &ArcEager{}

func NewArcEager(labels []nlp.DepRel) (*ArcEager, error) {
	set, err := newLabelSet(labels, Shift, Reduce, LeftArc, RightArc)
	if err != nil {
		return nil, err
	}
	return &ArcEager{set}, nil
}

func (a *ArcEager) Name() string {
	return "eager"
}

func (a *ArcEager) CheckPreconditions(t Transition, c *SimpleConfiguration) bool {
	if !a.known(t) {
		return false
	}
	s0, sExists := c.S(0)
	b0, bExists := c.B(0)
	switch t.Kind {
	case Shift:
		return bExists
	case Reduce:
		return sExists && s0 != 0 && c.HasHead(s0)
	case LeftArc:
		return sExists && bExists && s0 != 0 && !c.HasHead(s0)
	case RightArc:
		return sExists && bExists && !c.HasHead(b0)
	}
	return false
}

func (a *ArcEager) Apply(t Transition, c *SimpleConfiguration) error {
	if !a.CheckPreconditions(t, c) {
		return invalid(t, c)
	}
	// Transition System:
	// LA-r	(S|wi,	wj|B,	A) => (S      ,	wj|B,	A+{(wj,r,wi)})	if: (wk,r',wi) notin A; i != 0
	// RA-r	(S|wi,	wj|B,	A) => (S|wi|wj,	   B,	A+{(wi,r,wj)})
	// RE	(S|wi,	   B,	A) => (S      ,	   B,	A)				if: (wk,r',wi) in A
	// SH	(S   ,	wi|B, 	A) => (S|wi   ,	   B,	A)
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
		c.push(b0)
	case Reduce:
		c.pop()
	case Shift:
		c.shift()
		c.push(b0)
	}
	return c.commit(t)
}

func (a *ArcEager) YieldTransitions(c *SimpleConfiguration) []Transition {
	return yieldTransitions(a, c)
}
