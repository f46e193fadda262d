package oracle

import "depbeam/nlp/parser/dependency/transition"

// Uniform proposes every transition whose preconditions hold, with equal
// probability.
type Uniform struct {
	System transition.TransitionSystem
}

var _ transition.Oracle = &Uniform{}

func (o *Uniform) Decide(c *transition.SimpleConfiguration) ([]transition.Decision, error) {
	legal := o.System.YieldTransitions(c)
	if len(legal) == 0 {
		return nil, nil
	}
	prob := 1.0 / float64(len(legal))
	decisions := make([]transition.Decision, len(legal))
	for i, t := range legal {
		decisions[i] = transition.NewDecision(t.Code(), prob)
	}
	return decisions, nil
}
