package transition

import "strings"

type Condition interface {
	Name() string
	Check(c *SimpleConfiguration) bool
}

// ConditionFunc adapts a predicate to a Condition named "func".
type ConditionFunc func(c *SimpleConfiguration) bool

func (f ConditionFunc) Name() string {
	return "func"
}

func (f ConditionFunc) Check(c *SimpleConfiguration) bool {
	return f(c)
}

// Rule either forces Transition (positive) or vetoes every transition in
// Vetoed (negative) whenever its condition holds.
type Rule struct {
	Condition  Condition
	Negative   bool
	Transition Transition
	Vetoed     []Transition
}

func (r *Rule) String() string {
	if r.Negative {
		codes := make([]string, len(r.Vetoed))
		for i, t := range r.Vetoed {
			codes[i] = t.Code()
		}
		return r.Condition.Name() + " => !" + strings.Join(codes, ",")
	}
	return r.Condition.Name() + " => " + r.Transition.Code()
}

// RuleSet keeps positive and negative rules in the order they were given.
// It is read-only once built.
type RuleSet struct {
	Positive []*Rule
	Negative []*Rule
}

func NewRuleSet(rules []*Rule) *RuleSet {
	set := new(RuleSet)
	for _, rule := range rules {
		if rule.Negative {
			set.Negative = append(set.Negative, rule)
		} else {
			set.Positive = append(set.Positive, rule)
		}
	}
	return set
}

func (r *RuleSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Positive) + len(r.Negative)
}

// Force returns the first positive rule whose condition holds on c.
func (r *RuleSet) Force(c *SimpleConfiguration) (*Rule, bool) {
	if r == nil {
		return nil, false
	}
	for _, rule := range r.Positive {
		if rule.Condition.Check(c) {
			return rule, true
		}
	}
	return nil, false
}

// Vetoed collects the codes eliminated by every negative rule holding on c.
func (r *RuleSet) Vetoed(c *SimpleConfiguration) map[string]bool {
	if r == nil {
		return nil
	}
	var eliminated map[string]bool
	for _, rule := range r.Negative {
		if !rule.Condition.Check(c) {
			continue
		}
		if eliminated == nil {
			eliminated = make(map[string]bool)
		}
		for _, t := range rule.Vetoed {
			eliminated[t.Code()] = true
		}
	}
	return eliminated
}

// Filter drops vetoed decisions. If that would leave nothing, the original
// list is returned unchanged and restored is true.
func Filter(decisions []Decision, vetoed map[string]bool) (retval []Decision, restored bool) {
	if len(vetoed) == 0 || len(decisions) == 0 {
		return decisions, false
	}
	retval = make([]Decision, 0, len(decisions))
	for _, d := range decisions {
		if !vetoed[d.Code] {
			retval = append(retval, d)
		}
	}
	if len(retval) == 0 {
		return decisions, true
	}
	return retval, false
}
