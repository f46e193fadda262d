package transition

import (
	"sort"

	nlp "depbeam/nlp/types"

	"github.com/pkg/errors"
)

// TransitionSystem is a closed catalog of transitions over a label set.
// Implementations are immutable after construction and may be shared
// between goroutines.
type TransitionSystem interface {
	Name() string
	Labels() []nlp.DepRel
	// Transitions lists the full catalog ordered by code
	Transitions() []Transition
	TransitionForCode(code string) (Transition, error)
	CheckPreconditions(t Transition, c *SimpleConfiguration) bool
	// Apply mutates c in place and appends t to its history
	Apply(t Transition, c *SimpleConfiguration) error
	// YieldTransitions lists the transitions legal in c, ordered by code
	YieldTransitions(c *SimpleConfiguration) []Transition
}

type labelSet struct {
	labels  []nlp.DepRel
	catalog []Transition
	byCode  map[string]Transition
}

func newLabelSet(labels []nlp.DepRel, kinds ...Kind) (labelSet, error) {
	set := labelSet{byCode: make(map[string]Transition)}
	seen := make(map[nlp.DepRel]bool, len(labels))
	for _, label := range labels {
		if label == "" {
			return set, errors.New("empty dependency label is reserved for default root attachments")
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		set.labels = append(set.labels, label)
	}
	for _, kind := range kinds {
		t := Transition{Kind: kind}
		if !t.Attaches() {
			set.catalog = append(set.catalog, t)
			continue
		}
		for _, label := range set.labels {
			set.catalog = append(set.catalog, Transition{kind, label})
		}
	}
	sort.Sort(ByCode(set.catalog))
	for _, t := range set.catalog {
		set.byCode[t.Code()] = t
	}
	return set, nil
}

func (s *labelSet) Labels() []nlp.DepRel {
	return append([]nlp.DepRel(nil), s.labels...)
}

func (s *labelSet) Transitions() []Transition {
	return append([]Transition(nil), s.catalog...)
}

func (s *labelSet) TransitionForCode(code string) (Transition, error) {
	if t, exists := s.byCode[code]; exists {
		return t, nil
	}
	return Transition{}, errors.WithStack(&UnknownTransitionError{code})
}

func (s *labelSet) known(t Transition) bool {
	_, exists := s.byCode[t.Code()]
	return exists
}

func yieldTransitions(s TransitionSystem, c *SimpleConfiguration) []Transition {
	var retval []Transition
	for _, t := range s.Transitions() {
		if s.CheckPreconditions(t, c) {
			retval = append(retval, t)
		}
	}
	return retval
}

func invalid(t Transition, c *SimpleConfiguration) error {
	return errors.WithStack(&InvalidTransitionError{t, c.String()})
}

// NewSystem builds a transition system by name: "eager" (or "arc-eager") and
// "standard" (or "shift-reduce").
func NewSystem(name string, labels []nlp.DepRel) (TransitionSystem, error) {
	switch name {
	case "", "eager", "arc-eager":
		return NewArcEager(labels)
	case "standard", "shift-reduce":
		return NewArcStandard(labels)
	}
	return nil, errors.Errorf("unknown transition system %q", name)
}
