package rules

import (
	"io/ioutil"

	"depbeam/nlp/parser/dependency/transition"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// RuleSpec is one rule as written in a rules file:
//
//	rules:
//	  - name: det-shift
//	    if: N0|p=DET
//	    then: Shift
//	  - name: no-punct-head
//	    if: S0|p=PUNCT + N0|exists
//	    veto: ["LeftArc[punct]", "RightArc[punct]"]
//
// A rule has either a then or a veto list. Positive rules are tried in file
// order.
type RuleSpec struct {
	Name string
	If   string
	Then string
	Veto []string
}

type RuleSetup struct {
	Rules []RuleSpec
}

func LoadRuleConf(conf []byte) (*RuleSetup, error) {
	setup := new(RuleSetup)
	if err := yaml.Unmarshal(conf, setup); err != nil {
		return nil, errors.Wrap(err, "parsing rules")
	}
	return setup, nil
}

func LoadRuleConfFile(filename string) (*RuleSetup, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rules file %s", filename)
	}
	setup, err := LoadRuleConf(data)
	return setup, errors.Wrap(err, filename)
}

// Compile resolves every rule against the transition catalog of sys.
func (s *RuleSetup) Compile(sys transition.TransitionSystem) (*transition.RuleSet, error) {
	rules := make([]*transition.Rule, 0, len(s.Rules))
	for i, spec := range s.Rules {
		rule, err := spec.compile(sys)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d (%s)", i+1, spec.Name)
		}
		rules = append(rules, rule)
	}
	return transition.NewRuleSet(rules), nil
}

func (spec RuleSpec) compile(sys transition.TransitionSystem) (*transition.Rule, error) {
	if (len(spec.Then) > 0) == (len(spec.Veto) > 0) {
		return nil, errors.New("rule needs exactly one of then or veto")
	}
	conj, err := ParseConjunction(spec.If)
	if err != nil {
		return nil, err
	}
	rule := &transition.Rule{Condition: conj}
	if len(spec.Name) > 0 {
		rule.Condition = named{conj, spec.Name}
	}
	if len(spec.Then) > 0 {
		rule.Transition, err = sys.TransitionForCode(spec.Then)
		return rule, err
	}
	rule.Negative = true
	for _, code := range spec.Veto {
		t, err := sys.TransitionForCode(code)
		if err != nil {
			return nil, err
		}
		rule.Vetoed = append(rule.Vetoed, t)
	}
	return rule, nil
}

func Load(filename string, sys transition.TransitionSystem) (*transition.RuleSet, error) {
	setup, err := LoadRuleConfFile(filename)
	if err != nil {
		return nil, err
	}
	return setup.Compile(sys)
}
