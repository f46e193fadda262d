package oracle

import (
	"io/ioutil"
	"sort"

	"depbeam/nlp/parser/dependency/transition"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const NONE = "-NONE-"

// Distribution maps transition codes to probabilities.
type Distribution map[string]float64

// TableModel is the file form of a Table:
//
//	default:
//	  Shift: 0.5
//	  Reduce: 0.2
//	pairs:
//	  DET NOUN:
//	    LeftArc[det]: 0.9
//	    Shift: 0.1
//
// Pair keys are the part of speech of S0 and of N0, separated by a space,
// -NONE- standing for an empty stack or buffer.
type TableModel struct {
	Default Distribution
	Pairs   map[string]Distribution
}

func LoadTableConf(conf []byte) (*TableModel, error) {
	model := new(TableModel)
	if err := yaml.Unmarshal(conf, model); err != nil {
		return nil, errors.Wrap(err, "parsing table model")
	}
	return model, nil
}

func LoadTableConfFile(filename string) (*TableModel, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading table model %s", filename)
	}
	model, err := LoadTableConf(data)
	return model, errors.Wrap(err, filename)
}

// Table looks up transition probabilities by the parts of speech of the stack
// top and the buffer head, backing off to the default distribution and then
// to uniform probabilities over the legal transitions.
type Table struct {
	Uniform
	Default Distribution
	Pairs   map[string]Distribution
}

var _ transition.Oracle = &Table{}
var _ transition.FeatureReporter = &Table{}

func NewTable(sys transition.TransitionSystem, model *TableModel) (*Table, error) {
	check := func(d Distribution, where string) error {
		for code, prob := range d {
			if _, err := sys.TransitionForCode(code); err != nil {
				return errors.Wrap(err, where)
			}
			if prob < 0 || prob > 1 {
				return errors.Errorf("%s: probability %v of %s out of range", where, prob, code)
			}
		}
		return nil
	}
	if err := check(model.Default, "default"); err != nil {
		return nil, err
	}
	for key, d := range model.Pairs {
		if err := check(d, key); err != nil {
			return nil, err
		}
	}
	return &Table{Uniform: Uniform{sys}, Default: model.Default, Pairs: model.Pairs}, nil
}

func (o *Table) key(c *transition.SimpleConfiguration) (string, string) {
	s0, b0 := NONE, NONE
	if i, exists := c.S(0); exists {
		s0 = c.Node(i).POS
	}
	if i, exists := c.B(0); exists {
		b0 = c.Node(i).POS
	}
	return s0, b0
}

func (o *Table) Features(c *transition.SimpleConfiguration) []transition.FeatureResult {
	s0, b0 := o.key(c)
	return []transition.FeatureResult{{Name: "S0|p", Value: s0}, {Name: "N0|p", Value: b0}}
}

func (o *Table) Decide(c *transition.SimpleConfiguration) ([]transition.Decision, error) {
	s0, b0 := o.key(c)
	dist, exists := o.Pairs[s0+" "+b0]
	if !exists || len(dist) == 0 {
		dist = o.Default
	}
	if len(dist) == 0 {
		return o.Uniform.Decide(c)
	}
	decisions := make([]transition.Decision, 0, len(dist))
	for code, prob := range dist {
		decisions = append(decisions, transition.NewDecision(code, prob))
	}
	sort.Sort(byProbability(decisions))
	return decisions, nil
}

type byProbability []transition.Decision

func (b byProbability) Len() int      { return len(b) }
func (b byProbability) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b byProbability) Less(i, j int) bool {
	if b[i].Probability != b[j].Probability {
		return b[i].Probability > b[j].Probability
	}
	return b[i].Code < b[j].Code
}
