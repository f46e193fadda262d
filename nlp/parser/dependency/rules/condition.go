package rules

import (
	"strings"

	"depbeam/nlp/parser/dependency/transition"

	"github.com/pkg/errors"
)

const (
	CONJUNCTION_SEPARATOR = "+"
	ATTRIBUTE_SEPARATOR   = "|"
	NEGATION_PREFIX       = "!"
)

// Test checks one attribute of an addressed token, e.g. "N0|p=DET",
// "S0h|l!=root", "S1|exists" or "S0|!hasHead".
type Test struct {
	Address   Address
	Attribute string
	Value     string
	// value comparison; predicates have no value
	Compare bool
	Negated bool

	str string
}

var attributeNames = map[string]string{
	"w":       "word",
	"word":    "word",
	"p":       "pos",
	"pos":     "pos",
	"lemma":   "lemma",
	"l":       "label",
	"label":   "label",
	"exists":  "exists",
	"hasHead": "hasHead",
}

func ParseTest(str string) (*Test, error) {
	str = strings.Replace(str, " ", "", -1)
	parts := strings.SplitN(str, ATTRIBUTE_SEPARATOR, 2)
	if len(parts) < 2 {
		return nil, errors.Errorf("not enough parts for test %q", str)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return nil, err
	}
	test := &Test{Address: addr, str: str}
	attr := parts[1]
	if i := strings.Index(attr, "="); i >= 0 {
		test.Compare = true
		test.Value = attr[i+1:]
		attr = attr[:i]
		if strings.HasSuffix(attr, NEGATION_PREFIX) {
			test.Negated = true
			attr = attr[:len(attr)-1]
		}
	} else if strings.HasPrefix(attr, NEGATION_PREFIX) {
		test.Negated = true
		attr = attr[1:]
	}
	name, known := attributeNames[attr]
	if !known {
		return nil, errors.Errorf("unknown attribute %q in test %q", attr, str)
	}
	test.Attribute = name
	predicate := name == "exists" || name == "hasHead"
	if predicate == test.Compare {
		if predicate {
			return nil, errors.Errorf("predicate %s takes no value in %q", name, str)
		}
		return nil, errors.Errorf("attribute %s needs a value in %q", name, str)
	}
	return test, nil
}

func (t *Test) String() string {
	return t.str
}

// Check fails whenever the address does not resolve, except for a negated
// exists predicate.
func (t *Test) Check(c *transition.SimpleConfiguration) bool {
	node, exists := t.Address.Resolve(c)
	if t.Attribute == "exists" {
		return exists != t.Negated
	}
	if !exists {
		return false
	}
	if t.Attribute == "hasHead" {
		return c.HasHead(node) != t.Negated
	}
	value, exists := attribute(c, node, t.Attribute)
	if !exists {
		return false
	}
	return (value == t.Value) != t.Negated
}

func attribute(c *transition.SimpleConfiguration, node int, name string) (string, bool) {
	token := c.Node(node)
	switch name {
	case "word":
		return token.Token, true
	case "pos":
		return token.POS, true
	case "lemma":
		return token.Lemma, true
	case "label":
		if !c.HasHead(node) {
			return "", false
		}
		return string(c.Label(node)), true
	}
	return "", false
}

// Conjunction holds when all of its tests hold.
type Conjunction struct {
	Tests []*Test
	name  string
}

var _ transition.Condition = &Conjunction{}

func ParseConjunction(str string) (*Conjunction, error) {
	elements := strings.Split(str, CONJUNCTION_SEPARATOR)
	conj := &Conjunction{Tests: make([]*Test, 0, len(elements))}
	for _, element := range elements {
		if len(strings.TrimSpace(element)) == 0 {
			return nil, errors.Errorf("empty test in condition %q", str)
		}
		test, err := ParseTest(element)
		if err != nil {
			return nil, err
		}
		conj.Tests = append(conj.Tests, test)
	}
	strs := make([]string, len(conj.Tests))
	for i, test := range conj.Tests {
		strs[i] = test.String()
	}
	conj.name = strings.Join(strs, CONJUNCTION_SEPARATOR)
	return conj, nil
}

func (c *Conjunction) Name() string {
	return c.name
}

func (c *Conjunction) Check(conf *transition.SimpleConfiguration) bool {
	for _, test := range c.Tests {
		if !test.Check(conf) {
			return false
		}
	}
	return true
}

// named gives a rule's condition the rule's name.
type named struct {
	transition.Condition
	name string
}

func (n named) Name() string {
	return n.name
}
