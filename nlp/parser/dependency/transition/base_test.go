package transition

import (
	"sync"
	"testing"
	"time"

	nlp "depbeam/nlp/types"
)

var TEST_LABELS []nlp.DepRel = []nlp.DepRel{"det", "dobj", "nsubj", "root"}

var catSent nlp.BasicTaggedSentence = nlp.BasicTaggedSentence{
	{Token: "The", POS: "DET"},
	{Token: "cat", POS: "NOUN"},
	{Token: "sat", POS: "VERB"},
}

var dogSent nlp.BasicTaggedSentence = nlp.BasicTaggedSentence{
	{Token: "The", POS: "DET"},
	{Token: "cat", POS: "NOUN"},
	{Token: "saw", POS: "VERB"},
	{Token: "a", POS: "DET"},
	{Token: "dog", POS: "NOUN"},
}

var TEST_RELATIONS []nlp.DepRel = []nlp.DepRel{"ATT", "SBJ", "PC", "OBJ", "PU", "PRED", nlp.ROOT_LABEL}

var rawTestSent nlp.BasicTaggedSentence = nlp.BasicTaggedSentence{
	{Token: "Economic", POS: "NN"},
	{Token: "news", POS: "NN"},
	{Token: "had", POS: "VB"},
	{Token: "little", POS: "ADJ"},
	{Token: "effect", POS: "NN"},
	{Token: "on", POS: "NN"},
	{Token: "financial", POS: "NN"},
	{Token: "markets", POS: "NN"},
	{Token: ".", POS: "yyDOT"},
}

// gold heads and labels of rawTestSent, indexed by token position
var (
	rawTestHeads  []int        = []int{-1, 2, 3, 0, 5, 3, 5, 8, 6, 3}
	rawTestLabels []nlp.DepRel = []nlp.DepRel{"", "ATT", "SBJ", nlp.ROOT_LABEL, "ATT", "OBJ", "ATT", "ATT", "PC", "PU"}
)

func longSentence(n int) nlp.BasicTaggedSentence {
	pos := []string{"DET", "NOUN", "VERB", "ADP"}
	sent := make(nlp.BasicTaggedSentence, n)
	for i := range sent {
		sent[i] = nlp.TaggedToken{Token: "w", POS: pos[i%len(pos)]}
	}
	return sent
}

func testEager(t *testing.T, labels []nlp.DepRel) *ArcEager {
	sys, err := NewArcEager(labels)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func testStandard(t *testing.T, labels []nlp.DepRel) *ArcStandard {
	sys, err := NewArcStandard(labels)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func applyCodes(t *testing.T, sys TransitionSystem, c *SimpleConfiguration, codes []string) {
	for i, code := range codes {
		transition, err := sys.TransitionForCode(code)
		if err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if err := sys.Apply(transition, c); err != nil {
			t.Fatalf("Step %d (%s): %v", i, code, err)
		}
	}
}

// scriptedOracle proposes the transition at the configuration's current
// derivation length, probability .9.
type scriptedOracle struct {
	codes []string
}

func (o *scriptedOracle) Decide(c *SimpleConfiguration) ([]Decision, error) {
	step := c.NumberOfTransitions()
	if step >= len(o.codes) {
		return nil, nil
	}
	return []Decision{NewDecision(o.codes[step], 0.9)}, nil
}

// uniformOracle proposes every legal transition with decreasing probability,
// in catalog order.
type uniformOracle struct {
	sys TransitionSystem
}

func (o *uniformOracle) Decide(c *SimpleConfiguration) ([]Decision, error) {
	legal := o.sys.YieldTransitions(c)
	decisions := make([]Decision, len(legal))
	for i, t := range legal {
		decisions[i] = NewDecision(t.Code(), 1.0/float64(len(legal)+i))
	}
	return decisions, nil
}

// countingOracle records the part of speech at the head of the buffer for
// every call it forwards.
type countingOracle struct {
	Oracle
	mu      sync.Mutex
	calls   int
	headPOS []string
}

func (o *countingOracle) Decide(c *SimpleConfiguration) ([]Decision, error) {
	o.mu.Lock()
	o.calls++
	if b0, exists := c.B(0); exists {
		o.headPOS = append(o.headPOS, c.Node(b0).POS)
	}
	o.mu.Unlock()
	return o.Oracle.Decide(c)
}

type sleepyOracle struct {
	Oracle
	delay time.Duration
}

func (o *sleepyOracle) Decide(c *SimpleConfiguration) ([]Decision, error) {
	time.Sleep(o.delay)
	return o.Oracle.Decide(c)
}

type fixedOracle []Decision

func (o fixedOracle) Decide(c *SimpleConfiguration) ([]Decision, error) {
	return []Decision(o), nil
}

func checkTree(t *testing.T, c *SimpleConfiguration) {
	if !c.Terminal() {
		t.Errorf("Expected terminal configuration, buffer: %v", c.Buffer())
	}
	for i := 1; i < c.NumberOfNodes(); i++ {
		if !c.HasHead(i) {
			t.Errorf("Token %d has no head", i)
		}
	}
	if c.NumberOfArcs() != c.NumberOfNodes()-1 {
		t.Errorf("Expected %d arcs, got %d", c.NumberOfNodes()-1, c.NumberOfArcs())
	}
}
