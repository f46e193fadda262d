package rules

import (
	"testing"

	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"
)

var TEST_LABELS []nlp.DepRel = []nlp.DepRel{"det", "dobj", "nsubj", "punct", "root"}

var dogSent nlp.BasicTaggedSentence = nlp.BasicTaggedSentence{
	{Token: "The", Lemma: "the", POS: "DET"},
	{Token: "cat", Lemma: "cat", POS: "NOUN"},
	{Token: "saw", Lemma: "see", POS: "VERB"},
	{Token: "a", Lemma: "a", POS: "DET"},
	{Token: "dog", Lemma: "dog", POS: "NOUN"},
}

func configuration(t *testing.T, codes ...string) (*transition.ArcEager, *transition.SimpleConfiguration) {
	sys, err := transition.NewArcEager(TEST_LABELS)
	if err != nil {
		t.Fatal(err)
	}
	c := transition.NewConfiguration(dogSent)
	for _, code := range codes {
		tr, err := sys.TransitionForCode(code)
		if err != nil {
			t.Fatal(err)
		}
		if err := sys.Apply(tr, c); err != nil {
			t.Fatal(err)
		}
	}
	return sys, c
}

func TestParseAddress(t *testing.T) {
	valid := map[string]Address{
		"S0":   {Source: 'S'},
		"N1":   {Source: 'N', Offset: 1},
		"B12":  {Source: 'B', Offset: 12},
		"S0h":  {Source: 'S', Relative: 'h'},
		"N0l2": {Source: 'N', Relative: 'l', Second: true},
		"S1r":  {Source: 'S', Offset: 1, Relative: 'r'},
	}
	for str, expected := range valid {
		addr, err := ParseAddress(str)
		if err != nil {
			t.Error(err)
			continue
		}
		expected.str = str
		if addr != expected {
			t.Errorf("%s: expected %+v, got %+v", str, expected, addr)
		}
	}
	for _, str := range []string{"", "S", "Q0", "Sx", "S0x", "S0h3", "S0hh"} {
		if _, err := ParseAddress(str); err == nil {
			t.Errorf("Expected %q to be rejected", str)
		}
	}
}

func TestResolve(t *testing.T) {
	// The cat saw: cat <- The, saw <- cat; stack [0 3], buffer [4 5]
	_, c := configuration(t, "Shift", "LeftArc[det]", "Shift", "LeftArc[nsubj]", "RightArc[root]")
	cases := []struct {
		addr     string
		expected int
		exists   bool
	}{
		{"S0", 3, true},
		{"S1", 0, true},
		{"S2", 0, false},
		{"N0", 4, true},
		{"B1", 5, true},
		{"N2", 0, false},
		{"S0h", 0, true},
		{"S0h2", 0, false},
		{"S0l", 2, true},
		{"S0l2", 0, false},
		{"S0r", 0, false},
		{"S1r", 3, true},
		{"N0h", 0, false},
	}
	for _, tc := range cases {
		addr, err := ParseAddress(tc.addr)
		if err != nil {
			t.Fatal(err)
		}
		node, exists := addr.Resolve(c)
		if exists != tc.exists || (exists && node != tc.expected) {
			t.Errorf("%s: expected (%d, %v), got (%d, %v)", tc.addr, tc.expected, tc.exists, node, exists)
		}
	}
}

func TestTests(t *testing.T) {
	_, c := configuration(t, "Shift", "LeftArc[det]", "Shift", "LeftArc[nsubj]", "RightArc[root]")
	cases := map[string]bool{
		"S0|p=VERB":     true,
		"S0|pos=NOUN":   false,
		"S0|w=saw":      true,
		"S0|lemma=see":  true,
		"S0|l=root":     true,
		"S0|label!=det": true,
		"S0l|l=nsubj":   true,
		"N0|l=det":      false,
		"N0|l!=det":     false,
		"N0|p!=DET":     false,
		"N1|p!=DET":     true,
		"S2|p!=DET":     false,
		"S1|exists":     true,
		"S2|exists":     false,
		"S2|!exists":    true,
		"S0|hasHead":    true,
		"N0|hasHead":    false,
		"N0|!hasHead":   true,
		"S2|!hasHead":   false,
	}
	for str, expected := range cases {
		test, err := ParseTest(str)
		if err != nil {
			t.Error(err)
			continue
		}
		if test.Check(c) != expected {
			t.Errorf("%s: expected %v", str, expected)
		}
	}
	for _, str := range []string{"S0", "S0|", "S0|q=1", "S0|p", "S0|exists=1", "X0|p=DET"} {
		if _, err := ParseTest(str); err == nil {
			t.Errorf("Expected %q to be rejected", str)
		}
	}
}

func TestConjunction(t *testing.T) {
	_, c := configuration(t, "Shift")
	conj, err := ParseConjunction("S0|p=DET + N0|p=NOUN")
	if err != nil {
		t.Fatal(err)
	}
	if conj.Name() != "S0|p=DET+N0|p=NOUN" {
		t.Error("Wrong name", conj.Name())
	}
	if !conj.Check(c) {
		t.Error("Expected conjunction to hold")
	}
	conj, _ = ParseConjunction("S0|p=DET+N0|p=VERB")
	if conj.Check(c) {
		t.Error("Expected conjunction to fail")
	}
	if _, err := ParseConjunction("S0|p=DET++N0|p=VERB"); err == nil {
		t.Error("Expected empty test to be rejected")
	}
}

const TEST_RULES = `
rules:
  - name: det-shift
    if: N0|p=DET
    then: Shift
  - if: S0|p=DET + N0|p=NOUN
    then: LeftArc[det]
  - name: no-det-root
    if: S0|p=DET
    veto: ["RightArc[root]", Reduce]
`

func TestLoadRuleConf(t *testing.T) {
	setup, err := LoadRuleConf([]byte(TEST_RULES))
	if err != nil {
		t.Fatal(err)
	}
	if len(setup.Rules) != 3 {
		t.Fatal("Expected 3 rules, got", len(setup.Rules))
	}
	sys, c := configuration(t)
	set, err := setup.Compile(sys)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 3 || len(set.Positive) != 2 || len(set.Negative) != 1 {
		t.Fatal("Wrong rule split", set.Positive, set.Negative)
	}
	rule, forced := set.Force(c)
	if !forced || rule.Transition.Code() != "Shift" || rule.Condition.Name() != "det-shift" {
		t.Error("Expected det-shift to fire, got", rule)
	}
	_, c = configuration(t, "Shift")
	rule, forced = set.Force(c)
	if !forced || rule.Transition.Code() != "LeftArc[det]" || rule.Condition.Name() != "S0|p=DET+N0|p=NOUN" {
		t.Error("Expected anonymous det rule to fire, got", rule)
	}
	vetoed := set.Vetoed(c)
	if len(vetoed) != 2 || !vetoed["RightArc[root]"] || !vetoed["Reduce"] {
		t.Error("Expected two vetoed codes, got", vetoed)
	}
}

func TestCompileErrors(t *testing.T) {
	sys, _ := configuration(t)
	invalid := []string{
		"rules:\n  - if: S0|p=DET\n",
		"rules:\n  - if: S0|p=DET\n    then: Shift\n    veto: [Reduce]\n",
		"rules:\n  - if: S0|p=DET\n    then: LeftArc[amod]\n",
		"rules:\n  - if: S0|p=DET\n    veto: [Jump]\n",
		"rules:\n  - if: S0|q=DET\n    then: Shift\n",
	}
	for i, conf := range invalid {
		setup, err := LoadRuleConf([]byte(conf))
		if err != nil {
			t.Error(err)
			continue
		}
		if _, err := setup.Compile(sys); err == nil {
			t.Errorf("Rules %d: expected compile error", i)
		}
	}
	if _, err := LoadRuleConf([]byte("rules: [")); err == nil {
		t.Error("Expected YAML error")
	}
	if _, err := Load("does-not-exist.yaml", sys); err == nil {
		t.Error("Expected missing file error")
	}
}
