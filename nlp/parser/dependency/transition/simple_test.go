package transition

import (
	"reflect"
	"testing"

	nlp "depbeam/nlp/types"

	"github.com/pkg/errors"
)

func TestNewConfiguration(t *testing.T) {
	c := NewConfiguration(catSent)
	if c.NumberOfNodes() != 4 {
		t.Fatal("Expected 4 nodes, got", c.NumberOfNodes())
	}
	if !reflect.DeepEqual(c.Stack(), []int{0}) {
		t.Error("Expected stack with root only, got", c.Stack())
	}
	if !reflect.DeepEqual(c.Buffer(), []int{1, 2, 3}) {
		t.Error("Expected buffer [1 2 3], got", c.Buffer())
	}
	if c.Terminal() {
		t.Error("Initial configuration should not be terminal")
	}
	if s0, exists := c.S(0); !exists || s0 != 0 {
		t.Error("Expected S0 = root, got", s0)
	}
	if _, exists := c.S(1); exists {
		t.Error("S1 should not exist")
	}
	if b1, exists := c.B(1); !exists || b1 != 2 {
		t.Error("Expected B1 = 2, got", b1)
	}
	if c.Score() != 1.0 {
		t.Error("Expected score 1 with no decisions, got", c.Score())
	}
	if c.AtomicTokenCount() != 3 {
		t.Error("Expected 3 atomic tokens, got", c.AtomicTokenCount())
	}
	empty := NewConfiguration(nlp.BasicTaggedSentence{})
	if !empty.Terminal() {
		t.Error("Configuration of an empty sentence should be terminal")
	}
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	c := NewConfiguration(catSent)
	if _, err := c.AddDependency(2, 1, "det"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddDependency(3, 2, "nsubj"); err != nil {
		t.Fatal(err)
	}
	before := c.Dependencies()

	_, err := c.AddDependency(1, 3, "dobj")
	if err == nil {
		t.Fatal("Expected cycle 1 -> 3 -> 2 -> 1 to be rejected")
	}
	if cycle, ok := errors.Cause(err).(*CircularDependencyError); !ok {
		t.Errorf("Expected CircularDependencyError, got %T", errors.Cause(err))
	} else if cycle.Head != 1 || cycle.Dependent != 3 {
		t.Error("Wrong arc in error", cycle)
	}
	if !BranchError(err) {
		t.Error("Cycle should only invalidate the branch")
	}
	if !reflect.DeepEqual(before, c.Dependencies()) {
		t.Error("Rejected arc changed the arc set:", c.StringArcs())
	}
	if c.HasHead(3) {
		t.Error("Token 3 should still be headless")
	}

	if _, err := c.AddDependency(1, 1, "det"); err == nil {
		t.Error("Expected self loop to be rejected")
	}
	if _, err := c.AddDependency(3, 1, "det"); err == nil {
		t.Error("Expected second head for token 1 to be rejected")
	}
	if _, err := c.AddDependency(0, 0, "det"); err == nil {
		t.Error("Root must not take a head")
	}
}

func TestCloneIndependence(t *testing.T) {
	sys := testEager(t, TEST_LABELS)
	parent := NewConfiguration(catSent)
	applyCodes(t, sys, parent, []string{"Shift"})
	parent.AddDecision(NewDecision("Shift", 0.5))
	parentScore := parent.Score()

	child := parent.Clone()
	child.AddDecision(NewDecision("LeftArc[det]", 0.1))
	applyCodes(t, sys, child, []string{"LeftArc[det]", "Shift"})

	if !reflect.DeepEqual(parent.Stack(), []int{0, 1}) {
		t.Error("Parent stack changed:", parent.Stack())
	}
	if !reflect.DeepEqual(parent.Buffer(), []int{2, 3}) {
		t.Error("Parent buffer changed:", parent.Buffer())
	}
	if parent.NumberOfArcs() != 0 || parent.HasHead(1) {
		t.Error("Parent arcs changed:", parent.StringArcs())
	}
	if parent.NumberOfTransitions() != 1 || len(parent.Decisions()) != 1 {
		t.Error("Parent history changed")
	}
	if parent.Score() != parentScore {
		t.Error("Parent score changed")
	}
	if !reflect.DeepEqual(child.Stack(), []int{0, 2}) {
		t.Error("Expected child stack [0 2], got", child.Stack())
	}
	if child.Head(1) != 2 {
		t.Error("Expected child arc 2 -> 1")
	}
	if child.Score() >= parentScore {
		t.Error("Expected lower child score, got", child.Score())
	}
}

func TestArcProbability(t *testing.T) {
	c := NewConfiguration(catSent)
	c.AddDecision(NewDecision("Shift", 0.5))
	c.AddDecision(NewDecision("LeftArc[det]", 0.5))
	arc, err := c.AddDependency(2, 1, "det")
	if err != nil {
		t.Fatal(err)
	}
	if arc.Probability != 0.25 {
		t.Error("Expected product of pending decisions .25, got", arc.Probability)
	}
	arc, err = c.AddDependency(3, 2, "nsubj")
	if err != nil {
		t.Fatal(err)
	}
	if arc.Probability != 1.0 {
		t.Error("Expected 1 with no pending decisions, got", arc.Probability)
	}
	if governing, exists := c.GoverningArc(1); !exists || governing.Probability != 0.25 {
		t.Error("Stored arc lost its probability", governing)
	}
}

func TestDependents(t *testing.T) {
	c := NewConfiguration(dogSent)
	for _, arc := range []BasicDepArc{{3, 2, "nsubj", 1}, {2, 1, "det", 1}, {3, 5, "dobj", 1}, {5, 4, "det", 1}} {
		if _, err := c.AddDependency(arc.Head, arc.Modifier, arc.Relation); err != nil {
			t.Fatal(err)
		}
	}
	if left := c.LeftDependents(3); !reflect.DeepEqual(left, []int{2}) {
		t.Error("Expected left dependents [2], got", left)
	}
	if right := c.RightDependents(3); !reflect.DeepEqual(right, []int{5}) {
		t.Error("Expected right dependents [5], got", right)
	}
	if _, err := c.AddDependency(0, 3, "root"); err != nil {
		t.Fatal(err)
	}
	if right := c.RightDependents(0); !reflect.DeepEqual(right, []int{3}) {
		t.Error("Dependents index not rebuilt after new arc, got", right)
	}
	arcs := c.Dependencies()
	for i, arc := range arcs {
		if arc.Modifier != i+1 {
			t.Errorf("Arcs not ordered by dependent: %v", arcs)
			break
		}
	}
	g := c.Graph()
	if g.Head(4) != 5 || g.Label(4) != "det" || g.Head(0) != -1 {
		t.Error("Graph export mismatch", g.Heads, g.Labels)
	}
}

func TestRealDependencies(t *testing.T) {
	sys := testEager(t, TEST_LABELS)
	c := NewConfiguration(catSent)
	applyCodes(t, sys, c, []string{"Shift", "Shift", "Shift"})
	if !c.Terminal() {
		t.Fatal("Expected terminal configuration")
	}
	if c.NumberOfArcs() != 3 {
		t.Fatal("Expected every token attached by default, got", c.StringArcs())
	}
	if real := c.RealDependencies(); len(real) != 0 {
		t.Error("Default root attachments should not be real dependencies:", real)
	}
	for _, arc := range c.Dependencies() {
		if !arc.Default() {
			t.Error("Expected default arc, got", arc)
		}
	}
}

func TestArcOrder(t *testing.T) {
	arcs := Arcs{{3, 2, "b", 1}, {1, 2, "a", 1}, {0, 1, "", 1}, {1, 2, "0", 1}}
	sorted := arcs.Sorted()
	expected := Arcs{{0, 1, "", 1}, {1, 2, "0", 1}, {1, 2, "a", 1}, {3, 2, "b", 1}}
	if !reflect.DeepEqual(sorted, expected) {
		t.Error("Expected", expected, "got", sorted)
	}
	if arcs[0].Head != 3 {
		t.Error("Sorted changed its receiver")
	}
	if !arcs[1].Equal(BasicDepArc{1, 2, "a", 0.5}) {
		t.Error("Equality should ignore probability")
	}
}
