package transition

import (
	"reflect"
	"testing"
)

var TEST_STANDARD_TRANSITIONS []string = []string{
	"Shift",
	"LeftArc[ATT]",
	"Shift",
	"LeftArc[SBJ]",
	"Shift",
	"Shift",
	"LeftArc[ATT]",
	"Shift",
	"Shift",
	"Shift",
	"LeftArc[ATT]",
	"RightArc[PC]",
	"RightArc[ATT]",
	"RightArc[OBJ]",
	"Shift",
	"RightArc[PU]",
	"RightArc[ROOT]",
	"Shift",
}

func TestArcStandardTransitions(t *testing.T) {
	sys := testStandard(t, TEST_RELATIONS)
	c := NewConfiguration(rawTestSent)
	applyCodes(t, sys, c, TEST_STANDARD_TRANSITIONS)
	checkTree(t, c)
	for i := 1; i < c.NumberOfNodes(); i++ {
		if c.Head(i) != rawTestHeads[i] || c.Label(i) != rawTestLabels[i] {
			t.Errorf("Token %d: expected (%d,%s), got (%d,%s)", i, rawTestHeads[i], rawTestLabels[i], c.Head(i), c.Label(i))
		}
	}
	if !reflect.DeepEqual(c.Stack(), []int{0}) {
		t.Error("Expected root alone on the stack, got", c.Stack())
	}
}

func TestArcStandardRightArc(t *testing.T) {
	sys := testStandard(t, TEST_LABELS)
	c := NewConfiguration(catSent)
	applyCodes(t, sys, c, []string{"Shift", "RightArc[dobj]"})
	// the head goes back to the buffer to collect more dependents
	if !reflect.DeepEqual(c.Buffer(), []int{1, 3}) {
		t.Error("Expected buffer [1 3], got", c.Buffer())
	}
	if !reflect.DeepEqual(c.Stack(), []int{0}) {
		t.Error("Expected stack [0], got", c.Stack())
	}
	if c.Head(2) != 1 {
		t.Error("Expected arc 1 -> 2")
	}
	if sys.CheckPreconditions(Transition{Reduce, ""}, c) {
		t.Error("Standard system has no Reduce")
	}
	for _, tr := range sys.Transitions() {
		if tr.Kind == Reduce {
			t.Error("Reduce in standard catalog")
		}
	}
	applyCodes(t, sys, c, []string{"RightArc[root]"})
	if b0, _ := c.B(0); b0 != 0 {
		t.Error("Expected root at the head of the buffer, got", c.Buffer())
	}
	if sys.CheckPreconditions(Transition{RightArc, "det"}, c) {
		t.Error("RightArc needs a stack top")
	}
	if !sys.CheckPreconditions(Transition{Shift, ""}, c) {
		t.Error("Expected root shift to be allowed")
	}
}
