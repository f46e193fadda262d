package transition

import (
	"strings"

	nlp "depbeam/nlp/types"

	"github.com/pkg/errors"
)

type Kind byte

const (
	Shift Kind = iota
	Reduce
	LeftArc
	RightArc
)

var kindNames = [...]string{"Shift", "Reduce", "LeftArc", "RightArc"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Transition is a value: a kind and, for arc transitions, a label.
type Transition struct {
	Kind  Kind
	Label nlp.DepRel
}

func (t Transition) Attaches() bool {
	return t.Kind == LeftArc || t.Kind == RightArc
}

// Code is the identifier oracles and rules use, e.g. "Shift" or "LeftArc[det]".
func (t Transition) Code() string {
	if t.Attaches() {
		return t.Kind.String() + "[" + string(t.Label) + "]"
	}
	return t.Kind.String()
}

func (t Transition) String() string {
	return t.Code()
}

func ParseCode(code string) (Transition, error) {
	name, label := code, ""
	if open := strings.IndexByte(code, '['); open >= 0 {
		if !strings.HasSuffix(code, "]") {
			return Transition{}, errors.WithStack(&UnknownTransitionError{code})
		}
		name, label = code[:open], code[open+1:len(code)-1]
	}
	for k, kindName := range kindNames {
		if kindName != name {
			continue
		}
		t := Transition{Kind(k), nlp.DepRel(label)}
		if t.Attaches() != (label != "") {
			return Transition{}, errors.WithStack(&UnknownTransitionError{code})
		}
		return t, nil
	}
	return Transition{}, errors.WithStack(&UnknownTransitionError{code})
}

type ByCode []Transition

func (b ByCode) Len() int           { return len(b) }
func (b ByCode) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b ByCode) Less(i, j int) bool { return b[i].Code() < b[j].Code() }
