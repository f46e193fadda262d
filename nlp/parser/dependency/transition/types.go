package transition

import (
	"fmt"
	"sort"

	nlp "depbeam/nlp/types"
	"depbeam/util"
)

// BasicDepArc is an immutable labeled arc between two token positions.
// Probability is the product of the decisions taken since the previous arc.
type BasicDepArc struct {
	Head, Modifier int
	Relation       nlp.DepRel
	Probability    float64
}

func (arc BasicDepArc) GetHead() int {
	return arc.Head
}

func (arc BasicDepArc) GetModifier() int {
	return arc.Modifier
}

func (arc BasicDepArc) GetRelation() nlp.DepRel {
	return arc.Relation
}

// Less orders arcs by dependent, then head, then label.
func (arc BasicDepArc) Less(other BasicDepArc) bool {
	if arc.Modifier != other.Modifier {
		return arc.Modifier < other.Modifier
	}
	if arc.Head != other.Head {
		return arc.Head < other.Head
	}
	return arc.Relation < other.Relation
}

func (arc BasicDepArc) Equal(otherEq util.Equaler) bool {
	switch other := otherEq.(type) {
	case BasicDepArc:
		return arc.Head == other.Head && arc.Modifier == other.Modifier && arc.Relation == other.Relation
	case *BasicDepArc:
		return other != nil && arc.Equal(*other)
	}
	return false
}

// Default reports whether the arc is a placeholder root attachment made when
// the buffer ran out, rather than an arc chosen by a transition.
func (arc BasicDepArc) Default() bool {
	return arc.Head == 0 && arc.Relation == ""
}

func (arc BasicDepArc) String() string {
	return fmt.Sprintf("(%d,%s,%d)", arc.Head, arc.Relation, arc.Modifier)
}

type Arcs []BasicDepArc

func (a Arcs) Len() int           { return len(a) }
func (a Arcs) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a Arcs) Less(i, j int) bool { return a[i].Less(a[j]) }

func (a Arcs) Sorted() Arcs {
	retval := make(Arcs, len(a))
	copy(retval, a)
	sort.Sort(retval)
	return retval
}

// Decision is one outcome proposed for a configuration.
// Rule-forced decisions are not statistical and never enter the score.
type Decision struct {
	Code        string
	Probability float64
	Statistical bool
	Authority   string
}

func NewDecision(code string, probability float64) Decision {
	return Decision{Code: code, Probability: probability, Statistical: true}
}

func ForcedDecision(code, authority string) Decision {
	return Decision{Code: code, Probability: 1.0, Authority: authority}
}

func (d Decision) String() string {
	if !d.Statistical {
		return fmt.Sprintf("%s!%s", d.Code, d.Authority)
	}
	return fmt.Sprintf("%s:%.4f", d.Code, d.Probability)
}
