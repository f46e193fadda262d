package types

import "fmt"

type DepRel string

func (d DepRel) String() string {
	return string(d)
}

type Labeled interface {
	// Head returns the governor of a token, -1 if it has none
	Head(dependent int) int
	// Label returns the relation of a token to its governor
	Label(dependent int) DepRel
}

type DependencyGraph interface {
	Labeled
	NumberOfNodes() int
	TaggedSentence() TaggedSentence
}

// BasicDepGraph is a labeled tree over a rooted token arena.
// Heads and Labels are indexed by token position; position 0 is the root.
type BasicDepGraph struct {
	Nodes  []TaggedToken
	Heads  []int
	Labels []DepRel
}

var _ DependencyGraph = &BasicDepGraph{}

func NewBasicDepGraph(sent TaggedSentence) *BasicDepGraph {
	nodes := Rooted(sent)
	g := &BasicDepGraph{
		Nodes:  nodes,
		Heads:  make([]int, len(nodes)),
		Labels: make([]DepRel, len(nodes)),
	}
	for i := range g.Heads {
		g.Heads[i] = -1
	}
	return g
}

func (g *BasicDepGraph) SetArc(head, dependent int, label DepRel) {
	if dependent <= 0 || dependent >= len(g.Heads) {
		panic(fmt.Sprintf("Dependent %d out of range (%d nodes)", dependent, len(g.Heads)))
	}
	g.Heads[dependent] = head
	g.Labels[dependent] = label
}

func (g *BasicDepGraph) Head(dependent int) int {
	if dependent < 0 || dependent >= len(g.Heads) {
		return -1
	}
	return g.Heads[dependent]
}

func (g *BasicDepGraph) Label(dependent int) DepRel {
	if dependent < 0 || dependent >= len(g.Labels) {
		return ""
	}
	return g.Labels[dependent]
}

func (g *BasicDepGraph) NumberOfNodes() int {
	return len(g.Nodes)
}

func (g *BasicDepGraph) TaggedSentence() TaggedSentence {
	if len(g.Nodes) == 0 {
		return BasicTaggedSentence{}
	}
	return BasicTaggedSentence(g.Nodes[1:])
}
