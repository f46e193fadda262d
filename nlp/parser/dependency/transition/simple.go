package transition

import (
	"fmt"
	"strings"

	"depbeam/alg/search"
	nlp "depbeam/nlp/types"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"
)

type intComparer struct{}

func (intComparer) Compare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SimpleConfiguration is one parser state. Stack, buffer, arcs and history are
// persistent collections, so Clone is O(1) and a clone never aliases the
// mutable state of its parent. Token positions index into Nodes, which is
// shared by every configuration of a sentence.
type SimpleConfiguration struct {
	Nodes      []nlp.TaggedToken
	Hypothesis int
	Scoring    ScoringStrategy

	atomicCount int
	// top of the stack is the last element, head of the buffer the first
	stack       *immutable.List[int]
	buffer      *immutable.List[int]
	arcs        *immutable.SortedMap[int, BasicDepArc]
	transitions *immutable.List[Transition]
	decisions   *immutable.List[Decision]
	// first decision not yet folded into an arc probability
	pendingFrom int

	score  float64
	scored bool
	serial int

	leftDeps, rightDeps map[int][]int
}

var _ search.Candidate = &SimpleConfiguration{}
var _ nlp.DependencyGraph = &SimpleConfiguration{}

func NewConfiguration(sent nlp.TaggedSentence) *SimpleConfiguration {
	nodes := nlp.Rooted(sent)
	buffer := immutable.NewList[int]()
	for i := 1; i < len(nodes); i++ {
		buffer = buffer.Append(i)
	}
	return &SimpleConfiguration{
		Nodes:       nodes,
		Scoring:     GeometricMean{},
		atomicCount: nlp.AtomicTokenCount(sent),
		stack:       immutable.NewList[int](0),
		buffer:      buffer,
		arcs:        immutable.NewSortedMap[int, BasicDepArc](intComparer{}),
		transitions: immutable.NewList[Transition](),
		decisions:   immutable.NewList[Decision](),
	}
}

func (c *SimpleConfiguration) Clone() *SimpleConfiguration {
	newConf := new(SimpleConfiguration)
	*newConf = *c
	newConf.scored = false
	newConf.serial = 0
	return newConf
}

func (c *SimpleConfiguration) Terminal() bool {
	return c.buffer.Len() == 0
}

func (c *SimpleConfiguration) Serial() int {
	return c.serial
}

func (c *SimpleConfiguration) AtomicTokenCount() int {
	return c.atomicCount
}

func (c *SimpleConfiguration) Node(i int) nlp.TaggedToken {
	return c.Nodes[i]
}

func (c *SimpleConfiguration) NumberOfNodes() int {
	return len(c.Nodes)
}

func (c *SimpleConfiguration) TaggedSentence() nlp.TaggedSentence {
	return nlp.BasicTaggedSentence(c.Nodes[1:])
}

// STACK AND BUFFER

func (c *SimpleConfiguration) StackSize() int {
	return c.stack.Len()
}

func (c *SimpleConfiguration) BufferSize() int {
	return c.buffer.Len()
}

// S returns the token i positions below the top of the stack.
func (c *SimpleConfiguration) S(i int) (int, bool) {
	n := c.stack.Len()
	if i < 0 || i >= n {
		return -1, false
	}
	return c.stack.Get(n - 1 - i), true
}

// B returns the token i positions after the head of the buffer.
func (c *SimpleConfiguration) B(i int) (int, bool) {
	if i < 0 || i >= c.buffer.Len() {
		return -1, false
	}
	return c.buffer.Get(i), true
}

// Stack lists the stack from bottom to top.
func (c *SimpleConfiguration) Stack() []int {
	return listValues(c.stack)
}

func (c *SimpleConfiguration) Buffer() []int {
	return listValues(c.buffer)
}

func (c *SimpleConfiguration) push(i int) {
	c.stack = c.stack.Append(i)
}

func (c *SimpleConfiguration) pop() (int, bool) {
	n := c.stack.Len()
	if n == 0 {
		return -1, false
	}
	top := c.stack.Get(n - 1)
	c.stack = c.stack.Slice(0, n-1)
	return top, true
}

func (c *SimpleConfiguration) shift() (int, bool) {
	n := c.buffer.Len()
	if n == 0 {
		return -1, false
	}
	head := c.buffer.Get(0)
	c.buffer = c.buffer.Slice(1, n)
	return head, true
}

func (c *SimpleConfiguration) unshift(i int) {
	c.buffer = c.buffer.Prepend(i)
}

// ARCS

// AddDependency attaches dependent to head. It fails without touching the arc
// set if dependent is already attached or is an ancestor of head.
func (c *SimpleConfiguration) AddDependency(head, dependent int, label nlp.DepRel) (BasicDepArc, error) {
	if head < 0 || head >= len(c.Nodes) || dependent <= 0 || dependent >= len(c.Nodes) {
		return BasicDepArc{}, errors.Errorf("arc %d -> %d out of range for %d nodes", head, dependent, len(c.Nodes))
	}
	if existing, exists := c.arcs.Get(dependent); exists {
		return BasicDepArc{}, errors.Errorf("token %d already governed by %v", dependent, existing)
	}
	for ancestor := head; ancestor >= 0; ancestor = c.Head(ancestor) {
		if ancestor == dependent {
			return BasicDepArc{}, errors.WithStack(&CircularDependencyError{head, dependent})
		}
	}
	arc := BasicDepArc{
		Head:        head,
		Modifier:    dependent,
		Relation:    label,
		Probability: c.pendingProbability(),
	}
	c.arcs = c.arcs.Set(dependent, arc)
	c.pendingFrom = c.decisions.Len()
	c.leftDeps, c.rightDeps = nil, nil
	return arc, nil
}

func (c *SimpleConfiguration) pendingProbability() float64 {
	prob := 1.0
	for i := c.pendingFrom; i < c.decisions.Len(); i++ {
		prob *= c.decisions.Get(i).Probability
	}
	return prob
}

// Head returns the governor of a token, -1 if it has none.
func (c *SimpleConfiguration) Head(dependent int) int {
	if arc, exists := c.arcs.Get(dependent); exists {
		return arc.Head
	}
	return -1
}

func (c *SimpleConfiguration) Label(dependent int) nlp.DepRel {
	if arc, exists := c.arcs.Get(dependent); exists {
		return arc.Relation
	}
	return ""
}

func (c *SimpleConfiguration) HasHead(dependent int) bool {
	_, exists := c.arcs.Get(dependent)
	return exists
}

func (c *SimpleConfiguration) GoverningArc(dependent int) (BasicDepArc, bool) {
	return c.arcs.Get(dependent)
}

func (c *SimpleConfiguration) NumberOfArcs() int {
	return c.arcs.Len()
}

func (c *SimpleConfiguration) indexDependents() {
	if c.leftDeps != nil {
		return
	}
	c.leftDeps, c.rightDeps = make(map[int][]int), make(map[int][]int)
	itr := c.arcs.Iterator()
	for !itr.Done() {
		_, arc, _ := itr.Next()
		if arc.Modifier < arc.Head {
			c.leftDeps[arc.Head] = append(c.leftDeps[arc.Head], arc.Modifier)
		} else {
			c.rightDeps[arc.Head] = append(c.rightDeps[arc.Head], arc.Modifier)
		}
	}
}

// LeftDependents returns the dependents of head preceding it, in sentence order.
func (c *SimpleConfiguration) LeftDependents(head int) []int {
	c.indexDependents()
	return append([]int(nil), c.leftDeps[head]...)
}

// RightDependents returns the dependents of head following it, in sentence order.
func (c *SimpleConfiguration) RightDependents(head int) []int {
	c.indexDependents()
	return append([]int(nil), c.rightDeps[head]...)
}

// Dependencies returns all arcs ordered by dependent.
func (c *SimpleConfiguration) Dependencies() Arcs {
	retval := make(Arcs, 0, c.arcs.Len())
	itr := c.arcs.Iterator()
	for !itr.Done() {
		_, arc, _ := itr.Next()
		retval = append(retval, arc)
	}
	return retval
}

// RealDependencies omits the default root attachments.
func (c *SimpleConfiguration) RealDependencies() Arcs {
	retval := make(Arcs, 0, c.arcs.Len())
	for _, arc := range c.Dependencies() {
		if !arc.Default() {
			retval = append(retval, arc)
		}
	}
	return retval
}

// attachHeadless gives every token still lacking a governor a default arc to
// the root.
func (c *SimpleConfiguration) attachHeadless() error {
	for i := 1; i < len(c.Nodes); i++ {
		if c.HasHead(i) {
			continue
		}
		if _, err := c.AddDependency(0, i, ""); err != nil {
			return err
		}
	}
	return nil
}

func (c *SimpleConfiguration) Graph() *nlp.BasicDepGraph {
	g := &nlp.BasicDepGraph{
		Nodes:  c.Nodes,
		Heads:  make([]int, len(c.Nodes)),
		Labels: make([]nlp.DepRel, len(c.Nodes)),
	}
	for i := range g.Nodes {
		g.Heads[i] = c.Head(i)
		g.Labels[i] = c.Label(i)
	}
	return g
}

// HISTORY

// commit records an applied transition; once the buffer is empty the
// remaining headless tokens are attached to the root.
func (c *SimpleConfiguration) commit(t Transition) error {
	c.transitions = c.transitions.Append(t)
	if c.Terminal() {
		return c.attachHeadless()
	}
	return nil
}

func (c *SimpleConfiguration) Transitions() []Transition {
	return listValues(c.transitions)
}

func (c *SimpleConfiguration) NumberOfTransitions() int {
	return c.transitions.Len()
}

func (c *SimpleConfiguration) LastTransition() (Transition, bool) {
	n := c.transitions.Len()
	if n == 0 {
		return Transition{}, false
	}
	return c.transitions.Get(n - 1), true
}

func (c *SimpleConfiguration) AddDecision(d Decision) {
	c.decisions = c.decisions.Append(d)
	c.scored = false
}

func (c *SimpleConfiguration) Decisions() []Decision {
	return listValues(c.decisions)
}

// Score is computed once by the configured strategy and cached until the
// next decision is added.
func (c *SimpleConfiguration) Score() float64 {
	if !c.scored {
		scoring := c.Scoring
		if scoring == nil {
			scoring = GeometricMean{}
		}
		c.score = scoring.Score(c.Decisions())
		c.scored = true
	}
	return c.score
}

func listValues[T any](l *immutable.List[T]) []T {
	retval := make([]T, 0, l.Len())
	itr := l.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		retval = append(retval, v)
	}
	return retval
}

// OUTPUT FUNCTIONS

func (c *SimpleConfiguration) String() string {
	last := ""
	if t, exists := c.LastTransition(); exists {
		last = t.Code()
	}
	return fmt.Sprintf("%s\t=>([%s],\t[%s],\tA%d)",
		last, c.StringStack(), c.StringQueue(), c.arcs.Len())
}

func (c *SimpleConfiguration) StringStack() string {
	stack := c.Stack()
	switch {
	case len(stack) > 0 && len(stack) <= 3:
		stackStrings := make([]string, 0, 3)
		for i := len(stack) - 1; i >= 0; i-- {
			stackStrings = append(stackStrings, c.Nodes[stack[i]].Token)
		}
		return strings.Join(stackStrings, ",")
	case len(stack) > 3:
		return strings.Join([]string{c.Nodes[stack[len(stack)-1]].Token, "...", c.Nodes[stack[0]].Token}, ",")
	default:
		return ""
	}
}

func (c *SimpleConfiguration) StringQueue() string {
	queue := c.Buffer()
	switch {
	case len(queue) > 0 && len(queue) <= 3:
		queueStrings := make([]string, 0, 3)
		for _, i := range queue {
			queueStrings = append(queueStrings, c.Nodes[i].Token)
		}
		return strings.Join(queueStrings, ",")
	case len(queue) > 3:
		return strings.Join([]string{c.Nodes[queue[0]].Token, "...", c.Nodes[queue[len(queue)-1]].Token}, ",")
	default:
		return ""
	}
}

func (c *SimpleConfiguration) StringArcs() string {
	arcs := c.Dependencies()
	arcStrings := make([]string, len(arcs))
	for i, arc := range arcs {
		arcStrings[i] = fmt.Sprintf("(%s,%s,%s)", c.Nodes[arc.Head].Token, arc.Relation, c.Nodes[arc.Modifier].Token)
	}
	return strings.Join(arcStrings, " ")
}
