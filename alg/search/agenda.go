package search

import (
	"container/heap"
	"fmt"
	"strings"
)

type Candidate interface {
	Score() float64
	// Serial is the creation order of the candidate within one search
	Serial() int
	Terminal() bool
}

// CompareCandidates reports whether a should come out of an agenda before b:
// higher score first, and for equal scores the later created one.
func CompareCandidates(a, b Candidate) bool {
	scoreA, scoreB := a.Score(), b.Score()
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return a.Serial() > b.Serial()
}

// Agenda is a max-heap of candidates ordered by CompareCandidates.
// It is not safe for concurrent use.
type Agenda struct {
	Confs []Candidate
}

var _ heap.Interface = &Agenda{}

func NewAgenda(size int) *Agenda {
	newAgenda := new(Agenda)
	newAgenda.Confs = make([]Candidate, 0, size)
	return newAgenda
}

func (a *Agenda) Len() int {
	return len(a.Confs)
}

func (a *Agenda) Less(i, j int) bool {
	return CompareCandidates(a.Confs[i], a.Confs[j])
}

func (a *Agenda) Swap(i, j int) {
	a.Confs[i], a.Confs[j] = a.Confs[j], a.Confs[i]
}

func (a *Agenda) Push(x interface{}) {
	a.Confs = append(a.Confs, x.(Candidate))
}

func (a *Agenda) Pop() interface{} {
	n := len(a.Confs)
	c := a.Confs[n-1]
	a.Confs[n-1] = nil
	a.Confs = a.Confs[0 : n-1]
	return c
}

func (a *Agenda) Add(c Candidate) {
	heap.Push(a, c)
}

// Next removes and returns the best candidate, nil if the agenda is empty.
func (a *Agenda) Next() Candidate {
	if len(a.Confs) == 0 {
		return nil
	}
	return heap.Pop(a).(Candidate)
}

// Peek returns the best candidate without removing it.
func (a *Agenda) Peek() Candidate {
	if len(a.Confs) == 0 {
		return nil
	}
	return a.Confs[0]
}

// Drain removes up to n candidates, best first.
func (a *Agenda) Drain(n int) []Candidate {
	if n > len(a.Confs) {
		n = len(a.Confs)
	}
	retval := make([]Candidate, 0, n)
	for len(retval) < n {
		retval = append(retval, a.Next())
	}
	return retval
}

func (a *Agenda) Clear() {
	for i := range a.Confs {
		a.Confs[i] = nil
	}
	a.Confs = a.Confs[0:0]
}

func (a *Agenda) String() string {
	retval := make([]string, len(a.Confs))
	for i, conf := range a.Confs {
		retval[i] = fmt.Sprintf("%d:%.4f", conf.Serial(), conf.Score())
	}
	return strings.Join(retval, ",")
}
