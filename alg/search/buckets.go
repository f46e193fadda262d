package search

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
)

// TERMINAL_INDEX is the bucket key for complete candidates; it sorts after
// every progress index.
const TERMINAL_INDEX = math.MaxInt32

// Buckets maps progress indices to agendas, polled in ascending key order.
type Buckets struct {
	tree     *treemap.Map
	terminal *Agenda
	size     int
}

func NewBuckets(size int) *Buckets {
	return &Buckets{
		tree:     treemap.NewWithIntComparator(),
		terminal: NewAgenda(size),
		size:     size,
	}
}

// Terminal returns the agenda holding terminal candidates. It lives outside the
// ordered map until the first terminal candidate is added.
func (b *Buckets) Terminal() *Agenda {
	return b.terminal
}

// Add files c under index; terminal candidates always go to the terminal agenda.
func (b *Buckets) Add(index int, c Candidate) {
	if c.Terminal() {
		index = TERMINAL_INDEX
	}
	b.At(index).Add(c)
}

// At returns the agenda for index, creating and registering it if needed.
func (b *Buckets) At(index int) *Agenda {
	if value, found := b.tree.Get(index); found {
		return value.(*Agenda)
	}
	var agenda *Agenda
	if index == TERMINAL_INDEX {
		agenda = b.terminal
	} else {
		agenda = NewAgenda(b.size)
	}
	b.tree.Put(index, agenda)
	return agenda
}

// PollFirst removes the agenda with the smallest index.
func (b *Buckets) PollFirst() (int, *Agenda, bool) {
	if b.tree.Empty() {
		return 0, nil, false
	}
	key, value := b.tree.Min()
	b.tree.Remove(key)
	return key.(int), value.(*Agenda), true
}

func (b *Buckets) Len() int {
	return b.tree.Size()
}

func (b *Buckets) Empty() bool {
	return b.tree.Empty()
}
