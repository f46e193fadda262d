package transition

import "github.com/pkg/errors"

// ComparisonStrategy maps a configuration to its progress through the input.
// Configurations with equal indices compete in the same beam bucket.
type ComparisonStrategy interface {
	Name() string
	ComparisonIndex(c *SimpleConfiguration) int
}

// BufferSize measures progress as the atomic tokens no longer in the buffer,
// counting the root: (atomic tokens + 1) - atomic tokens in the buffer.
type BufferSize struct{}

func (BufferSize) Name() string {
	return "buffer"
}

func (BufferSize) ComparisonIndex(c *SimpleConfiguration) int {
	remaining := 0
	for _, i := range c.Buffer() {
		remaining += c.Nodes[i].Atoms()
	}
	return c.atomicCount + 1 - remaining
}

// TransitionCount measures progress by the length of the derivation.
type TransitionCount struct{}

func (TransitionCount) Name() string {
	return "transitions"
}

func (TransitionCount) ComparisonIndex(c *SimpleConfiguration) int {
	return c.transitions.Len()
}

func NewComparisonStrategy(name string) (ComparisonStrategy, error) {
	switch name {
	case "", "buffer":
		return BufferSize{}, nil
	case "transitions":
		return TransitionCount{}, nil
	}
	return nil, errors.Errorf("unknown comparison strategy %q", name)
}
