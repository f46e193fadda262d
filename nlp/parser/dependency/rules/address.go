package rules

import (
	"strconv"

	"depbeam/nlp/parser/dependency/transition"

	"github.com/pkg/errors"
)

// Address locates a token relative to a configuration, in the feature
// address notation: a source (S for the stack, N or B for the buffer), an
// offset, and optionally a relative step:
//
//	h  head          h2 head of head
//	l  leftmost dep  l2 second leftmost dep
//	r  rightmost dep r2 second rightmost dep
//
// e.g. "S0", "N1", "S0h", "N0l2".
type Address struct {
	Source   byte
	Offset   int
	Relative byte
	Second   bool

	str string
}

func ParseAddress(str string) (Address, error) {
	if len(str) < 2 {
		return Address{}, errors.Errorf("address %q too short", str)
	}
	addr := Address{Source: str[0], str: str}
	switch addr.Source {
	case 'S', 'N', 'B':
	default:
		return Address{}, errors.Errorf("unknown address source %q in %q", addr.Source, str)
	}
	end := 1
	for end < len(str) && str[end] >= '0' && str[end] <= '9' {
		end++
	}
	if end == 1 {
		return Address{}, errors.Errorf("address %q has no offset", str)
	}
	offset, err := strconv.Atoi(str[1:end])
	if err != nil {
		return Address{}, errors.Wrapf(err, "parsing offset of %q", str)
	}
	addr.Offset = offset
	rest := str[end:]
	if len(rest) == 0 {
		return addr, nil
	}
	switch rest[0] {
	case 'h', 'l', 'r':
		addr.Relative = rest[0]
	default:
		return Address{}, errors.Errorf("unknown relative step %q in %q", rest[0], str)
	}
	switch rest[1:] {
	case "":
	case "2":
		addr.Second = true
	default:
		return Address{}, errors.Errorf("trailing %q in address %q", rest[1:], str)
	}
	return addr, nil
}

func (a Address) String() string {
	return a.str
}

// Resolve returns the token index the address points to in c.
func (a Address) Resolve(c *transition.SimpleConfiguration) (int, bool) {
	var (
		atAddress int
		exists    bool
	)
	if a.Source == 'S' {
		atAddress, exists = c.S(a.Offset)
	} else {
		atAddress, exists = c.B(a.Offset)
	}
	if !exists {
		return 0, false
	}
	switch a.Relative {
	case 'h':
		head := c.Head(atAddress)
		if head < 0 {
			return 0, false
		}
		if !a.Second {
			return head, true
		}
		if headOfHead := c.Head(head); headOfHead >= 0 {
			return headOfHead, true
		}
		return 0, false
	case 'l':
		leftMods := c.LeftDependents(atAddress)
		if a.Second {
			if len(leftMods) > 1 {
				return leftMods[1], true
			}
			return 0, false
		}
		if len(leftMods) == 0 {
			return 0, false
		}
		return leftMods[0], true
	case 'r':
		rightMods := c.RightDependents(atAddress)
		if a.Second {
			if len(rightMods) > 1 {
				return rightMods[len(rightMods)-2], true
			}
			return 0, false
		}
		if len(rightMods) == 0 {
			return 0, false
		}
		return rightMods[len(rightMods)-1], true
	}
	return atAddress, true
}
