package transition

import (
	"fmt"

	"github.com/pkg/errors"
)

type InvalidTransitionError struct {
	Transition    Transition
	Configuration string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s to %s: preconditions not met", e.Transition.Code(), e.Configuration)
}

type CircularDependencyError struct {
	Head, Dependent int
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("arc %d -> %d would create a cycle", e.Head, e.Dependent)
}

type UnknownTransitionError struct {
	Code string
}

func (e *UnknownTransitionError) Error() string {
	return fmt.Sprintf("unknown transition code %q", e.Code)
}

// BranchError reports whether err only invalidates the configuration it was
// raised on.
func BranchError(err error) bool {
	switch errors.Cause(err).(type) {
	case *InvalidTransitionError, *CircularDependencyError:
		return true
	}
	return false
}
