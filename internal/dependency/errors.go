package dependency

import (
	"errors"
	"strings"
)

var ErrUnresolvable = errors.New("unresolvable dependencies")

// UnresolvableDependenciesError reports a cycle in the predecessor graph.
// Cycle starts and ends with the same node, e.g. [a b a] for a -> b -> a.
type UnresolvableDependenciesError struct {
	Cycle []string
}

func (e *UnresolvableDependenciesError) Error() string {
	return ErrUnresolvable.Error() + ": cycle " + strings.Join(e.Cycle, " -> ")
}

func (e *UnresolvableDependenciesError) Is(target error) bool {
	return target == ErrUnresolvable
}
