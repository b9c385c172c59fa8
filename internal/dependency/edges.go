// Package dependency orders named nodes so that every node comes after the
// nodes it declares it must follow.
//
// The input is an Edges value: an insertion-ordered mapping from a node name
// to its predecessor names. OrderByDependencies walks it depth-first and
// returns a total order, or an *UnresolvableDependenciesError when the
// predecessor graph contains a cycle. Traversal only ever follows key
// registration order and declared predecessor order, so identical input
// always yields the identical order.
package dependency

// Edges maps node names to the names they must be ordered after. Keys keep
// the position of their first Set call.
type Edges struct {
	keys []string
	deps map[string][]string
}

func NewEdges() *Edges {
	return &Edges{deps: map[string][]string{}}
}

// Set replaces the predecessor list of name. A name that is already present
// keeps its original position.
func (e *Edges) Set(name string, after ...string) {
	if e.deps == nil {
		e.deps = map[string][]string{}
	}
	if _, ok := e.deps[name]; !ok {
		e.keys = append(e.keys, name)
	}
	e.deps[name] = append([]string{}, after...)
}

func (e *Edges) Get(name string) ([]string, bool) {
	d, ok := e.deps[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, d...), true
}

func (e *Edges) Keys() []string {
	return append([]string{}, e.keys...)
}

func (e *Edges) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}
