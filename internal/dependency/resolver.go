package dependency

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// graph is the interned form of Edges: node i has name names[i] and must
// follow every node in preds[i].
type graph struct {
	names []string
	index map[string]int
	preds [][]int
}

func intern(e *Edges) *graph {
	g := &graph{index: make(map[string]int, e.Len())}
	if e.Len() == 0 {
		return g
	}
	for _, k := range e.keys {
		g.id(k)
	}
	for _, k := range e.keys {
		from := g.index[k]
		for _, d := range e.deps[k] {
			to := g.id(d)
			g.preds[from] = append(g.preds[from], to)
		}
	}
	return g
}

func (g *graph) id(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.names = append(g.names, name)
	g.index[name] = i
	g.preds = append(g.preds, nil)
	return i
}

type frame struct {
	node int
	next int
}

// OrderByDependencies returns every key of e, and every name referenced only
// as a predecessor, exactly once, each after all of its predecessors.
//
// Roots are visited in key registration order and predecessors in declared
// order. A cycle yields an *UnresolvableDependenciesError and no order.
func OrderByDependencies(e *Edges) ([]string, error) {
	g := intern(e)
	order := make([]string, 0, len(g.names))
	state := make([]visitState, len(g.names))
	var stack []frame

	for root := range g.names {
		if state[root] != unvisited {
			continue
		}
		state[root] = inProgress
		stack = append(stack[:0], frame{node: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			preds := g.preds[top.node]
			if top.next < len(preds) {
				p := preds[top.next]
				top.next++
				switch state[p] {
				case done:
					continue
				case inProgress:
					return nil, g.cycle(stack, p)
				}
				state[p] = inProgress
				stack = append(stack, frame{node: p})
				continue
			}
			state[top.node] = done
			order = append(order, g.names[top.node])
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// cycle builds the error for re-entering node p, which is on the stack.
func (g *graph) cycle(stack []frame, p int) error {
	start := 0
	for i, f := range stack {
		if f.node == p {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, g.names[f.node])
	}
	path = append(path, g.names[p])
	return &UnresolvableDependenciesError{Cycle: path}
}

// Order is OrderByDependencies over names in the given order, each depending
// on deps[name].
func Order(names []string, deps map[string][]string) ([]string, error) {
	e := NewEdges()
	for _, n := range names {
		e.Set(n, deps[n]...)
	}
	return OrderByDependencies(e)
}

// Closure returns the roots plus every name reachable from them through
// predecessor edges.
func Closure(e *Edges, roots ...string) map[string]bool {
	seen := map[string]bool{}
	pending := append([]string{}, roots...)
	for len(pending) > 0 {
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		if e != nil {
			pending = append(pending, e.deps[n]...)
		}
	}
	return seen
}
