package workflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// defaultMaxSteps bounds a single traversal. Cyclic graphs (the chat
// sub-workflow loops by design) terminate through this guard instead of
// spinning forever on adversarial input.
const defaultMaxSteps = 50

// Builder provides a fluent API for constructing workflow graphs.
// It accumulates errors during building and reports them all at Compile time.
type Builder[S any] struct {
	name         string
	nodes        map[string]NodeFunc[S]
	edges        map[string]string
	conditionals map[string]*conditional[S]
	entry        string
	maxSteps     int
	logger       *slog.Logger
	errors       []error
}

// NewBuilder creates a Builder for a named workflow graph.
func NewBuilder[S any](name string) *Builder[S] {
	return &Builder[S]{
		name:         name,
		nodes:        make(map[string]NodeFunc[S]),
		edges:        make(map[string]string),
		conditionals: make(map[string]*conditional[S]),
		maxSteps:     defaultMaxSteps,
	}
}

// WithMaxSteps overrides the traversal step guard.
func (b *Builder[S]) WithMaxSteps(n int) *Builder[S] {
	if n > 0 {
		b.maxSteps = n
	}
	return b
}

// WithLogger sets the logger used during traversal.
func (b *Builder[S]) WithLogger(logger *slog.Logger) *Builder[S] {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// AddNode registers a named node. Node names must be unique; a duplicate
// registration is a wiring mistake reported at Compile time.
func (b *Builder[S]) AddNode(name string, fn NodeFunc[S]) *Builder[S] {
	if name == "" || name == End {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("invalid node name %q", name)))
		return b
	}
	if fn == nil {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("node %q must have a function", name)))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_DUPLICATE_NODE,
			fmt.Sprintf("node %q already registered", name)))
		return b
	}

	b.nodes[name] = fn
	return b
}

// SetEntry designates the single entry node.
func (b *Builder[S]) SetEntry(name string) *Builder[S] {
	b.entry = name
	return b
}

// AddEdge adds an unconditional transition. A node may have at most one
// unconditional outgoing edge and may not mix unconditional and
// conditional edges.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	if from == "" || to == "" {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			"edge endpoints must be non-empty"))
		return b
	}
	if _, exists := b.edges[from]; exists {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("node %q already has an unconditional outgoing edge", from)))
		return b
	}
	if _, exists := b.conditionals[from]; exists {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("node %q already has a conditional edge", from)))
		return b
	}

	b.edges[from] = to
	return b
}

// AddConditionalEdge adds a branch point: after fn runs on node from, the
// router selects an outcome label, which must be a key of outcomes or the
// End marker.
func (b *Builder[S]) AddConditionalEdge(from string, router RouterFunc[S], outcomes map[string]string) *Builder[S] {
	if from == "" || router == nil || len(outcomes) == 0 {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			"conditional edge requires a source node, a router, and at least one outcome"))
		return b
	}
	if _, exists := b.edges[from]; exists {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("node %q already has an unconditional outgoing edge", from)))
		return b
	}
	if _, exists := b.conditionals[from]; exists {
		b.errors = append(b.errors, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("node %q already has a conditional edge", from)))
		return b
	}

	b.conditionals[from] = &conditional[S]{router: router, outcomes: outcomes}
	return b
}

// Compile validates the graph wiring and returns an immutable Graph.
// Validation guarantees: the entry node exists, every edge references a
// registered node, and every node reachable from entry reaches End along
// at least one path. Cycles are legal; dead-ends are not.
func (b *Builder[S]) Compile() (*Graph[S], error) {
	errs := append([]error{}, b.errors...)

	if b.entry == "" {
		errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE, "graph has no entry node"))
	} else if _, exists := b.nodes[b.entry]; !exists {
		errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE,
			fmt.Sprintf("entry node %q is not registered", b.entry)))
	}

	for from, to := range b.edges {
		if _, exists := b.nodes[from]; !exists {
			errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE,
				fmt.Sprintf("edge references unknown source node %q", from)))
		}
		if to != End {
			if _, exists := b.nodes[to]; !exists {
				errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE,
					fmt.Sprintf("edge references unknown target node %q", to)))
			}
		}
	}
	for from, cond := range b.conditionals {
		if _, exists := b.nodes[from]; !exists {
			errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE,
				fmt.Sprintf("conditional edge references unknown source node %q", from)))
		}
		for outcome, to := range cond.outcomes {
			if to != End {
				if _, exists := b.nodes[to]; !exists {
					errs = append(errs, types.NewError(types.WORKFLOW_INVALID_EDGE,
						fmt.Sprintf("outcome %q references unknown target node %q", outcome, to)))
				}
			}
		}
	}

	if len(errs) == 0 {
		if err := b.validateTerminalReachability(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, types.WrapError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("graph %q validation failed with %d error(s)", b.name, len(errs)),
			errors.Join(errs...))
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Graph[S]{
		name:         b.name,
		nodes:        b.nodes,
		edges:        b.edges,
		conditionals: b.conditionals,
		entry:        b.entry,
		maxSteps:     b.maxSteps,
		logger:       logger,
	}, nil
}

// validateTerminalReachability checks that every node reachable from the
// entry can reach End along at least one path. Nodes with no outgoing
// edge, and subgraphs that can only cycle, are dead-ends.
func (b *Builder[S]) validateTerminalReachability() error {
	successors := func(name string) []string {
		var out []string
		if to, ok := b.edges[name]; ok {
			out = append(out, to)
		}
		if cond, ok := b.conditionals[name]; ok {
			for _, to := range cond.outcomes {
				out = append(out, to)
			}
		}
		return out
	}

	// Forward BFS from entry.
	reachable := map[string]bool{b.entry: true}
	queue := []string{b.entry}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range successors(current) {
			if next == End || reachable[next] {
				continue
			}
			reachable[next] = true
			queue = append(queue, next)
		}
	}

	// Backward BFS from End over the reachable subgraph.
	predecessors := make(map[string][]string)
	canReachEnd := make(map[string]bool)
	for name := range reachable {
		for _, next := range successors(name) {
			if next == End {
				canReachEnd[name] = true
				continue
			}
			predecessors[next] = append(predecessors[next], name)
		}
	}

	queue = queue[:0]
	for name := range canReachEnd {
		queue = append(queue, name)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, prev := range predecessors[current] {
			if canReachEnd[prev] {
				continue
			}
			canReachEnd[prev] = true
			queue = append(queue, prev)
		}
	}

	for name := range reachable {
		if !canReachEnd[name] {
			return types.NewError(types.WORKFLOW_UNREACHABLE_TERMINAL,
				fmt.Sprintf("node %q cannot reach the terminal marker", name))
		}
	}

	return nil
}
