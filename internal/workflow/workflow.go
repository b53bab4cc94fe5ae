// Package workflow implements the graph engine that drives a state value
// through an ordered sequence of processing nodes until a terminal marker
// is reached. Graphs are built with a Builder, validated at Compile time,
// and traversed synchronously by Run. The engine is generic over the state
// type so the planning workflow and the conversational sub-workflow share
// one implementation.
package workflow

import (
	"context"
	"log/slog"
)

// End is the terminal marker. An edge or router outcome resolving to End
// stops the traversal.
const End = "__end__"

// NodeFunc is a single processing node: it consumes the state, produces a
// new-or-mutated state, and returns it. A returned error aborts the run;
// the engine performs no implicit retries.
type NodeFunc[S any] func(ctx context.Context, s S) (S, error)

// RouterFunc evaluates the state after a node runs and returns the outcome
// label selecting the next node.
type RouterFunc[S any] func(s S) (string, error)

// conditional is a branch point: the router's outcome is looked up in the
// outcomes map (or may be End directly).
type conditional[S any] struct {
	router   RouterFunc[S]
	outcomes map[string]string
}

// Graph is a compiled, immutable workflow graph. Construct it with a
// Builder; a compiled graph is safe for reuse across sequential runs but a
// single state value must never be shared by concurrent traversals.
type Graph[S any] struct {
	name         string
	nodes        map[string]NodeFunc[S]
	edges        map[string]string
	conditionals map[string]*conditional[S]
	entry        string
	maxSteps     int
	logger       *slog.Logger
}

// Name returns the graph's name.
func (g *Graph[S]) Name() string {
	return g.name
}

// NodeNames returns the names of all registered nodes.
func (g *Graph[S]) NodeNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	return names
}
