package workflow

import (
	"context"
	"fmt"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// Result carries the final state of a traversal together with the visited
// node trace, in execution order.
type Result[S any] struct {
	State S
	Trace []string
}

// Run executes the graph synchronously starting from the entry node. Each
// step invokes the node function and then follows the node's unconditional
// edge, or evaluates its router when the edge is conditional. Traversal
// stops when an edge or outcome resolves to End, when a node or router
// fails, when the step guard trips, or when the context is cancelled.
//
// A node error aborts the run and is returned as-is so callers can inspect
// its code.
func (g *Graph[S]) Run(ctx context.Context, initial S) (Result[S], error) {
	state := initial
	result := Result[S]{State: initial}
	current := g.entry

	for step := 0; current != End; step++ {
		if err := ctx.Err(); err != nil {
			return result, types.WrapError(types.WORKFLOW_NODE_FAILED,
				fmt.Sprintf("graph %q cancelled at node %q", g.name, current), err)
		}
		if step >= g.maxSteps {
			return result, types.NewError(types.WORKFLOW_MAX_STEPS_EXCEEDED,
				fmt.Sprintf("graph %q exceeded %d steps at node %q", g.name, g.maxSteps, current))
		}

		fn := g.nodes[current]
		g.logger.Debug("executing workflow node",
			"graph", g.name,
			"node", current,
			"step", step)

		next, err := fn(ctx, state)
		if err != nil {
			g.logger.Error("workflow node failed",
				"graph", g.name,
				"node", current,
				"step", step,
				"error", err)
			return result, err
		}

		state = next
		result.State = state
		result.Trace = append(result.Trace, current)

		current, err = g.next(current, state)
		if err != nil {
			return result, err
		}
	}

	g.logger.Debug("workflow complete",
		"graph", g.name,
		"steps", len(result.Trace))
	return result, nil
}

// next resolves the node to execute after from, either End or a registered
// node name. Compile guarantees every node has exactly one outgoing edge,
// unconditional or conditional.
func (g *Graph[S]) next(from string, state S) (string, error) {
	if to, ok := g.edges[from]; ok {
		return to, nil
	}

	cond := g.conditionals[from]
	outcome, err := cond.router(state)
	if err != nil {
		return "", types.WrapError(types.WORKFLOW_ROUTING_FAILED,
			fmt.Sprintf("router for node %q failed", from), err)
	}
	if outcome == End {
		return End, nil
	}
	to, ok := cond.outcomes[outcome]
	if !ok {
		return "", types.NewError(types.WORKFLOW_ROUTING_FAILED,
			fmt.Sprintf("router for node %q returned unrecognized outcome %q", from, outcome))
	}
	return to, nil
}
