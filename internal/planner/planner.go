// Package planner wires the planning stages into the main workflow graph
// and owns the state merge for every stage output. The graph is a chain
// with one branch point: classification either proceeds to milestone
// generation or routes back through intent refinement when the input is
// too thin to classify.
package planner

import (
	"context"
	"log/slog"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/workflow"
)

// Node names of the planning graph.
const (
	NodeBackground = "background_assessment"
	NodeClassify   = "classification"
	NodeRefine     = "intent_refinement"
	NodeMilestones = "milestone_generation"
	NodeTimeline   = "timeline_scheduling"
	NodeReport     = "report_assembly"
)

// Router outcomes of the classification branch.
const (
	outcomeNeedsRefinement = "needs_refinement"
	outcomeClassified      = "classified"
)

// Planner runs the full planning workflow over a WorkflowState.
type Planner struct {
	graph  *workflow.Graph[*state.WorkflowState]
	logger *slog.Logger
}

// Option configures a Planner.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	maxSteps int
}

// WithLogger sets the planner's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxSteps overrides the traversal step guard, bounding how many times
// the refinement cycle may repeat.
func WithMaxSteps(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSteps = n
		}
	}
}

// New builds the planning graph around the given completion port. The
// wiring is validated at build time; a wiring error here is a programming
// mistake, not a runtime condition.
func New(port llm.Completer, opts ...Option) (*Planner, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	nodes := newNodes(port, cfg.logger)

	builder := workflow.NewBuilder[*state.WorkflowState]("planning").
		WithLogger(cfg.logger).
		AddNode(NodeBackground, nodes.background).
		AddNode(NodeClassify, nodes.classify).
		AddNode(NodeRefine, nodes.refine).
		AddNode(NodeMilestones, nodes.milestones).
		AddNode(NodeTimeline, nodes.timeline).
		AddNode(NodeReport, nodes.report).
		SetEntry(NodeBackground).
		AddEdge(NodeBackground, NodeClassify).
		AddConditionalEdge(NodeClassify, classifyRouter, map[string]string{
			outcomeNeedsRefinement: NodeRefine,
			outcomeClassified:      NodeMilestones,
		}).
		AddEdge(NodeRefine, NodeClassify).
		AddEdge(NodeMilestones, NodeTimeline).
		AddEdge(NodeTimeline, NodeReport).
		AddEdge(NodeReport, workflow.End)

	if cfg.maxSteps > 0 {
		builder = builder.WithMaxSteps(cfg.maxSteps)
	}

	graph, err := builder.Compile()
	if err != nil {
		return nil, err
	}

	return &Planner{graph: graph, logger: cfg.logger}, nil
}

// Run drives the state through the planning graph to the terminal marker
// and returns the final state. A prerequisite-stage failure aborts the run
// with the stage's error.
func (p *Planner) Run(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	result, err := p.graph.Run(ctx, s)
	if err != nil {
		return result.State, err
	}
	return result.State, nil
}

// classifyRouter routes on the refinement gate set by the classification
// node. This is the graph's single branch point.
func classifyRouter(s *state.WorkflowState) (string, error) {
	if s.IntentRefinementNeeded {
		return outcomeNeedsRefinement, nil
	}
	return outcomeClassified, nil
}
