package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/stage"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// nodeSet holds the stage instances behind the graph nodes. Each node
// calls its stage at most once per traversal step and owns the merge of
// the stage output into the state; stages themselves never touch the
// state.
type nodeSet struct {
	assessor   *stage.BackgroundAssessor
	classifier *stage.Classifier
	refiner    *stage.IntentRefiner
	generator  *stage.MilestoneGenerator
	scheduler  *stage.TimelineScheduler
	assembler  *stage.ReportAssembler
}

func newNodes(port llm.Completer, logger *slog.Logger) *nodeSet {
	opt := stage.WithLogger(logger)
	return &nodeSet{
		assessor:   stage.NewBackgroundAssessor(port, opt),
		classifier: stage.NewClassifier(port, opt),
		refiner:    stage.NewIntentRefiner(port, opt),
		generator:  stage.NewMilestoneGenerator(port, opt),
		scheduler:  stage.NewTimelineScheduler(port, opt),
		assembler:  stage.NewReportAssembler(port, opt),
	}
}

func (n *nodeSet) background(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeBackground
	s.Phase = state.PhaseCollecting

	out, err := n.assessor.Run(ctx, s)
	if err != nil {
		s.AppendError("background assessment failed: " + err.Error())
		return s, err
	}

	s.HasRelevantBackground = out.HasRelevantBackground
	s.BackgroundAssessment = out.Assessment
	s.AdviceLevel = out.AdviceLevel
	s.Reasoning = out.Reasoning
	return s, nil
}

func (n *nodeSet) classify(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeClassify
	s.Phase = state.PhaseClassify

	out, err := n.classifier.Run(ctx, s)
	if err != nil {
		s.AppendError("classification failed: " + err.Error())
		return s, err
	}

	s.ProjectCompleteness = out.Completeness

	if out.NeedsRefinement {
		s.IntentRefinementNeeded = true
		s.RefinementHints = out.RefinementHints
		return s, nil
	}

	s.IntentRefinementNeeded = false
	s.RefinementHints = nil
	s.ProjectType = out.ProjectType
	s.ComplexityLevel = out.ComplexityLevel
	s.RecommendedResources = out.RecommendedResources
	s.SkillGaps = out.SkillGaps
	s.Reasoning = out.Reasoning
	return s, nil
}

func (n *nodeSet) refine(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeRefine
	s.Phase = state.PhaseRefining

	out, err := n.refiner.Run(ctx, s)
	if err != nil {
		s.AppendError("intent refinement failed: " + err.Error())
		return s, err
	}

	s.ClarifiedIntent = out.ClarifiedIntent
	s.FollowUpQuestions = out.FollowUpQuestions
	s.SuggestedProjectTypes = out.SuggestedProjectTypes
	s.GeneratedIdeas = out.GeneratedIdeas

	// Refinement resolves the gaps the gate flagged so the cycle back into
	// classification converges, and clears the gate it was routed in on.
	if s.ProjectGoal == "" && out.ClarifiedIntent != "" {
		s.ProjectGoal = out.ClarifiedIntent
	}
	if s.EndGoal == "" && out.ClarifiedIntent != "" {
		s.EndGoal = out.ClarifiedIntent
	}
	s.IntentRefinementNeeded = false
	s.RefinementHints = nil

	if len(out.FollowUpQuestions) > 0 {
		s.AppendMessage(state.RoleAssistant, strings.Join(out.FollowUpQuestions, "\n"))
	}
	return s, nil
}

func (n *nodeSet) milestones(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeMilestones
	s.Phase = state.PhaseGenerating

	out, err := n.generator.Run(ctx, s)
	if err != nil {
		s.AppendError("milestone generation failed: " + err.Error())
		return s, err
	}

	s.Milestones = out.Milestones
	s.Timeline = out.Timeline
	s.LearningPath = out.LearningPath
	s.QuickWins = out.QuickWins
	s.Checkpoints = out.Checkpoints
	s.PivotOpportunities = out.PivotOpportunities
	s.Deliverables = out.Deliverables
	s.CompletionPrep = out.CompletionPrep
	s.PortfolioItems = out.PortfolioItems
	return s, nil
}

func (n *nodeSet) timeline(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeTimeline
	s.Phase = state.PhaseScheduling

	// Scheduling degrades instead of failing; the node never aborts the run.
	out := n.scheduler.Run(ctx, s)

	s.WeeklySchedule = out.WeeklySchedule
	s.MilestoneSummary = out.MilestoneSummary
	s.SchedulingWarnings = append(s.SchedulingWarnings, out.SchedulingWarnings...)
	s.PacingNotes = out.PacingNotes
	for _, w := range out.SchedulingWarnings {
		s.AppendWarning(w)
	}
	return s, nil
}

func (n *nodeSet) report(ctx context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	s.CurrentNode = NodeReport
	s.Phase = state.PhaseReporting

	report := n.assembler.Run(ctx, s)
	s.Report = &report
	s.Phase = state.PhaseCompleted
	return s, nil
}
