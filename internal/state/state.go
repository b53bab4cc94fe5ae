package state

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/types"
)

// Phase is a coarse-grained workflow phase tag. It exists for observability
// only; nodes must never branch on it.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseRefining   Phase = "refining"
	PhaseClassify   Phase = "classifying"
	PhaseGenerating Phase = "generating"
	PhaseScheduling Phase = "scheduling"
	PhaseReporting  Phase = "reporting"
	PhaseCompleted  Phase = "completed"
)

// Role identifies the author of a conversation log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in the append-only conversation log.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Milestone is a single project milestone. Milestones are produced by the
// model and passed along faithfully; the core never computes them.
type Milestone struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Week        int    `json:"week"`
	Hours       int    `json:"hours"`
}

// TimelineInfo summarizes the overall time budget for the project.
type TimelineInfo struct {
	EstimatedHours   int    `json:"estimated_hours"`
	WeeklyCommitment string `json:"weekly_commitment"`
	TimelineWeeks    int    `json:"timeline_weeks"`
}

// WeekPlan is one week's worth of scheduled work.
type WeekPlan struct {
	Tasks []string `json:"tasks"`
	Hours int      `json:"hours"`
}

// TeamMember describes one member of a team project.
type TeamMember struct {
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// PastTask is a record of previously completed work, kept for
// personalization context.
type PastTask struct {
	ProjectType string    `json:"project_type"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Report is the assembled project report. Every field is total: a degraded
// report carries explicit error content rather than nulls.
type Report struct {
	ExecutiveSummary       string            `json:"executive_summary"`
	ProjectOverview        map[string]string `json:"project_overview"`
	TimelineSummary        []string          `json:"timeline_summary"`
	TeamResponsibilities   []string          `json:"team_responsibilities"`
	LearningRoadmap        []string          `json:"learning_roadmap"`
	ResourcePrioritization map[string]string `json:"resource_prioritization"`
	ResourceCompilation    []string          `json:"resource_compilation"`
	SuccessMetrics         []string          `json:"success_metrics"`
	RiskAssessment         []string          `json:"risk_assessment"`
	ProjectAlignment       []string          `json:"project_alignment"`
}

// maxCompletedTasks bounds the past-task history; the oldest record is
// evicted once the cap is reached.
const maxCompletedTasks = 50

// WorkflowState is the mutable aggregate threaded through every node of the
// planning workflow. It is exclusively owned by a single in-flight
// traversal and is plain data end to end, so it can be snapshotted between
// steps.
type WorkflowState struct {
	// Identity. Required, set once at creation.
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`

	Profile *profile.Profile `json:"profile,omitempty"`

	// Append-only conversation log. Nodes may append but never reorder or
	// delete.
	Messages []Message `json:"messages"`

	// Project definition. A field is either absent (not yet computed) or
	// holds the most recent stage's output.
	ProjectGoal     string   `json:"project_goal,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	TechnicalSkills []string `json:"technical_skills,omitempty"`
	EndGoal         string   `json:"end_goal,omitempty"`
	ProjectType     string   `json:"project_type,omitempty"`
	ProjectSubtype  string   `json:"project_subtype,omitempty"`
	ComplexityLevel string   `json:"complexity_level,omitempty"`

	// Refinement gate. The gate and hints must be cleared by the intent
	// refinement stage before classification output is considered final.
	IntentRefinementNeeded bool     `json:"intent_refinement_needed"`
	RefinementHints        []string `json:"refinement_hints,omitempty"`

	// Intent refinement outputs.
	ClarifiedIntent       string   `json:"clarified_intent,omitempty"`
	FollowUpQuestions     []string `json:"follow_up_questions,omitempty"`
	SuggestedProjectTypes []string `json:"suggested_project_types,omitempty"`
	GeneratedIdeas        []string `json:"generated_ideas,omitempty"`

	// Background assessment outputs.
	HasRelevantBackground bool   `json:"has_relevant_background"`
	BackgroundAssessment  string `json:"background_assessment,omitempty"`
	AdviceLevel           string `json:"advice_level,omitempty"`
	Reasoning             string `json:"reasoning,omitempty"`

	// Classification outputs.
	SkillGaps            string   `json:"skill_gaps,omitempty"`
	RecommendedResources []string `json:"recommended_resources,omitempty"`
	ProjectCompleteness  float64  `json:"project_completeness" validate:"gte=0,lte=1"`

	// Milestone generation outputs.
	Milestones         []Milestone      `json:"milestones,omitempty"`
	Timeline           TimelineInfo     `json:"timeline"`
	LearningPath       []string         `json:"learning_path,omitempty"`
	QuickWins          []string         `json:"quick_wins,omitempty"`
	Checkpoints        []map[string]any `json:"checkpoints,omitempty"`
	PivotOpportunities []string         `json:"pivot_opportunities,omitempty"`
	Deliverables       []string         `json:"deliverables,omitempty"`
	CompletionPrep     []string         `json:"completion_prep,omitempty"`
	PortfolioItems     []string         `json:"portfolio_items,omitempty"`

	// Timeline scheduling outputs.
	WeeklySchedule     map[string]WeekPlan `json:"weekly_schedule,omitempty"`
	MilestoneSummary   []string            `json:"milestone_summary,omitempty"`
	SchedulingWarnings []string            `json:"scheduling_warnings,omitempty"`
	PacingNotes        []string            `json:"pacing_notes,omitempty"`

	Report *Report `json:"report,omitempty"`

	// Team info. TeamSize < 1 is a validation failure.
	HasTeam     bool         `json:"has_team"`
	TeamSize    int          `json:"team_size" validate:"gte=1"`
	TeamMembers []TeamMember `json:"team_members,omitempty"`

	// Bounded history of completed work.
	CompletedTasks []PastTask `json:"completed_tasks,omitempty" validate:"max=50"`

	// Workflow position, observability only.
	CurrentNode string `json:"current_node"`
	Phase       Phase  `json:"workflow_phase"`

	// Append-only error and warning lists, never cleared by automated stages.
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Option configures optional initial project data on a new WorkflowState.
type Option func(*WorkflowState)

// WithProfile attaches the person profile snapshot.
func WithProfile(p *profile.Profile) Option {
	return func(s *WorkflowState) { s.Profile = p }
}

// WithProjectGoal sets the initial project goal.
func WithProjectGoal(goal string) Option {
	return func(s *WorkflowState) { s.ProjectGoal = goal }
}

// WithInterests sets the initial interest list.
func WithInterests(interests ...string) Option {
	return func(s *WorkflowState) { s.Interests = interests }
}

// WithTechnicalSkills sets the skills the user wants to apply.
func WithTechnicalSkills(skills ...string) Option {
	return func(s *WorkflowState) { s.TechnicalSkills = skills }
}

// WithEndGoal sets the desired project outcome.
func WithEndGoal(goal string) Option {
	return func(s *WorkflowState) { s.EndGoal = goal }
}

// WithTeam marks the project as a team project with the given size and members.
func WithTeam(size int, members ...TeamMember) Option {
	return func(s *WorkflowState) {
		s.HasTeam = true
		s.TeamSize = size
		s.TeamMembers = members
	}
}

// WithCompletedTasks seeds the past-task history.
func WithCompletedTasks(tasks ...PastTask) Option {
	return func(s *WorkflowState) { s.CompletedTasks = tasks }
}

// New constructs a WorkflowState with the required identity fields and
// optional initial project data. Structural invariant violations surface as
// VALIDATION_FAILED before any node runs.
func New(userID, sessionID string, opts ...Option) (*WorkflowState, error) {
	s := &WorkflowState{
		UserID:    userID,
		SessionID: sessionID,
		Messages:  []Message{},
		TeamSize:  1,
		Phase:     PhaseCollecting,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the structural invariants of the state.
func (s *WorkflowState) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return types.WrapError(types.VALIDATION_FAILED, "state validation failed", err)
	}
	return nil
}

// AppendMessage appends a record to the conversation log.
func (s *WorkflowState) AppendMessage(role Role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// AppendWarning records a non-fatal issue. Warnings are append-only.
func (s *WorkflowState) AppendWarning(w string) {
	s.Warnings = append(s.Warnings, w)
}

// AppendError records a fatal issue for later reporting. Errors are append-only.
func (s *WorkflowState) AppendError(e string) {
	s.Errors = append(s.Errors, e)
}

// RecordTask appends a past-task record, evicting the oldest entry once the
// history cap is reached.
func (s *WorkflowState) RecordTask(task PastTask) {
	if len(s.CompletedTasks) >= maxCompletedTasks {
		s.CompletedTasks = s.CompletedTasks[1:]
	}
	s.CompletedTasks = append(s.CompletedTasks, task)
}

// LastAssistantMessage returns the content of the most recent
// assistant-authored log entry, or "" if none exists.
func (s *WorkflowState) LastAssistantMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i].Content
		}
	}
	return ""
}

// LastUserMessage returns the content of the most recent user-authored log
// entry, or "" if none exists.
func (s *WorkflowState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}
