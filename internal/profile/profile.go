package profile

import (
	"github.com/go-playground/validator/v10"

	"github.com/shravan2453/ProjectForge/internal/types"
)

// UserType classifies the person the plan is being built for.
type UserType string

const (
	UserTypeStudent      UserType = "student"
	UserTypeProfessional UserType = "professional"
	UserTypeEntrepreneur UserType = "entrepreneur"
	UserTypeFreelancer   UserType = "freelancer"
	UserTypeHobbyist     UserType = "hobbyist"
)

// ExperienceLevel is the person's overall experience level.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// WorkStyle is the person's preferred working approach.
type WorkStyle string

const (
	WorkStyleBurstWorker    WorkStyle = "burst-worker"
	WorkStyleSteadyProgress WorkStyle = "steady-progress"
	WorkStyleDeadlineDriven WorkStyle = "deadline-driven"
	WorkStyleFlexible       WorkStyle = "flexible"
)

// Profile is a lightweight person snapshot used as model context.
// It is created once at session start and read-only afterward; mutation is
// an external-layer concern.
//
// HoursPerWeek and WeeklyHoursAvailable describe the same quantity.
// HoursPerWeek predates WeeklyHoursAvailable and is kept for backward
// compatibility; readers must prefer WeeklyHoursAvailable when both are set.
type Profile struct {
	UserType        UserType        `json:"user_type" validate:"required,oneof=student professional entrepreneur freelancer hobbyist"`
	ExperienceLevel ExperienceLevel `json:"experience_level" validate:"required,oneof=beginner intermediate advanced"`

	HasTechnicalBackground bool     `json:"has_technical_background"`
	SkillDomains           []string `json:"skill_domains" validate:"max=5,unique"`

	WeeklyHoursAvailable int `json:"weekly_hours_available" validate:"omitempty,gte=1,lte=80"`
	// Deprecated: use WeeklyHoursAvailable.
	HoursPerWeek int `json:"hours_per_week,omitempty" validate:"omitempty,gte=1,lte=80"`

	WorkStyle WorkStyle `json:"work_style" validate:"omitempty,oneof=burst-worker steady-progress deadline-driven flexible"`

	LearningPreference      string `json:"learning_preference,omitempty" validate:"omitempty,oneof=hands-on theory-first example-driven"`
	CollaborationPreference string `json:"collaboration_preference,omitempty" validate:"omitempty,oneof=solo small-team large-team flexible"`

	// Constraint labels such as "classes" or "full_time_job".
	Constraints []string `json:"constraints,omitempty" validate:"max=10,unique"`
}

// New validates the given profile and returns it. Structural invariant
// violations (unknown user type, duplicate skills, hours out of range)
// surface as PROFILE_INVALID before any workflow node runs.
func New(p Profile) (*Profile, error) {
	if err := validator.New().Struct(p); err != nil {
		return nil, types.WrapError(types.PROFILE_INVALID, "profile validation failed", err)
	}
	return &p, nil
}

// Hours returns the weekly hour budget, preferring the newer field when
// both are present.
func (p *Profile) Hours() int {
	if p.WeeklyHoursAvailable > 0 {
		return p.WeeklyHoursAvailable
	}
	return p.HoursPerWeek
}
