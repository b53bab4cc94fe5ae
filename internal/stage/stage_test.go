package stage

import (
	"context"

	"github.com/shravan2453/ProjectForge/internal/llm"
	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/state"
)

// portCall records one completion request made by a stage under test.
type portCall struct {
	inputs map[string]any
	fields []llm.FieldSpec
}

// scriptedPort is a deterministic Completer: responses are consumed from
// script in call order, or looked up by the first requested output field
// when byField is set. All calls are recorded.
type scriptedPort struct {
	script  []llm.Outputs
	byField map[string]llm.Outputs
	err     error
	calls   []portCall
}

func (p *scriptedPort) Complete(ctx context.Context, inputs map[string]any, outputs []llm.FieldSpec) (llm.Outputs, error) {
	p.calls = append(p.calls, portCall{inputs: inputs, fields: outputs})
	if p.err != nil {
		return nil, p.err
	}
	if p.byField != nil && len(outputs) > 0 {
		if out, ok := p.byField[outputs[0].Name]; ok {
			return out, nil
		}
		return llm.Outputs{}, nil
	}

	idx := len(p.calls) - 1
	if idx >= len(p.script) {
		return llm.Outputs{}, nil
	}
	return p.script[idx], nil
}

func studentProfile() *profile.Profile {
	p, err := profile.New(profile.Profile{
		UserType:             profile.UserTypeStudent,
		ExperienceLevel:      profile.ExperienceBeginner,
		SkillDomains:         []string{"python", "web"},
		WeeklyHoursAvailable: 10,
	})
	if err != nil {
		panic(err)
	}
	return p
}

func plannedState() *state.WorkflowState {
	s, err := state.New("user-1", "session-1",
		state.WithProfile(studentProfile()),
		state.WithProjectGoal("build a study planner"),
		state.WithInterests("productivity"),
		state.WithEndGoal("portfolio piece"),
		state.WithTechnicalSkills("python"),
	)
	if err != nil {
		panic(err)
	}
	return s
}
