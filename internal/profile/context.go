package profile

// Context derives the normalized profile-context mapping handed to the
// completion port. It is a pure function: a nil profile yields an empty
// mapping, never an error.
func Context(p *Profile) map[string]any {
	if p == nil {
		return map[string]any{}
	}

	ctx := map[string]any{
		"user_type":                string(p.UserType),
		"experience_level":         string(p.ExperienceLevel),
		"has_technical_background": p.HasTechnicalBackground,
		"skill_domains":            append([]string{}, p.SkillDomains...),
		"weekly_hours_available":   p.Hours(),
		"constraints":              append([]string{}, p.Constraints...),
	}

	if p.WorkStyle != "" {
		ctx["work_style"] = string(p.WorkStyle)
	}
	if p.LearningPreference != "" {
		ctx["learning_preference"] = p.LearningPreference
	}
	if p.CollaborationPreference != "" {
		ctx["collaboration_preference"] = p.CollaborationPreference
	}

	return ctx
}
