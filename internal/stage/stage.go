// Package stage contains the LLM-backed transformation stages of the
// planning workflow. Each stage is a pure function over the workflow state:
// it reads only its declared input fields, shapes them into a completion
// request, and returns a typed output. Stages never write to the state;
// the node adapters in internal/planner own the merge.
package stage

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Fallback strings substituted for absent optional inputs. Prompts must be
// deterministic, so empty values are never passed silently.
const (
	notSpecified      = "Not specified"
	noPastProjects    = "No previous projects completed"
	noTechnicalSkills = "No technical skills specified"
)

// Option configures a stage.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the stage's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// toJSON renders a value as a JSON string for embedding in a prompt input.
func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// orFallback returns s, or the fallback when s is empty.
func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// skillsOrFallback joins a skill list, substituting the literal fallback
// for an empty list.
func skillsOrFallback(skills []string) string {
	if len(skills) == 0 {
		return noTechnicalSkills
	}
	out := skills[0]
	for _, s := range skills[1:] {
		out += ", " + s
	}
	return out
}
