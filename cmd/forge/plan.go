package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shravan2453/ProjectForge/internal/planner"
	"github.com/shravan2453/ProjectForge/internal/profile"
	"github.com/shravan2453/ProjectForge/internal/state"
	"github.com/shravan2453/ProjectForge/internal/types"
)

var (
	planIntakeFile string
	planGoal       string
	planInterests  []string
	planSkills     []string
	planEndGoal    string
	planUserType   string
	planExperience string
	planHours      int
	planTeamSize   int
)

// intake mirrors the flag set for YAML-file input.
type intake struct {
	Goal            string   `yaml:"goal"`
	Interests       []string `yaml:"interests"`
	TechnicalSkills []string `yaml:"technical_skills"`
	EndGoal         string   `yaml:"end_goal"`
	UserType        string   `yaml:"user_type"`
	ExperienceLevel string   `yaml:"experience_level"`
	WeeklyHours     int      `yaml:"weekly_hours"`
	TeamSize        int      `yaml:"team_size"`
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run the full planning workflow and print the report",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planIntakeFile, "intake", "f", "", "YAML intake file (flags override its values)")
	planCmd.Flags().StringVar(&planGoal, "goal", "", "what you want to build")
	planCmd.Flags().StringSliceVar(&planInterests, "interests", nil, "topics you are interested in")
	planCmd.Flags().StringSliceVar(&planSkills, "skills", nil, "technical skills you want to apply")
	planCmd.Flags().StringVar(&planEndGoal, "end-goal", "", "what you want to get out of the project")
	planCmd.Flags().StringVar(&planUserType, "user-type", "student", "student, professional, entrepreneur, freelancer, or hobbyist")
	planCmd.Flags().StringVar(&planExperience, "experience", "beginner", "beginner, intermediate, or advanced")
	planCmd.Flags().IntVar(&planHours, "hours", 10, "weekly hours available")
	planCmd.Flags().IntVar(&planTeamSize, "team-size", 1, "number of team members")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	in, err := loadIntake()
	if err != nil {
		return err
	}

	prof, err := profile.New(profile.Profile{
		UserType:             profile.UserType(in.UserType),
		ExperienceLevel:      profile.ExperienceLevel(in.ExperienceLevel),
		SkillDomains:         in.TechnicalSkills,
		WeeklyHoursAvailable: in.WeeklyHours,
	})
	if err != nil {
		return err
	}

	opts := []state.Option{
		state.WithProfile(prof),
		state.WithProjectGoal(in.Goal),
		state.WithInterests(in.Interests...),
		state.WithTechnicalSkills(in.TechnicalSkills...),
		state.WithEndGoal(in.EndGoal),
	}
	if in.TeamSize > 1 {
		opts = append(opts, state.WithTeam(in.TeamSize))
	}

	s, err := state.New(types.NewID().String(), types.NewID().String(), opts...)
	if err != nil {
		return err
	}

	port, err := newPort(ctx)
	if err != nil {
		return err
	}

	p, err := planner.New(port,
		planner.WithLogger(logger),
		planner.WithMaxSteps(cfg.Workflow.MaxSteps))
	if err != nil {
		return err
	}

	store, closeStore, err := newStore()
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Info("starting planning run", "session", s.SessionID)

	final, runErr := p.Run(ctx, s)
	if snapshot, err := final.Snapshot(); err == nil {
		if err := store.Save(ctx, final.SessionID, snapshot); err != nil {
			logger.Warn("failed to checkpoint final state", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderReport(final))
	return nil
}

// loadIntake merges the intake file (when given) with flags; flags win.
func loadIntake() (intake, error) {
	in := intake{}

	if planIntakeFile != "" {
		data, err := os.ReadFile(planIntakeFile)
		if err != nil {
			return in, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read intake file", err)
		}
		if err := yaml.Unmarshal(data, &in); err != nil {
			return in, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to parse intake file", err)
		}
	}

	if planGoal != "" {
		in.Goal = planGoal
	}
	if len(planInterests) > 0 {
		in.Interests = planInterests
	}
	if len(planSkills) > 0 {
		in.TechnicalSkills = planSkills
	}
	if planEndGoal != "" {
		in.EndGoal = planEndGoal
	}
	if in.UserType == "" {
		in.UserType = planUserType
	}
	if in.ExperienceLevel == "" {
		in.ExperienceLevel = planExperience
	}
	if in.WeeklyHours == 0 {
		in.WeeklyHours = planHours
	}
	if in.TeamSize == 0 {
		in.TeamSize = planTeamSize
	}

	return in, nil
}
