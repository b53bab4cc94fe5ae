package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shravan2453/ProjectForge/internal/chat"
	"github.com/shravan2453/ProjectForge/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// renderReport renders the final planning state for the terminal.
func renderReport(s *state.WorkflowState) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Project Plan"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Type: "))
	b.WriteString(fmt.Sprintf("%s (%s)\n", s.ProjectType, s.ComplexityLevel))
	if s.Timeline.TimelineWeeks > 0 {
		b.WriteString(labelStyle.Render("Timeline: "))
		b.WriteString(fmt.Sprintf("%d weeks, %s per week (%d hours total)\n",
			s.Timeline.TimelineWeeks, s.Timeline.WeeklyCommitment, s.Timeline.EstimatedHours))
	}

	if len(s.Milestones) > 0 {
		b.WriteString(sectionStyle.Render("Milestones"))
		b.WriteString("\n")
		for _, m := range s.Milestones {
			b.WriteString(itemStyle.Render(fmt.Sprintf("Week %d: %s (%dh)", m.Week, m.Title, m.Hours)))
			b.WriteString("\n")
		}
	}

	if len(s.WeeklySchedule) > 0 {
		b.WriteString(sectionStyle.Render("Weekly Schedule"))
		b.WriteString("\n")
		weeks := make([]string, 0, len(s.WeeklySchedule))
		for week := range s.WeeklySchedule {
			weeks = append(weeks, week)
		}
		sort.Strings(weeks)
		for _, week := range weeks {
			plan := s.WeeklySchedule[week]
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s (%dh): %s", week, plan.Hours, strings.Join(plan.Tasks, "; "))))
			b.WriteString("\n")
		}
	}

	if s.Report != nil {
		b.WriteString(sectionStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(itemStyle.Render(s.Report.ExecutiveSummary))
		b.WriteString("\n")

		writeSection(&b, "Learning Roadmap", s.Report.LearningRoadmap)
		writeSection(&b, "Success Metrics", s.Report.SuccessMetrics)
		writeSection(&b, "Risks", s.Report.RiskAssessment)
	}

	if len(s.Warnings) > 0 {
		writeSection(&b, "Warnings", s.Warnings)
	}

	return b.String()
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		if item == "" {
			continue
		}
		b.WriteString(itemStyle.Render("- " + item))
		b.WriteString("\n")
	}
}

// renderIdea renders an accepted idea from the chat loop.
func renderIdea(idea chat.Idea) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Accepted Idea: " + idea.Name))
	b.WriteString("\n")
	b.WriteString(idea.Overview)
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Difficulty: "))
	b.WriteString(idea.Difficulty)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Timeline: "))
	b.WriteString(idea.Timeline)
	b.WriteString("\n")
	return b.String()
}
