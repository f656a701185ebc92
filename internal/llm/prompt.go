package llm

import (
	"fmt"
	"strings"

	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/strategy"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// SystemPrompt frames every planning request.
const SystemPrompt = "You are a study planner. You build daily study schedules " +
	"that respect deadlines, priorities, and the student's available hours. " +
	"You respond with JSON only."

// BuildPlanningPrompt renders the user prompt for a planning request. Risk
// scores are keyed by task id; missing entries render as 0.
func BuildPlanningPrompt(tasks []task.Task, c strategy.Constraints, risks map[string]float64) string {
	var b strings.Builder

	b.WriteString("Create an optimal study schedule for the following tasks.\n\n")
	b.WriteString("Constraints:\n")
	fmt.Fprintf(&b, "- Available hours per day: %g\n", c.HoursPerDay)
	fmt.Fprintf(&b, "- Start date: %s\n", c.StartDate.Format(planner.DateLayout))
	fmt.Fprintf(&b, "- Planning horizon: %d days\n", c.HorizonDays)

	b.WriteString("\nTasks to schedule:\n")
	for i, t := range tasks {
		title := t.Title
		if title == "" {
			title = t.ID
		}
		fmt.Fprintf(&b, "\n%d. %s (id: %s)\n", i+1, title, t.ID)
		if t.DueAt != nil {
			fmt.Fprintf(&b, "   - Due date: %s\n", t.DueAt.Format(planner.DateLayout))
		} else {
			b.WriteString("   - Due date: none\n")
		}
		fmt.Fprintf(&b, "   - Estimated hours: %g\n", t.EstimatedHours)
		fmt.Fprintf(&b, "   - Priority: %d\n", t.DeclaredPriority)
		fmt.Fprintf(&b, "   - Risk score: %.2f\n", risks[t.ID])
	}

	b.WriteString("\nRules:\n")
	b.WriteString("1. Schedule higher-priority and higher-risk tasks earlier.\n")
	b.WriteString("2. Never allocate more than the available hours on any day.\n")
	b.WriteString("3. Split tasks across days when they do not fit in one.\n")
	b.WriteString("4. Use only dates within the planning horizon.\n")
	b.WriteString("\nReturn JSON only: an object whose keys are YYYY-MM-DD dates and ")
	b.WriteString(`whose values are lists of {"task_id": "...", "hours": N} entries.`)
	b.WriteString("\n")

	return b.String()
}
