package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/risk"
	"github.com/upgrade-ai/studyplan/internal/strategy"
	"github.com/upgrade-ai/studyplan/internal/task"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dateStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	maxTitleLen = 48
)

// truncateTitle shortens a task title to fit a terminal column, preserving
// any ANSI escape sequences.
func truncateTitle(s string) string {
	if lipgloss.Width(s) <= maxTitleLen {
		return s
	}
	return ansi.Truncate(s, maxTitleLen, "...")
}

// renderPlan writes a human-readable day-by-day schedule.
func renderPlan(w io.Writer, plan *strategy.Plan, tasks []task.Task, capacity *planner.DayCapacity) {
	titles := make(map[string]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	fmt.Fprintln(w, titleStyle.Render("Study plan"))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("plan %s via %s", plan.PlanID, plan.StrategyUsed)))
	if plan.FallbackReason != "" {
		fmt.Fprintln(w, warnStyle.Render("fallback: "+plan.FallbackReason))
	}
	fmt.Fprintln(w)

	for _, summary := range planner.Summarize(plan.Schedule, capacity) {
		load := fmt.Sprintf("%.1fh / %.1fh", summary.Hours, summary.Capacity)
		if summary.Full {
			load += " (full)"
		}
		fmt.Fprintf(w, "%s  %s\n", dateStyle.Render(summary.Date), mutedStyle.Render(load))

		for _, entry := range plan.Schedule[summary.Date] {
			label := titles[entry.TaskID]
			if label == "" {
				label = entry.Title
			}
			if label == "" {
				label = entry.TaskID
			}
			fmt.Fprintf(w, "  %-6.1f %s\n", entry.Hours, truncateTitle(label))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Overflowed) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d task(s) did not fit in the horizon:", len(plan.Overflowed))))
		for _, id := range plan.Overflowed {
			label := titles[id]
			if label == "" {
				label = id
			}
			fmt.Fprintf(w, "  - %s\n", truncateTitle(label))
		}
	} else {
		fmt.Fprintln(w, okStyle.Render("All tasks fit within the horizon."))
	}
}

// renderRisk writes per-task risk scores and threshold alerts.
func renderRisk(w io.Writer, tasks []task.Task, scores map[string]float64, alerts []risk.Alert, threshold float64) {
	fmt.Fprintln(w, titleStyle.Render("Risk scores"))
	for _, t := range tasks {
		label := t.Title
		if label == "" {
			label = t.ID
		}
		fmt.Fprintf(w, "  %.2f  %s\n", scores[t.ID], truncateTitle(label))
	}
	fmt.Fprintln(w)

	if len(alerts) == 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("No tasks above the %.2f alert threshold.", threshold)))
		return
	}

	fmt.Fprintln(w, alertStyle.Render(fmt.Sprintf("%d task(s) above the %.2f alert threshold:", len(alerts), threshold)))
	for _, a := range alerts {
		label := a.Task.Title
		if label == "" {
			label = a.Task.ID
		}
		fmt.Fprintf(w, "  %.2f  %s\n", a.Score, truncateTitle(label))
	}
}
