package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upgrade-ai/studyplan/internal/config"
	"github.com/upgrade-ai/studyplan/internal/risk"
)

var riskCmd = &cobra.Command{
	Use:   "risk <tasks-file>",
	Short: "Score tasks for deadline risk",
	Long: `Score each task on a 0 to 1 risk scale and flag tasks above the alert
threshold. Risk combines deadline proximity, declared priority, estimated
effort, and whether the task is already in progress.

Examples:
  # Score tasks and show alerts
  studyplan risk tasks.json

  # Use a stricter alert threshold
  studyplan risk tasks.json --threshold 0.5

  # Emit scores as JSON
  studyplan risk tasks.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

var (
	riskThreshold float64
	riskJSON      bool
)

func init() {
	riskCmd.Flags().Float64Var(&riskThreshold, "threshold", 0, "alert threshold, exclusive (default from config)")
	riskCmd.Flags().BoolVar(&riskJSON, "json", false, "output scores as JSON")
	rootCmd.AddCommand(riskCmd)
}

// riskOutput is the JSON shape for the risk command.
type riskOutput struct {
	Scores    map[string]float64 `json:"scores"`
	Alerts    []riskAlertOutput  `json:"alerts"`
	Threshold float64            `json:"threshold"`
}

type riskAlertOutput struct {
	TaskID string  `json:"task_id"`
	Title  string  `json:"title,omitempty"`
	Score  float64 `json:"score"`
}

func runRisk(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	tasks, err := loadTasks(args[0])
	if err != nil {
		return err
	}
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return fmt.Errorf("tasks[%d]: %w", i, err)
		}
	}

	threshold := riskThreshold
	if threshold <= 0 {
		threshold = cfg.Planner.RiskAlertThreshold
	}

	now := time.Now()
	scorer := risk.NewRuleScorer()
	scores := risk.ScoreAll(scorer, tasks, now)
	alerts := risk.Alerts(scorer, tasks, threshold, now)

	if riskJSON {
		out := riskOutput{Scores: scores, Alerts: []riskAlertOutput{}, Threshold: threshold}
		for _, a := range alerts {
			out.Alerts = append(out.Alerts, riskAlertOutput{
				TaskID: a.Task.ID,
				Title:  a.Task.Title,
				Score:  a.Score,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	renderRisk(cmd.OutOrStdout(), tasks, scores, alerts, threshold)
	return nil
}
