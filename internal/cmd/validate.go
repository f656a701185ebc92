package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upgrade-ai/studyplan/internal/config"
	"github.com/upgrade-ai/studyplan/internal/planner"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schedule-file>",
	Short: "Validate a candidate schedule against capacity rules",
	Long: `Validate a candidate schedule JSON file against a task list and the
daily hour budget.

This command checks, in date order:
  - every date maps to a list of entries
  - every entry references a known task by id or title
  - no date's total hours exceed its capacity
  - no entry has negative hours

The exit code indicates the result:
  0 - Schedule is valid
  1 - Schedule is invalid or could not be parsed

Examples:
  # Validate a schedule against its task list
  studyplan validate schedule.json --tasks tasks.json

  # Validate with a custom daily budget and JSON output
  studyplan validate schedule.json --tasks tasks.json --hours-per-day 6 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateTasksFile   string
	validateHoursPerDay float64
	validateJSON        bool
)

func init() {
	validateCmd.Flags().StringVar(&validateTasksFile, "tasks", "", "tasks JSON file to validate against (required)")
	validateCmd.Flags().Float64Var(&validateHoursPerDay, "hours-per-day", 0, "daily study-hour budget (default from config)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output validation result as JSON")
	_ = validateCmd.MarkFlagRequired("tasks")
	rootCmd.AddCommand(validateCmd)
}

// validationOutput is the JSON shape for the validate command.
type validationOutput struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Date    string `json:"date,omitempty"`
	TaskRef string `json:"task_ref,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	tasks, err := loadTasks(validateTasksFile)
	if err != nil {
		return err
	}

	schedule, err := loadSchedule(args[0])
	if err != nil {
		return err
	}

	hoursPerDay := validateHoursPerDay
	if hoursPerDay <= 0 {
		hoursPerDay = cfg.Planner.DefaultDailyHours
	}

	vErr := planner.ValidateCandidate(schedule, tasks, planner.NewDayCapacity(hoursPerDay))

	if validateJSON {
		out := validationOutput{Valid: vErr == nil}
		if cErr, ok := vErr.(*planner.CandidateError); ok {
			out.Reason = string(cErr.Reason)
			out.Date = cErr.Date
			out.TaskRef = cErr.TaskRef
			out.Detail = cErr.Detail
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		if vErr != nil {
			return &silentError{}
		}
		return nil
	}

	if vErr != nil {
		fmt.Fprintln(cmd.OutOrStdout(), alertStyle.Render("✗ invalid schedule"))
		fmt.Fprintln(cmd.OutOrStdout(), "  "+vErr.Error())
		return &silentError{}
	}

	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ schedule is valid"))
	return nil
}

// silentError signals a non-zero exit without printing an extra error line.
type silentError struct{}

func (e *silentError) Error() string { return "" }
