package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/upgrade-ai/studyplan/internal/config"
	"github.com/upgrade-ai/studyplan/internal/llm"
	"github.com/upgrade-ai/studyplan/internal/logging"
	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/strategy"
)

var planCmd = &cobra.Command{
	Use:   "plan <tasks-file>",
	Short: "Build a capacity-aware study schedule",
	Long: `Build a daily study schedule from a JSON task list.

Tasks are ordered by computed priority (deadline urgency, risk, and size)
and packed first-fit into the planning horizon without ever exceeding the
daily hour budget. Tasks that do not fit are reported, not dropped silently.

With --llm, an LLM proposes the schedule first; the proposal is validated
against the same capacity rules and replaced by the built-in allocator if it
is invalid or late.

Examples:
  # Plan with defaults (8h/day, 30 days, starting today)
  studyplan plan tasks.json

  # Plan a tighter window
  studyplan plan tasks.json --start 2026-09-01 --horizon 14 --hours-per-day 6

  # Ask the LLM first, emit JSON
  studyplan plan tasks.json --llm --json`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

var (
	planStart       string
	planHorizon     int
	planHoursPerDay float64
	planJSON        bool
	planUseLLM      bool
)

func init() {
	planCmd.Flags().StringVar(&planStart, "start", "", "first schedulable day (YYYY-MM-DD, default today)")
	planCmd.Flags().IntVar(&planHorizon, "horizon", 0, "planning horizon in days (default from config)")
	planCmd.Flags().Float64Var(&planHoursPerDay, "hours-per-day", 0, "daily study-hour budget (default from config)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "output the plan as JSON")
	planCmd.Flags().BoolVar(&planUseLLM, "llm", false, "ask the configured LLM strategy first")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	tasks, err := loadTasks(args[0])
	if err != nil {
		return err
	}

	start, err := parseStartDate(planStart)
	if err != nil {
		return err
	}

	horizon := planHorizon
	if horizon <= 0 {
		horizon = cfg.Planner.DefaultHorizonDays
	}
	hoursPerDay := planHoursPerDay
	if hoursPerDay <= 0 {
		hoursPerDay = cfg.Planner.DefaultDailyHours
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	var strat strategy.Strategy
	if planUseLLM || cfg.LLM.Enabled {
		client := llm.NewClient(llm.Options{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		strat = llm.NewStrategy(client, nil, log)
	}

	selector := strategy.NewSelector(planner.NewScheduler(nil, log), strat, cfg.LLM.Timeout(), log)
	plan, err := selector.Plan(cmd.Context(), strategy.Request{
		Tasks:       tasks,
		StartDate:   start,
		HorizonDays: horizon,
		Capacity:    planner.NewDayCapacity(hoursPerDay),
		Now:         time.Now(),
	})
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if planJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	renderPlan(cmd.OutOrStdout(), plan, tasks, planner.NewDayCapacity(hoursPerDay))
	return nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
}
