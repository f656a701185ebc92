package llm

import (
	"context"

	"github.com/upgrade-ai/studyplan/internal/logging"
	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/risk"
	"github.com/upgrade-ai/studyplan/internal/strategy"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// StrategyName identifies the LLM strategy in plan metadata and logs.
const StrategyName = "llm"

// Strategy adapts a chat completions Client as a schedule-proposing
// strategy. Risk scores are included in the prompt so the model sees the
// same urgency signal the deterministic scheduler uses.
type Strategy struct {
	client *Client
	scorer risk.Scorer
	log    *logging.Logger
}

// NewStrategy creates an LLM strategy. A nil scorer gets the rule-based
// default; a nil logger discards output.
func NewStrategy(client *Client, scorer risk.Scorer, log *logging.Logger) *Strategy {
	if scorer == nil {
		scorer = risk.NewRuleScorer()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Strategy{client: client, scorer: scorer, log: log.WithStrategy(StrategyName)}
}

// Name implements strategy.Strategy.
func (s *Strategy) Name() string { return StrategyName }

// Propose implements strategy.Strategy. Risk scores in the prompt are
// computed as of the constraint window's start date, keeping Propose free of
// wall-clock reads.
func (s *Strategy) Propose(ctx context.Context, tasks []task.Task, c strategy.Constraints) (planner.Schedule, error) {
	risks := risk.ScoreAll(s.scorer, tasks, c.StartDate)
	prompt := BuildPlanningPrompt(tasks, c, risks)

	s.log.Debug("requesting schedule proposal", "model", s.client.Model(), "tasks", len(tasks))

	content, err := s.client.ChatCompletion(ctx, []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	return strategy.ParseProposal(content)
}
