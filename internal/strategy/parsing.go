package strategy

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/upgrade-ai/studyplan/internal/errors"
	"github.com/upgrade-ai/studyplan/internal/planner"
)

var jsonFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON pulls the JSON payload out of a strategy response. Responses
// wrapped in a Markdown code fence have the fence stripped; bare responses
// are returned trimmed.
func ExtractJSON(response string) string {
	if matches := jsonFenceRe.FindStringSubmatch(response); len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(response)
}

// ParseProposal parses a strategy response into a candidate schedule.
// It accepts two formats:
//  1. Root-level format: {"2026-01-01": [{"task_id": "...", "hours": 2}]}
//  2. Nested format: {"schedule": {"2026-01-01": [...]}}
//
// Date keys must be DateLayout-formatted. A date mapping to a JSON value
// that is not a list is rejected. All parse failures wrap
// errors.ErrStrategyInvalidOutput so the caller can fall back.
func ParseProposal(response string) (planner.Schedule, error) {
	payload := ExtractJSON(response)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty response", errors.ErrStrategyInvalidOutput)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStrategyInvalidOutput, err)
	}

	// Unwrap a single "schedule" envelope.
	if inner, ok := raw["schedule"]; ok && len(raw) == 1 {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(inner, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: schedule wrapper: %v", errors.ErrStrategyInvalidOutput, err)
		}
		raw = wrapped
	}

	schedule := make(planner.Schedule, len(raw))
	for date, value := range raw {
		if _, err := parseDateKey(date); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrStrategyInvalidOutput, err)
		}

		var entries []planner.Entry
		if err := json.Unmarshal(value, &entries); err != nil {
			return nil, fmt.Errorf("%w: %s does not map to a list of entries", errors.ErrStrategyInvalidOutput, date)
		}
		if entries == nil {
			entries = []planner.Entry{}
		}
		schedule[date] = entries
	}

	return schedule, nil
}

func parseDateKey(key string) (string, error) {
	if _, err := time.Parse(planner.DateLayout, key); err != nil {
		return "", fmt.Errorf("malformed date key %q", key)
	}
	return key, nil
}
