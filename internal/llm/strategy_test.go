package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/upgrade-ai/studyplan/internal/strategy"
	"github.com/upgrade-ai/studyplan/internal/task"
)

var promptNow = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func TestStrategy_Propose(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) == 2 {
			gotPrompt = req.Messages[1].Content
		}

		proposal := "```json\n" +
			`{"2026-03-01": [{"task_id": "t1", "hours": 2}]}` +
			"\n```"
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": proposal}},
			},
		})
	}))
	defer srv.Close()

	due := promptNow.Add(24 * time.Hour)
	tasks := []task.Task{
		{ID: "t1", Title: "Quiz prep", DueAt: &due, EstimatedHours: 2, DeclaredPriority: 7, Status: task.StatusPending},
	}

	s := NewStrategy(NewClient(Options{APIKey: "test-key", BaseURL: srv.URL}), nil, nil)
	schedule, err := s.Propose(context.Background(), tasks, strategy.Constraints{
		HoursPerDay: 8,
		StartDate:   promptNow,
		HorizonDays: 30,
	})
	if err != nil {
		t.Fatalf("Propose() error = %v", err)
	}

	if got := schedule.TaskHours("t1"); got != 2 {
		t.Errorf("TaskHours(t1) = %v, want 2", got)
	}

	for _, want := range []string{
		"Available hours per day: 8",
		"Start date: 2026-03-01",
		"Planning horizon: 30 days",
		"Quiz prep (id: t1)",
		"Due date: 2026-03-02",
		"Estimated hours: 2",
		"Priority: 7",
		"Risk score:",
	} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, gotPrompt)
		}
	}
}

func TestStrategy_Name(t *testing.T) {
	s := NewStrategy(NewClient(Options{}), nil, nil)
	if got := s.Name(); got != "llm" {
		t.Errorf("Name() = %q, want llm", got)
	}
}

func TestBuildPlanningPrompt_UndatedTask(t *testing.T) {
	tasks := []task.Task{{ID: "t1", EstimatedHours: 3}}
	prompt := BuildPlanningPrompt(tasks, strategy.Constraints{
		HoursPerDay: 6,
		StartDate:   promptNow,
		HorizonDays: 14,
	}, nil)

	if !strings.Contains(prompt, "Due date: none") {
		t.Errorf("prompt missing undated marker:\n%s", prompt)
	}
	if !strings.Contains(prompt, "t1 (id: t1)") {
		t.Errorf("prompt should fall back to id for untitled tasks:\n%s", prompt)
	}
}
