package risk

import (
	"math"
	"time"

	"github.com/upgrade-ai/studyplan/internal/logging"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// Predictor is the capability interface for an external statistical risk
// model. The engine supplies features in the order documented on Features
// and treats the returned value as a risk score, clamping it to [0, 1].
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// ModelScorer scores tasks through a Predictor, falling back to the
// rule-based heuristic whenever the predictor is missing, fails, or returns
// a non-finite value. Predictor errors never reach the caller.
type ModelScorer struct {
	predictor Predictor
	fallback  Scorer
	log       *logging.Logger
}

// NewModelScorer creates a ModelScorer around p. A nil p is allowed and
// makes every call take the rule-based path. A nil log discards diagnostics.
func NewModelScorer(p Predictor, log *logging.Logger) *ModelScorer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &ModelScorer{
		predictor: p,
		fallback:  NewRuleScorer(),
		log:       log,
	}
}

// Score predicts the risk for t, clamped to [0, 1]. Any predictor failure
// resolves to the rule-based score for the same task.
func (m *ModelScorer) Score(t task.Task, now time.Time) float64 {
	if m.predictor == nil {
		return m.fallback.Score(t, now)
	}

	prediction, err := m.predictor.Predict(Features(t, now))
	if err != nil {
		m.log.Warn("risk model prediction failed, using rule-based score",
			"task_id", t.ID, "error", err)
		return m.fallback.Score(t, now)
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		m.log.Warn("risk model returned non-finite value, using rule-based score",
			"task_id", t.ID, "value", prediction)
		return m.fallback.Score(t, now)
	}

	return min(max(prediction, 0.0), 1.0)
}
