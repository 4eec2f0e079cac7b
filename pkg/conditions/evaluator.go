// Package conditions interprets the edge-condition language against a
// per-turn context snapshot.
package conditions

import (
	"log/slog"

	"github.com/voxline/scriptflow/pkg/models"
)

// Predicate evaluates one condition kind against the latest user input and
// the session's accumulated context. Predicates must be pure and must fail
// closed: malformed values or missing context data return false, never panic.
type Predicate func(condition *models.EdgeCondition, turnInput string, turnCtx *models.TurnContext) bool

// Evaluator dispatches conditions to the predicate registered for their type.
// New condition kinds plug in through Register without touching the resolver.
type Evaluator struct {
	predicates map[models.ConditionType]Predicate
	logger     *slog.Logger
}

// NewEvaluator returns an evaluator preloaded with the built-in predicates.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	e := &Evaluator{
		predicates: make(map[models.ConditionType]Predicate),
		logger:     logger,
	}

	e.Register(models.ConditionEntityComplete, evaluateEntityComplete)
	e.Register(models.ConditionIntent, evaluateIntent)
	e.Register(models.ConditionSentiment, evaluateSentiment)
	e.Register(models.ConditionConfirmation, evaluateConfirmation)
	e.Register(models.ConditionAvailability, evaluateAvailability)
	e.Register(models.ConditionTimeRange, evaluateTimeRange)

	return e
}

// Register installs or replaces the predicate for a condition type.
func (e *Evaluator) Register(conditionType models.ConditionType, predicate Predicate) {
	e.predicates[conditionType] = predicate
}

// Evaluate reports whether the condition holds. Unrecognized condition types
// evaluate to false so a typo in a script can never open a transition.
func (e *Evaluator) Evaluate(condition *models.EdgeCondition, turnInput string, turnCtx *models.TurnContext) bool {
	if condition == nil {
		return true
	}

	predicate, ok := e.predicates[condition.Type]
	if !ok {
		e.logger.Warn("unrecognized condition type, failing closed",
			"condition_type", condition.Type)

		return false
	}

	return predicate(condition, turnInput, turnCtx)
}
