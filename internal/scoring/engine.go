// Package scoring turns a meal's macro and micronutrient quantities into bounded
// health scores. Everything here is a pure function of its inputs; an Engine holds only
// its validated policy and is safe for concurrent use.
package scoring

import (
	"github.com/bitebot/backend/internal/domain"
	"github.com/pkg/errors"
)

// Engine computes meal scores under a fixed policy.
type Engine struct {
	policy Policy
}

// NewEngine validates the policy and builds an engine.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

// Policy returns a copy of the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// ComputeMealScores scores one meal document. macroInput holds the macros, flat or under
// "macronutrients"; micronutrients maps nutrient names to a number or to an object with
// "percentage_of_daily". Either a complete result or an InvalidInputError is returned.
func (e *Engine) ComputeMealScores(
	macroInput map[string]any,
	micronutrients map[string]any,
	priority []string,
) (*domain.ScoreResult, error) {
	record, err := ExtractMacros(macroInput)
	if err != nil {
		return nil, errors.WithMessage(err, "extract macronutrients")
	}
	entries, err := ParseMicronutrients(micronutrients)
	if err != nil {
		return nil, errors.WithMessage(err, "parse micronutrients")
	}
	return e.ScoreRecord(record, entries, priority), nil
}

// ScoreRecord scores an already normalized record.
func (e *Engine) ScoreRecord(
	record domain.MacroRecord,
	entries []domain.MicronutrientEntry,
	priority []string,
) *domain.ScoreResult {
	balance := EvaluateMicronutrients(entries, priority)
	return &domain.ScoreResult{
		GlycemicIndex:                 GlycemicIndex(record, e.policy.Glycemic),
		Inflammatory:                  Inflammatory(record, e.policy.Inflammatory),
		HeartHealth:                   HeartHealth(record, e.policy.HeartHealth),
		Digestive:                     Digestive(record, e.policy.Digestive),
		MealBalance:                   MealBalance(record, e.policy.MealBalance),
		MicronutrientBalance:          balance.Score,
		IndividualMicronutrientScores: balance.Individual,
	}
}
