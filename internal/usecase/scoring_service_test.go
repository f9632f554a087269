package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/bitebot/backend/internal/domain"
	"github.com/bitebot/backend/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoringService(t *testing.T, foods FoodLookup) *ScoringService {
	t.Helper()
	engine, err := scoring.NewEngine(scoring.DefaultPolicy())
	require.NoError(t, err)
	return NewScoringService(engine, foods, nil)
}

func TestScoreMeal(t *testing.T) {
	ctx := context.Background()
	svc := newTestScoringService(t, nil)

	t.Run("scores a nested analysis document", func(t *testing.T) {
		doc := map[string]any{
			"macronutrients": map[string]any{"carbs": 60.0, "fiber": 10.0, "sugar": 5.0},
			"micronutrients": map[string]any{
				"iron":    map[string]any{"percentage_of_daily": 150.0},
				"calcium": 80.0,
			},
			"priority_micronutrients": []any{"Iron", "Vitamin D"},
		}

		res, err := svc.ScoreMeal(ctx, doc)
		require.NoError(t, err)
		assert.InDelta(t, 48.3333, res.GlycemicIndex, 1e-4)
		assert.Equal(t, 100.0, res.MicronutrientBalance)
		assert.Equal(t, map[string]float64{"iron": 100}, res.IndividualMicronutrientScores)
	})

	t.Run("empty document scores the degenerate meal", func(t *testing.T) {
		res, err := svc.ScoreMeal(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, 50.0, res.Inflammatory)
		assert.Equal(t, 0.0, res.MealBalance)
		assert.Empty(t, res.IndividualMicronutrientScores)
	})

	t.Run("micronutrients must be an object", func(t *testing.T) {
		_, err := svc.ScoreMeal(ctx, map[string]any{"micronutrients": []any{"iron"}})
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "micronutrients", invalid.Field)
	})

	t.Run("priority must be an array of strings", func(t *testing.T) {
		_, err := svc.ScoreMeal(ctx, map[string]any{"priority_micronutrients": "iron"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bad macro value names the field", func(t *testing.T) {
		_, err := svc.ScoreMeal(ctx, map[string]any{"macronutrients": map[string]any{"protein": -4.0}})
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "macronutrients.protein", invalid.Field)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.ScoreMeal(cancelled, map[string]any{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestScoreFood(t *testing.T) {
	ctx := context.Background()
	oats := &domain.FoodNutrients{
		FdcID:        "173904",
		Description:  "Oats, rolled",
		ServingGrams: 100,
		Macros: domain.MacroRecord{
			Calories: 379, ProteinG: 13.2, CarbsG: 67.7, FatsG: 6.5, FiberG: 10.1, SugarG: 1, SodiumMg: 6,
		},
		Micronutrients: []domain.MicronutrientEntry{
			{Name: "iron", PercentageOfDaily: 25},
			{Name: "magnesium", PercentageOfDaily: 32.9},
		},
		Confidence: 94,
		Source:     "USDA",
	}

	t.Run("disabled without a food lookup", func(t *testing.T) {
		svc := newTestScoringService(t, nil)
		assert.False(t, svc.FoodLookupEnabled())

		_, err := svc.ScoreFood(ctx, &domain.FoodScoreRequest{Query: "oats"})
		assert.ErrorIs(t, err, domain.ErrFoodLookupDisabled)
	})

	t.Run("nil request", func(t *testing.T) {
		svc := newTestScoringService(t, &stubFoodLookup{food: oats})
		_, err := svc.ScoreFood(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("scales to the serving before scoring", func(t *testing.T) {
		lookup := &stubFoodLookup{food: oats}
		svc := newTestScoringService(t, lookup)
		require.True(t, svc.FoodLookupEnabled())

		got, err := svc.ScoreFood(ctx, &domain.FoodScoreRequest{
			Query:                  "rolled oats",
			ServingGrams:           40,
			PriorityMicronutrients: []string{"Iron", "Magnesium"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"rolled oats"}, lookup.queries)
		assert.Equal(t, 40.0, got.Food.ServingGrams)
		assert.InDelta(t, 151.6, got.Food.Macros.Calories, 1e-9)
		assert.InDelta(t, 4.04, got.Food.Macros.FiberG, 1e-9)
		assert.InDelta(t, 10.0, got.Food.Micronutrients[0].PercentageOfDaily, 1e-9)

		engine, _ := scoring.NewEngine(scoring.DefaultPolicy())
		want := engine.ScoreRecord(got.Food.Macros, got.Food.Micronutrients, []string{"Iron", "Magnesium"})
		assert.Equal(t, want, got.Scores)
		assert.InDelta(t, (10.0+13.16)/2, got.Scores.MicronutrientBalance, 1e-9)

		// the looked-up food is not mutated
		assert.Equal(t, 100.0, oats.ServingGrams)
		assert.Equal(t, 25.0, oats.Micronutrients[0].PercentageOfDaily)
	})

	t.Run("defaults to a 100 g serving", func(t *testing.T) {
		svc := newTestScoringService(t, &stubFoodLookup{food: oats})

		got, err := svc.ScoreFood(ctx, &domain.FoodScoreRequest{Query: "oats"})
		require.NoError(t, err)
		assert.Equal(t, DefaultServingGrams, got.Food.ServingGrams)
		assert.Equal(t, oats.Macros, got.Food.Macros)
	})

	t.Run("low confidence is scored and flagged", func(t *testing.T) {
		svc := newTestScoringService(t, &stubFoodLookup{food: oats, err: domain.ErrLowConfidence})

		got, err := svc.ScoreFood(ctx, &domain.FoodScoreRequest{Query: "oat thing"})
		assert.ErrorIs(t, err, domain.ErrLowConfidence)
		require.NotNil(t, got)
		assert.NotNil(t, got.Scores)
	})

	t.Run("lookup failures propagate", func(t *testing.T) {
		upstream := errors.New("boom")
		svc := newTestScoringService(t, &stubFoodLookup{err: upstream})

		got, err := svc.ScoreFood(ctx, &domain.FoodScoreRequest{Query: "oats"})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, upstream)
	})
}
