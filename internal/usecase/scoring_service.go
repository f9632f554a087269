package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bitebot/backend/internal/domain"
	"github.com/bitebot/backend/internal/scoring"
)

// DefaultServingGrams is used when a food score request names no serving size
const DefaultServingGrams = 100.0

// FoodLookup resolves a free-text food query to per-100 g nutrients
type FoodLookup interface {
	LookupFood(ctx context.Context, query string) (*domain.FoodNutrients, error)
}

// ScoringService scores meal documents and single foods
type ScoringService struct {
	engine *scoring.Engine
	foods  FoodLookup
	logger *slog.Logger
}

// NewScoringService creates a scoring service. foods may be nil, which disables ScoreFood.
func NewScoringService(engine *scoring.Engine, foods FoodLookup, logger *slog.Logger) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringService{engine: engine, foods: foods, logger: logger}
}

// FoodLookupEnabled reports whether ScoreFood can reach a food database
func (s *ScoringService) FoodLookupEnabled() bool {
	return s.foods != nil
}

// ScoreMeal scores an analysis document: macros flat or under "macronutrients", an optional
// "micronutrients" object and an optional "priority_micronutrients" array.
func (s *ScoringService) ScoreMeal(ctx context.Context, doc map[string]any) (*domain.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var micronutrients map[string]any
	switch raw := doc["micronutrients"].(type) {
	case nil:
	case map[string]any:
		micronutrients = raw
	default:
		return nil, domain.NewInvalidInput("micronutrients", "must be an object")
	}

	priority, err := scoring.ParsePriority(doc["priority_micronutrients"])
	if err != nil {
		return nil, err
	}

	return s.engine.ComputeMealScores(doc, micronutrients, priority)
}

// ScoreFood looks a food up, scales it to the requested serving and scores it.
// A low-confidence match is scored and returned together with ErrLowConfidence.
func (s *ScoringService) ScoreFood(ctx context.Context, req *domain.FoodScoreRequest) (*domain.FoodScore, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if s.foods == nil {
		return nil, domain.ErrFoodLookupDisabled
	}

	food, err := s.foods.LookupFood(ctx, req.Query)
	lowConfidence := errors.Is(err, domain.ErrLowConfidence)
	if err != nil && !lowConfidence {
		return nil, err
	}
	if food == nil {
		return nil, domain.ErrProductNotFound
	}

	grams := req.ServingGrams
	if grams <= 0 {
		grams = DefaultServingGrams
	}
	serving := scaleFood(food, grams)
	scores := s.engine.ScoreRecord(serving.Macros, serving.Micronutrients, req.PriorityMicronutrients)

	s.logger.Debug("food scored",
		slog.String("query", req.Query),
		slog.String("fdc_id", serving.FdcID),
		slog.Float64("serving_grams", grams),
		slog.Bool("low_confidence", lowConfidence))

	if lowConfidence {
		return &domain.FoodScore{Food: serving, Scores: scores}, domain.ErrLowConfidence
	}
	return &domain.FoodScore{Food: serving, Scores: scores}, nil
}

// scaleFood returns a copy of food with macros and %DV values scaled to grams
func scaleFood(food *domain.FoodNutrients, grams float64) *domain.FoodNutrients {
	base := food.ServingGrams
	if base <= 0 {
		base = DefaultServingGrams
	}
	factor := grams / base

	scaled := *food
	scaled.ServingGrams = grams
	scaled.Macros = food.Macros.Scale(factor)
	scaled.Micronutrients = make([]domain.MicronutrientEntry, len(food.Micronutrients))
	for i, m := range food.Micronutrients {
		scaled.Micronutrients[i] = domain.MicronutrientEntry{
			Name:              m.Name,
			PercentageOfDaily: m.PercentageOfDaily * factor,
		}
	}
	return &scaled
}
