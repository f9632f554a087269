package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bitebot/backend/internal/domain"
	"github.com/bitebot/backend/internal/infrastructure/usda"
)

const defaultCacheTTL = 720 * time.Hour

// FoodServiceConfig holds configuration for the food service
type FoodServiceConfig struct {
	CacheTTL      time.Duration
	MinConfidence float64
}

// FoodService looks foods up in USDA FoodData Central with caching
type FoodService struct {
	cache      domain.CacheRepository
	usdaClient domain.USDAClient
	matcher    *Matcher
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewFoodService creates a new food service with dependencies
func NewFoodService(
	cache domain.CacheRepository,
	usdaClient domain.USDAClient,
	config FoodServiceConfig,
	logger *slog.Logger,
) *FoodService {
	if logger == nil {
		logger = slog.Default()
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &FoodService{
		cache:      cache,
		usdaClient: usdaClient,
		matcher:    NewMatcher(config.MinConfidence, logger),
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// LookupFood returns per-100 g nutrients for a free-text food query.
// Flow: clean query -> check cache -> search USDA -> match best result -> cache -> return.
// A low-confidence match is returned together with ErrLowConfidence and is not cached.
func (s *FoodService) LookupFood(ctx context.Context, query string) (*domain.FoodNutrients, error) {
	cleaned := CleanFoodQuery(query)
	if cleaned == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := foodCacheKey(cleaned)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = "Cache"
		return cached, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("error", err))
	}

	searchResult, err := s.usdaClient.SearchFoods(ctx, cleaned)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || errors.Is(err, domain.ErrUSDAAPIFailure) ||
			errors.Is(err, domain.ErrRateLimited) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	match, err := s.matcher.FindBestMatch(ctx, cleaned, searchResult.Foods)
	if err != nil {
		if errors.Is(err, domain.ErrLowConfidence) && match != nil {
			s.logger.Info("low confidence match",
				slog.String("query", cleaned),
				slog.String("description", match.Description),
				slog.Float64("confidence", match.MatchScore))
			food, detailErr := s.resolveMatch(ctx, searchResult.Foods, match)
			if detailErr != nil {
				return nil, detailErr
			}
			return food, err
		}
		return nil, err
	}

	food, err := s.resolveMatch(ctx, searchResult.Foods, match)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, food); err != nil {
		s.logger.Warn("cache write failed", slog.String("key", cacheKey), slog.Any("error", err))
	}

	return food, nil
}

// foodCacheKey builds "food:{normalized query}". The query is already lowercase and trimmed.
func foodCacheKey(cleanedQuery string) string {
	return "food:" + cleanedQuery
}

func (s *FoodService) getFromCache(ctx context.Context, key string) (*domain.FoodNutrients, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var food domain.FoodNutrients
	if err := json.Unmarshal(raw, &food); err != nil {
		s.logger.Warn("dropping undecodable cache entry", slog.String("key", key), slog.Any("error", err))
		_ = s.cache.Delete(ctx, key)
		return nil, domain.ErrCacheMiss
	}
	return &food, nil
}

func (s *FoodService) setInCache(ctx context.Context, key string, food *domain.FoodNutrients) error {
	food.CachedAt = s.now().UTC()
	raw, err := json.Marshal(food)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.cacheTTL)
}

// resolveMatch maps the matched search hit, falling back to the details endpoint when
// the hit carries no nutrients
func (s *FoodService) resolveMatch(ctx context.Context, foods []domain.USDAFood, match *domain.MatchResult) (*domain.FoodNutrients, error) {
	food := s.mapMatch(foods, match)
	if food == nil {
		return nil, domain.ErrProductNotFound
	}
	if len(food.Micronutrients) == 0 && food.Macros == (domain.MacroRecord{}) {
		return s.fetchDetails(ctx, match)
	}
	return food, nil
}

// fetchDetails loads the full record of a search hit that came back without nutrients
func (s *FoodService) fetchDetails(ctx context.Context, match *domain.MatchResult) (*domain.FoodNutrients, error) {
	details, err := s.usdaClient.GetFoodDetails(ctx, strconv.Itoa(match.FdcID))
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, domain.ErrProductNotFound
	}
	return usda.MapToFoodNutrients(details, match.MatchScore), nil
}

// mapMatch finds the matched food in the search hits and maps it to FoodNutrients
func (s *FoodService) mapMatch(foods []domain.USDAFood, match *domain.MatchResult) *domain.FoodNutrients {
	for i := range foods {
		if foods[i].FdcID == match.FdcID {
			return usda.MapToFoodNutrients(&foods[i], match.MatchScore)
		}
	}
	return nil
}
