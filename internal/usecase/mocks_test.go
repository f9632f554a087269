package usecase

import (
	"context"
	"time"

	"github.com/bitebot/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data         map[string][]byte
	getError     error
	setError     error
	getCalled    bool
	setCalled    bool
	deleteCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deleteCalled = true
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockUSDAClient is a mock implementation of domain.USDAClient
type MockUSDAClient struct {
	searchResult  *domain.USDASearchResponse
	searchError   error
	foodResult    *domain.USDAFood
	foodError     error
	searchQueries []string
	detailIDs     []string
}

func NewMockUSDAClient() *MockUSDAClient {
	return &MockUSDAClient{}
}

func (m *MockUSDAClient) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	m.searchQueries = append(m.searchQueries, query)
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockUSDAClient) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	m.detailIDs = append(m.detailIDs, fdcID)
	if m.foodError != nil {
		return nil, m.foodError
	}
	return m.foodResult, nil
}

// stubFoodLookup returns a fixed food and error
type stubFoodLookup struct {
	food    *domain.FoodNutrients
	err     error
	queries []string
}

func (s *stubFoodLookup) LookupFood(ctx context.Context, query string) (*domain.FoodNutrients, error) {
	s.queries = append(s.queries, query)
	return s.food, s.err
}

// brownRiceFoods is a search response with one clear winner for "cooked brown rice"
func brownRiceFoods() *domain.USDASearchResponse {
	return &domain.USDASearchResponse{
		Foods: []domain.USDAFood{
			{
				FdcID:       169704,
				Description: "Rice, brown, long-grain, cooked",
				DataType:    "SR Legacy",
				Nutrients: []domain.USDANutrient{
					{NutrientID: 1008, Value: 123, UnitName: "KCAL"},
					{NutrientID: 1003, Value: 2.7, UnitName: "G"},
					{NutrientID: 1005, Value: 25.6, UnitName: "G"},
					{NutrientID: 1004, Value: 1, UnitName: "G"},
					{NutrientID: 1079, Value: 1.6, UnitName: "G"},
					{NutrientID: 1090, Value: 42, UnitName: "MG"},
				},
			},
			{
				FdcID:       168931,
				Description: "Rice, white, cooked",
				DataType:    "Survey (FNDDS)",
				Nutrients: []domain.USDANutrient{
					{NutrientID: 1008, Value: 130, UnitName: "KCAL"},
				},
			},
			{
				FdcID:       555001,
				Description: "Chocolate chip cookies",
				DataType:    "Branded",
			},
		},
		TotalHits: 3,
	}
}
