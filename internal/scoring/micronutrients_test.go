package scoring

import (
	"errors"
	"testing"

	"github.com/bitebot/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalNutrient(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vitamin B12", "vitamin_b12"},
		{"vitamin_b12", "vitamin_b12"},
		{"  VITAMIN   b12 ", "vitamin_b12"},
		{"vitamin__b12", "vitamin_b12"},
		{"Iron", "iron"},
		{"Folate (B9)", "folate"},
		{"Omega-3", "omega_3"},
		{"omega_3", "omega_3"},
		{"Riboflavin", "vitamin_b2"},
		{"Lutein", "lutein"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalNutrient(tt.in))
		})
	}
}

func TestVocabulary(t *testing.T) {
	vocab := Vocabulary()
	require.Len(t, vocab, len(nutrientLabels))

	for i := 1; i < len(vocab); i++ {
		assert.Less(t, vocab[i-1].Key, vocab[i].Key)
	}
	for _, n := range vocab {
		assert.Equal(t, n.Key, CanonicalNutrient(n.Label), "label %q should resolve to its key", n.Label)
	}
}

func TestParseMicronutrients(t *testing.T) {
	t.Run("numbers and objects", func(t *testing.T) {
		entries, err := ParseMicronutrients(map[string]any{
			"iron":      map[string]any{"percentage_of_daily": 150.0, "amount": 27.0},
			"calcium":   80.0,
			"vitamin_c": map[string]any{"amount": 12.0},
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.MicronutrientEntry{
			{Name: "calcium", PercentageOfDaily: 80},
			{Name: "iron", PercentageOfDaily: 150},
			{Name: "vitamin_c", PercentageOfDaily: 0},
		}, entries)
	})

	t.Run("nil map", func(t *testing.T) {
		entries, err := ParseMicronutrients(nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("non numeric percentage", func(t *testing.T) {
		_, err := ParseMicronutrients(map[string]any{
			"zinc": map[string]any{"percentage_of_daily": "high"},
		})
		var inputErr *domain.InvalidInputError
		require.True(t, errors.As(err, &inputErr))
		assert.Equal(t, "micronutrients.zinc.percentage_of_daily", inputErr.Field)
	})

	t.Run("negative bare value", func(t *testing.T) {
		_, err := ParseMicronutrients(map[string]any{"zinc": -1.0})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority([]any{"Iron", "Vitamin D"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Iron", "Vitamin D"}, got)

	got, err = ParsePriority(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParsePriority([]any{"Iron", 3.0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParsePriority("Iron")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvaluateMicronutrients(t *testing.T) {
	meal := []domain.MicronutrientEntry{
		{Name: "iron", PercentageOfDaily: 150},
		{Name: "calcium", PercentageOfDaily: 80},
		{Name: "vitamin_b12", PercentageOfDaily: 40},
		{Name: "zinc", PercentageOfDaily: 0},
	}

	tests := []struct {
		name     string
		priority []string
		want     MicronutrientBalance
	}{
		{
			name:     "empty priority makes no assumptions",
			priority: nil,
			want:     MicronutrientBalance{Score: 0, Individual: map[string]float64{}},
		},
		{
			name:     "missing nutrient does not dilute the average",
			priority: []string{"Iron", "Vitamin D"},
			want:     MicronutrientBalance{Score: 100, Individual: map[string]float64{"iron": 100}},
		},
		{
			name:     "capped values are averaged",
			priority: []string{"iron", "calcium", "Vitamin B12"},
			want: MicronutrientBalance{
				Score:      (100 + 80 + 40) / 3.0,
				Individual: map[string]float64{"iron": 100, "calcium": 80, "vitamin_b12": 40},
			},
		},
		{
			name:     "zero percent is excluded",
			priority: []string{"Zinc", "Calcium"},
			want:     MicronutrientBalance{Score: 80, Individual: map[string]float64{"calcium": 80}},
		},
		{
			name:     "nothing matches",
			priority: []string{"Selenium"},
			want:     MicronutrientBalance{Score: 0, Individual: map[string]float64{}},
		},
		{
			name:     "duplicate priorities count once",
			priority: []string{"Calcium", "calcium", "Vitamin B12"},
			want: MicronutrientBalance{
				Score:      60,
				Individual: map[string]float64{"calcium": 80, "vitamin_b12": 40},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateMicronutrients(meal, tt.priority)
			assert.InDelta(t, tt.want.Score, got.Score, 1e-9)
			assert.Equal(t, tt.want.Individual, got.Individual)
		})
	}

	t.Run("meal keys match in any case and separator", func(t *testing.T) {
		got := EvaluateMicronutrients(
			[]domain.MicronutrientEntry{{Name: "Vitamin B12", PercentageOfDaily: 55}},
			[]string{"vitamin_b12"},
		)
		assert.Equal(t, map[string]float64{"vitamin_b12": 55}, got.Individual)
	})
}
