package scoring

import (
	"math"
	"sort"

	"github.com/bitebot/backend/internal/domain"
)

const percentageOfDailyKey = "percentage_of_daily"

// MicronutrientBalance holds the overall and per-nutrient balance scores
type MicronutrientBalance struct {
	Score      float64            `json:"score"`
	Individual map[string]float64 `json:"individual"`
}

// ParseMicronutrients reads a meal's micronutrient map. Each value is either a bare number
// or an object carrying "percentage_of_daily"; an object without it counts as 0.
// The result is sorted by name.
func ParseMicronutrients(raw map[string]any) ([]domain.MicronutrientEntry, error) {
	entries := make([]domain.MicronutrientEntry, 0, len(raw))
	for name, value := range raw {
		field := "micronutrients." + name
		if obj, ok := value.(map[string]any); ok {
			field += "." + percentageOfDailyKey
			value = obj[percentageOfDailyKey]
		}
		pct, err := toQuantity(field, value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.MicronutrientEntry{Name: name, PercentageOfDaily: pct})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ParsePriority reads the user's priority list. nil means no priorities.
func ParsePriority(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, domain.NewInvalidInput("priority_micronutrients", "entries must be strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, domain.NewInvalidInput("priority_micronutrients", "must be an array of strings")
	}
}

// EvaluateMicronutrients scores a meal's micronutrients against the user's priorities.
//
// No priorities means no score: the result is 0 with an empty map. A priority nutrient
// that the meal has no data for, or has at 0%, is left out of the average rather than
// counted as 0. Each matched value is capped at 100 before it is recorded and averaged.
func EvaluateMicronutrients(entries []domain.MicronutrientEntry, priority []string) MicronutrientBalance {
	result := MicronutrientBalance{Individual: map[string]float64{}}
	if len(priority) == 0 {
		return result
	}

	index := make(map[string]float64, len(entries))
	for _, e := range entries {
		key := CanonicalNutrient(e.Name)
		if _, taken := index[key]; !taken {
			index[key] = e.PercentageOfDaily
		}
	}

	var sum float64
	for _, name := range priority {
		key := CanonicalNutrient(name)
		if _, seen := result.Individual[key]; seen {
			continue
		}
		pct, ok := index[key]
		if !ok || pct <= 0 {
			continue
		}
		capped := math.Min(pct, maxScore)
		result.Individual[key] = capped
		sum += capped
	}

	if n := len(result.Individual); n > 0 {
		result.Score = clamp(sum / float64(n))
	}
	return result
}
