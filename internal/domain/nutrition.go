package domain

import (
	"encoding/json"
	"time"
)

// MacroRecord is the canonical macronutrient record of one meal.
// Calories are taken as stated and are not reconciled with the macros.
type MacroRecord struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	FiberG   float64 `json:"fiber_g"`
	SugarG   float64 `json:"sugar_g"`
	SodiumMg float64 `json:"sodium_mg"`
}

// Scale multiplies every field by factor, e.g. to go from per-100 g to a serving.
func (m MacroRecord) Scale(factor float64) MacroRecord {
	return MacroRecord{
		Calories: m.Calories * factor,
		ProteinG: m.ProteinG * factor,
		CarbsG:   m.CarbsG * factor,
		FatsG:    m.FatsG * factor,
		FiberG:   m.FiberG * factor,
		SugarG:   m.SugarG * factor,
		SodiumMg: m.SodiumMg * factor,
	}
}

// MicronutrientEntry is one vitamin or mineral expressed as % of daily value.
type MicronutrientEntry struct {
	Name              string  `json:"name"`
	PercentageOfDaily float64 `json:"percentage_of_daily"`
}

// ScoreResult holds the health scores of one meal. Every scalar is in [0, 100].
type ScoreResult struct {
	GlycemicIndex                 float64            `json:"glycemic_index"`
	Inflammatory                  float64            `json:"inflammatory"`
	HeartHealth                   float64            `json:"heart_health"`
	Digestive                     float64            `json:"digestive"`
	MealBalance                   float64            `json:"meal_balance"`
	MicronutrientBalance          float64            `json:"micronutrient_balance"`
	IndividualMicronutrientScores map[string]float64 `json:"individual_micronutrient_scores"`
}

// FoodNutrients is the nutrient content of a food looked up in USDA FoodData Central
type FoodNutrients struct {
	FdcID          string               `json:"fdcId"`
	Description    string               `json:"description"`
	DataType       string               `json:"dataType"`
	ServingGrams   float64              `json:"servingGrams"`
	Macros         MacroRecord          `json:"macros"`
	Micronutrients []MicronutrientEntry `json:"micronutrients"`
	Confidence     float64              `json:"confidence"` // Match confidence score 0-100
	Source         string               `json:"source"`     // "USDA" or "Cache"
	CachedAt       time.Time            `json:"cachedAt,omitempty"`
}

// FoodScoreRequest asks for the scores of a single food serving
type FoodScoreRequest struct {
	Query                  string   `json:"query" binding:"required,max=200"`
	ServingGrams           float64  `json:"serving_grams" binding:"omitempty,gt=0,lte=5000"`
	PriorityMicronutrients []string `json:"priority_micronutrients" binding:"omitempty,max=50,dive,max=64"`
}

// FoodScore pairs a looked-up food with its scores
type FoodScore struct {
	Food   *FoodNutrients `json:"food"`
	Scores *ScoreResult   `json:"scores"`
}

// USDAFood represents a food item from the USDA FoodData Central API
type USDAFood struct {
	FdcID       int            `json:"fdcId"`
	Description string         `json:"description"`
	DataType    string         `json:"dataType"`
	FoodClass   string         `json:"foodClass,omitempty"`
	Nutrients   []USDANutrient `json:"foodNutrients"`
}

// USDANutrient represents a single nutrient from USDA data
type USDANutrient struct {
	NutrientID     int     `json:"nutrientId"`
	NutrientName   string  `json:"nutrientName"`
	NutrientNumber string  `json:"nutrientNumber,omitempty"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// UnmarshalJSON accepts both the flat search format and the nested food details format
// ({"nutrient":{"id":1003,...},"amount":13.2}).
func (n *USDANutrient) UnmarshalJSON(data []byte) error {
	type flat USDANutrient
	var aux struct {
		flat
		Nutrient *struct {
			ID       int    `json:"id"`
			Number   string `json:"number"`
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount *float64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = USDANutrient(aux.flat)
	if aux.Nutrient != nil {
		n.NutrientID = aux.Nutrient.ID
		n.NutrientName = aux.Nutrient.Name
		n.NutrientNumber = aux.Nutrient.Number
		n.UnitName = aux.Nutrient.UnitName
	}
	if aux.Amount != nil {
		n.Value = *aux.Amount
	}
	return nil
}

// USDASearchResponse represents the response from USDA search API
type USDASearchResponse struct {
	Foods       []USDAFood `json:"foods"`
	TotalHits   int        `json:"totalHits"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// MatchResult represents the result of matching a query against USDA search hits
type MatchResult struct {
	FdcID         int      `json:"fdcId"`
	Description   string   `json:"description"`
	MatchScore    float64  `json:"matchScore"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}
