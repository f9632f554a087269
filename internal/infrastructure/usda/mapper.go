package usda

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bitebot/backend/internal/domain"
)

// USDA Nutrient IDs for macronutrients
const (
	NutrientIDEnergy       = 1008 // Calories (kcal)
	NutrientIDProtein      = 1003 // Protein (g)
	NutrientIDCarbohydrate = 1005 // Carbohydrates (g)
	NutrientIDTotalFat     = 1004 // Total Fat (g)
	NutrientIDFiber        = 1079 // Total dietary fiber (g)
	NutrientIDSugars       = 2000 // Total sugars (g)
	NutrientIDSodium       = 1093 // Sodium (mg)
)

// ReferenceServingGrams is the basis of every USDA nutrient value
const ReferenceServingGrams = 100.0

// dailyValue is an FDA reference daily intake for adults
type dailyValue struct {
	key    string
	amount float64
	unit   string // "mg" or "ug"
}

// dailyValues maps USDA nutrient IDs to the micronutrient vocabulary and FDA daily values.
var dailyValues = map[int]dailyValue{
	1106: {"vitamin_a", 900, "ug"}, // RAE
	1162: {"vitamin_c", 90, "mg"},
	1114: {"vitamin_d", 20, "ug"},
	1109: {"vitamin_e", 15, "mg"},
	1185: {"vitamin_k", 120, "ug"},
	1165: {"vitamin_b1", 1.2, "mg"},
	1166: {"vitamin_b2", 1.3, "mg"},
	1167: {"vitamin_b3", 16, "mg"},
	1175: {"vitamin_b6", 1.7, "mg"},
	1178: {"vitamin_b12", 2.4, "ug"},
	1177: {"folate", 400, "ug"},
	1087: {"calcium", 1300, "mg"},
	1089: {"iron", 18, "mg"},
	1090: {"magnesium", 420, "mg"},
	1091: {"phosphorus", 1250, "mg"},
	1092: {"potassium", 4700, "mg"},
	1095: {"zinc", 11, "mg"},
	1098: {"copper", 0.9, "mg"},
	1101: {"manganese", 2.3, "mg"},
	1103: {"selenium", 55, "ug"},
}

// MapToFoodNutrients converts USDA food data (per 100 g) to the domain model
func MapToFoodNutrients(usdaFood *domain.USDAFood, confidence float64) *domain.FoodNutrients {
	return &domain.FoodNutrients{
		FdcID:          strconv.Itoa(usdaFood.FdcID),
		Description:    usdaFood.Description,
		DataType:       usdaFood.DataType,
		ServingGrams:   ReferenceServingGrams,
		Macros:         extractMacros(usdaFood.Nutrients),
		Micronutrients: extractMicronutrients(usdaFood.Nutrients),
		Confidence:     confidence,
		Source:         "USDA",
	}
}

// extractMacros extracts the macronutrients from the USDA nutrient list
func extractMacros(usdaNutrients []domain.USDANutrient) domain.MacroRecord {
	macros := domain.MacroRecord{}

	for _, nutrient := range usdaNutrients {
		value := nonNegative(nutrient.Value)
		switch nutrient.NutrientID {
		case NutrientIDEnergy:
			macros.Calories = value
		case NutrientIDProtein:
			macros.ProteinG = value
		case NutrientIDCarbohydrate:
			macros.CarbsG = value
		case NutrientIDTotalFat:
			macros.FatsG = value
		case NutrientIDFiber:
			macros.FiberG = value
		case NutrientIDSugars:
			macros.SugarG = value
		case NutrientIDSodium:
			if mg := toUnit(value, nutrient.UnitName, "mg"); !math.IsNaN(mg) {
				macros.SodiumMg = mg
			}
		}
	}

	return macros
}

// extractMicronutrients converts tracked vitamins and minerals to % of daily value.
// Entries in units that cannot be converted (IU) are skipped.
func extractMicronutrients(usdaNutrients []domain.USDANutrient) []domain.MicronutrientEntry {
	seen := make(map[string]bool)
	entries := make([]domain.MicronutrientEntry, 0)

	for _, nutrient := range usdaNutrients {
		dv, ok := dailyValues[nutrient.NutrientID]
		if !ok || seen[dv.key] {
			continue
		}
		amount := toUnit(nonNegative(nutrient.Value), nutrient.UnitName, dv.unit)
		if math.IsNaN(amount) {
			continue
		}
		seen[dv.key] = true
		entries = append(entries, domain.MicronutrientEntry{
			Name:              dv.key,
			PercentageOfDaily: math.Round(amount/dv.amount*1000) / 10,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

var unitFactors = map[string]float64{"g": 1e6, "mg": 1e3, "ug": 1, "µg": 1, "mcg": 1}

// toUnit converts value between g, mg and ug. Unknown units yield NaN.
// An empty unit is taken to already be in the target unit.
func toUnit(value float64, from, to string) float64 {
	if from == "" {
		return value
	}
	f, ok := unitFactors[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return math.NaN()
	}
	return value * f / unitFactors[to]
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
