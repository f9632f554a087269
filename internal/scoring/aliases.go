package scoring

import (
	"sort"
	"strings"
)

// Nutrient is one entry of the micronutrient vocabulary
type Nutrient struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// nutrientLabels is the closed vocabulary of tracked micronutrients.
var nutrientLabels = map[string]string{
	"vitamin_a":   "Vitamin A",
	"vitamin_c":   "Vitamin C",
	"vitamin_d":   "Vitamin D",
	"vitamin_e":   "Vitamin E",
	"vitamin_k":   "Vitamin K",
	"vitamin_b1":  "Vitamin B1",
	"vitamin_b2":  "Vitamin B2",
	"vitamin_b3":  "Vitamin B3",
	"vitamin_b6":  "Vitamin B6",
	"vitamin_b12": "Vitamin B12",
	"folate":      "Folate (B9)",
	"calcium":     "Calcium",
	"iron":        "Iron",
	"magnesium":   "Magnesium",
	"phosphorus":  "Phosphorus",
	"potassium":   "Potassium",
	"zinc":        "Zinc",
	"copper":      "Copper",
	"manganese":   "Manganese",
	"selenium":    "Selenium",
	"chromium":    "Chromium",
	"iodine":      "Iodine",
	"omega_3":     "Omega-3",
}

// nutrientAliases maps lowercased human-readable names to vocabulary keys.
// Names whose canonical form already is a key need no entry.
var nutrientAliases = map[string]string{
	"folate (b9)":   "folate",
	"vitamin b9":    "folate",
	"folic acid":    "folate",
	"thiamin":       "vitamin_b1",
	"thiamine":      "vitamin_b1",
	"riboflavin":    "vitamin_b2",
	"niacin":        "vitamin_b3",
	"cobalamin":     "vitamin_b12",
	"omega-3":       "omega_3",
	"omega 3":       "omega_3",
	"omega-3s":      "omega_3",
	"vitamin d3":    "vitamin_d",
	"vitamin k1":    "vitamin_k",
	"ascorbic acid": "vitamin_c",
}

// CanonicalNutrient maps a nutrient name to its lookup key: lowercase, trimmed, runs of
// spaces and underscores collapsed to a single underscore, then resolved through the
// alias table. Unknown names keep their canonical form so that meal data using the same
// spelling still matches.
func CanonicalNutrient(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if key, ok := nutrientAliases[lower]; ok {
		return key
	}
	spaced := strings.Join(strings.Fields(strings.ReplaceAll(lower, "_", " ")), " ")
	if key, ok := nutrientAliases[spaced]; ok {
		return key
	}
	return strings.ReplaceAll(spaced, " ", "_")
}

// Vocabulary lists the tracked micronutrients sorted by key.
func Vocabulary() []Nutrient {
	out := make([]Nutrient, 0, len(nutrientLabels))
	for key, label := range nutrientLabels {
		out = append(out, Nutrient{Key: key, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
