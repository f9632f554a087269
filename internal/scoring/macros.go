package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/bitebot/backend/internal/domain"
	"github.com/spf13/cast"
)

const macronutrientsKey = "macronutrients"

// decimalPattern is the accepted shape of a numeric string: plain decimal with an
// optional exponent. Digit separators, hex and named values are rejected.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// macroKeys lists the accepted spellings of each macro field, plain name first.
var macroKeys = struct {
	calories, protein, carbs, fats, fiber, sugar, sodium []string
}{
	calories: []string{"calories"},
	protein:  []string{"protein", "protein_g"},
	carbs:    []string{"carbs", "carbs_g"},
	fats:     []string{"fats", "fats_g"},
	fiber:    []string{"fiber", "fiber_g"},
	sugar:    []string{"sugar", "sugar_g"},
	sodium:   []string{"sodium", "sodium_mg"},
}

// ExtractMacros normalizes a meal document into a MacroRecord. Macros are read from a
// nested "macronutrients" object when present, otherwise from the top level.
// Missing fields are 0; present fields that cannot be read as a non-negative number
// yield an InvalidInputError.
func ExtractMacros(input map[string]any) (domain.MacroRecord, error) {
	source := input
	prefix := ""
	if nested, ok := input[macronutrientsKey]; ok && nested != nil {
		m, ok := nested.(map[string]any)
		if !ok {
			return domain.MacroRecord{}, domain.NewInvalidInput(macronutrientsKey, "must be an object")
		}
		source = m
		prefix = macronutrientsKey + "."
	}

	var rec domain.MacroRecord
	fields := []struct {
		keys []string
		dst  *float64
	}{
		{macroKeys.calories, &rec.Calories},
		{macroKeys.protein, &rec.ProteinG},
		{macroKeys.carbs, &rec.CarbsG},
		{macroKeys.fats, &rec.FatsG},
		{macroKeys.fiber, &rec.FiberG},
		{macroKeys.sugar, &rec.SugarG},
		{macroKeys.sodium, &rec.SodiumMg},
	}
	for _, f := range fields {
		v, err := lookupQuantity(source, prefix, f.keys)
		if err != nil {
			return domain.MacroRecord{}, err
		}
		*f.dst = v
	}
	return rec, nil
}

// lookupQuantity returns the first present key's value, or 0 when none is present.
func lookupQuantity(source map[string]any, prefix string, keys []string) (float64, error) {
	for _, key := range keys {
		raw, ok := source[key]
		if !ok {
			continue
		}
		return toQuantity(prefix+key, raw)
	}
	return 0, nil
}

// toQuantity coerces a JSON-ish value into a non-negative finite number. nil is 0.
func toQuantity(field string, raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case bool:
		return 0, domain.NewInvalidInput(field, "boolean is not a number")
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, domain.NewInvalidInput(field, "empty string is not a number")
		}
		if !decimalPattern.MatchString(s) {
			return 0, domain.NewInvalidInput(field, "expected a number")
		}
		raw = s
	case map[string]any, []any:
		return 0, domain.NewInvalidInput(field, "expected a number")
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, domain.NewInvalidInput(field, "expected a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.NewInvalidInput(field, "must be finite")
	}
	if f < 0 {
		return 0, domain.NewInvalidInput(field, "must not be negative")
	}
	return f, nil
}
