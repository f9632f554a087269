package scoring

import (
	"math"

	"github.com/bitebot/backend/internal/domain"
)

const (
	minScore = 0.0
	maxScore = 100.0
)

func clamp(score float64) float64 {
	if math.IsNaN(score) {
		return minScore
	}
	return math.Max(minScore, math.Min(maxScore, score))
}

// GlycemicIndex estimates blood-sugar impact from the carbohydrate composition.
// Lower is better. A meal without carbs scores 0.
func GlycemicIndex(m domain.MacroRecord, p GlycemicPolicy) float64 {
	if m.CarbsG == 0 {
		return 0
	}
	fiberFactor := math.Min(m.FiberG/m.CarbsG, 1) * p.FiberCredit
	sugarFactor := math.Min(m.SugarG/m.CarbsG, 1) * p.SugarPenalty
	return clamp(p.Base - fiberFactor + sugarFactor)
}

// Inflammatory scores inflammatory load. Lower is better.
func Inflammatory(m domain.MacroRecord, p InflammatoryPolicy) float64 {
	score := p.Base
	if m.FatsG > p.FatLimitG {
		score += p.FatPenalty
	}
	if m.SodiumMg > p.SodiumLimitMg {
		score += p.SodiumPenalty
	}
	if m.FiberG > p.FiberLimitG {
		score -= p.FiberCredit
	}
	return clamp(score)
}

// HeartHealth scores cardiovascular friendliness. Higher is better.
func HeartHealth(m domain.MacroRecord, p HeartHealthPolicy) float64 {
	score := p.Base
	if m.FatsG > p.FatLimitG {
		score -= p.FatPenalty
	}
	if m.SodiumMg > p.SodiumLimitMg {
		score -= p.SodiumPenalty
	}
	if m.FiberG > p.FiberLimitG {
		score += p.FiberBonus
	}
	return clamp(score)
}

// Digestive scores digestive impact. Higher is better.
func Digestive(m domain.MacroRecord, p DigestivePolicy) float64 {
	score := p.Base
	if m.FiberG > p.FiberLimitG {
		score += p.FiberBonus
	}
	if m.FatsG > p.FatLimitG {
		score -= p.FatPenalty
	}
	if m.SugarG > p.SugarLimitG {
		score -= p.SugarPenalty
	}
	return clamp(score)
}

// MealBalance compares the calorie split of protein, carbs and fats against the ideal
// split and subtracts the summed absolute deviation from 100. Higher is better.
//
// With the stated basis the percentages are taken against the calories field as is and
// need not add up to 100. A meal with no calories scores 0.
func MealBalance(m domain.MacroRecord, p MealBalancePolicy) float64 {
	proteinKcal := m.ProteinG * p.ProteinKcalPerG
	carbsKcal := m.CarbsG * p.CarbsKcalPerG
	fatsKcal := m.FatsG * p.FatsKcalPerG

	calories := m.Calories
	if p.CalorieBasis == CalorieBasisMacros {
		calories = proteinKcal + carbsKcal + fatsKcal
	}
	if calories == 0 {
		return 0
	}

	proteinPct := proteinKcal / calories * 100
	carbsPct := carbsKcal / calories * 100
	fatsPct := fatsKcal / calories * 100

	deviation := math.Abs(proteinPct-p.IdealProteinPct) +
		math.Abs(carbsPct-p.IdealCarbsPct) +
		math.Abs(fatsPct-p.IdealFatsPct)
	return clamp(100 - deviation)
}
