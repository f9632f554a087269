package scoring

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Calorie bases for the meal balance score
const (
	CalorieBasisStated = "stated" // trust the calories field as supplied
	CalorieBasisMacros = "macros" // derive calories from protein, carbs and fats
)

// GlycemicPolicy tunes the glycemic index score
type GlycemicPolicy struct {
	Base         float64 `mapstructure:"base" validate:"gte=0,lte=100"`
	FiberCredit  float64 `mapstructure:"fiber_credit" validate:"gte=0"`
	SugarPenalty float64 `mapstructure:"sugar_penalty" validate:"gte=0"`
}

// InflammatoryPolicy tunes the inflammatory score. Penalties raise the score.
type InflammatoryPolicy struct {
	Base          float64 `mapstructure:"base" validate:"gte=0,lte=100"`
	FatLimitG     float64 `mapstructure:"fat_limit_g" validate:"gte=0"`
	FatPenalty    float64 `mapstructure:"fat_penalty" validate:"gte=0"`
	SodiumLimitMg float64 `mapstructure:"sodium_limit_mg" validate:"gte=0"`
	SodiumPenalty float64 `mapstructure:"sodium_penalty" validate:"gte=0"`
	FiberLimitG   float64 `mapstructure:"fiber_limit_g" validate:"gte=0"`
	FiberCredit   float64 `mapstructure:"fiber_credit" validate:"gte=0"`
}

// HeartHealthPolicy tunes the heart health score. Penalties lower the score.
type HeartHealthPolicy struct {
	Base          float64 `mapstructure:"base" validate:"gte=0,lte=100"`
	FatLimitG     float64 `mapstructure:"fat_limit_g" validate:"gte=0"`
	FatPenalty    float64 `mapstructure:"fat_penalty" validate:"gte=0"`
	SodiumLimitMg float64 `mapstructure:"sodium_limit_mg" validate:"gte=0"`
	SodiumPenalty float64 `mapstructure:"sodium_penalty" validate:"gte=0"`
	FiberLimitG   float64 `mapstructure:"fiber_limit_g" validate:"gte=0"`
	FiberBonus    float64 `mapstructure:"fiber_bonus" validate:"gte=0"`
}

// DigestivePolicy tunes the digestive score
type DigestivePolicy struct {
	Base         float64 `mapstructure:"base" validate:"gte=0,lte=100"`
	FiberLimitG  float64 `mapstructure:"fiber_limit_g" validate:"gte=0"`
	FiberBonus   float64 `mapstructure:"fiber_bonus" validate:"gte=0"`
	FatLimitG    float64 `mapstructure:"fat_limit_g" validate:"gte=0"`
	FatPenalty   float64 `mapstructure:"fat_penalty" validate:"gte=0"`
	SugarLimitG  float64 `mapstructure:"sugar_limit_g" validate:"gte=0"`
	SugarPenalty float64 `mapstructure:"sugar_penalty" validate:"gte=0"`
}

// MealBalancePolicy holds the ideal calorie split and energy densities
type MealBalancePolicy struct {
	IdealProteinPct float64 `mapstructure:"ideal_protein_pct" validate:"gte=0,lte=100"`
	IdealCarbsPct   float64 `mapstructure:"ideal_carbs_pct" validate:"gte=0,lte=100"`
	IdealFatsPct    float64 `mapstructure:"ideal_fats_pct" validate:"gte=0,lte=100"`
	ProteinKcalPerG float64 `mapstructure:"protein_kcal_per_g" validate:"gt=0"`
	CarbsKcalPerG   float64 `mapstructure:"carbs_kcal_per_g" validate:"gt=0"`
	FatsKcalPerG    float64 `mapstructure:"fats_kcal_per_g" validate:"gt=0"`
	CalorieBasis    string  `mapstructure:"calorie_basis" validate:"oneof=stated macros"`
}

// Policy is the full set of tunable scoring constants.
type Policy struct {
	Glycemic     GlycemicPolicy     `mapstructure:"glycemic"`
	Inflammatory InflammatoryPolicy `mapstructure:"inflammatory"`
	HeartHealth  HeartHealthPolicy  `mapstructure:"heart_health"`
	Digestive    DigestivePolicy    `mapstructure:"digestive"`
	MealBalance  MealBalancePolicy  `mapstructure:"meal_balance"`
}

// DefaultPolicy returns the generic balanced-diet baseline.
// 2300 mg is the WHO/FDA daily sodium ceiling.
func DefaultPolicy() Policy {
	return Policy{
		Glycemic: GlycemicPolicy{
			Base:         50,
			FiberCredit:  30,
			SugarPenalty: 40,
		},
		Inflammatory: InflammatoryPolicy{
			Base:          50,
			FatLimitG:     20,
			FatPenalty:    10,
			SodiumLimitMg: 2300,
			SodiumPenalty: 15,
			FiberLimitG:   5,
			FiberCredit:   10,
		},
		HeartHealth: HeartHealthPolicy{
			Base:          50,
			FatLimitG:     20,
			FatPenalty:    15,
			SodiumLimitMg: 2300,
			SodiumPenalty: 15,
			FiberLimitG:   5,
			FiberBonus:    10,
		},
		Digestive: DigestivePolicy{
			Base:         50,
			FiberLimitG:  5,
			FiberBonus:   15,
			FatLimitG:    20,
			FatPenalty:   10,
			SugarLimitG:  25,
			SugarPenalty: 10,
		},
		MealBalance: MealBalancePolicy{
			IdealProteinPct: 20,
			IdealCarbsPct:   50,
			IdealFatsPct:    30,
			ProteinKcalPerG: 4,
			CarbsKcalPerG:   4,
			FatsKcalPerG:    9,
			CalorieBasis:    CalorieBasisStated,
		},
	}
}

var policyValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every policy field against its bounds.
func (p Policy) Validate() error {
	if err := policyValidator.Struct(p); err != nil {
		return errors.Wrap(err, "invalid scoring policy")
	}
	return nil
}
