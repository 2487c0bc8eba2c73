package personality

import (
	"math"
	"time"

	"habit-persona/internal/domain"
)

// Thresholds son los minimos de datos requeridos antes de inferir rasgos.
type Thresholds struct {
	MinActiveHabits      int
	MinLoggingDays       int
	MinCustomCategories  int
	MinCustomHabits      int
	MinCategoryDiversity int
	MinCompletionRate    float64
}

// DefaultThresholds devuelve los minimos de produccion.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinActiveHabits:      5,
		MinLoggingDays:       7,
		MinCustomCategories:  3,
		MinCustomHabits:      3,
		MinCategoryDiversity: 3,
		MinCompletionRate:    0.30,
	}
}

// Validator decide si hay datos suficientes para analizar. Nunca falla:
// la falta de datos produce IsEligible=false con el detalle de cada requisito.
type Validator struct {
	Thresholds Thresholds
	WindowDays int
	calc       CompletionCalculator
}

// NewValidator construye un Validator con los umbrales y la ventana indicados.
func NewValidator(thresholds Thresholds, windowDays int) Validator {
	return Validator{Thresholds: thresholds, WindowDays: windowDays}
}

type requirementCheck struct {
	name     string
	current  float64
	required float64
	// reportDecimals > 0 redondea solo el valor informado; la comparacion usa current.
	reportDecimals int
}

func (c requirementCheck) reported() float64 {
	if c.reportDecimals > 0 {
		return roundTo(c.current, c.reportDecimals)
	}
	return c.current
}

// Validate evalua todos los requisitos y reporta cada uno que no se cumple.
func (v Validator) Validate(habits []domain.Habit, logs []domain.HabitLog, categories []domain.Category, asOf time.Time) domain.AnalysisEligibility {
	checks := v.evaluate(habits, logs, categories, asOf)

	eligibility := domain.AnalysisEligibility{
		IsEligible:          true,
		MissingRequirements: []domain.MissingRequirement{},
		Progress:            progressOf(checks),
	}
	for _, c := range checks {
		if c.current >= c.required {
			continue
		}
		eligibility.IsEligible = false
		eligibility.MissingRequirements = append(eligibility.MissingRequirements, domain.MissingRequirement{
			Requirement: c.name,
			Current:     c.reported(),
			Required:    c.required,
		})
	}
	return eligibility
}

// Progress devuelve la completitud global en [0,1]: promedio de los ratios por requisito, topados en 1.
func (v Validator) Progress(habits []domain.Habit, logs []domain.HabitLog, categories []domain.Category, asOf time.Time) float64 {
	return progressOf(v.evaluate(habits, logs, categories, asOf))
}

func (v Validator) evaluate(habits []domain.Habit, logs []domain.HabitLog, categories []domain.Category, asOf time.Time) []requirementCheck {
	active := activeHabits(habits, asOf)
	today := domain.DayOf(asOf)

	loggingDays := make(map[time.Time]struct{})
	for _, l := range logs {
		d := domain.DayOf(l.Date)
		if d.After(today) {
			continue
		}
		loggingDays[d] = struct{}{}
	}

	customCategories := 0
	for _, c := range categories {
		if !c.IsPredefined {
			customCategories++
		}
	}

	customHabits := 0
	categoriesInUse := make(map[string]struct{})
	for _, h := range active {
		if h.IsCustom {
			customHabits++
		}
		if h.CategoryID != "" {
			categoriesInUse[h.CategoryID] = struct{}{}
		}
	}

	rate := 0.0
	if len(active) > 0 {
		window := AnalysisWindow(active, asOf, v.WindowDays)
		stats, _ := v.calc.ComputeAll(active, logs, window)
		rate = v.calc.Summarize(stats).OverallRate
	}

	t := v.Thresholds
	return []requirementCheck{
		{name: domain.RequirementActiveHabits, current: float64(len(active)), required: float64(t.MinActiveHabits)},
		{name: domain.RequirementLoggingDays, current: float64(len(loggingDays)), required: float64(t.MinLoggingDays)},
		{name: domain.RequirementCustomCategories, current: float64(customCategories), required: float64(t.MinCustomCategories)},
		{name: domain.RequirementCustomHabits, current: float64(customHabits), required: float64(t.MinCustomHabits)},
		{name: domain.RequirementCategoryDiversity, current: float64(len(categoriesInUse)), required: float64(t.MinCategoryDiversity)},
		{name: domain.RequirementCompletionRate, current: rate, required: t.MinCompletionRate, reportDecimals: 4},
	}
}

func progressOf(checks []requirementCheck) float64 {
	if len(checks) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range checks {
		if c.required <= 0 {
			total += 1
			continue
		}
		total += math.Min(c.current/c.required, 1)
	}
	return total / float64(len(checks))
}

func activeHabits(habits []domain.Habit, asOf time.Time) []domain.Habit {
	out := make([]domain.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsActiveOn(asOf) {
			out = append(out, h)
		}
	}
	return out
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
