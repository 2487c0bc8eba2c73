package personality

import (
	"fmt"
	"time"

	"habit-persona/internal/domain"
)

// AlgorithmVersion se persiste con cada perfil para detectar perfiles calculados con reglas viejas.
const AlgorithmVersion = "1.1"

// WarningKind clasifica condiciones de senal degradada que no abortan la corrida.
type WarningKind string

const (
	WarningUnknownCategory WarningKind = "unknown_category"
	WarningInvalidSchedule WarningKind = "invalid_schedule"
)

// Warning se adjunta al resultado cuando un habito aporta menos senal de la esperada.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	HabitID string      `json:"habit_id"`
	Detail  string      `json:"detail"`
}

// Options inyecta todas las dependencias del motor; no hay estado global.
type Options struct {
	Thresholds    Thresholds
	WindowDays    int
	CategoryTable map[string]domain.CoefficientVector
	KeywordRules  []KeywordRule
}

// DefaultOptions devuelve la configuracion de produccion.
func DefaultOptions() Options {
	return Options{
		Thresholds:    DefaultThresholds(),
		WindowDays:    DefaultWindowDays,
		CategoryTable: DefaultCategoryTable(),
		KeywordRules:  DefaultKeywordRules(),
	}
}

// RunDetails guarda los intermedios de una corrida elegible. No forma parte del perfil persistido.
type RunDetails struct {
	Window      domain.DateRange             `json:"window"`
	Stats       []domain.HabitCompletionStat `json:"stats"`
	Summary     domain.CompletionSummary     `json:"summary"`
	Aggregation *AggregationDebug            `json:"aggregation"`
	Confidence  ConfidenceResult             `json:"confidence"`
}

// AnalysisResult es Eligibility o Profile: Profile solo existe si Eligibility.IsEligible.
type AnalysisResult struct {
	UserID      string                     `json:"user_id"`
	Eligibility domain.AnalysisEligibility `json:"eligibility"`
	Profile     *domain.PersonalityProfile `json:"profile,omitempty"`
	Warnings    []Warning                  `json:"warnings,omitempty"`
	Details     *RunDetails                `json:"details,omitempty"`
}

// Eligible indica si la corrida produjo un perfil.
func (r AnalysisResult) Eligible() bool {
	return r.Eligibility.IsEligible && r.Profile != nil
}

// Engine encadena validacion, estadisticas, coeficientes, agregacion y confianza.
// Es una funcion pura de sus entradas: no lee el reloj ni guarda estado entre corridas.
type Engine struct {
	opts       Options
	validator  Validator
	calc       CompletionCalculator
	resolver   Resolver
	aggregator Aggregator
	scorer     Scorer
}

// NewEngine construye el motor; campos vacios en opts toman los valores por defecto.
func NewEngine(opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = defaults.Thresholds
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = defaults.WindowDays
	}
	if opts.CategoryTable == nil {
		opts.CategoryTable = defaults.CategoryTable
	}
	if opts.KeywordRules == nil {
		opts.KeywordRules = defaults.KeywordRules
	}
	return &Engine{
		opts:      opts,
		validator: NewValidator(opts.Thresholds, opts.WindowDays),
		resolver:  NewResolver(opts.CategoryTable, opts.KeywordRules),
	}
}

// WindowDays expone la ventana configurada para que el llamador acote la consulta de registros.
func (e *Engine) WindowDays() int {
	return e.opts.WindowDays
}

// CheckEligibility ejecuta solo el gate de datos suficientes.
func (e *Engine) CheckEligibility(habits []domain.Habit, logs []domain.HabitLog, categories []domain.Category, asOf time.Time) domain.AnalysisEligibility {
	return e.validator.Validate(habits, logs, categories, asOf)
}

// Run ejecuta el pipeline completo. Si no hay datos suficientes devuelve solo la elegibilidad.
func (e *Engine) Run(userID string, habits []domain.Habit, logs []domain.HabitLog, categories []domain.Category, asOf time.Time) AnalysisResult {
	result := AnalysisResult{
		UserID:      userID,
		Eligibility: e.validator.Validate(habits, logs, categories, asOf),
	}
	if !result.Eligibility.IsEligible {
		return result
	}

	active := activeHabits(habits, asOf)
	window := AnalysisWindow(active, asOf, e.opts.WindowDays)

	stats, invalid := e.calc.ComputeAll(active, logs, window)
	skipped := make(map[string]struct{}, len(invalid))
	for _, inv := range invalid {
		skipped[inv.HabitID] = struct{}{}
		result.Warnings = append(result.Warnings, Warning{
			Kind:    WarningInvalidSchedule,
			HabitID: inv.HabitID,
			Detail:  inv.Err.Error(),
		})
	}

	categoriesByID := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		categoriesByID[c.ID] = c
	}

	coefficients := make(map[string]domain.CoefficientVector, len(active))
	contributors := make([]Contributor, 0, len(active))
	for _, h := range active {
		if _, bad := skipped[h.ID]; bad {
			continue
		}
		var category *domain.Category
		if c, ok := categoriesByID[h.CategoryID]; ok {
			category = &c
		}
		res := e.resolver.Resolve(h, category)
		coefficients[h.ID] = res.Vector
		if !res.Known {
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarningUnknownCategory,
				HabitID: h.ID,
				Detail:  unknownCategoryDetail(h, category),
			})
			continue
		}
		contributors = append(contributors, Contributor{HabitID: h.ID, CategoryID: h.CategoryID})
	}

	scores, aggregation := e.aggregator.Aggregate(active, stats, coefficients)
	confidence := e.scorer.Score(stats, contributors)

	result.Profile = &domain.PersonalityProfile{
		UserID:           userID,
		TraitScores:      scores,
		ConfidenceLevel:  confidence.Level,
		ConfidenceScore:  confidence.ConfidenceScore,
		DataPointCount:   confidence.DataPointCount,
		AlgorithmVersion: AlgorithmVersion,
		GeneratedAt:      asOf.UTC(),
	}
	result.Details = &RunDetails{
		Window:      window,
		Stats:       stats,
		Summary:     e.calc.Summarize(stats),
		Aggregation: aggregation,
		Confidence:  confidence,
	}
	return result
}

func unknownCategoryDetail(h domain.Habit, category *domain.Category) string {
	if category == nil {
		return fmt.Sprintf("category %q not found for habit %q", h.CategoryID, h.Name)
	}
	return fmt.Sprintf("no coefficients for category %q", category.Name)
}
