package personality

import (
	"math"

	"habit-persona/internal/domain"
)

// Pesos de los ajustes v1.1 sobre la suma base.
const (
	minCompletionWeight = 0.3

	conscientiousnessRateWeight        = 0.4
	conscientiousnessConsistencyWeight = 0.2
	neuroticismStabilityShift          = 0.25
	highFollowThroughRate              = 0.70
	lowFollowThroughRate               = 0.30
	opennessFlexibilityWeight          = 0.25
)

// AggregationDebug expone los intermedios del calculo para pruebas y telemetria.
type AggregationDebug struct {
	BaseScores               domain.TraitScores   `json:"base_scores"`
	ContributingHabits       map[domain.Trait]int `json:"contributing_habits"`
	ScheduleAwareRate        float64              `json:"schedule_aware_rate"`
	ConsistencyRatio         float64              `json:"consistency_ratio"`
	FlexibleScheduleFraction float64              `json:"flexible_schedule_fraction"`
	ConscientiousnessShift   float64              `json:"conscientiousness_shift"`
	NeuroticismShift         float64              `json:"neuroticism_shift"`
	OpennessShift            float64              `json:"openness_shift"`
}

// Aggregator combina estadisticas de cumplimiento y coeficientes en los cinco puntajes.
type Aggregator struct {
	calc CompletionCalculator
}

// CompletionWeighting mapea linealmente una tasa [0,1] a una influencia [0.3,1.0].
// Un habito nunca completado igual aporta: elegirlo ya es senal debil.
func CompletionWeighting(rate float64) float64 {
	return minCompletionWeight + (1-minCompletionWeight)*clamp(rate, 0, 1)
}

// Aggregate calcula los puntajes finales. Los habitos sin estadistica se ignoran;
// los que no tienen coeficiente para un rasgo no cuentan en la normalizacion de ese rasgo.
func (a Aggregator) Aggregate(
	habits []domain.Habit,
	stats []domain.HabitCompletionStat,
	coefficients map[string]domain.CoefficientVector,
) (domain.TraitScores, *AggregationDebug) {
	statByHabit := make(map[string]domain.HabitCompletionStat, len(stats))
	for _, s := range stats {
		statByHabit[s.HabitID] = s
	}

	sums := make(map[domain.Trait]float64, len(domain.AllTraits))
	counts := make(map[domain.Trait]int, len(domain.AllTraits))
	analyzed := 0
	flexible := 0

	// Se recorre el slice de habitos, no el map, para que la suma sea reproducible.
	for _, h := range habits {
		stat, ok := statByHabit[h.ID]
		if !ok {
			continue
		}
		analyzed++
		if h.Schedule.IsFlexible() {
			flexible++
		}

		vec := coefficients[h.ID]
		weighting := CompletionWeighting(stat.CompletionRate)
		for _, t := range domain.AllTraits {
			w := vec.Get(t)
			if w == 0 {
				continue
			}
			sums[t] += w * weighting
			counts[t]++
		}
	}

	debug := &AggregationDebug{ContributingHabits: make(map[domain.Trait]int, len(domain.AllTraits))}
	var scores domain.TraitScores
	for _, t := range domain.AllTraits {
		base := 0.0
		if counts[t] > 0 {
			base = clamp(sums[t]/float64(counts[t]), -1, 1)
		}
		scores.Set(t, base)
		debug.BaseScores.Set(t, base)
		debug.ContributingHabits[t] = counts[t]
	}

	summary := a.calc.Summarize(stats)
	debug.ScheduleAwareRate = summary.OverallRate
	debug.ConsistencyRatio = summary.ConsistencyRatio()
	if analyzed > 0 {
		debug.FlexibleScheduleFraction = float64(flexible) / float64(analyzed)
	}

	// Ajustes v1.1: capturan "como" ejecuta el usuario, se suman sin re-ponderar la base.
	debug.ConscientiousnessShift = conscientiousnessRateWeight*(debug.ScheduleAwareRate-0.5) +
		conscientiousnessConsistencyWeight*(debug.ConsistencyRatio-0.5)
	switch {
	case summary.OverallRate > highFollowThroughRate:
		debug.NeuroticismShift = -neuroticismStabilityShift
	case summary.OverallRate < lowFollowThroughRate:
		debug.NeuroticismShift = neuroticismStabilityShift
	}
	debug.OpennessShift = opennessFlexibilityWeight * debug.FlexibleScheduleFraction

	scores.Conscientiousness = clamp(scores.Conscientiousness+debug.ConscientiousnessShift, -1, 1)
	scores.Neuroticism = clamp(scores.Neuroticism+debug.NeuroticismShift, -1, 1)
	scores.Openness = clamp(scores.Openness+debug.OpennessShift, -1, 1)

	return scores, debug
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
