package personality

import (
	"math"

	"habit-persona/internal/domain"
)

const (
	maxDiversityBonus      = 20.0
	diversityHabitsSat     = 10.0
	diversityCategoriesSat = 5.0

	minSignalBonus      = 8.0
	maxSignalBonus      = 15.0
	highSignalRate      = 0.85
	lowSignalRate       = 0.15
	consistencyBonus    = 10.0
	consistencyMaxStd   = 0.15
	consistencyMinCount = 3
	maxTotalBonus       = 45.0

	// pointEpsilon absorbe error de punto flotante en bonos que deberian ser enteros (ej. 10.999999999).
	pointEpsilon = 1e-9
)

// Contributor es un habito cuya categoria aporta senal real (coeficientes conocidos).
type Contributor struct {
	HabitID    string
	CategoryID string
}

// ConfidenceResult detalla como se llego al nivel de confianza.
type ConfidenceResult struct {
	BaseDataPoints     int                    `json:"base_data_points"`
	DiversityBonus     float64                `json:"diversity_bonus"`
	SignalBonus        float64                `json:"signal_bonus"`
	ConsistencyBonus   float64                `json:"consistency_bonus"`
	TotalBonus         float64                `json:"total_bonus"`
	AdjustedDataPoints float64                `json:"adjusted_data_points"`
	DataPointCount     int                    `json:"data_point_count"`
	ConfidenceScore    float64                `json:"confidence_score"`
	Level              domain.ConfidenceLevel `json:"level"`
}

// Scorer convierte volumen y calidad de evidencia en un nivel de confianza.
type Scorer struct{}

// Score calcula puntos base (suma de ocurrencias esperadas) mas bonos topados.
// Nunca devuelve Insufficient: eso lo decide el Validator antes de llegar aca.
func (Scorer) Score(stats []domain.HabitCompletionStat, contributors []Contributor) ConfidenceResult {
	var res ConfidenceResult

	expectedByHabit := make(map[string]int, len(stats))
	totalCompleted := 0
	var observedRates []float64
	for _, s := range stats {
		res.BaseDataPoints += s.ExpectedOccurrences
		totalCompleted += s.CompletedOccurrences
		expectedByHabit[s.HabitID] = s.ExpectedOccurrences
		if s.ExpectedOccurrences > 0 {
			observedRates = append(observedRates, s.CompletionRate)
		}
	}

	res.DiversityBonus = diversityBonus(contributors, expectedByHabit)
	if res.BaseDataPoints > 0 {
		res.SignalBonus = signalBonus(ratio(totalCompleted, res.BaseDataPoints))
	}
	if isCoherent(observedRates) {
		res.ConsistencyBonus = consistencyBonus
	}

	res.TotalBonus = math.Min(res.DiversityBonus+res.SignalBonus+res.ConsistencyBonus, maxTotalBonus)
	res.AdjustedDataPoints = float64(res.BaseDataPoints) + res.TotalBonus
	// Se trunca: un total ajustado de 34.9 todavia no alcanza el umbral de 35.
	res.DataPointCount = int(math.Floor(res.AdjustedDataPoints + pointEpsilon))
	res.ConfidenceScore = math.Min(res.AdjustedDataPoints/float64(domain.ConfidenceVeryHighFloor), 1)
	res.Level = domain.ConfidenceLevelFor(res.DataPointCount)
	return res
}

// diversityBonus satura en diversityHabitsSat habitos y diversityCategoriesSat categorias con senal.
func diversityBonus(contributors []Contributor, expectedByHabit map[string]int) float64 {
	habits := make(map[string]struct{})
	categories := make(map[string]struct{})
	for _, c := range contributors {
		if expectedByHabit[c.HabitID] <= 0 {
			continue
		}
		habits[c.HabitID] = struct{}{}
		if c.CategoryID != "" {
			categories[c.CategoryID] = struct{}{}
		}
	}
	h := math.Min(float64(len(habits))/diversityHabitsSat, 1)
	c := math.Min(float64(len(categories))/diversityCategoriesSat, 1)
	return maxDiversityBonus * (h + c) / 2
}

// signalBonus premia patrones extremos: 8 en el umbral, 15 en 0 o 1.
func signalBonus(rate float64) float64 {
	span := maxSignalBonus - minSignalBonus
	switch {
	case rate > highSignalRate:
		return minSignalBonus + span*math.Min((rate-highSignalRate)/(1-highSignalRate), 1)
	case rate < lowSignalRate:
		return minSignalBonus + span*math.Min((lowSignalRate-rate)/lowSignalRate, 1)
	}
	return 0
}

// isCoherent indica baja varianza entre habitos con la media cerca de un extremo.
func isCoherent(rates []float64) bool {
	if len(rates) < consistencyMinCount {
		return false
	}
	mean := 0.0
	for _, r := range rates {
		mean += r
	}
	mean /= float64(len(rates))

	variance := 0.0
	for _, r := range rates {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(rates)))
	if std >= consistencyMaxStd {
		return false
	}
	return mean >= highFollowThroughRate || mean <= lowFollowThroughRate
}
