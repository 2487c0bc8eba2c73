package domain

import (
	"math"
	"time"
)

// ConfidenceLevel resume cuanta evidencia conductual respalda un perfil.
type ConfidenceLevel string

const (
	ConfidenceInsufficient ConfidenceLevel = "Insufficient"
	ConfidenceLow          ConfidenceLevel = "Low"
	ConfidenceMedium       ConfidenceLevel = "Medium"
	ConfidenceHigh         ConfidenceLevel = "High"
	ConfidenceVeryHigh     ConfidenceLevel = "VeryHigh"
)

// Limites de los niveles de confianza sobre dataPointCount.
const (
	ConfidenceMediumFloor   = 35
	ConfidenceHighFloor     = 85
	ConfidenceVeryHighFloor = 160
)

// ConfidenceLevelFor es la funcion escalonada y monotona de dataPointCount.
// Nunca devuelve Insufficient: ese caso lo filtra el gate de elegibilidad.
func ConfidenceLevelFor(dataPoints int) ConfidenceLevel {
	switch {
	case dataPoints >= ConfidenceVeryHighFloor:
		return ConfidenceVeryHigh
	case dataPoints >= ConfidenceHighFloor:
		return ConfidenceHigh
	case dataPoints >= ConfidenceMediumFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Rank ordena los niveles para comparaciones.
func (l ConfidenceLevel) Rank() int {
	switch l {
	case ConfidenceLow:
		return 1
	case ConfidenceMedium:
		return 2
	case ConfidenceHigh:
		return 3
	case ConfidenceVeryHigh:
		return 4
	}
	return 0
}

// PersonalityProfile es el resultado inmutable de una corrida elegible.
// Una nueva corrida produce un perfil nuevo; nunca se actualiza en sitio.
type PersonalityProfile struct {
	UserID           string          `json:"userId"`
	TraitScores      TraitScores     `json:"traitScores"`
	ConfidenceLevel  ConfidenceLevel `json:"confidenceLevel"`
	ConfidenceScore  float64         `json:"confidenceScore"`
	DataPointCount   int             `json:"dataPointCount"`
	AlgorithmVersion string          `json:"algorithmVersion"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// Score devuelve el puntaje de un rasgo.
func (p PersonalityProfile) Score(t Trait) float64 {
	return p.TraitScores.Get(t)
}

// Level devuelve el nivel de confianza.
func (p PersonalityProfile) Level() ConfidenceLevel {
	return p.ConfidenceLevel
}

// IsStale indica si el perfil fue calculado con otra version del algoritmo.
func (p PersonalityProfile) IsStale(currentVersion string) bool {
	return p.AlgorithmVersion != currentVersion
}

// DominantTrait devuelve el rasgo con mayor magnitud; empata a favor del orden de AllTraits.
func (p PersonalityProfile) DominantTrait() Trait {
	best := AllTraits[0]
	bestAbs := -1.0
	for _, t := range AllTraits {
		if a := math.Abs(p.Score(t)); a > bestAbs {
			best, bestAbs = t, a
		}
	}
	return best
}

// SimilarProfile es un perfil vecino encontrado por distancia entre vectores de rasgos.
type SimilarProfile struct {
	Profile  PersonalityProfile `json:"profile"`
	Distance float64            `json:"distance"`
}
