package domain

// Trait identifica una dimension del modelo Big Five (OCEAN).
type Trait string

const (
	TraitOpenness          Trait = "Openness"
	TraitConscientiousness Trait = "Conscientiousness"
	TraitExtraversion      Trait = "Extraversion"
	TraitAgreeableness     Trait = "Agreeableness"
	TraitNeuroticism       Trait = "Neuroticism"
)

// AllTraits fija el orden de iteracion; todo calculo recorre esta lista y nunca un map.
var AllTraits = []Trait{
	TraitOpenness,
	TraitConscientiousness,
	TraitExtraversion,
	TraitAgreeableness,
	TraitNeuroticism,
}

// IsValid indica si el rasgo pertenece al conjunto cerrado OCEAN.
func (t Trait) IsValid() bool {
	switch t {
	case TraitOpenness, TraitConscientiousness, TraitExtraversion, TraitAgreeableness, TraitNeuroticism:
		return true
	}
	return false
}

// CoefficientVector asigna un peso en [-1, 1] a cada rasgo.
// Un rasgo ausente equivale a peso 0.
type CoefficientVector map[Trait]float64

// Get devuelve el peso del rasgo o 0 si no existe.
func (v CoefficientVector) Get(t Trait) float64 {
	if v == nil {
		return 0
	}
	return v[t]
}

// IsZero indica si ningun rasgo tiene peso distinto de cero.
func (v CoefficientVector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}

// Clone copia el vector para que las modificaciones no alteren la tabla original.
func (v CoefficientVector) Clone() CoefficientVector {
	out := make(CoefficientVector, len(v))
	for t, w := range v {
		out[t] = w
	}
	return out
}

// TraitScores guarda los cinco puntajes finales, cada uno en [-1, 1].
type TraitScores struct {
	Openness          float64 `json:"Openness"`
	Conscientiousness float64 `json:"Conscientiousness"`
	Extraversion      float64 `json:"Extraversion"`
	Agreeableness     float64 `json:"Agreeableness"`
	Neuroticism       float64 `json:"Neuroticism"`
}

// Get devuelve el puntaje del rasgo indicado.
func (s TraitScores) Get(t Trait) float64 {
	switch t {
	case TraitOpenness:
		return s.Openness
	case TraitConscientiousness:
		return s.Conscientiousness
	case TraitExtraversion:
		return s.Extraversion
	case TraitAgreeableness:
		return s.Agreeableness
	case TraitNeuroticism:
		return s.Neuroticism
	}
	return 0
}

// Set asigna el puntaje del rasgo indicado; ignora rasgos fuera de OCEAN.
func (s *TraitScores) Set(t Trait, value float64) {
	switch t {
	case TraitOpenness:
		s.Openness = value
	case TraitConscientiousness:
		s.Conscientiousness = value
	case TraitExtraversion:
		s.Extraversion = value
	case TraitAgreeableness:
		s.Agreeableness = value
	case TraitNeuroticism:
		s.Neuroticism = value
	}
}

// Vector devuelve los puntajes en el orden de AllTraits.
func (s TraitScores) Vector() []float32 {
	out := make([]float32, 0, len(AllTraits))
	for _, t := range AllTraits {
		out = append(out, float32(s.Get(t)))
	}
	return out
}
