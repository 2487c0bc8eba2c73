package personality

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"habit-persona/internal/domain"
)

// KeywordRule refina el vector de la categoria cuando el nombre del habito contiene Keyword.
// Con WholeWord la palabra debe coincidir completa (o en plural), no solo como prefijo.
type KeywordRule struct {
	Keyword    string
	Trait      domain.Trait
	Multiplier float64
	WholeWord  bool
}

func (r KeywordRule) matches(token string) bool {
	if r.WholeWord {
		return token == r.Keyword || token == r.Keyword+"s"
	}
	return strings.HasPrefix(token, r.Keyword)
}

// Resolution es el vector resuelto para un habito.
// Known=false significa "sin informacion" (categoria desconocida), distinto de un vector neutro real.
type Resolution struct {
	Vector         domain.CoefficientVector
	Known          bool
	CategoryName   string
	MatchedKeyword string
}

// Resolver mapea habito + categoria a un vector de coeficientes por rasgo.
type Resolver struct {
	table map[string]domain.CoefficientVector
	rules []KeywordRule
}

// NewResolver normaliza las claves de la tabla y las palabras clave de las reglas.
func NewResolver(table map[string]domain.CoefficientVector, rules []KeywordRule) Resolver {
	normalized := make(map[string]domain.CoefficientVector, len(table))
	for name, vec := range table {
		normalized[normalizeName(name)] = vec.Clone()
	}
	ordered := make([]KeywordRule, 0, len(rules))
	for _, r := range rules {
		r.Keyword = normalizeName(r.Keyword)
		if r.Keyword == "" || !r.Trait.IsValid() {
			continue
		}
		ordered = append(ordered, r)
	}
	return Resolver{table: normalized, rules: ordered}
}

// DefaultResolver usa la tabla y reglas incluidas.
func DefaultResolver() Resolver {
	return NewResolver(DefaultCategoryTable(), DefaultKeywordRules())
}

// Resolve busca el vector de la categoria y aplica la primera regla de palabra clave que coincida.
// Una categoria nula o fuera de la tabla devuelve un vector cero con Known=false.
func (r Resolver) Resolve(habit domain.Habit, category *domain.Category) Resolution {
	if category == nil {
		return Resolution{Vector: zeroVector()}
	}
	base, ok := r.table[normalizeName(category.Name)]
	if !ok {
		return Resolution{Vector: zeroVector(), CategoryName: category.Name}
	}

	res := Resolution{Vector: base.Clone(), Known: true, CategoryName: category.Name}
	if rule, matched := r.matchRule(habit.Name); matched {
		res.MatchedKeyword = rule.Keyword
		if w, has := res.Vector[rule.Trait]; has {
			res.Vector[rule.Trait] = clamp(w*rule.Multiplier, -1, 1)
		}
	}
	return res
}

// matchRule compara por prefijo de token para que "read" coincida con "reading" pero no con "bread".
// Las reglas WholeWord evitan falsos positivos como "call" en "calligraphy".
func (r Resolver) matchRule(habitName string) (KeywordRule, bool) {
	tokens := strings.FieldsFunc(normalizeName(habitName), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for _, rule := range r.rules {
		for _, tok := range tokens {
			if strings.HasPrefix(tok, rule.Keyword) {
				return rule, true
			}
		}
	}
	return KeywordRule{}, false
}

func zeroVector() domain.CoefficientVector {
	v := make(domain.CoefficientVector, len(domain.AllTraits))
	for _, t := range domain.AllTraits {
		v[t] = 0
	}
	return v
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName baja a minusculas, quita acentos y espacios sobrantes.
// Ej: "  Meditación " -> "meditacion"
func normalizeName(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// DefaultCategoryTable es la tabla hand-authored categoria -> vector.
// Los alias comparten el mismo vector.
func DefaultCategoryTable() map[string]domain.CoefficientVector {
	table := make(map[string]domain.CoefficientVector)
	add := func(vec domain.CoefficientVector, names ...string) {
		for _, n := range names {
			table[n] = vec
		}
	}

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.7,
		domain.TraitNeuroticism:       -0.4,
		domain.TraitExtraversion:      0.3,
	}, "health/exercise", "health", "exercise", "fitness", "sport", "sports", "workout", "salud", "ejercicio")

	add(domain.CoefficientVector{
		domain.TraitNeuroticism:   -0.6,
		domain.TraitOpenness:      0.4,
		domain.TraitAgreeableness: 0.2,
	}, "mindfulness", "meditation", "mental health", "wellbeing", "well-being")

	add(domain.CoefficientVector{
		domain.TraitOpenness:          0.7,
		domain.TraitConscientiousness: 0.4,
	}, "learning", "education", "study", "reading", "personal growth", "aprendizaje")

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.8,
		domain.TraitNeuroticism:       -0.1,
	}, "productivity", "work", "career", "productividad", "trabajo")

	add(domain.CoefficientVector{
		domain.TraitOpenness:     0.8,
		domain.TraitExtraversion: 0.1,
	}, "creativity", "art", "hobbies", "hobby", "music", "creatividad")

	add(domain.CoefficientVector{
		domain.TraitExtraversion:  0.7,
		domain.TraitAgreeableness: 0.6,
	}, "social", "relationships", "friends", "family", "familia")

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.7,
		domain.TraitNeuroticism:       -0.2,
		domain.TraitOpenness:          -0.1,
	}, "finance", "finances", "money", "finanzas")

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.5,
		domain.TraitNeuroticism:       -0.2,
	}, "nutrition", "diet", "food", "nutricion")

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.4,
		domain.TraitNeuroticism:       -0.3,
	}, "sleep", "rest", "sueno")

	add(domain.CoefficientVector{
		domain.TraitNeuroticism:   -0.4,
		domain.TraitAgreeableness: 0.2,
		domain.TraitOpenness:      0.2,
	}, "self-care", "self care", "selfcare", "autocuidado")

	add(domain.CoefficientVector{
		domain.TraitConscientiousness: 0.6,
		domain.TraitAgreeableness:     0.2,
	}, "home", "chores", "household", "hogar")

	add(domain.CoefficientVector{
		domain.TraitAgreeableness: 0.5,
		domain.TraitOpenness:      0.3,
		domain.TraitNeuroticism:   -0.3,
	}, "spirituality", "faith", "espiritualidad")

	add(domain.CoefficientVector{
		domain.TraitAgreeableness: 0.8,
		domain.TraitExtraversion:  0.4,
	}, "community", "volunteering", "charity", "comunidad")

	add(domain.CoefficientVector{
		domain.TraitOpenness:     0.7,
		domain.TraitExtraversion: 0.4,
	}, "travel", "adventure", "outdoors", "viajes")

	return table
}

// DefaultKeywordRules son las reglas ordenadas de refinamiento por nombre de habito.
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{Keyword: "meditat", Trait: domain.TraitNeuroticism, Multiplier: 1.5},
		{Keyword: "journal", Trait: domain.TraitOpenness, Multiplier: 1.3},
		{Keyword: "volunteer", Trait: domain.TraitAgreeableness, Multiplier: 1.5},
		{Keyword: "gratitude", Trait: domain.TraitAgreeableness, Multiplier: 1.3},
		{Keyword: "call", Trait: domain.TraitExtraversion, Multiplier: 1.4, WholeWord: true},
		{Keyword: "friend", Trait: domain.TraitExtraversion, Multiplier: 1.3},
		{Keyword: "read", Trait: domain.TraitOpenness, Multiplier: 1.3},
		{Keyword: "paint", Trait: domain.TraitOpenness, Multiplier: 1.4},
		{Keyword: "draw", Trait: domain.TraitOpenness, Multiplier: 1.4},
		{Keyword: "guitar", Trait: domain.TraitOpenness, Multiplier: 1.3},
		{Keyword: "piano", Trait: domain.TraitOpenness, Multiplier: 1.3},
		{Keyword: "budget", Trait: domain.TraitConscientiousness, Multiplier: 1.3},
		{Keyword: "plan", Trait: domain.TraitConscientiousness, Multiplier: 1.3, WholeWord: true},
		{Keyword: "run", Trait: domain.TraitConscientiousness, Multiplier: 1.2},
		{Keyword: "gym", Trait: domain.TraitConscientiousness, Multiplier: 1.2},
		{Keyword: "clean", Trait: domain.TraitConscientiousness, Multiplier: 1.2},
	}
}
