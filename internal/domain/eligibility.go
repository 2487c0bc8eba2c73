package domain

import (
	"fmt"
	"strconv"
)

// Nombres de requisitos, en el orden en que se reportan.
const (
	RequirementActiveHabits      = "activeHabits"
	RequirementLoggingDays       = "loggingDays"
	RequirementCustomCategories  = "customCategories"
	RequirementCustomHabits      = "customHabits"
	RequirementCategoryDiversity = "categoryDiversity"
	RequirementCompletionRate    = "completionRate"
)

// MissingRequirement describe un requisito no cumplido con sus valores actual y requerido.
type MissingRequirement struct {
	Requirement string  `json:"requirement"`
	Current     float64 `json:"current"`
	Required    float64 `json:"required"`
}

// String produce el formato "activeHabits: 4/5" que usa la UI de progreso.
func (m MissingRequirement) String() string {
	return fmt.Sprintf("%s: %s/%s", m.Requirement, formatRequirementValue(m.Current), formatRequirementValue(m.Required))
}

func formatRequirementValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AnalysisEligibility es el resultado del gate de datos suficientes.
type AnalysisEligibility struct {
	IsEligible          bool                 `json:"is_eligible"`
	MissingRequirements []MissingRequirement `json:"missing_requirements"`
	Progress            float64              `json:"progress"`
}

// Missing busca un requisito faltante por nombre.
func (e AnalysisEligibility) Missing(requirement string) (MissingRequirement, bool) {
	for _, m := range e.MissingRequirements {
		if m.Requirement == requirement {
			return m, true
		}
	}
	return MissingRequirement{}, false
}
