package personality

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"habit-persona/internal/domain"
)

func TestRunIneligibleReturnsNoProfile(t *testing.T) {
	sc := scenarioA()
	sc.habits = sc.habits[:4]

	res := NewEngine(DefaultOptions()).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	if res.Eligible() || res.Profile != nil || res.Details != nil {
		t.Fatalf("expected no profile for ineligible run, got %+v", res)
	}
	if _, ok := res.Eligibility.Missing(domain.RequirementActiveHabits); !ok {
		t.Fatalf("expected activeHabits missing, got %v", res.Eligibility.MissingRequirements)
	}
}

func TestRunScenarioAProfile(t *testing.T) {
	sc := scenarioA()
	res := NewEngine(DefaultOptions()).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)

	if !res.Eligible() {
		t.Fatalf("expected eligible run, missing=%v", res.Eligibility.MissingRequirements)
	}
	p := res.Profile
	if p.UserID != "user-1" || p.AlgorithmVersion != "1.1" {
		t.Fatalf("unexpected identity fields %+v", p)
	}
	if !p.GeneratedAt.Equal(sc.asOf) {
		t.Fatalf("expected generatedAt = asOf, got %v", p.GeneratedAt)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}

	// 35 puntos base + diversidad 20*(5/10 + 3/5)/2 = 11.
	if p.DataPointCount != 46 || p.ConfidenceLevel != domain.ConfidenceMedium {
		t.Fatalf("expected 46 points at Medium, got %d at %s", p.DataPointCount, p.ConfidenceLevel)
	}
	if !floatEquals(p.ConfidenceScore, 46.0/160.0) {
		t.Fatalf("unexpected confidence score %v", p.ConfidenceScore)
	}

	// run y gym pasan por las reglas "run"/"gym" (C 0.84); read por "read" (O 0.91);
	// meditate por "meditat" (N -0.9).
	wantC := (0.84*1+0.84*0.3+0.4*1)/3 + 0.4*(0.4-0.5) + 0.2*(0.4-0.5)
	wantN := (-0.4*1 - 0.4*0.3 - 0.9*0.3 - 0.6*0.3) / 4
	wantO := (0.91*1 + 0.4*0.3 + 0.4*0.3) / 3
	wantE := (0.3*1 + 0.3*0.3) / 2
	wantA := (0.2*0.3 + 0.2*0.3) / 2
	checks := map[domain.Trait]float64{
		domain.TraitConscientiousness: wantC,
		domain.TraitNeuroticism:       wantN,
		domain.TraitOpenness:          wantO,
		domain.TraitExtraversion:      wantE,
		domain.TraitAgreeableness:     wantA,
	}
	for trait, want := range checks {
		if got := p.Score(trait); !floatEquals(got, want) {
			t.Fatalf("%s: expected %v, got %v", trait, want, got)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	sc := scenarioA()
	engine := NewEngine(DefaultOptions())

	first := engine.Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	second := engine.Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)

	if diff := cmp.Diff(first.Profile, second.Profile); diff != "" {
		t.Fatalf("profiles differ (-first +second):\n%s", diff)
	}
	a, err := json.Marshal(first.Profile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second.Profile)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected byte-identical profiles:\n%s\n%s", a, b)
	}

	other := NewEngine(DefaultOptions()).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	if diff := cmp.Diff(first.Profile, other.Profile); diff != "" {
		t.Fatalf("separate engines disagree (-first +other):\n%s", diff)
	}
}

func TestRunFlagsUnknownCategoryWithoutAborting(t *testing.T) {
	sc := scenarioA()
	sc.categories = append(sc.categories, domain.Category{ID: "cat-knit", Name: "Knitting club"})
	sc.habits = append(sc.habits,
		habit("h-knit", "Knit a row", "cat-knit", domain.DailySchedule(), true),
		habit("h-orphan", "Mystery", "cat-missing", domain.DailySchedule(), true),
	)
	sc.logs = append(sc.logs, completedLogs("h-knit", allDays()...)...)
	sc.logs = append(sc.logs, completedLogs("h-orphan", allDays()...)...)

	res := NewEngine(DefaultOptions()).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	if !res.Eligible() {
		t.Fatalf("expected run to stay eligible, missing=%v", res.Eligibility.MissingRequirements)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", res.Warnings)
	}
	for _, w := range res.Warnings {
		if w.Kind != WarningUnknownCategory {
			t.Fatalf("expected unknown_category warnings, got %v", w)
		}
	}
	// Los habitos sin informacion no cuentan en la normalizacion de ningun rasgo.
	if n := res.Details.Aggregation.ContributingHabits[domain.TraitConscientiousness]; n != 3 {
		t.Fatalf("expected 3 conscientiousness contributors, got %d", n)
	}
	if !floatEquals(res.Details.Confidence.DiversityBonus, 11) {
		t.Fatalf("expected unknown categories excluded from diversity, got %v", res.Details.Confidence.DiversityBonus)
	}
}

func TestRunDegradesInvalidSchedule(t *testing.T) {
	sc := scenarioA()
	sc.habits = append(sc.habits, habit("h-bad", "Broken", "cat-fit", domain.Schedule{Kind: "hourly"}, true))

	res := NewEngine(DefaultOptions()).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	if !res.Eligible() {
		t.Fatalf("expected eligible run")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarningInvalidSchedule || res.Warnings[0].HabitID != "h-bad" {
		t.Fatalf("expected invalid_schedule warning for h-bad, got %v", res.Warnings)
	}
	if len(res.Details.Stats) != 5 {
		t.Fatalf("expected the broken habit excluded from stats, got %d", len(res.Details.Stats))
	}
}

func TestRunRespectsWindowDays(t *testing.T) {
	sc := scenarioA()
	opts := DefaultOptions()
	opts.WindowDays = 3

	res := NewEngine(opts).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	if !res.Eligible() {
		t.Fatalf("expected eligible run, missing=%v", res.Eligibility.MissingRequirements)
	}
	if !res.Details.Window.Start.Equal(day(4)) || !res.Details.Window.End.Equal(day(6)) {
		t.Fatalf("unexpected window %+v", res.Details.Window)
	}
	if res.Details.Summary.TotalExpected != 15 {
		t.Fatalf("expected 15 expected occurrences over 3 days, got %d", res.Details.Summary.TotalExpected)
	}
}

func TestRunScoresWithinRange(t *testing.T) {
	sc := scenarioA()
	res := NewEngine(Options{}).Run("user-1", sc.habits, sc.logs, sc.categories, sc.asOf)
	for _, trait := range domain.AllTraits {
		if v := res.Profile.Score(trait); v < -1 || v > 1 {
			t.Fatalf("%s out of range: %v", trait, v)
		}
	}
}
