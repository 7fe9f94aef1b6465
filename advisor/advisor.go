// Package advisor is the optional generative layer on top of the manpower
// engine. It produces a narrative summary and work-pack reviews; the numeric
// report always comes from the manpower package, and suggestions coming back
// from a model are only compared against it.
package advisor

import (
	"aviation-ops/models"
	"context"
	"strings"

	"github.com/samber/lo"
)

// FallbackSummary is returned when the model cannot produce a summary.
const FallbackSummary = "Sorry, a technical problem occurred while analysing the file. Please try again later."

// Suggestion is a model's view of a work package.
type Suggestion struct {
	Summary      string           `json:"summary"`
	ZoneManpower []ZoneSuggestion `json:"zoneManpower"`
}

// ZoneSuggestion is the manpower a model proposes for one zone. Types are
// kept as text because a model may answer with names outside the enum.
type ZoneSuggestion struct {
	Zone     string              `json:"zone"`
	Manpower []SuggestedManpower `json:"manpower"`
}

type SuggestedManpower struct {
	PersonnelType string `json:"personnelType"`
	Count         int    `json:"count"`
}

// Summarizer narrates a calculated work package.
type Summarizer interface {
	Summarize(ctx context.Context, tasks []models.NormalizedTask, report *models.CalibratedReport, fileName string) (Suggestion, error)
}

// Evaluator reviews a work pack.
type Evaluator interface {
	EvaluateWorkPack(ctx context.Context, pack models.WorkPack) (models.Evaluation, error)
}

// FallbackSuggestion is what callers show when summarizing failed.
func FallbackSuggestion() Suggestion {
	return Suggestion{Summary: FallbackSummary, ZoneManpower: []ZoneSuggestion{}}
}

// FallbackEvaluation is what callers show when an evaluation failed.
func FallbackEvaluation() models.Evaluation {
	return models.Evaluation{
		OverallScore:           0,
		Summary:                "An error occurred during AI evaluation. Please try again.",
		PositivePoints:         []string{},
		AreasForImprovement:    []string{},
		SuggestedModifications: []string{},
		SafetyConcerns:         []string{"The AI model failed to process the request."},
	}
}

// Discrepancy is a per-zone count where a suggestion and the computed
// report disagree.
type Discrepancy struct {
	Zone          string               `json:"zone"`
	PersonnelType models.PersonnelType `json:"personnelType"`
	Suggested     int                  `json:"suggested"`
	Computed      int                  `json:"computed"`
}

// Reconcile lists every zone and personnel type where the suggestion differs
// from the report. Zones match by label, ignoring case and surrounding space.
// Report zones come first in report order, then zones only the suggestion
// has. Suggested types outside the enum are ignored.
func Reconcile(report *models.CalibratedReport, suggestion Suggestion) []Discrepancy {
	key := func(zone string) string { return strings.ToUpper(strings.TrimSpace(zone)) }

	suggested := lo.KeyBy(suggestion.ZoneManpower, func(z ZoneSuggestion) string { return key(z.Zone) })

	var out []Discrepancy
	seen := make(map[string]bool)
	for _, z := range report.PerZone {
		label := models.ZoneLabel(z.Zone)
		k := key(label)
		seen[k] = true
		out = append(out, compareZone(label, z.Counts, suggestedCounts(suggested[k]))...)
	}
	for _, z := range suggestion.ZoneManpower {
		k := key(z.Zone)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, compareZone(strings.TrimSpace(z.Zone), models.Counts{}, suggestedCounts(z))...)
	}
	return out
}

func suggestedCounts(z ZoneSuggestion) models.Counts {
	counts := models.Counts{}
	for _, m := range z.Manpower {
		pt, err := models.ParsePersonnelType(m.PersonnelType)
		if err != nil || m.Count < 0 {
			continue
		}
		counts[pt] += m.Count
	}
	return counts
}

func compareZone(label string, computed, suggested models.Counts) []Discrepancy {
	var out []Discrepancy
	for _, pt := range models.AllPersonnelTypes {
		if computed[pt] != suggested[pt] {
			out = append(out, Discrepancy{Zone: label, PersonnelType: pt, Suggested: suggested[pt], Computed: computed[pt]})
		}
	}
	return out
}
