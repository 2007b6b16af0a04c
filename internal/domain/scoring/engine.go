package scoring

import (
	"fmt"
	"strings"

	"github.com/openkraft/svcaudit/internal/domain"
)

// ScoreService turns a service snapshot into a report.
//
// The score has two parts:
//   - structure: sum of the weights of present items (weights are rescaled at
//     template load so the maximum equals structure_weight_pct)
//   - quality: quality_base_points minus warning_penalty per warning, kept
//     within [0, quality_weight_pct]
//
// Their sum is clamped to [0, 100] and classified with the template thresholds.
func ScoreService(snap *domain.ServiceSnapshot, tmpl *domain.StructureTemplate) *domain.ServiceReport {
	report := &domain.ServiceReport{
		Service:  snap.Service,
		Path:     snap.Path,
		Checks:   make(map[string]bool, len(tmpl.RequiredFiles)),
		Order:    make([]string, 0, len(tmpl.RequiredFiles)),
		Missing:  []string{},
		Warnings: make(map[string][]string),
		Findings: []domain.Warning{},
	}

	var missing []domain.RequiredFile
	structure := 0.0

	for _, item := range tmpl.RequiredFiles {
		observed, _ := snap.Item(item.Name)
		report.Checks[item.Name] = observed.Present
		report.Order = append(report.Order, item.Name)

		if !observed.Present {
			if item.Required {
				missing = append(missing, item)
				report.Missing = append(report.Missing, item.Name)
			}
			continue
		}
		structure += item.Weight

		profile, ok := tmpl.Profile(item.Name)
		if !ok {
			continue
		}
		for _, w := range EvaluateProfile(item, profile, observed) {
			report.Findings = append(report.Findings, w)
			report.Warnings[profile.Name] = append(report.Warnings[profile.Name], w.Message)
		}
	}

	cfg := tmpl.Scoring
	report.WarningCount = len(report.Findings)
	report.StructureScore = clamp(structure, 0, cfg.StructureWeightPct)
	report.QualityScore = cfg.QualityScore(report.WarningCount)
	report.Score = clamp(report.StructureScore+report.QualityScore, 0, 100)
	report.Status = cfg.Thresholds.Classify(report.Score)
	report.Recommendations = domain.Recommend(missing, report.Findings)

	return report
}

// EvaluateProfile applies every pattern of profile to an observed item and
// returns the warnings in pattern order. An unreadable item yields a single
// synthetic warning instead.
func EvaluateProfile(item domain.RequiredFile, profile domain.FileQualityProfile, observed domain.ItemSnapshot) []domain.Warning {
	if observed.Unreadable {
		return []domain.Warning{{
			File:     item.Name,
			Profile:  profile.Name,
			Pattern:  "readable",
			Category: domain.UnreadableCategory + item.Name,
			Message:  fmt.Sprintf("could not read %s for quality analysis", item.Name),
		}}
	}

	var warnings []domain.Warning
	for _, p := range profile.Patterns {
		if p.Target == domain.TargetFilename {
			for _, child := range observed.Children {
				if p.Violated(child) {
					warnings = append(warnings, newWarning(item, profile, p, child))
				}
			}
			continue
		}
		if p.Violated(observed.Content) {
			warnings = append(warnings, newWarning(item, profile, p, item.Name))
		}
	}
	return warnings
}

func newWarning(item domain.RequiredFile, profile domain.FileQualityProfile, p domain.QualityPattern, subject string) domain.Warning {
	return domain.Warning{
		File:           item.Name,
		Profile:        profile.Name,
		Pattern:        p.Name,
		Category:       item.Name + ":" + p.Name,
		Message:        strings.ReplaceAll(p.Warning, "{file}", subject),
		Polarity:       p.Polarity,
		Target:         p.Target,
		Recommendation: p.Recommendation,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
