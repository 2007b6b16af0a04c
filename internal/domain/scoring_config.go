package domain

import (
	"fmt"
	"math"
)

// Status is the discrete classification of a score.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
	StatusPoor       Status = "poor"
)

// Default scoring values.
const (
	DefaultStructureWeightPct  = 60.0
	DefaultQualityWeightPct    = 40.0
	DefaultQualityBasePoints   = 40.0
	DefaultWarningPenalty      = 2.0
	DefaultCompleteThreshold   = 80.0
	DefaultIncompleteThreshold = 50.0
)

// Thresholds are the lower bounds of the complete and incomplete buckets.
// Anything below Incomplete is poor.
type Thresholds struct {
	Complete   float64 `yaml:"complete"   json:"complete"`
	Incomplete float64 `yaml:"incomplete" json:"incomplete"`
}

// Classify maps a score to a status. A score exactly on a bound belongs to
// the higher bucket.
func (t Thresholds) Classify(score float64) Status {
	switch {
	case score >= t.Complete:
		return StatusComplete
	case score >= t.Incomplete:
		return StatusIncomplete
	default:
		return StatusPoor
	}
}

// ScoringConfig controls how presence and warnings turn into a 0-100 score.
type ScoringConfig struct {
	StructureWeightPct float64    `yaml:"structure_weight_pct" json:"structure_weight_pct"`
	QualityWeightPct   float64    `yaml:"quality_weight_pct"   json:"quality_weight_pct"`
	QualityBasePoints  float64    `yaml:"quality_base_points"  json:"quality_base_points"`
	WarningPenalty     float64    `yaml:"warning_penalty"      json:"warning_penalty"`
	Thresholds         Thresholds `yaml:"thresholds"           json:"thresholds"`
}

// DefaultScoringConfig returns the 60/40 split with the standard thresholds.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		StructureWeightPct: DefaultStructureWeightPct,
		QualityWeightPct:   DefaultQualityWeightPct,
		QualityBasePoints:  DefaultQualityBasePoints,
		WarningPenalty:     DefaultWarningPenalty,
		Thresholds: Thresholds{
			Complete:   DefaultCompleteThreshold,
			Incomplete: DefaultIncompleteThreshold,
		},
	}
}

// Validate checks the scoring config for invalid values.
func (c ScoringConfig) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"structure_weight_pct", c.StructureWeightPct},
		{"quality_weight_pct", c.QualityWeightPct},
		{"quality_base_points", c.QualityBasePoints},
		{"warning_penalty", c.WarningPenalty},
		{"thresholds.complete", c.Thresholds.Complete},
		{"thresholds.incomplete", c.Thresholds.Incomplete},
	}
	for _, f := range fields {
		if !isFinite(f.value) {
			return fmt.Errorf("%s must be a finite number (got %v)", f.name, f.value)
		}
	}
	if c.StructureWeightPct < 0 || c.QualityWeightPct < 0 {
		return fmt.Errorf("scoring weights must be >= 0 (structure %.2f, quality %.2f)",
			c.StructureWeightPct, c.QualityWeightPct)
	}
	if sum := c.StructureWeightPct + c.QualityWeightPct; math.Abs(sum-100) > weightTolerance {
		return fmt.Errorf("structure_weight_pct + quality_weight_pct = %.2f (must be 100)", sum)
	}
	if c.QualityBasePoints < 0 {
		return fmt.Errorf("quality_base_points must be >= 0 (got %.2f)", c.QualityBasePoints)
	}
	if c.WarningPenalty < 0 {
		return fmt.Errorf("warning_penalty must be >= 0 (got %.2f)", c.WarningPenalty)
	}
	th := c.Thresholds
	if th.Incomplete < 0 || th.Complete > 100 || th.Incomplete > th.Complete {
		return fmt.Errorf("thresholds must satisfy 0 <= incomplete <= complete <= 100 (got incomplete %.2f, complete %.2f)",
			th.Incomplete, th.Complete)
	}
	return nil
}

// QualityScore applies the warning penalty to the base points. The result
// never drops below zero nor exceeds the quality share.
func (c ScoringConfig) QualityScore(warnings int) float64 {
	q := c.QualityBasePoints - c.WarningPenalty*float64(warnings)
	return clamp(q, 0, c.QualityWeightPct)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
