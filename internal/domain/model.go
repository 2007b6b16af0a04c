package domain

import "time"

// ItemSnapshot is what a read-only pass over one required item observed.
type ItemSnapshot struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	// Content holds the (possibly truncated) text of a file item.
	Content string `json:"-"`
	// Children holds the candidate child file names of a directory item,
	// sorted lexicographically.
	Children   []string `json:"children,omitempty"`
	Unreadable bool     `json:"unreadable,omitempty"`
	ReadError  string   `json:"read_error,omitempty"`
}

// ServiceSnapshot is the observed state of one service root, with one item
// per required file in template order.
type ServiceSnapshot struct {
	Service string         `json:"service"`
	Path    string         `json:"path"`
	Items   []ItemSnapshot `json:"items"`
}

// Item returns the snapshot of the named required item.
func (s *ServiceSnapshot) Item(name string) (ItemSnapshot, bool) {
	for _, it := range s.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ItemSnapshot{}, false
}

// Warning is one quality finding. Category groups findings that share a
// recommendation.
type Warning struct {
	File           string        `json:"file"`
	Profile        string        `json:"profile"`
	Pattern        string        `json:"pattern"`
	Category       string        `json:"category"`
	Message        string        `json:"message"`
	Polarity       Polarity      `json:"-"`
	Target         PatternTarget `json:"-"`
	Recommendation string        `json:"-"`
}

// ServiceReport is the result of inspecting one service root. Order lists
// the checked item names in template declaration order.
type ServiceReport struct {
	Service         string              `json:"service"`
	Path            string              `json:"path"`
	Checks          map[string]bool     `json:"checks"`
	Order           []string            `json:"-"`
	Missing         []string            `json:"missing"`
	Warnings        map[string][]string `json:"warnings"`
	Findings        []Warning           `json:"findings"`
	WarningCount    int                 `json:"warning_count"`
	StructureScore  float64             `json:"structure_score"`
	QualityScore    float64             `json:"quality_score"`
	Score           float64             `json:"score"`
	Status          Status              `json:"status"`
	Recommendations []string            `json:"recommendations"`
}

// AuditSummary aggregates the successfully inspected services of an audit.
type AuditSummary struct {
	Total          int     `json:"total"`
	Complete       int     `json:"complete"`
	Incomplete     int     `json:"incomplete"`
	Poor           int     `json:"poor"`
	Failed         int     `json:"failed"`
	AverageScore   float64 `json:"average_score"`
	AverageDefined bool    `json:"average_defined"`
	OverallStatus  Status  `json:"overall_status"`
}

// RepositoryAudit is the roll-up of many service reports.
type RepositoryAudit struct {
	ID              string          `json:"id"`
	BasePath        string          `json:"base_path"`
	Template        string          `json:"template"`
	TemplateSource  string          `json:"template_source"`
	TemplateWarning string          `json:"template_warning,omitempty"`
	CommitHash      string          `json:"commit_hash,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	Services        []ServiceReport `json:"services"`
	Errors          []AuditError    `json:"errors"`
	Summary         AuditSummary    `json:"summary"`
}

// Summarize aggregates reports. The average is only defined when at least
// one service was inspected; otherwise it is reported as zero and the
// overall status is poor.
func Summarize(reports []ServiceReport, failed int, th Thresholds) AuditSummary {
	s := AuditSummary{Total: len(reports), Failed: failed}
	total := 0.0
	for _, r := range reports {
		total += r.Score
		switch r.Status {
		case StatusComplete:
			s.Complete++
		case StatusIncomplete:
			s.Incomplete++
		default:
			s.Poor++
		}
	}
	if s.Total == 0 {
		s.OverallStatus = StatusPoor
		return s
	}
	s.AverageScore = total / float64(s.Total)
	s.AverageDefined = true
	s.OverallStatus = th.Classify(s.AverageScore)
	return s
}

// AuditEntry is one point of an audit history.
type AuditEntry struct {
	Timestamp    string  `json:"timestamp"`
	AuditID      string  `json:"audit_id"`
	CommitHash   string  `json:"commit_hash,omitempty"`
	Template     string  `json:"template"`
	Services     int     `json:"services"`
	Complete     int     `json:"complete"`
	Incomplete   int     `json:"incomplete"`
	Poor         int     `json:"poor"`
	Failed       int     `json:"failed"`
	AverageScore float64 `json:"average_score"`
	Status       Status  `json:"status"`
}

// NewAuditEntry condenses an audit into a history entry.
func NewAuditEntry(a *RepositoryAudit) AuditEntry {
	return AuditEntry{
		Timestamp:    a.Timestamp.UTC().Format(time.RFC3339),
		AuditID:      a.ID,
		CommitHash:   a.CommitHash,
		Template:     a.Template,
		Services:     a.Summary.Total,
		Complete:     a.Summary.Complete,
		Incomplete:   a.Summary.Incomplete,
		Poor:         a.Summary.Poor,
		Failed:       a.Summary.Failed,
		AverageScore: a.Summary.AverageScore,
		Status:       a.Summary.OverallStatus,
	}
}
