package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ItemKind distinguishes required files from required directories.
type ItemKind string

const (
	KindFile      ItemKind = "file"
	KindDirectory ItemKind = "directory"
)

// Polarity says whether a quality pattern describes a good practice that must
// be present or an anti-pattern that must be absent.
type Polarity string

const (
	MustMatch    Polarity = "must_match"
	MustNotMatch Polarity = "must_not_match"
)

// PatternTarget selects what a quality pattern is tested against.
type PatternTarget string

const (
	TargetContent  PatternTarget = "content"
	TargetFilename PatternTarget = "filename"
)

// weightTolerance is how far the structural weights may drift from the
// structure share before they are rescaled.
const weightTolerance = 0.01

// RequiredFile is one structural requirement of a service root.
type RequiredFile struct {
	Name        string   `yaml:"name"         json:"name"`
	Description string   `yaml:"description"  json:"description,omitempty"`
	Required    bool     `yaml:"required"     json:"required"`
	Weight      float64  `yaml:"weight"       json:"weight"`
	Kind        ItemKind `yaml:"kind"         json:"kind"`
	Marker      bool     `yaml:"marker"       json:"marker,omitempty"`
	MustContain []string `yaml:"must_contain" json:"must_contain,omitempty"`
}

// IsDirectory reports whether the item must be a directory.
func (f RequiredFile) IsDirectory() bool { return f.Kind == KindDirectory }

// QualityPattern is one content-level check applied to a required item.
// Exactly one of Regex or Literal is set; Literal matches as a plain substring.
type QualityPattern struct {
	Name           string        `yaml:"name"           json:"name"`
	Regex          string        `yaml:"regex"          json:"regex,omitempty"`
	Literal        string        `yaml:"literal"        json:"literal,omitempty"`
	Polarity       Polarity      `yaml:"polarity"       json:"polarity"`
	Target         PatternTarget `yaml:"target"         json:"target"`
	Weight         float64       `yaml:"weight"         json:"weight,omitempty"`
	Warning        string        `yaml:"warning"        json:"warning"`
	Recommendation string        `yaml:"recommendation" json:"recommendation,omitempty"`

	compiled *regexp.Regexp
}

// Matches reports whether s satisfies the pattern's expression.
func (p QualityPattern) Matches(s string) bool {
	re := p.compiled
	if re == nil {
		var err error
		if re, err = p.compile(); err != nil {
			return false
		}
	}
	return re.MatchString(s)
}

// Violated reports whether s breaks the pattern's expected polarity.
func (p QualityPattern) Violated(s string) bool {
	matched := p.Matches(s)
	if p.Polarity == MustNotMatch {
		return matched
	}
	return !matched
}

func (p QualityPattern) compile() (*regexp.Regexp, error) {
	if p.Literal != "" {
		return regexp.Compile(regexp.QuoteMeta(p.Literal))
	}
	return regexp.Compile(p.Regex)
}

// FileQualityProfile bundles the patterns that apply to one required item.
type FileQualityProfile struct {
	Name     string           `yaml:"name"     json:"name"`
	Patterns []QualityPattern `yaml:"patterns" json:"patterns"`
}

// StructureTemplate is the complete audit configuration. Templates are
// treated as immutable once PrepareTemplate has returned them.
type StructureTemplate struct {
	Name            string                        `yaml:"name"             json:"name"`
	Description     string                        `yaml:"description"      json:"description,omitempty"`
	RequiredFiles   []RequiredFile                `yaml:"required_files"   json:"required_files"`
	QualityProfiles map[string]FileQualityProfile `yaml:"quality_profiles" json:"quality_profiles,omitempty"`
	Scoring         ScoringConfig                 `yaml:"scoring"          json:"scoring"`
}

// Profile returns the quality profile attached to the named required item.
func (t *StructureTemplate) Profile(name string) (FileQualityProfile, bool) {
	p, ok := t.QualityProfiles[name]
	return p, ok
}

// Markers returns the items whose presence identifies a service root. When
// no item is flagged as a marker, every required item counts.
func (t *StructureTemplate) Markers() []RequiredFile {
	var markers []RequiredFile
	for _, f := range t.RequiredFiles {
		if f.Marker {
			markers = append(markers, f)
		}
	}
	if len(markers) > 0 {
		return markers
	}
	for _, f := range t.RequiredFiles {
		if f.Required {
			markers = append(markers, f)
		}
	}
	return markers
}

// TotalWeight sums the structural weights of all required items.
func (t *StructureTemplate) TotalWeight() float64 {
	total := 0.0
	for _, f := range t.RequiredFiles {
		total += f.Weight
	}
	return total
}

// Validate checks the template for invalid values and returns a descriptive error.
func (t *StructureTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	if len(t.RequiredFiles) == 0 {
		return fmt.Errorf("required_files must not be empty")
	}

	seen := make(map[string]RequiredFile, len(t.RequiredFiles))
	for i, f := range t.RequiredFiles {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("required_files[%d].name must not be empty", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("required_files[%d]: duplicate name %q", i, f.Name)
		}
		if f.Weight < 0 || !isFinite(f.Weight) {
			return fmt.Errorf("required_files[%d].weight must be a finite number >= 0 (got %v)", i, f.Weight)
		}
		if f.Kind != KindFile && f.Kind != KindDirectory {
			return fmt.Errorf("required_files[%d].kind %q is not file or directory", i, f.Kind)
		}
		if len(f.MustContain) > 0 && f.Kind != KindDirectory {
			return fmt.Errorf("required_files[%d]: must_contain only applies to directories", i)
		}
		seen[f.Name] = f
	}
	if t.TotalWeight() <= 0 {
		return fmt.Errorf("required_files weights must sum to a positive value")
	}

	for key, profile := range t.QualityProfiles {
		item, ok := seen[key]
		if !ok {
			return fmt.Errorf("quality_profiles[%q] does not name a required file", key)
		}
		for i, p := range profile.Patterns {
			if err := validatePattern(item, p); err != nil {
				return fmt.Errorf("quality_profiles[%q].patterns[%d]: %w", key, i, err)
			}
		}
	}

	return t.Scoring.Validate()
}

func validatePattern(item RequiredFile, p QualityPattern) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if (p.Regex == "") == (p.Literal == "") {
		return fmt.Errorf("pattern %q must set exactly one of regex or literal", p.Name)
	}
	if _, err := p.compile(); err != nil {
		return fmt.Errorf("pattern %q: %w", p.Name, err)
	}
	if p.Weight < 0 || !isFinite(p.Weight) {
		return fmt.Errorf("pattern %q: weight must be a finite number >= 0 (got %v)", p.Name, p.Weight)
	}
	if p.Polarity != MustMatch && p.Polarity != MustNotMatch {
		return fmt.Errorf("pattern %q: unknown polarity %q", p.Name, p.Polarity)
	}
	switch p.Target {
	case TargetContent:
		if item.IsDirectory() {
			return fmt.Errorf("pattern %q: content target on directory %q", p.Name, item.Name)
		}
	case TargetFilename:
		if !item.IsDirectory() {
			return fmt.Errorf("pattern %q: filename target on file %q", p.Name, item.Name)
		}
	default:
		return fmt.Errorf("pattern %q: unknown target %q", p.Name, p.Target)
	}
	return nil
}

// PrepareTemplate fills defaulted fields, validates the result, compiles every
// pattern and rescales structural weights so they sum to the structure share.
// The returned template shares no slices or maps with t. The note is non-empty
// when weights were rescaled.
func PrepareTemplate(t StructureTemplate) (StructureTemplate, string, error) {
	out := cloneTemplate(t)
	applyDefaults(&out)

	if err := out.Validate(); err != nil {
		return StructureTemplate{}, "", err
	}

	for key, profile := range out.QualityProfiles {
		for i := range profile.Patterns {
			re, err := profile.Patterns[i].compile()
			if err != nil {
				return StructureTemplate{}, "", err
			}
			profile.Patterns[i].compiled = re
		}
		out.QualityProfiles[key] = profile
	}

	var note string
	total := out.TotalWeight()
	share := out.Scoring.StructureWeightPct
	if math.Abs(total-share) > weightTolerance {
		factor := share / total
		for i := range out.RequiredFiles {
			out.RequiredFiles[i].Weight *= factor
		}
		note = fmt.Sprintf("required_files weights sum to %.2f, rescaled to %.2f", total, share)
	}

	return out, note, nil
}

func applyDefaults(t *StructureTemplate) {
	for i := range t.RequiredFiles {
		if t.RequiredFiles[i].Kind == "" {
			t.RequiredFiles[i].Kind = KindFile
		}
		t.RequiredFiles[i].Name = strings.TrimSuffix(t.RequiredFiles[i].Name, "/")
	}
	for key, profile := range t.QualityProfiles {
		if profile.Name == "" {
			profile.Name = key
		}
		for i := range profile.Patterns {
			p := &profile.Patterns[i]
			if p.Polarity == "" {
				p.Polarity = MustMatch
			}
			if p.Target == "" {
				p.Target = TargetContent
			}
			if p.Warning == "" {
				p.Warning = defaultWarning(key, *p)
			}
		}
		t.QualityProfiles[key] = profile
	}
}

func defaultWarning(item string, p QualityPattern) string {
	if p.Polarity == MustNotMatch {
		return fmt.Sprintf("%s: %s found", item, p.Name)
	}
	return fmt.Sprintf("%s: %s missing", item, p.Name)
}

func cloneTemplate(t StructureTemplate) StructureTemplate {
	out := t
	out.RequiredFiles = make([]RequiredFile, len(t.RequiredFiles))
	for i, f := range t.RequiredFiles {
		f.MustContain = append([]string(nil), f.MustContain...)
		out.RequiredFiles[i] = f
	}
	out.QualityProfiles = make(map[string]FileQualityProfile, len(t.QualityProfiles))
	for key, profile := range t.QualityProfiles {
		// Keys are normalized like item names so "tests/" and "tests" agree.
		profile.Patterns = append([]QualityPattern(nil), profile.Patterns...)
		out.QualityProfiles[strings.TrimSuffix(key, "/")] = profile
	}
	return out
}
