package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/openkraft/svcaudit/internal/domain"
)

// templateFile is the on-disk shape of a template. Scoring fields are
// pointers so omitted values can fall back to defaults.
type templateFile struct {
	Name            string                               `yaml:"name"`
	Description     string                               `yaml:"description"`
	RequiredFiles   []domain.RequiredFile                `yaml:"required_files"`
	QualityProfiles map[string]domain.FileQualityProfile `yaml:"quality_profiles"`
	Scoring         *scoringOverrides                    `yaml:"scoring"`
}

type scoringOverrides struct {
	StructureWeightPct *float64            `yaml:"structure_weight_pct"`
	QualityWeightPct   *float64            `yaml:"quality_weight_pct"`
	QualityBasePoints  *float64            `yaml:"quality_base_points"`
	WarningPenalty     *float64            `yaml:"warning_penalty"`
	Thresholds         *thresholdOverrides `yaml:"thresholds"`
}

type thresholdOverrides struct {
	Complete   *float64 `yaml:"complete"`
	Incomplete *float64 `yaml:"incomplete"`
}

func (f templateFile) toDomain() domain.StructureTemplate {
	return domain.StructureTemplate{
		Name:            f.Name,
		Description:     f.Description,
		RequiredFiles:   f.RequiredFiles,
		QualityProfiles: f.QualityProfiles,
		Scoring:         mergeScoring(domain.DefaultScoringConfig(), f.Scoring),
	}
}

// mergeScoring overlays explicit values on top of the defaults.
func mergeScoring(base domain.ScoringConfig, o *scoringOverrides) domain.ScoringConfig {
	if o == nil {
		return base
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.StructureWeightPct, o.StructureWeightPct)
	set(&base.QualityWeightPct, o.QualityWeightPct)
	set(&base.QualityBasePoints, o.QualityBasePoints)
	set(&base.WarningPenalty, o.WarningPenalty)
	if o.Thresholds != nil {
		set(&base.Thresholds.Complete, o.Thresholds.Complete)
		set(&base.Thresholds.Incomplete, o.Thresholds.Incomplete)
	}
	return base
}

// ParseTemplate decodes, validates and prepares a YAML template. Unknown keys
// are rejected so typos surface instead of silently changing the audit.
func ParseTemplate(data []byte) (domain.StructureTemplate, string, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw templateFile
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.StructureTemplate{}, "", fmt.Errorf("template is empty")
		}
		return domain.StructureTemplate{}, "", fmt.Errorf("parsing template: %w", err)
	}

	tmpl, note, err := domain.PrepareTemplate(raw.toDomain())
	if err != nil {
		return domain.StructureTemplate{}, "", fmt.Errorf("invalid template: %w", err)
	}
	return tmpl, note, nil
}

// ReadTemplateFile loads and prepares the template at path.
func ReadTemplateFile(path string) (domain.StructureTemplate, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StructureTemplate{}, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseTemplate(data)
}

// TemplateLoader implements domain.TemplateSource. Parsed templates are cached
// per path until Reload. A broken template file falls back to the builtin
// default unless the loader is strict.
type TemplateLoader struct {
	mu          sync.Mutex
	cache       map[string]domain.LoadResult
	defaultPath string
	strict      bool
	logger      *zap.Logger
}

// Option configures a TemplateLoader.
type Option func(*TemplateLoader)

// WithDefaultPath sets the template used when Load gets an empty path.
func WithDefaultPath(path string) Option {
	return func(l *TemplateLoader) { l.defaultPath = path }
}

// WithStrict makes load failures errors instead of fallbacks.
func WithStrict(strict bool) Option {
	return func(l *TemplateLoader) { l.strict = strict }
}

// WithLogger sets the logger used to report load failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *TemplateLoader) { l.logger = logger }
}

func NewTemplateLoader(opts ...Option) *TemplateLoader {
	l := &TemplateLoader{cache: make(map[string]domain.LoadResult)}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// Load resolves templatePath, the configured default path, or the builtin
// template, in that order.
func (l *TemplateLoader) Load(templatePath string) (domain.LoadResult, error) {
	path := templatePath
	if path == "" {
		path = l.defaultPath
	}
	if path == "" {
		return builtinResult(), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[path]; ok {
		return cached, nil
	}

	tmpl, note, err := ReadTemplateFile(path)
	if err != nil {
		l.logger.Warn("template load failed",
			zap.String("code", string(domain.CodeTemplateLoadFailed)),
			zap.String("template_path", path),
			zap.Bool("strict", l.strict),
			zap.Error(err),
		)
		if l.strict {
			return domain.LoadResult{}, domain.NewAuditError(domain.CodeTemplateLoadFailed, path, err)
		}
		result := builtinResult()
		result.Fallback = true
		result.Warning = fmt.Sprintf("%s: %v; using builtin template", domain.CodeTemplateLoadFailed, err)
		l.cache[path] = result
		return result, nil
	}

	if note != "" {
		l.logger.Info("template weights normalized",
			zap.String("template_path", path),
			zap.String("detail", note),
		)
	}

	result := domain.LoadResult{Template: tmpl, Source: path}
	l.cache[path] = result
	return result, nil
}

// Reload discards every cached template; the next Load re-reads from disk.
func (l *TemplateLoader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]domain.LoadResult)
	l.logger.Debug("template cache cleared")
}

func builtinResult() domain.LoadResult {
	return domain.LoadResult{
		Template: domain.DefaultTemplate(),
		Source:   domain.BuiltinTemplateSource,
	}
}
