package application

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/domain"
)

// AuditRequest selects what an audit covers. ServicePaths, when non-empty,
// replaces discovery. TemplatePath may be empty for the default template.
type AuditRequest struct {
	BasePath     string
	ServicePaths []string
	TemplatePath string
}

// InspectResult is a single-service report plus the template it was scored with.
type InspectResult struct {
	*domain.ServiceReport
	Template        string `json:"template"`
	TemplateSource  string `json:"template_source"`
	TemplateWarning string `json:"template_warning,omitempty"`
}

// AuditService implements the repository auditor:
// load template → discover or take explicit services → inspect each → summarize.
type AuditService struct {
	templates  domain.TemplateSource
	discoverer domain.ServiceDiscoverer
	inspector  domain.ServiceInspector
	git        domain.GitInfo
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// AuditOption configures an AuditService.
type AuditOption func(*AuditService)

// WithAuditLogger sets the logger for per-service failures.
func WithAuditLogger(logger *zap.Logger) AuditOption {
	return func(s *AuditService) { s.logger = logger }
}

// WithGitInfo enables commit stamping of audits.
func WithGitInfo(git domain.GitInfo) AuditOption {
	return func(s *AuditService) { s.git = git }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) AuditOption {
	return func(s *AuditService) { s.now = now }
}

// WithIDGenerator replaces the uuid generator, for tests.
func WithIDGenerator(newID func() string) AuditOption {
	return func(s *AuditService) { s.newID = newID }
}

func NewAuditService(
	templates domain.TemplateSource,
	discoverer domain.ServiceDiscoverer,
	inspector domain.ServiceInspector,
	opts ...AuditOption,
) *AuditService {
	s := &AuditService{
		templates:  templates,
		discoverer: discoverer,
		inspector:  inspector,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// InspectOne scores a single service directory.
func (s *AuditService) InspectOne(servicePath, basePath, templatePath string) (*InspectResult, error) {
	if strings.TrimSpace(servicePath) == "" {
		return nil, domain.NewAuditError(domain.CodeInvalidArgument, "", fmt.Errorf("service_path is required"))
	}
	loaded, err := s.templates.Load(templatePath)
	if err != nil {
		return nil, err
	}

	report, err := s.inspector.Inspect(basePath, strings.TrimSpace(servicePath), &loaded.Template)
	if err != nil {
		return nil, err
	}
	return &InspectResult{
		ServiceReport:   report,
		Template:        loaded.Template.Name,
		TemplateSource:  loaded.Source,
		TemplateWarning: loaded.Warning,
	}, nil
}

// Audit inspects every selected service under req.BasePath. Per-service
// failures are recorded in the audit and never abort it; only a missing base
// path or a strict template failure does.
func (s *AuditService) Audit(req AuditRequest) (*domain.RepositoryAudit, error) {
	absBase, _, err := resolveServicePath(req.BasePath, ".")
	if err != nil {
		return nil, domain.NewAuditError(domain.CodeInspectionError, req.BasePath, err)
	}
	if err := checkBase(absBase); err != nil {
		return nil, err
	}

	loaded, err := s.templates.Load(req.TemplatePath)
	if err != nil {
		return nil, err
	}
	tmpl := &loaded.Template

	targets, skipped, err := s.selectTargets(absBase, req.ServicePaths, tmpl)
	if err != nil {
		return nil, err
	}

	reports := make([]domain.ServiceReport, 0, len(targets))
	failures := make([]domain.AuditError, 0, len(skipped))
	for _, sk := range skipped {
		s.logger.Warn("discovery skipped subtree",
			zap.String("service", sk.Service),
			zap.String("code", string(sk.Code)),
			zap.String("error", sk.Message),
		)
		failures = append(failures, sk)
	}
	for _, target := range targets {
		report, err := s.inspector.Inspect(absBase, target, tmpl)
		if err != nil {
			failure := toAuditError(target, err)
			s.logger.Warn("service inspection failed",
				zap.String("service", failure.Service),
				zap.String("code", string(failure.Code)),
				zap.Error(err),
			)
			failures = append(failures, failure)
			continue
		}
		reports = append(reports, *report)
	}

	sort.SliceStable(reports, func(i, j int) bool { return reports[i].Service < reports[j].Service })
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Service < failures[j].Service })

	audit := &domain.RepositoryAudit{
		ID:              s.newID(),
		BasePath:        absBase,
		Template:        tmpl.Name,
		TemplateSource:  loaded.Source,
		TemplateWarning: loaded.Warning,
		CommitHash:      s.commitHash(absBase),
		Timestamp:       s.now().UTC(),
		Services:        reports,
		Errors:          failures,
		Summary:         domain.Summarize(reports, len(failures), tmpl.Scoring.Thresholds),
	}
	return audit, nil
}

// selectTargets returns the service paths to inspect, relative to absBase
// where possible, plus the subtrees discovery had to skip. Explicit paths are
// trimmed and de-duplicated by location.
func (s *AuditService) selectTargets(absBase string, explicit []string, tmpl *domain.StructureTemplate) ([]string, []domain.AuditError, error) {
	if len(explicit) == 0 {
		found, err := s.discoverer.Discover(absBase, tmpl)
		if err != nil {
			return nil, nil, fmt.Errorf("discovering services: %w", err)
		}
		return found.Services, found.Skipped, nil
	}

	seen := make(map[string]bool, len(explicit))
	var targets []string
	for _, p := range explicit {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		_, abs, err := resolveServicePath(absBase, p)
		if err != nil {
			return nil, nil, err
		}
		name := relativeName(absBase, abs)
		if seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return targets, nil, nil
}

func (s *AuditService) commitHash(absBase string) string {
	if s.git == nil {
		return ""
	}
	hash, err := s.git.CommitHash(absBase)
	if err != nil {
		s.logger.Debug("no commit hash", zap.String("base_path", absBase), zap.Error(err))
		return ""
	}
	return hash
}

func checkBase(absBase string) error {
	info, err := os.Stat(absBase)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewAuditError(domain.CodeServicePathNotFound, absBase, err)
		}
		return domain.NewAuditError(domain.CodeInspectionError, absBase, err)
	}
	if !info.IsDir() {
		return domain.NewAuditError(domain.CodeInspectionError, absBase,
			fmt.Errorf("%s is not a directory", absBase))
	}
	return nil
}

// toAuditError re-labels err with the relative service name.
func toAuditError(service string, err error) domain.AuditError {
	var ae *domain.AuditError
	if errors.As(err, &ae) {
		out := *ae
		out.Service = service
		return out
	}
	return *domain.NewAuditError(domain.CodeOf(err), service, err)
}
