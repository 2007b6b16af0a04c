package application

import (
	"fmt"
	"path/filepath"

	"github.com/openkraft/svcaudit/internal/domain"
	"github.com/openkraft/svcaudit/internal/domain/scoring"
)

// InspectService implements domain.ServiceInspector:
// resolve path → snapshot (read-only) → score → recommendations.
type InspectService struct {
	scanner domain.ServiceScanner
}

func NewInspectService(scanner domain.ServiceScanner) *InspectService {
	return &InspectService{scanner: scanner}
}

// Inspect resolves servicePath against basePath (unless absolute) and scores
// the directory with tmpl. The report's Service field is the slash-separated
// path relative to basePath.
func (s *InspectService) Inspect(basePath, servicePath string, tmpl *domain.StructureTemplate) (*domain.ServiceReport, error) {
	if tmpl == nil {
		return nil, domain.NewAuditError(domain.CodeInvalidArgument, servicePath, fmt.Errorf("template is required"))
	}

	absBase, absService, err := resolveServicePath(basePath, servicePath)
	if err != nil {
		return nil, domain.NewAuditError(domain.CodeInspectionError, servicePath, err)
	}

	snap, err := s.scanner.Snapshot(absService, tmpl)
	if err != nil {
		return nil, err
	}
	snap.Service = relativeName(absBase, absService)
	snap.Path = absService

	return scoring.ScoreService(snap, tmpl), nil
}

// resolveServicePath returns absolute forms of the base and service paths.
func resolveServicePath(basePath, servicePath string) (string, string, error) {
	if basePath == "" {
		basePath = "."
	}
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return "", "", fmt.Errorf("resolving base path: %w", err)
	}
	target := servicePath
	if !filepath.IsAbs(target) {
		target = filepath.Join(absBase, target)
	}
	return absBase, filepath.Clean(target), nil
}

// relativeName is the display name of a service: its slash path relative to
// base, or the absolute path when no relative form exists.
func relativeName(absBase, absService string) string {
	rel, err := filepath.Rel(absBase, absService)
	if err != nil {
		return filepath.ToSlash(absService)
	}
	return filepath.ToSlash(rel)
}
