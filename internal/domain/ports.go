package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../application/ports_mock_test.go -package=application_test github.com/openkraft/svcaudit/internal/domain GitInfo,ServiceDiscoverer,ServiceInspector

// TemplateSource resolves structure templates. Implementations must never fail
// a caller because a template file is broken unless asked to be strict.
type TemplateSource interface {
	Load(templatePath string) (LoadResult, error)
	Reload()
}

// LoadResult is a resolved template plus where it came from.
type LoadResult struct {
	Template StructureTemplate `json:"template"`
	Source   string            `json:"source"`
	Fallback bool              `json:"fallback"`
	Warning  string            `json:"warning,omitempty"`
}

// ServiceScanner reads a service root without modifying it.
type ServiceScanner interface {
	Snapshot(servicePath string, tmpl *StructureTemplate) (*ServiceSnapshot, error)
}

// ServiceInspector produces a report for one service root. servicePath is
// resolved against basePath unless it is absolute.
type ServiceInspector interface {
	Inspect(basePath, servicePath string, tmpl *StructureTemplate) (*ServiceReport, error)
}

// Discovery is the outcome of a discovery walk. Services are paths relative
// to the base, sorted. Skipped lists subtrees that could not be read; they do
// not abort the walk.
type Discovery struct {
	Services []string
	Skipped  []AuditError
}

// ServiceDiscoverer finds service roots under a base path.
type ServiceDiscoverer interface {
	Discover(basePath string, tmpl *StructureTemplate) (Discovery, error)
}

// GitInfo provides version-control metadata.
type GitInfo interface {
	CommitHash(path string) (string, error)
}

// AuditHistory persists condensed audit results per base path.
type AuditHistory interface {
	Save(basePath string, entry AuditEntry) error
	Load(basePath string) ([]AuditEntry, error)
}

// HealthProber probes one HTTP endpoint of a running service.
type HealthProber interface {
	Check(ctx context.Context, baseURL, path string, mode ProbeMode, maxLatency time.Duration) CheckResult
}
