package application_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/config"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/discovery"
	"github.com/openkraft/svcaudit/internal/application"
	"github.com/openkraft/svcaudit/internal/domain"
)

func newAuditService(opts ...application.AuditOption) *application.AuditService {
	return application.NewAuditService(
		config.NewTemplateLoader(),
		discovery.New(),
		newInspector(),
		opts...,
	)
}

func TestAuditService_DiscoversAndSorts(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "services", "payments"), completeService())
	writeTree(t, filepath.Join(base, "services", "billing"), scenarioService())
	writeTree(t, filepath.Join(base, "docs"), map[string]string{"README.md": "docs"})

	audit, err := newAuditService().Audit(application.AuditRequest{BasePath: base})
	require.NoError(t, err)

	require.Len(t, audit.Services, 2)
	assert.Equal(t, "services/billing", audit.Services[0].Service)
	assert.Equal(t, "services/payments", audit.Services[1].Service)
	assert.Empty(t, audit.Errors)
	assert.NotEmpty(t, audit.ID)
	assert.Equal(t, domain.DefaultTemplate().Name, audit.Template)
	assert.Equal(t, domain.BuiltinTemplateSource, audit.TemplateSource)

	s := audit.Summary
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.Complete)
	assert.True(t, s.AverageDefined)
	assert.InDelta(t, 96.0, s.AverageScore, 1e-9)
	assert.Equal(t, domain.StatusComplete, s.OverallStatus)
}

func TestAuditService_EmptyBase(t *testing.T) {
	audit, err := newAuditService().Audit(application.AuditRequest{BasePath: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, audit.Services)
	assert.Equal(t, 0, audit.Summary.Total)
	assert.False(t, audit.Summary.AverageDefined)
	assert.Zero(t, audit.Summary.AverageScore)
	assert.Equal(t, domain.StatusPoor, audit.Summary.OverallStatus)
}

func TestAuditService_ExplicitPathsWithMissing(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "a"), completeService())
	writeTree(t, filepath.Join(base, "b"), scenarioService())

	audit, err := newAuditService().Audit(application.AuditRequest{
		BasePath:     base,
		ServicePaths: []string{"a", "missing", "b"},
	})
	require.NoError(t, err)

	require.Len(t, audit.Services, 2)
	assert.Equal(t, "a", audit.Services[0].Service)
	assert.Equal(t, "b", audit.Services[1].Service)

	require.Len(t, audit.Errors, 1)
	assert.Equal(t, "missing", audit.Errors[0].Service)
	assert.Equal(t, domain.CodeServicePathNotFound, audit.Errors[0].Code)

	assert.Equal(t, 2, audit.Summary.Total)
	assert.Equal(t, 1, audit.Summary.Failed)
	assert.InDelta(t, (100.0+92.0)/2, audit.Summary.AverageScore, 1e-9)
}

func TestAuditService_ExplicitPathsAreDeduplicated(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "a"), completeService())

	audit, err := newAuditService().Audit(application.AuditRequest{
		BasePath:     base,
		ServicePaths: []string{"a", " a ", "./a", filepath.Join(base, "a"), ""},
	})
	require.NoError(t, err)
	assert.Len(t, audit.Services, 1)
}

func TestAuditService_ExplicitSelectionSkipsDiscovery(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "a"), completeService())
	writeTree(t, filepath.Join(base, "b"), completeService())

	audit, err := newAuditService().Audit(application.AuditRequest{
		BasePath:     base,
		ServicePaths: []string{"b"},
	})
	require.NoError(t, err)
	require.Len(t, audit.Services, 1)
	assert.Equal(t, "b", audit.Services[0].Service)
}

func TestAuditService_MissingBase(t *testing.T) {
	_, err := newAuditService().Audit(application.AuditRequest{
		BasePath: filepath.Join(t.TempDir(), "nope"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServicePathNotFound)
}

func TestAuditService_MalformedTemplateFallsBack(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "a"), completeService())
	tmplPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmplPath, []byte("required_files: {"), 0o644))

	audit, err := newAuditService().Audit(application.AuditRequest{BasePath: base, TemplatePath: tmplPath})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTemplate().Name, audit.Template)
	assert.Contains(t, audit.TemplateWarning, string(domain.CodeTemplateLoadFailed))
	assert.Len(t, audit.Services, 1)
}

func TestAuditService_StrictTemplateFails(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmplPath, []byte("required_files: {"), 0o644))

	svc := application.NewAuditService(
		config.NewTemplateLoader(config.WithStrict(true)),
		discovery.New(),
		newInspector(),
	)
	_, err := svc.Audit(application.AuditRequest{BasePath: t.TempDir(), TemplatePath: tmplPath})
	require.Error(t, err)
	assert.Equal(t, domain.CodeTemplateLoadFailed, domain.CodeOf(err))
}

func TestAuditService_InspectionErrorIsRecordedAndLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()

	discoverer := NewMockServiceDiscoverer(ctrl)
	discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(domain.Discovery{Services: []string{"ok", "broken"}}, nil)

	inspector := NewMockServiceInspector(ctrl)
	inspector.EXPECT().Inspect(gomock.Any(), "ok", gomock.Any()).
		Return(&domain.ServiceReport{Service: "ok", Score: 70, Status: domain.StatusIncomplete}, nil)
	inspector.EXPECT().Inspect(gomock.Any(), "broken", gomock.Any()).
		Return(nil, errors.New("disk on fire"))

	core, logs := observer.New(zapcore.WarnLevel)
	svc := application.NewAuditService(config.NewTemplateLoader(), discoverer, inspector,
		application.WithAuditLogger(zap.New(core)))

	audit, err := svc.Audit(application.AuditRequest{BasePath: base})
	require.NoError(t, err)

	require.Len(t, audit.Errors, 1)
	assert.Equal(t, "broken", audit.Errors[0].Service)
	assert.Equal(t, domain.CodeInspectionError, audit.Errors[0].Code)
	assert.Equal(t, "disk on fire", audit.Errors[0].Message)
	assert.Equal(t, domain.StatusIncomplete, audit.Summary.OverallStatus)

	entries := logs.FilterMessage("service inspection failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken", entries[0].ContextMap()["service"])
	assert.Equal(t, string(domain.CodeInspectionError), entries[0].ContextMap()["code"])
}

func TestAuditService_DiscoveryErrorAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	discoverer := NewMockServiceDiscoverer(ctrl)
	discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(domain.Discovery{}, errors.New("walk failed"))

	svc := application.NewAuditService(config.NewTemplateLoader(), discoverer, NewMockServiceInspector(ctrl))
	_, err := svc.Audit(application.AuditRequest{BasePath: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovering services")
}

func TestAuditService_SkippedSubtreesAreRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()

	discoverer := NewMockServiceDiscoverer(ctrl)
	discoverer.EXPECT().Discover(gomock.Any(), gomock.Any()).Return(domain.Discovery{
		Services: []string{"ok"},
		Skipped: []domain.AuditError{
			*domain.NewAuditError(domain.CodeInspectionError, "locked", errors.New("permission denied")),
		},
	}, nil)

	inspector := NewMockServiceInspector(ctrl)
	inspector.EXPECT().Inspect(gomock.Any(), "ok", gomock.Any()).
		Return(&domain.ServiceReport{Service: "ok", Score: 100, Status: domain.StatusComplete}, nil)

	core, logs := observer.New(zapcore.WarnLevel)
	svc := application.NewAuditService(config.NewTemplateLoader(), discoverer, inspector,
		application.WithAuditLogger(zap.New(core)))

	audit, err := svc.Audit(application.AuditRequest{BasePath: base})
	require.NoError(t, err)

	require.Len(t, audit.Services, 1)
	require.Len(t, audit.Errors, 1)
	assert.Equal(t, "locked", audit.Errors[0].Service)
	assert.Equal(t, domain.CodeInspectionError, audit.Errors[0].Code)
	assert.Equal(t, 1, audit.Summary.Failed)

	entries := logs.FilterMessage("discovery skipped subtree").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "locked", entries[0].ContextMap()["service"])
}

func TestAuditService_StampsCommitClockAndID(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := t.TempDir()

	git := NewMockGitInfo(ctrl)
	git.EXPECT().CommitHash(base).Return("abc1234", nil)

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	svc := newAuditService(
		application.WithGitInfo(git),
		application.WithClock(func() time.Time { return fixed }),
		application.WithIDGenerator(func() string { return "audit-1" }),
	)

	audit, err := svc.Audit(application.AuditRequest{BasePath: base})
	require.NoError(t, err)
	assert.Equal(t, "abc1234", audit.CommitHash)
	assert.Equal(t, "audit-1", audit.ID)
	assert.Equal(t, fixed.UTC(), audit.Timestamp)
	assert.Equal(t, time.UTC, audit.Timestamp.Location())
}

func TestAuditService_CommitHashIsBestEffort(t *testing.T) {
	ctrl := gomock.NewController(t)
	git := NewMockGitInfo(ctrl)
	git.EXPECT().CommitHash(gomock.Any()).Return("", errors.New("not a git repository"))

	audit, err := newAuditService(application.WithGitInfo(git)).Audit(application.AuditRequest{BasePath: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, audit.CommitHash)
}

func TestAuditService_InspectOne(t *testing.T) {
	base := t.TempDir()
	writeTree(t, filepath.Join(base, "svc"), scenarioService())

	result, err := newAuditService().InspectOne("svc", base, "")
	require.NoError(t, err)
	assert.Equal(t, "svc", result.Service)
	assert.Equal(t, 4, result.WarningCount)
	assert.Equal(t, domain.BuiltinTemplateSource, result.TemplateSource)
	assert.Empty(t, result.TemplateWarning)
}

func TestAuditService_InspectOneRequiresPath(t *testing.T) {
	_, err := newAuditService().InspectOne("  ", t.TempDir(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
