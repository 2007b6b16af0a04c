package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/config"
)

func TestSettingsLoader_Defaults(t *testing.T) {
	s, used, err := config.NewSettingsLoader(t.TempDir()).Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
	assert.Equal(t, 5*time.Second, s.Health.Timeout)
	assert.Equal(t, 300*time.Millisecond, s.Health.MaxLatency)
	assert.False(t, s.StrictTemplates)
}

func TestSettingsLoader_ReadsFileFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	content := `
template: templates/python.yaml
strict_templates: true
log:
  level: debug
health:
  max_latency: 150ms
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".svcaudit.yaml"), []byte(content), 0o644))

	s, used, err := config.NewSettingsLoader(dir).Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".svcaudit.yaml"), used)
	assert.Equal(t, "templates/python.yaml", s.Template)
	assert.True(t, s.StrictTemplates)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, 150*time.Millisecond, s.Health.MaxLatency)
	assert.Equal(t, 5*time.Second, s.Health.Timeout)
}

func TestSettingsLoader_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SVCAUDIT_LOG_LEVEL", "error")
	t.Setenv("SVCAUDIT_HEALTH_TIMEOUT", "2s")

	s, _, err := config.NewSettingsLoader(t.TempDir()).Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", s.Log.Level)
	assert.Equal(t, 2*time.Second, s.Health.Timeout)
}

func TestSettingsLoader_ExplicitMissingFile(t *testing.T) {
	_, _, err := config.NewSettingsLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading settings")
}
