package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/history"
	"github.com/openkraft/svcaudit/internal/domain"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	h := history.New(t.TempDir())
	base := t.TempDir()

	entry := domain.AuditEntry{
		Timestamp:    "2026-02-25T10:00:00Z",
		CommitHash:   "abc1234",
		Services:     3,
		AverageScore: 71.5,
		Status:       domain.StatusIncomplete,
	}
	require.NoError(t, h.Save(base, entry))

	entries, err := h.Load(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 71.5, entries[0].AverageScore)
	assert.Equal(t, "abc1234", entries[0].CommitHash)
}

func TestHistory_AppendMultiple(t *testing.T) {
	h := history.New(t.TempDir())
	base := t.TempDir()

	require.NoError(t, h.Save(base, domain.AuditEntry{Timestamp: "t1", AverageScore: 47}))
	require.NoError(t, h.Save(base, domain.AuditEntry{Timestamp: "t2", AverageScore: 62}))
	require.NoError(t, h.Save(base, domain.AuditEntry{Timestamp: "t3", AverageScore: 85}))

	entries, err := h.Load(base)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 47.0, entries[0].AverageScore)
	assert.Equal(t, 85.0, entries[2].AverageScore)
}

func TestHistory_LoadEmpty(t *testing.T) {
	entries, err := history.New(t.TempDir()).Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_SeparatesBasePaths(t *testing.T) {
	h := history.New(t.TempDir())
	a, b := t.TempDir(), t.TempDir()

	require.NoError(t, h.Save(a, domain.AuditEntry{Timestamp: "t1"}))

	entries, err := h.Load(b)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_NeverWritesIntoAuditedTree(t *testing.T) {
	store := t.TempDir()
	base := t.TempDir()
	h := history.New(store)

	require.NoError(t, h.Save(base, domain.AuditEntry{Timestamp: "t1"}))

	inBase, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, inBase)

	inStore, err := filepath.Glob(filepath.Join(store, "*.json"))
	require.NoError(t, err)
	assert.Len(t, inStore, 1)
}

func TestHistory_CorruptFile(t *testing.T) {
	store := t.TempDir()
	base := t.TempDir()
	h := history.New(store)
	require.NoError(t, h.Save(base, domain.AuditEntry{Timestamp: "t1"}))

	files, err := filepath.Glob(filepath.Join(store, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, os.WriteFile(files[0], []byte("{not json"), 0o644))

	_, err = h.Load(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing history")
}
