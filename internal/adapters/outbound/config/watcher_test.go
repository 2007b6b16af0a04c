package config_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/config"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload() { r.calls.Add(1) }

func TestTemplateWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeTemplate(t, minimalTemplate)
	reloader := &countingReloader{}
	watcher := config.NewTemplateWatcher(reloader, nil, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(ctx, path) }()

	// Keep touching the file until the watcher is registered and reacts.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(minimalTemplate+"\n"), 0o644)
		return reloader.calls.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestTemplateWatcher_MissingDirectory(t *testing.T) {
	watcher := config.NewTemplateWatcher(&countingReloader{}, nil, 0)
	err := watcher.Watch(context.Background(), "/nonexistent/dir/template.yaml")
	require.Error(t, err)
}
