package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkraft/svcaudit/internal/domain"
)

func TestBarStyle_FollowsStatusNotScore(t *testing.T) {
	// An 85 point service under a 90 point complete threshold is incomplete
	// and its bar must not read as complete.
	assert.Equal(t, warning, barStyle(domain.StatusIncomplete).GetForeground())
	assert.Equal(t, success, barStyle(domain.StatusComplete).GetForeground())
	assert.Equal(t, danger, barStyle(domain.StatusPoor).GetForeground())
}

func TestColoredBar_FillsByScore(t *testing.T) {
	bar := coloredBar(85, domain.StatusIncomplete, 20)
	assert.Contains(t, bar, "█████████████████░░░")
}
