package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/svcaudit/internal/domain"
)

var healthColors = map[domain.HealthStatus]lipgloss.Color{
	domain.HealthHealthy:   success,
	domain.HealthDegraded:  warning,
	domain.HealthUnhealthy: danger,
}

// RenderHealth formats a readiness/liveness report.
func RenderHealth(r domain.HealthReport) string {
	var b strings.Builder

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s\n", titleStyle.Render(r.BaseURL), healthText(r.OverallStatus))
	b.WriteString("  " + separatorLine + "\n")
	renderCheck(&b, r.Readiness)
	renderCheck(&b, r.Liveness)
	b.WriteString("\n")
	return b.String()
}

func renderCheck(b *strings.Builder, c domain.CheckResult) {
	line := fmt.Sprintf("    %s %s %s  %s",
		healthText(c.Status),
		padRight(string(c.Mode), 10),
		dimStyle.Render(fmt.Sprintf("%8.2fms", c.LatencyMS)),
		c.URL,
	)
	if c.Error != "" {
		line += "  " + faintStyle.Render(c.Error)
	}
	b.WriteString(line + "\n")
}

func healthText(s domain.HealthStatus) string {
	c, ok := healthColors[s]
	if !ok {
		c = dim
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(padRight(string(s), 9))
}
