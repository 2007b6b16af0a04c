package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/svcaudit/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusComplete:   success,
		domain.StatusIncomplete: warning,
		domain.StatusPoor:       danger,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderServiceReport formats one inspected service.
func RenderServiceReport(r *domain.ServiceReport) string {
	var b strings.Builder

	title := headerStyle.Render("svcaudit")
	subtitle := dimStyle.Render(r.Service)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreBadge(r.Score, r.Status)))
	b.WriteString("\n\n")

	renderServiceBody(&b, r)
	b.WriteString("\n")
	return b.String()
}

// RenderAudit formats a repository audit: summary box, one block per service,
// then failed targets.
func RenderAudit(a *domain.RepositoryAudit) string {
	var b strings.Builder
	s := a.Summary

	title := headerStyle.Render("svcaudit")
	subtitle := dimStyle.Render(a.Template)
	avg := dimStyle.Render("no services found")
	if s.AverageDefined {
		avg = scoreBadge(s.AverageScore, s.OverallStatus)
	}
	counts := fmt.Sprintf("%s  %s  %s",
		passStyle.Render(fmt.Sprintf("%d complete", s.Complete)),
		warnStyle.Render(fmt.Sprintf("%d incomplete", s.Incomplete)),
		failStyle.Render(fmt.Sprintf("%d poor", s.Poor)),
	)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + avg + "\n" + counts))
	b.WriteString("\n")

	if a.TemplateWarning != "" {
		b.WriteString("\n  " + warnTagStyle.Render("warn ") + " " + dimStyle.Render(a.TemplateWarning) + "\n")
	}

	for _, r := range a.Services {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s  %s %s\n",
			nameStyle.Render(padRight(r.Service, 28)),
			coloredBar(r.Score, r.Status, 20),
			statusText(r.Score, r.Status),
		)
		renderServiceBody(&b, &r)
	}

	if len(a.Errors) > 0 {
		b.WriteString("\n  " + separatorLine + "\n\n")
		fmt.Fprintf(&b, "  %s  %s\n\n",
			titleStyle.Render("Failed"),
			errorTagStyle.Render(fmt.Sprintf("%d errors", len(a.Errors))),
		)
		for _, e := range a.Errors {
			fmt.Fprintf(&b, "    %s %s\n", errorTagStyle.Render(string(e.Code)), e.Service)
			fmt.Fprintf(&b, "         %s\n", dimStyle.Render(e.Message))
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderServiceBody(b *strings.Builder, r *domain.ServiceReport) {
	for _, name := range checkOrder(r) {
		if r.Checks[name] {
			fmt.Fprintf(b, "    %s %s\n", passStyle.Render("●"), name)
		} else {
			fmt.Fprintf(b, "    %s %s\n", failStyle.Render("●"), name)
		}
	}

	if len(r.Findings) > 0 {
		b.WriteString("\n")
		for _, w := range r.Findings {
			fmt.Fprintf(b, "    %s %s  %s\n", warnTagStyle.Render("warn "), dimStyle.Render(w.File), w.Message)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n    " + titleStyle.Render("Recommendations") + "\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(b, "    %s %s\n", dimStyle.Render("→"), rec)
		}
	}
}

// checkOrder lists missing items first, then the remaining checks in
// template order. Reports without an order fall back to sorted names.
func checkOrder(r *domain.ServiceReport) []string {
	order := r.Order
	if len(order) == 0 {
		order = make([]string, 0, len(r.Checks))
		for name := range r.Checks {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	out := make([]string, 0, len(order))
	listed := make(map[string]bool, len(order))
	for _, name := range r.Missing {
		if _, ok := r.Checks[name]; ok && !listed[name] {
			out = append(out, name)
			listed[name] = true
		}
	}
	for _, name := range order {
		if !listed[name] {
			out = append(out, name)
			listed[name] = true
		}
	}
	return out
}

func scoreBadge(score float64, status domain.Status) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(statusColor(status)).
		Render(fmt.Sprintf("%.2f / 100  %s", score, status))
}

func statusText(score float64, status domain.Status) string {
	return lipgloss.NewStyle().
		Foreground(statusColor(status)).
		Render(fmt.Sprintf("%6.2f  %s", score, status))
}

// coloredBar fills width cells in proportion to score, colored by status.
func coloredBar(score float64, status domain.Status, width int) string {
	filled := int(math.Round(score * float64(width) / 100))
	filled = max(0, min(filled, width))
	empty := width - filled

	filledStr := barStyle(status).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func barStyle(status domain.Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColor(status))
}

func statusColor(status domain.Status) lipgloss.Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return fg
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats audit history for terminal output.
func RenderHistory(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No audit history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Audit History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(statusColor(e.Status)).
			Render(fmt.Sprintf("%6.2f", e.AverageScore))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			scoreStyled,
			e.Status,
			dimStyle.Render(fmt.Sprintf("%d services", e.Services)),
		)

		if i > 0 {
			diff := e.AverageScore - entries[i-1].AverageScore
			if diff > 0.005 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%.2f", diff))
			} else if diff < -0.005 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%.2f", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
