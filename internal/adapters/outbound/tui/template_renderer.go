package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/openkraft/svcaudit/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderTemplate renders a resolved template: items, profiles and scoring.
func RenderTemplate(res domain.LoadResult) string {
	var b strings.Builder
	tmpl := res.Template

	nameLine := titleStyle.Render(tmpl.Name)
	sourceLine := dimStyle.Render("source: " + res.Source)
	b.WriteString(boxStyle.Render(nameLine + "\n" + sourceLine))
	b.WriteString("\n")

	if res.Fallback {
		b.WriteString("\n  " + warnTagStyle.Render("warn ") + " " + dimStyle.Render(res.Warning) + "\n")
	}
	if tmpl.Description != "" {
		b.WriteString("\n  " + hintStyle.Render(tmpl.Description) + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Required Items"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(tmpl.RequiredFiles))))
	for _, f := range tmpl.RequiredFiles {
		icon := failStyle.Render("●")
		if !f.Required {
			icon = faintStyle.Render("○")
		}
		name := f.Name
		if f.IsDirectory() {
			name += "/"
		}
		line := fmt.Sprintf("    %s %s %s", icon, padRight(name, 24), dimStyle.Render(fmt.Sprintf("%5.2f", f.Weight)))
		if f.Marker {
			line += "  " + warnStyle.Render("marker")
		}
		if len(f.MustContain) > 0 {
			line += "  " + faintStyle.Render(strings.Join(f.MustContain, ", "))
		}
		b.WriteString(line + "\n")
	}

	keys := make([]string, 0, len(tmpl.QualityProfiles))
	for k := range tmpl.QualityProfiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", sectionHeaderStyle.Render("Quality Profiles"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(keys))))
		for _, k := range keys {
			p := tmpl.QualityProfiles[k]
			fmt.Fprintf(&b, "    %s  %s\n", nameStyle.Render(p.Name), dimStyle.Render("→ "+k))
			for _, pat := range p.Patterns {
				fmt.Fprintf(&b, "      %s %s  %s\n", polarityIcon(pat.Polarity), pat.Name, faintStyle.Render(pat.Warning))
			}
		}
	}

	sc := tmpl.Scoring
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s\n", sectionHeaderStyle.Render("Scoring"))
	fmt.Fprintf(&b, "    structure %.0f%%  quality %.0f%%  base %.0f  penalty %.0f/warning\n",
		sc.StructureWeightPct, sc.QualityWeightPct, sc.QualityBasePoints, sc.WarningPenalty)
	fmt.Fprintf(&b, "    complete ≥ %.0f  incomplete ≥ %.0f  poor below\n",
		sc.Thresholds.Complete, sc.Thresholds.Incomplete)
	b.WriteString("\n")

	return b.String()
}

func polarityIcon(p domain.Polarity) string {
	if p == domain.MustNotMatch {
		return failStyle.Render("✗")
	}
	return passStyle.Render("✓")
}
