package domain

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
)

// UnreadableCategory prefixes the category of synthetic read-failure warnings.
const UnreadableCategory = "unreadable:"

// Recommend turns missing items and quality warnings into improvement
// suggestions. Missing items come first, then warnings, each in the order
// given. Warnings sharing a category yield one suggestion.
func Recommend(missing []RequiredFile, warnings []Warning) []string {
	recs := make([]string, 0, len(missing)+len(warnings))
	seenCategory := make(map[string]bool)
	seenText := make(map[string]bool)

	add := func(category, text string) {
		if seenCategory[category] || seenText[text] {
			return
		}
		seenCategory[category] = true
		seenText[text] = true
		recs = append(recs, text)
	}

	for _, f := range missing {
		add("missing:"+f.Name, missingRecommendation(f))
	}
	for _, w := range warnings {
		add(w.Category, warningRecommendation(w))
	}
	return recs
}

func missingRecommendation(f RequiredFile) string {
	var b strings.Builder
	if f.IsDirectory() {
		fmt.Fprintf(&b, "Create the %s/ directory", f.Name)
		if len(f.MustContain) > 0 {
			fmt.Fprintf(&b, " with files matching %s", strings.Join(f.MustContain, ", "))
		}
	} else {
		fmt.Fprintf(&b, "Create %s", f.Name)
	}
	if f.Description != "" {
		fmt.Fprintf(&b, " (%s)", f.Description)
	}
	return b.String()
}

func warningRecommendation(w Warning) string {
	if w.Recommendation != "" {
		return w.Recommendation
	}
	if strings.HasPrefix(w.Category, UnreadableCategory) {
		return fmt.Sprintf("Make %s readable so its quality can be analyzed", w.File)
	}
	what := Humanize(w.Pattern)
	switch {
	case w.Target == TargetFilename && w.Polarity == MustNotMatch:
		return fmt.Sprintf("Rename files in %s/ that break the %s rule", w.File, what)
	case w.Target == TargetFilename:
		return fmt.Sprintf("Rename files in %s/ to follow the %s rule", w.File, what)
	case w.Polarity == MustNotMatch:
		return fmt.Sprintf("Remove %s from %s", what, w.File)
	default:
		return fmt.Sprintf("Add %s to %s", what, w.File)
	}
}

// Humanize splits identifiers like "exposePort" or "restart_policy" into
// lower-case words.
func Humanize(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var words []string
	for _, p := range parts {
		for _, w := range camelcase.Split(p) {
			words = append(words, strings.ToLower(w))
		}
	}
	return strings.Join(words, " ")
}
