// Package provider contains the pure logic for choosing the LLM model
// Praefectus talks to.
package provider

import (
	"sort"
	"strings"
)

// AutoModel asks for the default model to be picked from the provider's list.
const AutoModel = "auto"

// IsAuto reports whether the configured model defers to auto-selection.
func IsAuto(configured string) bool {
	configured = strings.TrimSpace(configured)
	return configured == "" || strings.EqualFold(configured, AutoModel)
}

// SelectDefault picks a default from the offered models.
// Preference: a gpt-5 reasoning ("reason"/"think") variant, then any gpt-5
// model, then the alphabetically first model. Returns "" for an empty list.
func SelectDefault(models []string) string {
	if len(models) == 0 {
		return ""
	}
	sorted := append([]string(nil), models...)
	sort.Strings(sorted)

	for _, m := range sorted {
		lower := strings.ToLower(m)
		if strings.Contains(lower, "gpt-5") && (strings.Contains(lower, "reason") || strings.Contains(lower, "think")) {
			return m
		}
	}
	for _, m := range sorted {
		if strings.Contains(strings.ToLower(m), "gpt-5") {
			return m
		}
	}
	return sorted[0]
}
