package mission

// Insight is a timestamped note recorded against a mission.
type Insight struct {
	Text      string
	Timestamp string
}

// NeedsInsightsMigration reports whether legacy plain-text insights must be
// lifted into the rich form.
func NeedsInsightsMigration(legacy []string, rich []Insight) bool {
	return len(rich) == 0 && len(legacy) > 0
}

// MigrateInsights lifts legacy insights into rich insights stamped with
// timestamp (the mission's updated_at).
func MigrateInsights(legacy []string, timestamp string) []Insight {
	rich := make([]Insight, len(legacy))
	for i, text := range legacy {
		rich[i] = Insight{Text: text, Timestamp: timestamp}
	}
	return rich
}
