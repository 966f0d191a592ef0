package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with demo data: the agent roster, two
// missions, tracked forums, a product brief guardrail and a pending hot lead.
// now is the timestamp stamped on every row.
func SeedFixtures(database *sql.DB, now string) error {
	agents := []struct{ name, status string }{
		{"Praefectus", "green"},
		{"Explorator", "green"},
		{"Legatus", "yellow"},
	}
	for _, a := range agents {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO agents (agent_name, status_light, created_at, updated_at) VALUES (?, ?, ?, ?)",
			a.name, a.status, now, now,
		); err != nil {
			return fmt.Errorf("seed agents: %w", err)
		}
	}

	missions := []struct{ id, title, objective, posture, state string }{
		{"seed-mission-homelab", "Homelab backup pain", "Map where self-hosters discuss backup failures", "research_only", "scanning"},
		{"seed-mission-devtools", "CLI onboarding help", "Answer onboarding questions about terminal tooling", "help_only", "draft"},
	}
	for _, m := range missions {
		if _, err := database.Exec(
			`INSERT OR IGNORE INTO missions (id, title, objective, posture, state, insights, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, '["Restore testing is rarely discussed"]', ?, ?)`,
			m.id, m.title, m.objective, m.posture, m.state, now, now,
		); err != nil {
			return fmt.Errorf("seed missions: %w", err)
		}
	}

	forums := []struct{ id, platform, name, url, profile, tags string }{
		{"seed-forum-homelab", "reddit", "r/homelab", "https://www.reddit.com/r/homelab/", "no self-promotion", `["homelab","backup"]`},
		{"seed-forum-selfhosted", "reddit", "r/selfhosted", "https://www.reddit.com/r/selfhosted/", "disclose affiliation", `["selfhosted"]`},
	}
	for _, f := range forums {
		if _, err := database.Exec(
			`INSERT OR IGNORE INTO forums (id, platform, name, url, rule_profile, topic_tags, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.id, f.platform, f.name, f.url, f.profile, f.tags, now, now,
		); err != nil {
			return fmt.Errorf("seed forums: %w", err)
		}
	}

	if _, err := database.Exec(
		`INSERT OR IGNORE INTO guardrails (id, type, scope, value, created_at, updated_at)
		 VALUES ('seed-guardrail-brief', 'product_brief', 'global', ?, ?, ?)`,
		`{"product":"Praetor","tone":"helpful, never salesy"}`, now, now,
	); err != nil {
		return fmt.Errorf("seed guardrails: %w", err)
	}

	if _, err := database.Exec(
		`INSERT OR IGNORE INTO hot_leads (id, mission_id, forum_id, title, url, draft_script, status, created_at, updated_at)
		 VALUES ('seed-hotlead-1', 'seed-mission-homelab', 'seed-forum-homelab', 'Lost a ZFS pool, no restore plan',
		         'https://www.reddit.com/r/homelab/comments/example', 'Sorry to hear that. A restore drill helps...', 'pending', ?, ?)`,
		now, now,
	); err != nil {
		return fmt.Errorf("seed hot leads: %w", err)
	}

	return nil
}
