package thread

import (
	"encoding/json"
	"strings"

	"github.com/example/praetor/internal/core/mission"
)

// Draft is a proposed mission distilled from a conversation.
type Draft struct {
	Title     string `json:"title"`
	Objective string `json:"objective"`
	Posture   string `json:"posture"`
}

// Merge returns d with every non-empty override field applied.
func (d Draft) Merge(overrides Draft) Draft {
	if strings.TrimSpace(overrides.Title) != "" {
		d.Title = overrides.Title
	}
	if strings.TrimSpace(overrides.Objective) != "" {
		d.Objective = overrides.Objective
	}
	if strings.TrimSpace(overrides.Posture) != "" {
		d.Posture = overrides.Posture
	}
	return d
}

// ParseDraftReply extracts a draft from an LLM reply. JSON replies (possibly
// wrapped in a code fence) are decoded; anything else becomes the objective
// of a draft titled fallbackTitle.
func ParseDraftReply(reply, fallbackTitle string) Draft {
	body := strings.TrimSpace(reply)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var d Draft
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		if err := json.Unmarshal([]byte(body[start:end+1]), &d); err != nil {
			d = Draft{}
		}
	}
	if strings.TrimSpace(d.Title) == "" {
		d.Title = fallbackTitle
	}
	if strings.TrimSpace(d.Objective) == "" {
		d.Objective = strings.TrimSpace(reply)
	}
	if !mission.IsValidPosture(mission.Posture(d.Posture)) {
		d.Posture = string(mission.DefaultPosture)
	}
	return d
}
