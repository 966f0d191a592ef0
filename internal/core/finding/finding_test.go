package finding

import (
	"strings"
	"testing"
)

func TestBuildSnapshot(t *testing.T) {
	th := ThreadSummary{Title: "Homelab", Goal: "find forums", Synopsis: "two candidates"}
	turns := []Turn{
		{Timestamp: "2026-01-01T10:00:00.000000-07:00", Role: "human", Text: "any leads?"},
		{Timestamp: "2026-01-01T10:00:05.000000-07:00", Role: "praefectus", Text: "r/homelab"},
	}

	title, body := BuildSnapshot(th, turns, "2026-01-01T10:01:00.000000-07:00")

	if title != "Findings - Homelab 2026-01-01T10:01:00.000000-07:00" {
		t.Errorf("title = %q", title)
	}
	wantLines := []string{
		"Goal: find forums",
		"Stage: brainstorm",
		"Synopsis: two candidates",
		"",
		"Last 6 turns:",
		"- 2026-01-01T10:00:00.000000-07:00 human: any leads?",
		"- 2026-01-01T10:00:05.000000-07:00 praefectus: r/homelab",
	}
	if body != strings.Join(wantLines, "\n") {
		t.Errorf("body = %q", body)
	}
}

func TestRender(t *testing.T) {
	f := ExportInput{ID: "f1", MissionID: "m1", ThreadID: "t1", Title: "Scan, round 2", BodyMarkdown: "body", UpdatedAt: "ts"}

	tests := []struct {
		name        string
		format      Format
		wantName    string
		wantType    string
		wantContent string
	}{
		{"markdown", FormatMarkdown, "finding_f1.md", "text/markdown", "# Scan, round 2\n\nbody"},
		{"csv quotes commas", FormatCSV, "finding_f1.csv", "text/csv", "id,mission_id,thread_id,title,updated_at\nf1,m1,t1,\"Scan, round 2\",ts\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(f, tt.format)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got.Filename != tt.wantName || got.ContentType != tt.wantType {
				t.Errorf("Render() = %s %s, want %s %s", got.Filename, got.ContentType, tt.wantName, tt.wantType)
			}
			if string(got.Content) != tt.wantContent {
				t.Errorf("Content = %q, want %q", got.Content, tt.wantContent)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("CSV") != FormatCSV {
		t.Error("expected csv")
	}
	if ParseFormat("pdf") != FormatMarkdown {
		t.Error("unknown formats export markdown")
	}
}
