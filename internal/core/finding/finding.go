// Package finding contains the pure logic for findings: snapshotting a
// conversation into a finding and rendering exports.
package finding

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// SnapshotTurns is how many recent messages a snapshot captures.
const SnapshotTurns = 6

// ThreadSummary is the thread context a snapshot header carries.
type ThreadSummary struct {
	Title    string
	Goal     string
	Stage    string
	Synopsis string
}

// Turn is one message quoted in a snapshot.
type Turn struct {
	Timestamp string
	Role      string
	Text      string
}

// BuildSnapshot renders the title and markdown body of a conversation
// snapshot. turns must be in ascending order.
func BuildSnapshot(th ThreadSummary, turns []Turn, now string) (title, body string) {
	stage := th.Stage
	if stage == "" {
		stage = "brainstorm"
	}
	lines := []string{
		"Goal: " + th.Goal,
		"Stage: " + stage,
		"Synopsis: " + th.Synopsis,
		"",
		fmt.Sprintf("Last %d turns:", SnapshotTurns),
	}
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("- %s %s: %s", t.Timestamp, t.Role, t.Text))
	}
	threadTitle := th.Title
	if threadTitle == "" {
		threadTitle = "Thread"
	}
	return fmt.Sprintf("Findings - %s %s", threadTitle, now), strings.Join(lines, "\n")
}

// Format is an export format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
)

// ParseFormat maps a requested format; anything but csv exports markdown.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatCSV)) {
		return FormatCSV
	}
	return FormatMarkdown
}

// ExportInput is the finding data an export renders.
type ExportInput struct {
	ID           string
	MissionID    string
	ThreadID     string
	Title        string
	BodyMarkdown string
	UpdatedAt    string
}

// Export is a rendered file.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Render produces the export file for f in the given format.
func Render(f ExportInput, format Format) (Export, error) {
	if format == FormatCSV {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll([][]string{
			{"id", "mission_id", "thread_id", "title", "updated_at"},
			{f.ID, f.MissionID, f.ThreadID, f.Title, f.UpdatedAt},
		}); err != nil {
			return Export{}, fmt.Errorf("failed to write csv: %w", err)
		}
		return Export{
			Filename:    fmt.Sprintf("finding_%s.csv", f.ID),
			ContentType: "text/csv",
			Content:     buf.Bytes(),
		}, nil
	}
	return Export{
		Filename:    fmt.Sprintf("finding_%s.md", f.ID),
		ContentType: "text/markdown",
		Content:     []byte(fmt.Sprintf("# %s\n\n%s", f.Title, f.BodyMarkdown)),
	}, nil
}
