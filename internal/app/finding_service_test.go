package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/example/praetor/internal/core/event"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

func newTestFindingService(t *testing.T) (*FindingServiceImpl, *mockFindingRepository, *mockThreadRepository, *mockMessageRepository, *mockEventWriter) {
	findings := newMockFindingRepository()
	threads := newMockThreadRepository()
	messages := newMockMessageRepository(threads)
	events := newMockEventWriter()
	return NewFindingService(findings, threads, messages, events, newTestClock(t)), findings, threads, messages, events
}

func TestFindingService_SnapshotFindings(t *testing.T) {
	service, findings, threads, messages, events := newTestFindingService(t)
	ctx := context.Background()
	threads.Create(ctx, &secondary.ThreadRecord{ThreadID: "t-1", Title: "Homelab", MissionID: "m-1", Goal: "find forums"})
	for i := 0; i < 8; i++ {
		messages.Create(ctx, &secondary.MessageRecord{
			ID:        fmt.Sprintf("msg-%d", i),
			ThreadID:  "t-1",
			Role:      "human",
			Text:      fmt.Sprintf("turn %d", i),
			CreatedAt: "2026-04-01T08:00:00.000000-07:00",
		})
	}

	f, err := service.SnapshotFindings(ctx, "t-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.MissionID != "m-1" || f.Title != "Findings - Homelab 2026-04-01T09:00:00.000000-07:00" {
		t.Errorf("finding = %+v", f)
	}
	if strings.Contains(f.BodyMarkdown, "turn 1\n") || !strings.Contains(f.BodyMarkdown, "turn 2") || !strings.HasSuffix(f.BodyMarkdown, "turn 7") {
		t.Errorf("snapshot should quote the last 6 turns, got:\n%s", f.BodyMarkdown)
	}
	if len(findings.findings) != 1 || events.count(event.FindingsCreated) != 1 {
		t.Errorf("findings = %d events = %v", len(findings.findings), events.names())
	}
}

func TestFindingService_SnapshotFindings_Unlinked(t *testing.T) {
	service, findings, threads, _, _ := newTestFindingService(t)
	ctx := context.Background()
	threads.Create(ctx, &secondary.ThreadRecord{ThreadID: "t-1", Title: "General"})

	_, err := service.SnapshotFindings(ctx, "t-1")
	var validationErr *errs.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Fields["thread_id"] == "" {
		t.Fatalf("unlinked thread error = %v", err)
	}
	if len(findings.findings) != 0 {
		t.Error("rejected snapshot persisted a finding")
	}

	if _, err := service.SnapshotFindings(ctx, "ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown thread error = %v", err)
	}
}

func TestFindingService_ExportFinding(t *testing.T) {
	service, findings, _, _, events := newTestFindingService(t)
	ctx := context.Background()
	findings.Create(ctx, &secondary.FindingRecord{ID: "f-1", MissionID: "m-1", ThreadID: "t-1", Title: "Scan", BodyMarkdown: "body", UpdatedAt: "ts"})

	tests := []struct {
		format       string
		wantFilename string
		wantType     string
		wantContent  string
	}{
		{"md", "finding_f-1.md", "text/markdown", "# Scan\n\nbody"},
		{"", "finding_f-1.md", "text/markdown", "# Scan\n\nbody"},
		{"CSV", "finding_f-1.csv", "text/csv", "id,mission_id,thread_id,title,updated_at\nf-1,m-1,t-1,Scan,ts\n"},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			got, err := service.ExportFinding(ctx, "f-1", tt.format)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Filename != tt.wantFilename || got.ContentType != tt.wantType || string(got.Content) != tt.wantContent {
				t.Errorf("export = %s %s %q", got.Filename, got.ContentType, got.Content)
			}
		})
	}
	if n := events.count(event.FindingsExported); n != 3 {
		t.Errorf("findings_exported emitted %d times, want 3", n)
	}
}

func TestFindingService_UpdateFinding(t *testing.T) {
	service, findings, _, _, _ := newTestFindingService(t)
	ctx := context.Background()
	findings.Create(ctx, &secondary.FindingRecord{ID: "f-1", Title: "Scan"})

	highlights := []string{"r/homelab is receptive"}
	got, err := service.UpdateFinding(ctx, primary.UpdateFindingRequest{FindingID: "f-1", Highlights: &highlights})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Highlights) != 1 || got.Title != "Scan" || got.Metrics == nil {
		t.Errorf("finding = %+v", got)
	}
}
