package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/praetor/internal/core/event"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

type missionControlFixture struct {
	service  *MissionControlServiceImpl
	threads  *mockThreadRepository
	messages *mockMessageRepository
	missions *mockMissionRepository
	llm      *mockLLMClient
	events   *mockEventWriter
}

func newMissionControlFixture(t *testing.T) *missionControlFixture {
	clk := newTestClock(t)
	f := &missionControlFixture{
		threads:  newMockThreadRepository(),
		missions: newMockMissionRepository(),
		llm:      &mockLLMClient{},
		events:   newMockEventWriter(),
	}
	f.messages = newMockMessageRepository(f.threads)
	missionService := NewMissionService(f.missions, f.events, clk)
	provider := NewProviderService(f.llm, f.events, clk, "gpt-test")
	f.service = NewMissionControlService(f.threads, f.messages, missionService, provider, f.llm, f.events, clk,
		ChatSettings{Temperature: 0.2, MaxTokens: 800})
	return f
}

func (f *missionControlFixture) seedThread(id, missionID string) {
	f.threads.Create(context.Background(), &secondary.ThreadRecord{ThreadID: id, Title: "Backups", MissionID: missionID, Stage: "brainstorm"})
}

func TestMissionControl_SendMessage_DefaultsToGeneral(t *testing.T) {
	f := newMissionControlFixture(t)
	f.llm.replies = []string{"Which forums do you have in mind?"}

	resp, err := f.service.SendMessage(context.Background(), primary.SendMessageRequest{Text: "Let's find homelab forums"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	general, _ := f.threads.FindByTitle(context.Background(), "General")
	if general == nil || resp.ThreadID != general.ThreadID {
		t.Fatalf("message went to %s, want General thread", resp.ThreadID)
	}
	if resp.Human.Role != "human" || resp.Reply.Role != "praefectus" || resp.Reply.Text != "Which forums do you have in mind?" {
		t.Errorf("response = %+v / %+v", resp.Human, resp.Reply)
	}

	req := f.llm.requests[0]
	if req.Model != "gpt-test" || req.Temperature != 0.2 || req.MaxTokens != 800 {
		t.Errorf("chat request = %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != secondary.ChatRoleSystem || req.Messages[1].Content != "Let's find homelab forums" {
		t.Errorf("chat messages = %+v", req.Messages)
	}
	if f.events.count(event.PraefectusMessageAppended) != 1 {
		t.Errorf("events = %v", f.events.names())
	}
}

func TestMissionControl_SendMessage_SendsFullHistory(t *testing.T) {
	f := newMissionControlFixture(t)
	f.seedThread("t-1", "")
	f.llm.replies = []string{"ok"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	last := f.llm.requests[len(f.llm.requests)-1]
	// system + 3 human + 2 earlier replies
	if len(last.Messages) != 6 {
		t.Fatalf("history length = %d, want 6", len(last.Messages))
	}
	wantRoles := []string{"system", "user", "assistant", "user", "assistant", "user"}
	for i, m := range last.Messages {
		if m.Role != wantRoles[i] {
			t.Errorf("message %d role = %s, want %s", i, m.Role, wantRoles[i])
		}
	}
	if last.Messages[5].Content != "turn 2" {
		t.Errorf("last message = %q", last.Messages[5].Content)
	}
}

func TestMissionControl_SendMessage_Errors(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()

	if _, err := f.service.SendMessage(ctx, primary.SendMessageRequest{Text: "   "}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("empty text error = %v", err)
	}
	if len(f.threads.threads) != 0 {
		t.Error("validation failure must not create the General thread")
	}

	if _, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "ghost", Text: "hi"}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown thread error = %v", err)
	}

	f.seedThread("t-1", "")
	f.llm.chatErr = errors.New("timeout")
	_, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: "hi"})
	if !errors.Is(err, errs.ErrUpstream) {
		t.Fatalf("llm failure error = %v, want upstream", err)
	}
	if len(f.llm.requests) != 1 {
		t.Errorf("llm called %d times, want exactly 1 (no retry)", len(f.llm.requests))
	}
	history, _ := f.messages.ListByThread(ctx, "t-1")
	if len(history) != 1 || history[0].Role != "human" {
		t.Errorf("history after failure = %d messages", len(history))
	}
}

func TestMissionControl_RunControls(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()
	f.seedThread("t-1", "")
	f.llm.replies = []string{`{"title":"Backup pain","objective":"Collect backup complaints","posture":"help_only"}`}

	resp, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: "Create mission now"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.RunControl != "create" || resp.MissionID == "" {
		t.Fatalf("response = %+v", resp)
	}
	m := f.missions.missions[resp.MissionID]
	if m.State != "scanning" || m.Title != "Backup pain" || m.Posture != "help_only" {
		t.Errorf("created mission = %+v", m)
	}
	if f.threads.threads["t-1"].MissionID != resp.MissionID {
		t.Error("thread not linked to new mission")
	}

	steps := []struct {
		text      string
		wantState string
	}{
		{"pause mission", "paused"},
		{"run mission now", "scanning"},
		{"stop mission", "complete"},
	}
	for _, step := range steps {
		if _, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: step.text}); err != nil {
			t.Fatalf("%s: %v", step.text, err)
		}
		if got := f.missions.missions[resp.MissionID].State; got != step.wantState {
			t.Errorf("after %q state = %s, want %s", step.text, got, step.wantState)
		}
	}

	// Running a finished mission starts a fresh run
	resp2, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: "run mission now"})
	if err != nil {
		t.Fatal(err)
	}
	if resp2.MissionID == resp.MissionID || f.missions.missions[resp2.MissionID].State != "scanning" {
		t.Errorf("fresh run = %s", resp2.MissionID)
	}

	if n := f.events.count(event.RunControlsUsed); n != 5 {
		t.Errorf("run_controls_used emitted %d times, want 5", n)
	}
	if len(f.llm.requests) != 1 {
		t.Errorf("run controls other than create must not call the llm, got %d calls", len(f.llm.requests))
	}
}

func TestMissionControl_RunControl_InvalidTransitionIsReplied(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()
	seedTestMission(f.missions, "m-1", "draft", "")
	f.seedThread("t-1", "m-1")

	resp, err := f.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: "t-1", Text: "pause mission"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Reply == nil || f.missions.missions["m-1"].State != "draft" {
		t.Errorf("reply = %+v state = %s", resp.Reply, f.missions.missions["m-1"].State)
	}
}

func TestMissionControl_ConvertAndApproveDraft(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()
	f.seedThread("t-1", "")
	f.llm.replies = []string{"Track NAS backup questions on r/selfhosted."}

	draft, err := f.service.ConvertToDraft(ctx, primary.ConvertToDraftRequest{
		ThreadID:  "t-1",
		Overrides: primary.MissionDraft{Posture: "help_only"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if draft.Title != "Backups" || draft.Objective != "Track NAS backup questions on r/selfhosted." || draft.Posture != "help_only" {
		t.Errorf("draft = %+v", draft)
	}
	prompt := f.llm.requests[0].Messages
	if prompt[len(prompt)-1].Role != secondary.ChatRoleUser {
		t.Error("draft prompt should close the conversation")
	}

	resp, err := f.service.ApproveDraft(ctx, primary.ApproveDraftRequest{ThreadID: "t-1", Draft: *draft, StartNow: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Mission.State != "scanning" || f.threads.threads["t-1"].MissionID != resp.MissionID {
		t.Errorf("approve = %+v", resp)
	}
	history, _ := f.messages.ListByThread(ctx, "t-1")
	if len(history) != 1 || history[0].Role != "praefectus" {
		t.Errorf("confirmation messages = %d", len(history))
	}

	_, err = f.service.ApproveDraft(ctx, primary.ApproveDraftRequest{ThreadID: "t-1", Draft: primary.MissionDraft{Title: "x"}})
	if !errors.Is(err, errs.ErrValidation) {
		t.Errorf("incomplete draft error = %v", err)
	}
}

func TestMissionControl_ThreadsAndStatus(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()

	threads, err := f.service.ListThreads(ctx, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(threads) != 1 || threads[0].Title != "General" || threads[0].ThreadStatus != "Unlinked" {
		t.Fatalf("threads = %+v", threads)
	}

	seedTestMission(f.missions, "m-1", "paused", "scanning")
	th, err := f.service.CreateThread(ctx, primary.CreateThreadRequest{Title: "Ops", MissionID: "m-1"})
	if err != nil {
		t.Fatal(err)
	}
	if th.ThreadStatus != "Paused" || th.Stage != "brainstorm" {
		t.Errorf("thread = %+v", th)
	}

	if _, err := f.service.CreateThread(ctx, primary.CreateThreadRequest{Title: "Ops", MissionID: "ghost"}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown mission error = %v", err)
	}

	goal := "Find 10 forums"
	updated, err := f.service.UpdateThread(ctx, primary.UpdateThreadRequest{ThreadID: th.ThreadID, Goal: &goal})
	if err != nil || updated.Goal != goal {
		t.Errorf("UpdateThread() = %+v, %v", updated, err)
	}
}

func TestMissionControl_GetThreadWindow(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()
	f.seedThread("t-1", "")
	for i := 0; i < 5; i++ {
		f.messages.Create(ctx, &secondary.MessageRecord{ID: fmt.Sprintf("msg-%d", i), ThreadID: "t-1", Role: "human", Text: "x"})
	}

	view, err := f.service.GetThread(ctx, primary.GetThreadRequest{ThreadID: "t-1", Limit: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !view.HasMore || len(view.Messages) != 2 || view.Messages[0].ID != "msg-3" {
		t.Errorf("window = %d messages hasMore=%v", len(view.Messages), view.HasMore)
	}

	older, _ := f.service.GetThread(ctx, primary.GetThreadRequest{ThreadID: "t-1", Limit: 2, Before: "msg-3"})
	if len(older.Messages) != 2 || older.Messages[1].ID != "msg-2" {
		t.Errorf("older window = %+v", older.Messages)
	}
	if n := f.events.count(event.ThreadLoaded); n != 1 {
		t.Errorf("thread_loaded emitted %d times, want 1", n)
	}
}

func TestMissionControl_DuplicateRun(t *testing.T) {
	f := newMissionControlFixture(t)
	ctx := context.Background()
	seedTestMission(f.missions, "m-1", "complete", "")
	f.seedThread("t-1", "m-1")

	resp, err := f.service.DuplicateRun(ctx, primary.DuplicateRunRequest{MissionID: "m-1", SourceThreadID: "t-1", StartNow: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.MissionID == "m-1" || resp.ThreadID == "t-1" || resp.Reply == nil {
		t.Errorf("response = %+v", resp)
	}
	if f.missions.missions[resp.MissionID].State != "scanning" {
		t.Errorf("new run state = %s", f.missions.missions[resp.MissionID].State)
	}
	if f.threads.threads[resp.ThreadID].MissionID != resp.MissionID {
		t.Error("new thread not linked to new run")
	}
}
