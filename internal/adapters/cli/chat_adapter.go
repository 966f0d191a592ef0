package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/praetor/internal/ports/primary"
)

// ChatAdapter talks to Praefectus from the terminal.
type ChatAdapter struct {
	service primary.MissionControlService
	out     io.Writer
}

// NewChatAdapter creates a new ChatAdapter with the given service.
func NewChatAdapter(service primary.MissionControlService, out io.Writer) *ChatAdapter {
	return &ChatAdapter{
		service: service,
		out:     out,
	}
}

// Send posts a message and prints the reply.
func (a *ChatAdapter) Send(ctx context.Context, threadID, text string) error {
	resp, err := a.service.SendMessage(ctx, primary.SendMessageRequest{ThreadID: threadID, Text: text})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgCyan).Sprint("Praefectus:"), resp.Reply.Text)
	if resp.RunControl != "" && resp.MissionID != "" {
		fmt.Fprintf(a.out, "  (run control %q on mission %s)\n", resp.RunControl, resp.MissionID)
	}
	fmt.Fprintf(a.out, "  thread %s\n", resp.ThreadID)
	return nil
}

// Threads lists conversation threads and their derived status.
func (a *ChatAdapter) Threads(ctx context.Context, missionID string) error {
	threads, err := a.service.ListThreads(ctx, missionID)
	if err != nil {
		return fmt.Errorf("failed to list threads: %w", err)
	}

	fmt.Fprintf(a.out, "\n%-36s %-10s %-5s %s\n", "ID", "STATUS", "MSGS", "TITLE")
	for _, th := range threads {
		fmt.Fprintf(a.out, "%-36s %-10s %-5d %s\n", th.ThreadID, th.ThreadStatus, th.MessageCount, th.Title)
	}
	fmt.Fprintln(a.out)
	return nil
}
