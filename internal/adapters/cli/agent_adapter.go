package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/praetor/internal/ports/primary"
)

// AgentAdapter translates CLI operations to AgentService calls.
type AgentAdapter struct {
	service primary.AgentService
	out     io.Writer
}

// NewAgentAdapter creates a new AgentAdapter with the given service.
func NewAgentAdapter(service primary.AgentService, out io.Writer) *AgentAdapter {
	return &AgentAdapter{
		service: service,
		out:     out,
	}
}

// List prints the roster with status lights.
func (a *AgentAdapter) List(ctx context.Context) error {
	agents, err := a.service.GetAgents(ctx)
	if err != nil {
		return fmt.Errorf("failed to get agents: %w", err)
	}

	fmt.Fprintf(a.out, "\n%-12s %-9s %s\n", "AGENT", "STATUS", "DETAIL")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────")
	for _, ag := range agents {
		fmt.Fprintf(a.out, "%-12s %s  %s\n", ag.AgentName, light(ag.StatusLight), agentDetail(ag))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints one agent and its recent activity.
func (a *AgentAdapter) Show(ctx context.Context, name string, activity int) error {
	ag, err := a.service.GetAgent(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s  %s\n", ag.AgentName, light(ag.StatusLight))
	if detail := agentDetail(ag); detail != "" {
		fmt.Fprintf(a.out, "  %s\n", detail)
	}
	entries := ag.ActivityStream
	if activity > 0 && len(entries) > activity {
		entries = entries[len(entries)-activity:]
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "  %s  %s: %s\n", e.Timestamp, e.Who, e.Content)
	}
	fmt.Fprintln(a.out)
	return nil
}

// TriggerError puts an agent into an error state that recovers after minutes.
func (a *AgentAdapter) TriggerError(ctx context.Context, name, code string, minutes float64) error {
	ag, err := a.service.TriggerError(ctx, primary.TriggerErrorRequest{
		AgentName:    name,
		ErrorCode:    code,
		RetryMinutes: minutes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ %s %s  %s\n", ag.AgentName, light(ag.StatusLight), agentDetail(ag))
	return nil
}

// AppendActivity adds a line to an agent's activity stream.
func (a *AgentAdapter) AppendActivity(ctx context.Context, name, who, content, channel string) error {
	ag, err := a.service.AppendActivity(ctx, primary.AppendActivityRequest{
		AgentName: name,
		Who:       who,
		Content:   content,
		Channel:   channel,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Activity appended to %s (%d entries)\n", ag.AgentName, len(ag.ActivityStream))
	return nil
}

func agentDetail(ag *primary.Agent) string {
	if ag.ErrorState == nil {
		return ""
	}
	if ag.NextRetryAt == nil {
		return fmt.Sprintf("error %s", *ag.ErrorState)
	}
	return fmt.Sprintf("error %s, retry at %s", *ag.ErrorState, *ag.NextRetryAt)
}
