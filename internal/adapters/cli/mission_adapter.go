// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/praetor/internal/ports/primary"
)

// MissionAdapter is a thin adapter that translates CLI operations to MissionService calls.
type MissionAdapter struct {
	service primary.MissionService
	out     io.Writer
}

// NewMissionAdapter creates a new MissionAdapter with the given service.
func NewMissionAdapter(service primary.MissionService, out io.Writer) *MissionAdapter {
	return &MissionAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new draft mission.
func (a *MissionAdapter) Create(ctx context.Context, title, objective, posture string) error {
	resp, err := a.service.CreateMission(ctx, primary.CreateMissionRequest{
		Title:     title,
		Objective: objective,
		Posture:   posture,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created mission %s: %s (%s)\n", resp.MissionID, resp.Mission.Title, resp.Mission.Posture)
	return nil
}

// List lists missions with an optional state filter.
func (a *MissionAdapter) List(ctx context.Context, state string, limit int) error {
	missions, err := a.service.ListMissions(ctx, primary.MissionFilters{State: state, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list missions: %w", err)
	}

	if len(missions) == 0 {
		fmt.Fprintln(a.out, "No missions found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-36s %-10s %-26s %s\n", "ID", "STATE", "POSTURE", "TITLE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────")
	for _, m := range missions {
		fmt.Fprintf(a.out, "%-36s %-10s %-26s %s\n", m.ID, m.State, m.Posture, m.Title)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays details for a single mission.
func (a *MissionAdapter) Show(ctx context.Context, missionID string) (*primary.Mission, error) {
	mission, err := a.service.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}

	fmt.Fprintf(a.out, "\nMission:   %s\n", mission.ID)
	fmt.Fprintf(a.out, "Title:     %s\n", mission.Title)
	fmt.Fprintf(a.out, "Objective: %s\n", mission.Objective)
	fmt.Fprintf(a.out, "Posture:   %s\n", mission.Posture)
	fmt.Fprintf(a.out, "State:     %s\n", stateLabel(mission.State))
	if mission.PreviousActiveState != nil {
		fmt.Fprintf(a.out, "Paused from: %s\n", *mission.PreviousActiveState)
	}
	fmt.Fprintf(a.out, "Counters:  forums=%d prospects=%d hot_leads=%d\n",
		mission.Counters.ForumsFound, mission.Counters.ProspectsAdded, mission.Counters.HotLeads)
	if len(mission.AgentsAssigned) > 0 {
		fmt.Fprintf(a.out, "Agents:    %s\n", strings.Join(mission.AgentsAssigned, ", "))
	}
	for _, insight := range mission.InsightsRich {
		fmt.Fprintf(a.out, "  • %s  %s\n", insight.Timestamp, insight.Text)
	}
	fmt.Fprintf(a.out, "Updated:   %s\n", mission.UpdatedAt)
	fmt.Fprintln(a.out)

	return mission, nil
}

// SetState moves a mission through its lifecycle.
func (a *MissionAdapter) SetState(ctx context.Context, missionID, target string) error {
	mission, err := a.service.SetState(ctx, primary.SetStateRequest{MissionID: missionID, State: target})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Mission %s is now %s\n", mission.ID, stateLabel(mission.State))
	return nil
}

// Duplicate copies a mission into a new draft.
func (a *MissionAdapter) Duplicate(ctx context.Context, missionID string) error {
	resp, err := a.service.DuplicateMission(ctx, missionID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Duplicated %s as %s (draft)\n", missionID, resp.MissionID)
	return nil
}
