package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/wire"
)

// EventsCmd returns the events command
func EventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Query and prune the event log",
	}

	cmd.AddCommand(eventsListCmd())
	cmd.AddCommand(eventsPruneCmd())

	return cmd
}

func eventsListCmd() *cobra.Command {
	var filters primary.EventFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EventAdapter().List(cliContext(cmd), filters)
		},
	}

	cmd.Flags().StringVar(&filters.AgentName, "agent", "", "Filter by agent name")
	cmd.Flags().StringVar(&filters.MissionID, "mission", "", "Filter by mission ID")
	cmd.Flags().StringVar(&filters.ThreadID, "thread", "", "Filter by thread ID")
	cmd.Flags().StringVar(&filters.EventName, "name", "", "Filter by event name")
	cmd.Flags().StringVar(&filters.Since, "since", "", "Only events at or after this timestamp")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 0, "Maximum events (default from config)")

	return cmd
}

func eventsPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete events older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = wire.Default().Config.Events.RetentionDays
			}
			return wire.EventAdapter().Prune(cliContext(cmd), days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Age in days (default from events.retention_days)")

	return cmd
}
