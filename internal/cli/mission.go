package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/wire"
)

// MissionCmd returns the mission command
func MissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Manage missions",
		Long:  "Create, list, and drive missions through draft → scanning → paused → complete.",
	}

	cmd.AddCommand(missionCreateCmd())
	cmd.AddCommand(missionListCmd())
	cmd.AddCommand(missionShowCmd())
	cmd.AddCommand(missionStateCmd())
	cmd.AddCommand(missionDuplicateCmd())

	return cmd
}

func missionCreateCmd() *cobra.Command {
	var objective, posture string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a draft mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().Create(cliContext(cmd), args[0], objective, posture)
		},
	}

	cmd.Flags().StringVarP(&objective, "objective", "o", "", "What the mission should achieve")
	cmd.Flags().StringVarP(&posture, "posture", "p", "help_only", "help_only, help_plus_soft_marketing or research_only")

	return cmd
}

func missionListCmd() *cobra.Command {
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().List(cliContext(cmd), state, limit)
		},
	}

	cmd.Flags().StringVarP(&state, "state", "s", "", "Filter by state")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum missions to show")

	return cmd
}

func missionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [mission-id]",
		Short: "Show mission details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.MissionAdapter().Show(cliContext(cmd), args[0])
			return err
		},
	}
}

func missionStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state [mission-id] [state]",
		Short: "Move a mission to scanning, paused or complete",
		Long: `Drive the mission lifecycle.

Examples:
  praetor mission state 6f1c... scanning
  praetor mission state 6f1c... paused
  praetor mission state 6f1c... complete`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().SetState(cliContext(cmd), args[0], args[1])
		},
	}
}

func missionDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate [mission-id]",
		Short: "Copy a mission into a fresh draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.MissionAdapter().Duplicate(cliContext(cmd), args[0])
		},
	}
}
