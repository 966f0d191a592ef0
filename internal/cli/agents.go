package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/wire"
)

// AgentsCmd returns the agents command
func AgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect and drive the agent roster",
		Long:  `Praefectus, Explorator and Legatus. Agents in error recover on their own once the retry time passes.`,
	}

	cmd.AddCommand(agentsListCmd())
	cmd.AddCommand(agentsShowCmd())
	cmd.AddCommand(agentsErrorCmd())
	cmd.AddCommand(agentsActivityCmd())

	return cmd
}

func agentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the roster with status lights",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AgentAdapter().List(cliContext(cmd))
		},
	}
}

func agentsShowCmd() *cobra.Command {
	var activity int

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show one agent and its recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.AgentAdapter().Show(cliContext(cmd), args[0], activity)
		},
	}

	cmd.Flags().IntVarP(&activity, "activity", "a", 10, "Activity entries to show (0 for all)")

	return cmd
}

func agentsErrorCmd() *cobra.Command {
	var code string
	var minutes float64

	cmd := &cobra.Command{
		Use:   "error [name]",
		Short: "Put an agent into error with a scheduled retry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("minutes") {
				minutes = wire.Default().Config.Agents.DefaultRetryMinutes
			}
			return wire.AgentAdapter().TriggerError(cliContext(cmd), args[0], code, minutes)
		},
	}

	cmd.Flags().StringVar(&code, "code", "crawl_timeout", "Error code to record")
	cmd.Flags().Float64Var(&minutes, "minutes", 1, "Minutes until the agent retries")

	return cmd
}

func agentsActivityCmd() *cobra.Command {
	var who, channel string

	cmd := &cobra.Command{
		Use:   "activity [name] [content...]",
		Short: "Append an entry to an agent's activity stream",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[1:], " ")
			if who == "" {
				who = args[0]
			}
			return wire.AgentAdapter().AppendActivity(cliContext(cmd), args[0], who, content, channel)
		},
	}

	cmd.Flags().StringVar(&who, "who", "", "Author of the entry (default: the agent)")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel the activity happened in")

	return cmd
}
