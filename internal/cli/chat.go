package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/wire"
)

// ChatCmd returns the chat command
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to Praefectus in Mission Control",
	}

	cmd.AddCommand(chatSendCmd())
	cmd.AddCommand(chatThreadsCmd())

	return cmd
}

func chatSendCmd() *cobra.Command {
	var threadID string

	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Send a message and print the reply",
		Long: `Send a message to Praefectus. Without --thread the General thread is used.

Run controls are understood in the text: "pause", "run", "stop".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ChatAdapter().Send(cliContext(cmd), threadID, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&threadID, "thread", "t", "", "Thread ID (default: General)")

	return cmd
}

func chatThreadsCmd() *cobra.Command {
	var missionID string

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List chat threads",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.ChatAdapter().Threads(cliContext(cmd), missionID)
		},
	}

	cmd.Flags().StringVar(&missionID, "mission", "", "Only threads linked to this mission")

	return cmd
}
