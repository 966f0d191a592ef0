package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/db"
	"github.com/example/praetor/internal/wire"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo fixtures (agents, missions, forums, a hot lead)",
		Long:  `Insert demo rows. Existing rows with the same IDs are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := wire.Default()
			if err := db.SeedFixtures(c.DB, clock.Stamp(c.Clock)); err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Seeded demo fixtures")
			return nil
		},
	}
}
