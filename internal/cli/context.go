package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/praetor/internal/ctxutil"
)

// cliContext tags events written by a command with the cli source.
func cliContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithSource(ctx, ctxutil.SourceCLI)
}
