package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the "cache" parent command with its "clear" subcommand.
func NewCacheCmd(clearFunc func(ctx context.Context) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearFunc(cmd.Context())
		},
	})

	return cmd
}
