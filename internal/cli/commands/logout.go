package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				a.store.Logout(ctx)
				fmt.Fprintln(a.out, "✓ Logged out")
				return nil
			})
		},
	}
}
