package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(factory AppFactory) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				return runWhoami(ctx, a, refresh)
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Reload the profile from the marketplace API")

	return cmd
}

func runWhoami(ctx context.Context, a *App, refresh bool) error {
	user := a.store.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	if refresh {
		refreshed, err := a.store.RefreshProfile(ctx, a.api)
		if err != nil {
			return err
		}
		if refreshed == nil {
			fmt.Fprintln(a.out, "Not logged in.")
			return nil
		}
		user = refreshed
	}

	fmt.Fprintf(a.out, "User:          %s (%s)\n", user.Name, user.Email)
	fmt.Fprintf(a.out, "ID:            %d\n", user.ID)
	fmt.Fprintf(a.out, "Role:          %s\n", user.UserType)
	fmt.Fprintf(a.out, "Mode:          %s\n", a.store.Mode())
	fmt.Fprintf(a.out, "Authenticated: %t\n", a.store.IsAuthenticated())
	if exp, ok := a.store.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Token expires: %s\n", exp.Local().Format(time.RFC1123))
	}

	return nil
}
