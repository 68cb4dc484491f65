package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/guard"
)

const maxRedirects = 4

// NewOpenCmd creates the open command
func NewOpenCmd(factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Open a marketplace view",
		Long: `Open a marketplace view.

Protected views ask you to sign in first and then continue to the view you
asked for. Unknown paths show the landing page.

Views:
  /                  Landing page
  /login             Sign in
  /dashboard         Farmer dashboard (signed in)
  /buyer-dashboard   Buyer dashboard (signed in)
  /admin-dashboard   Admin dashboard (advisors only)
  /crop-prediction   Crop prediction (signed in)
  /market            Market prices
  /contact           Contact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := guard.PathLanding
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				return a.follow(ctx, a.router.Navigate(path))
			})
		},
	}

	return cmd
}

// follow carries a navigation decision through to a rendered view
func (a *App) follow(ctx context.Context, d guard.Decision) error {
	for i := 0; i < maxRedirects; i++ {
		switch d.Action {
		case guard.ActionLoading:
			fmt.Fprintln(a.out, "Loading session...")
			return nil

		case guard.ActionRender:
			if d.View.Path == guard.PathLogin && a.store.CurrentUser() == nil && a.prompt.Interactive() {
				user, err := a.login(ctx, "", "", "", true)
				if err != nil {
					return err
				}
				d = a.router.CompleteLogin(user)
				continue
			}
			return a.render(ctx, d.View)

		case guard.ActionRedirect:
			if d.Target != guard.PathLogin {
				fmt.Fprintf(a.out, "Your account cannot view %s.\n\n", d.View.Title)
				return a.render(ctx, a.router.Routes().Lookup(d.Target))
			}

			fmt.Fprintf(a.out, "Sign in to view %s.\n", d.View.Title)
			if !a.prompt.Interactive() {
				return fmt.Errorf("%w: %s requires a session", ErrNotLoggedIn, d.From)
			}
			user, err := a.login(ctx, "", "", "", true)
			if err != nil {
				return err
			}
			d = a.router.CompleteLogin(user)
		}
	}

	return errors.New("too many redirects")
}
