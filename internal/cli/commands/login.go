package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/userconfig"
	"github.com/agrimarket/agrimarket/internal/session"
)

type loginInput struct {
	email    string
	password string
	role     string
	noOpen   bool
}

// NewLoginCmd creates the login command
func NewLoginCmd(factory AppFactory) *cobra.Command {
	var in loginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the AgriMarket marketplace",
		Long: `Sign in to the AgriMarket marketplace.

When the marketplace API cannot be reached, a demo session is created
locally instead. Demo sessions have no token, so marketplace data that
needs authentication stays unavailable until you log in again online.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				return runLogin(ctx, a, in)
			})
		},
	}

	cmd.Flags().StringVar(&in.email, "email", "", "Email address (or set AGRIMARKET_EMAIL)")
	cmd.Flags().StringVar(&in.password, "password", "", "Password (or set AGRIMARKET_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&in.role, "role", "", "Role hint for demo sessions: FARMER, BUYER or ADVISOR")
	cmd.Flags().BoolVar(&in.noOpen, "no-open", false, "Do not show the dashboard after signing in")

	return cmd
}

func runLogin(ctx context.Context, a *App, in loginInput) error {
	// Check for environment variables (useful for CI/CD)
	if in.email == "" {
		in.email = os.Getenv("AGRIMARKET_EMAIL")
	}
	if in.password == "" {
		in.password = os.Getenv("AGRIMARKET_PASSWORD")
	}

	hint, err := session.ParseUserType(in.role)
	if err != nil {
		return err
	}

	user, err := a.login(ctx, in.email, in.password, hint, in.role == "")
	if err != nil {
		return err
	}

	if in.noOpen {
		return nil
	}
	return a.follow(ctx, a.router.CompleteLogin(user))
}

// login fills in missing credentials from prompts when possible, signs in
// and reports the result. askRole offers the role selection for demo
// sessions when no hint was given.
func (a *App) login(ctx context.Context, email, password string, hint session.UserType, askRole bool) (*session.User, error) {
	prefs, err := userconfig.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("Ignoring unreadable user preferences")
		prefs = &userconfig.UserConfig{}
	}

	if a.prompt.Interactive() {
		if email == "" {
			if email, err = a.prompt.Input("Email", prefs.LastEmail); err != nil {
				return nil, err
			}
		}
		if password == "" {
			if password, err = a.prompt.Password("Password"); err != nil {
				return nil, err
			}
		}
	}

	if hint == "" && prefs.PreferredUserType != "" {
		hint, _ = session.ParseUserType(prefs.PreferredUserType)
	}
	if askRole && a.cfg.Offline && a.prompt.Interactive() {
		if hint, err = a.prompt.SelectUserType("Sign in as", hint); err != nil {
			return nil, err
		}
	}

	if a.cfg.Offline {
		fmt.Fprintln(a.out, "Signing in offline...")
	} else {
		fmt.Fprintf(a.out, "Signing in to %s...\n", a.api.BaseURL())
	}

	user, err := a.store.Login(ctx, email, password, hint)
	if err != nil {
		return nil, err
	}

	if err := userconfig.RememberLogin(user.Email, string(hint)); err != nil {
		a.log.Warn().Err(err).Msg("Failed to save user preferences")
	}

	fmt.Fprintln(a.out, "✓ Login successful!")
	fmt.Fprintf(a.out, "  User: %s (%s)\n", user.Name, user.Email)
	fmt.Fprintf(a.out, "  Role: %s\n", user.UserType)
	if a.store.Mode() == session.ModeDemo {
		fmt.Fprintln(a.out, "  Mode: demo (marketplace API unavailable, no token issued)")
	}

	return user, nil
}
