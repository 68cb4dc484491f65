package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/session"
)

type registerInput struct {
	name     string
	email    string
	password string
	role     string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(factory AppFactory) *cobra.Command {
	var in registerInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a marketplace account",
		Long: `Create a marketplace account.

Registering does not sign you in. When the marketplace API cannot be
reached the account is remembered locally, and a later demo login with the
same email returns it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, factory, func(ctx context.Context, a *App) error {
				return runRegister(ctx, a, in)
			})
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&in.role, "role", "", "Account type: FARMER, BUYER or ADVISOR (default FARMER)")

	return cmd
}

func runRegister(ctx context.Context, a *App, in registerInput) error {
	userType, err := session.ParseUserType(in.role)
	if err != nil {
		return err
	}

	if a.prompt.Interactive() {
		if in.name == "" {
			if in.name, err = a.prompt.Input("Full name", ""); err != nil {
				return err
			}
		}
		if in.email == "" {
			if in.email, err = a.prompt.Input("Email", ""); err != nil {
				return err
			}
		}
		if in.password == "" {
			if in.password, err = a.prompt.Password("Password"); err != nil {
				return err
			}
		}
		if userType == "" {
			if userType, err = a.prompt.SelectUserType("Account type", session.UserTypeFarmer); err != nil {
				return err
			}
		}
	}

	result, err := a.store.Register(ctx, session.RegisterRequest{
		Name:     in.name,
		Email:    in.email,
		Password: in.password,
		UserType: userType,
	})
	if err != nil {
		return err
	}

	switch {
	case result.Message != "":
		fmt.Fprintf(a.out, "✓ %s\n", result.Message)
	case len(result.Raw) > 0:
		fmt.Fprintf(a.out, "✓ Registered: %s\n", string(result.Raw))
	default:
		fmt.Fprintln(a.out, "✓ Registered")
	}
	if result.Mode == session.ModeDemo {
		fmt.Fprintln(a.out, "  The marketplace API is unavailable; the account was saved for demo logins.")
	}
	fmt.Fprintln(a.out, "\nSign in with: agrimarket login")

	return nil
}
