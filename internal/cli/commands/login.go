package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

// NewLoginCmd creates the login command
func NewLoginCmd(d *Deps) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to QuitQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, d, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set QUITQ_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set QUITQ_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, d *Deps, email, password string) error {
	// Environment variables are useful for scripts
	if email == "" {
		email = os.Getenv("QUITQ_EMAIL")
	}
	if password == "" {
		password = os.Getenv("QUITQ_PASSWORD")
	}

	var err error
	if email == "" {
		email, err = d.Prompt.Input("Email", nil)
		if err != nil {
			return err
		}
	}
	if password == "" {
		password, err = d.Prompt.Password("Password")
		if err != nil {
			return err
		}
	}

	if err := d.Validator.Struct(validate.LoginForm{Email: email, Password: password}); err != nil {
		return err
	}

	fmt.Fprintf(d.out(), "Logging in to %s...\n", d.Client.BaseURL())

	ctx := cmd.Context()
	loginResp, err := d.Client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	identity := loginResp.User.Identity()
	if err := d.Session.Login(ctx, loginResp.Token, identity); err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			return fmt.Errorf("login failed: the server returned an unusable session: %w", err)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Fprintln(d.out(), "✓ Login successful!")
	fmt.Fprintf(d.out(), "  User: %s (%s)\n", identity.Name, identity.Email)
	fmt.Fprintf(d.out(), "  Role: %s\n", identity.Role)

	if landing, ok := guard.Lookup(guard.Landing(identity.Role)); ok {
		fmt.Fprintf(d.out(), "\nNext: %s\n", landing.Command)
	}

	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd, d)
		},
	}
}

func runLogout(cmd *cobra.Command, d *Deps) error {
	ctx := cmd.Context()

	if !d.Session.State().Authenticated() {
		// Still clear storage in case a stale entry survived
		if err := d.Session.Logout(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(d.out(), "Not logged in.")
		return nil
	}

	// Revoking on the server is best effort; the local session always ends
	if err := d.Client.Logout(ctx); err != nil {
		d.Log.Warn().Err(err).Msg("Server logout failed")
	}

	if err := d.Session.Logout(ctx); err != nil {
		return fmt.Errorf("logged out, but failed to clear saved session: %w", err)
	}

	fmt.Fprintln(d.out(), "✓ Logged out")
	return nil
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(d *Deps) *cobra.Command {
	return protect(d, guard.Authenticated(), &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := d.Session.State()
			identity := st.Identity

			// Older backends left the email out of the login response; the token still carries it
			email := identity.Email
			if email == "" {
				email, _ = session.CredentialSubject(st.Credential)
			}

			fmt.Fprintf(d.out(), "%s <%s>\n", identity.Name, email)
			fmt.Fprintf(d.out(), "  ID:   %d\n", identity.ID)
			fmt.Fprintf(d.out(), "  Role: %s\n", identity.Role)
			if expiresAt, ok := session.CredentialExpiry(st.Credential); ok {
				fmt.Fprintf(d.out(), "  Session expires: %s\n", expiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	})
}
