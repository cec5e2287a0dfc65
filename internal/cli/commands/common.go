package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/cli/prompt"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

var (
	// ErrNotLoggedIn is returned by protected commands while signed out
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionLoading is returned if a protected command runs before the session is restored
	ErrSessionLoading = errors.New("session is still loading")
)

// Deps is what every command needs. The root command fills it in before any
// command runs; tests build it directly.
type Deps struct {
	Session   *session.Store
	Client    *client.Client
	Prompt    prompt.Prompter
	Validator *validate.Validator
	Out       io.Writer
	Log       zerolog.Logger
}

func (d *Deps) out() io.Writer {
	if d.Out == nil {
		return os.Stdout
	}
	return d.Out
}

func (d *Deps) table() *tabwriter.Writer {
	return tabwriter.NewWriter(d.out(), 0, 0, 2, ' ', 0)
}

// protect wraps the RunE of cmd and all of its subcommands with the route guard
func protect(d *Deps, req guard.Requirement, cmd *cobra.Command) *cobra.Command {
	if cmd.RunE != nil {
		cmd.RunE = guarded(d, req, cmd.RunE)
	}
	for _, sub := range cmd.Commands() {
		protect(d, req, sub)
	}
	return cmd
}

func guarded(d *Deps, req guard.Requirement, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st := d.Session.State()
		outcome := guard.Decide(st, req)

		d.Log.Debug().
			Str("command", cmd.CommandPath()).
			Str("outcome", outcome.String()).
			Msg("Route guard")

		switch outcome {
		case guard.Pending:
			return ErrSessionLoading
		case guard.RedirectLogin:
			fmt.Fprintln(d.out(), "You are not logged in.")
			fmt.Fprintln(d.out(), "\nLog in with: quitq login")
			return ErrNotLoggedIn
		case guard.RedirectHome:
			required, _ := req.RequiredRole()
			fmt.Fprintf(d.out(), "'%s' is only available to %s accounts.\n\n", cmd.CommandPath(), required)
			return renderHome(cmd, d, st)
		default:
			return run(cmd, args)
		}
	}
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id '%s'", what, arg)
	}
	return id, nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
