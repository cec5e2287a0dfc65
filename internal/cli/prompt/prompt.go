// Package prompt asks the user for input on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/quitq-dev/quitq/internal/models"
)

// ErrNonInteractive is returned when input is needed but stdin is not a terminal
var ErrNonInteractive = errors.New("input required in non-interactive mode")

// Prompter collects interactive input. Commands take it as a dependency so
// tests can answer without a terminal.
type Prompter interface {
	Input(label string, validate func(string) error) (string, error)
	Password(label string) (string, error)
	SelectRole() (models.Role, error)
	Confirm(label string) (bool, error)
}

// Terminal prompts on the process's stdin/stdout
type Terminal struct{}

func (Terminal) interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Input reads a line, re-asking until validate accepts it
func (t Terminal) Input(label string, validate func(string) error) (string, error) {
	if !t.interactive() {
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, strings.ToLower(label))
	}

	p := promptui.Prompt{
		Label:    label,
		Validate: promptui.ValidateFunc(validate),
	}
	value, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Password reads a line without echoing it
func (t Terminal) Password(label string) (string, error) {
	if !t.interactive() {
		return "", fmt.Errorf("%w: password (use --password or QUITQ_PASSWORD)", ErrNonInteractive)
	}

	fmt.Printf("%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// roleOption is a selectable account type. Only shoppers and sellers can sign up.
type roleOption struct {
	Label string
	Role  models.Role
}

var registrationRoles = []roleOption{
	{Label: "Shopper", Role: models.RoleUser},
	{Label: "Seller", Role: models.RoleSeller},
}

// SelectRole shows an interactive list of the roles open to registration
func (t Terminal) SelectRole() (models.Role, error) {
	if !t.interactive() {
		return "", fmt.Errorf("%w: role (use --role)", ErrNonInteractive)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }} ({{ .Role }})",
		Inactive: "  {{ .Label }} ({{ .Role }})",
		Selected: "{{ .Label | green }}",
	}

	sel := promptui.Select{
		Label:     "Account type",
		Items:     registrationRoles,
		Templates: templates,
		Size:      len(registrationRoles),
	}

	index, _, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("role selection cancelled: %w", err)
	}
	return registrationRoles[index].Role, nil
}

// Confirm asks a yes/no question. Non-interactive sessions answer no.
func (t Terminal) Confirm(label string) (bool, error) {
	if !t.interactive() {
		return false, nil
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}
