package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/validate"
)

type registerOptions struct {
	form validate.RegistrationForm
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(d *Deps) *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a shopper or seller account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, d, opts)
		},
	}

	f := &opts.form
	cmd.Flags().StringVar(&f.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&f.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&f.Role, "role", "", "Account type: USER or SELLER (will prompt if not provided)")
	cmd.Flags().StringVar(&f.ContactNumber, "contact", "", "10-digit contact number")
	cmd.Flags().StringVar(&f.Gender, "gender", "", "MALE, FEMALE or OTHER")
	cmd.Flags().StringVar(&f.Address, "address", "", "Postal address")
	cmd.Flags().StringVar(&f.BusinessName, "business-name", "", "Business name (sellers)")
	cmd.Flags().StringVar(&f.TaxID, "tax-id", "", "Tax ID (sellers)")
	cmd.Flags().StringVar(&f.BusinessAddress, "business-address", "", "Business address (sellers)")

	return cmd
}

func runRegister(cmd *cobra.Command, d *Deps, opts registerOptions) error {
	form := opts.form
	var err error

	if form.Name == "" {
		if form.Name, err = d.Prompt.Input("Name", nil); err != nil {
			return err
		}
	}
	if form.Email == "" {
		if form.Email, err = d.Prompt.Input("Email", nil); err != nil {
			return err
		}
	}
	if form.Password == "" {
		if form.Password, err = d.Prompt.Password("Password"); err != nil {
			return err
		}
	}
	if form.Role == "" {
		role, err := d.Prompt.SelectRole()
		if err != nil {
			return err
		}
		form.Role = role.String()
	}

	form.Role = strings.ToUpper(strings.TrimSpace(form.Role))
	form.Gender = strings.ToUpper(strings.TrimSpace(form.Gender))
	if form.Role == models.RoleAdmin.String() {
		return errors.New("admin registration is not allowed")
	}

	if err := d.Validator.Struct(form); err != nil {
		return err
	}

	user := models.User{
		Name:            strings.TrimSpace(form.Name),
		Email:           strings.TrimSpace(form.Email),
		Password:        form.Password,
		Role:            models.Role(form.Role),
		ContactNumber:   form.ContactNumber,
		Gender:          form.Gender,
		Address:         form.Address,
		BusinessName:    form.BusinessName,
		TaxID:           form.TaxID,
		BusinessAddress: form.BusinessAddress,
	}

	msg, err := d.Client.Register(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if msg = strings.TrimSpace(msg); msg == "" {
		msg = "Registered Successfully"
	}
	fmt.Fprintf(d.out(), "✓ %s\n", msg)
	fmt.Fprintln(d.out(), "\nLog in with: quitq login --email", user.Email)
	return nil
}
