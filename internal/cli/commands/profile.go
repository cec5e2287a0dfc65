package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/validate"
)

// NewProfileCmd creates the profile command. Without a subcommand it shows the profile.
func NewProfileCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := d.Client.GetUser(cmd.Context(), d.Session.State().Identity.ID)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			printProfile(d, user)
			return nil
		},
	}

	var name, contact, gender, address string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := d.Client.GetUser(ctx, d.Session.State().Identity.ID)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				user.Name = name
			}
			if flags.Changed("contact") {
				user.ContactNumber = contact
			}
			if flags.Changed("gender") {
				user.Gender = strings.ToUpper(strings.TrimSpace(gender))
			}
			if flags.Changed("address") {
				user.Address = address
			}

			if err := d.Validator.Struct(validate.ProfileForm{
				Name:          user.Name,
				ContactNumber: user.ContactNumber,
				Gender:        user.Gender,
			}); err != nil {
				return err
			}

			updated, err := d.Client.UpdateUser(ctx, *user)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
			fmt.Fprintln(d.out(), "✓ Profile updated")
			printProfile(d, updated)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "Full name")
	update.Flags().StringVar(&contact, "contact", "", "10-digit contact number")
	update.Flags().StringVar(&gender, "gender", "", "MALE, FEMALE or OTHER")
	update.Flags().StringVar(&address, "address", "", "Postal address")

	cmd.AddCommand(update)

	return protect(d, guard.Authenticated(), cmd)
}

func printProfile(d *Deps, u *models.User) {
	fmt.Fprintf(d.out(), "%s <%s>\n\n", u.Name, u.Email)
	fmt.Fprintf(d.out(), "  Role:    %s\n", u.Role)
	if u.ContactNumber != "" {
		fmt.Fprintf(d.out(), "  Contact: %s\n", u.ContactNumber)
	}
	if u.Gender != "" {
		fmt.Fprintf(d.out(), "  Gender:  %s\n", u.Gender)
	}
	if u.Address != "" {
		fmt.Fprintf(d.out(), "  Address: %s\n", u.Address)
	}
	if u.Role == models.RoleSeller {
		fmt.Fprintf(d.out(), "  Business: %s\n", u.BusinessName)
		if u.TaxID != "" {
			fmt.Fprintf(d.out(), "  Tax ID:   %s\n", u.TaxID)
		}
		if u.BusinessAddress != "" {
			fmt.Fprintf(d.out(), "  Business address: %s\n", u.BusinessAddress)
		}
	}
}
