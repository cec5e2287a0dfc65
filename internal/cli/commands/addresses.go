package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/validate"
)

// NewAddressesCmd creates the addresses command group
func NewAddressesCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "Manage your shipping addresses",
	}

	var form validate.AddressForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a shipping address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.Validator.Struct(form); err != nil {
				return err
			}
			created, err := d.Client.AddAddress(cmd.Context(), models.ShippingAddress{
				AddressLine1: form.AddressLine1,
				AddressLine2: form.AddressLine2,
				City:         form.City,
				State:        form.State,
				PostalCode:   form.PostalCode,
				Country:      form.Country,
			})
			if err != nil {
				return fmt.Errorf("failed to add address: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Address #%d saved\n", created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&form.AddressLine1, "line1", "", "Street address")
	add.Flags().StringVar(&form.AddressLine2, "line2", "", "Apartment, suite, etc.")
	add.Flags().StringVar(&form.City, "city", "", "City")
	add.Flags().StringVar(&form.State, "state", "", "State")
	add.Flags().StringVar(&form.PostalCode, "postal-code", "", "Postal code")
	add.Flags().StringVar(&form.Country, "country", "", "Country")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your shipping addresses",
			RunE: func(cmd *cobra.Command, args []string) error {
				addresses, err := d.Client.ListAddresses(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load shipping addresses: %w", err)
				}
				if len(addresses) == 0 {
					fmt.Fprintln(d.out(), "No shipping addresses found.")
					fmt.Fprintln(d.out(), "\nAdd one with: quitq addresses add")
					return nil
				}

				w := d.table()
				fmt.Fprintln(w, "ID\tADDRESS\tCITY\tSTATE\tPOSTAL CODE\tCOUNTRY")
				fmt.Fprintln(w, "──\t───────\t────\t─────\t───────────\t───────")
				for _, a := range addresses {
					line := a.AddressLine1
					if a.AddressLine2 != "" {
						line += ", " + a.AddressLine2
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, line, a.City, a.State, a.PostalCode, a.Country)
				}
				w.Flush()
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:     "delete <address-id>",
			Aliases: []string{"rm"},
			Short:   "Delete a shipping address",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "address")
				if err != nil {
					return err
				}
				if err := d.Client.DeleteAddress(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete address: %w", err)
				}
				fmt.Fprintln(d.out(), "✓ Address deleted")
				return nil
			},
		},
	)

	return protect(d, guard.Authenticated(), cmd)
}
