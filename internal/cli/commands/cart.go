package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
)

// NewCartCmd creates the cart command group. Without a subcommand it shows the cart.
func NewCartCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit your cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, d)
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}
			if err := d.Client.AddToCart(cmd.Context(), productID, quantity); err != nil {
				return fmt.Errorf("failed to add to cart: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Added %d × product %d to your cart\n", quantity, productID)
			return nil
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "Quantity to add")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "update <product-id> <quantity>",
			Short: "Change the quantity of a product in the cart",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := parseID(args[0], "product")
				if err != nil {
					return err
				}
				qty, err := strconv.Atoi(args[1])
				if err != nil || qty < 1 {
					return fmt.Errorf("invalid quantity '%s'", args[1])
				}
				if err := d.Client.UpdateCartQuantity(cmd.Context(), productID, qty); err != nil {
					return fmt.Errorf("failed to update cart: %w", err)
				}
				fmt.Fprintf(d.out(), "✓ Quantity of product %d set to %d\n", productID, qty)
				return nil
			},
		},
		&cobra.Command{
			Use:     "remove <cart-item-id>",
			Aliases: []string{"rm"},
			Short:   "Remove an item from the cart",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				itemID, err := parseID(args[0], "cart item")
				if err != nil {
					return err
				}
				if err := d.Client.RemoveFromCart(cmd.Context(), itemID); err != nil {
					return fmt.Errorf("failed to remove item: %w", err)
				}
				fmt.Fprintln(d.out(), "✓ Item removed")
				return nil
			},
		},
	)

	return protect(d, guard.Authenticated(), cmd)
}

func runCartShow(cmd *cobra.Command, d *Deps) error {
	items, err := d.Client.GetCart(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	if len(items) == 0 {
		fmt.Fprintln(d.out(), "Your cart is empty.")
		fmt.Fprintln(d.out(), "\nBrowse products with: quitq products list")
		return nil
	}

	var total float64
	w := d.table()
	fmt.Fprintln(w, "ITEM\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	fmt.Fprintln(w, "────\t───────\t─────\t───\t────────")
	for _, item := range items {
		name, price := "(unavailable)", 0.0
		if item.Product != nil {
			name, price = item.Product.Name, item.Product.Price
		}
		subtotal := item.Subtotal()
		total += subtotal
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", item.ID, name, money(price), item.Quantity, money(subtotal))
	}
	w.Flush()

	fmt.Fprintf(d.out(), "\nTotal: %s\n", money(total))
	fmt.Fprintln(d.out(), "Check out with: quitq checkout --address <id>")
	return nil
}
