package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
)

// NewCheckoutCmd creates the checkout command
func NewCheckoutCmd(d *Deps) *cobra.Command {
	var addressID int64
	var method string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in your cart and pay for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(cmd, d, addressID, method)
		},
	}

	cmd.Flags().Int64Var(&addressID, "address", 0, "Shipping address ID (see 'quitq addresses list')")
	cmd.Flags().StringVar(&method, "payment", models.PaymentCreditCard, "Payment method: CREDIT_CARD, DEBIT_CARD or UPI")

	return protect(d, guard.Authenticated(), cmd)
}

func runCheckout(cmd *cobra.Command, d *Deps, addressID int64, method string) error {
	ctx := cmd.Context()

	method, err := models.ParsePaymentMethod(method)
	if err != nil {
		return err
	}

	if addressID == 0 {
		addresses, err := d.Client.ListAddresses(ctx)
		if err != nil {
			return fmt.Errorf("failed to load shipping addresses: %w", err)
		}
		switch len(addresses) {
		case 0:
			return fmt.Errorf("no shipping address on file\nAdd one with: quitq addresses add")
		case 1:
			addressID = addresses[0].ID
		default:
			return fmt.Errorf("choose a shipping address with --address (see 'quitq addresses list')")
		}
	}

	items, err := d.Client.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("your cart is empty")
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}

	order, err := d.Client.PlaceOrder(ctx, addressID)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	fmt.Fprintf(d.out(), "✓ Order #%d placed\n", order.ID)

	if order.TotalAmount > 0 {
		total = order.TotalAmount
	}

	payment, err := d.Client.Pay(ctx, models.Payment{OrderID: order.ID, Amount: total, PaymentMethod: method})
	if err != nil {
		return fmt.Errorf("order #%d was placed but payment failed: %w", order.ID, err)
	}
	if payment.Status != models.PaymentSucceeded {
		return fmt.Errorf("order #%d was placed but payment failed: %s", order.ID, payment.Status)
	}

	fmt.Fprintf(d.out(), "✓ Paid %s by %s\n", money(total), method)
	fmt.Fprintf(d.out(), "\nTrack it with: quitq orders show %d\n", order.ID)
	return nil
}
