package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/paginate"
)

// NewOrdersCmd creates the orders command group
func NewOrdersCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Your order history",
	}

	var pages pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := d.Client.ListOrders(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load orders: %w", err)
			}
			printOrders(d, paginate.Page(orders, pages.page, pages.size))
			return nil
		},
	}
	pages.register(list)

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "show <order-id>",
			Short: "Show an order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "order")
				if err != nil {
					return err
				}
				order, err := d.Client.GetOrder(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("failed to load order: %w", err)
				}
				printOrder(d, order)
				return nil
			},
		},
	)

	return protect(d, guard.Authenticated(), cmd)
}

func printOrders(d *Deps, page paginate.Result[models.Order]) {
	if page.Total == 0 {
		fmt.Fprintln(d.out(), "No orders found.")
		return
	}

	w := d.table()
	fmt.Fprintln(w, "ID\tDATE\tSTATUS\tITEMS\tTOTAL")
	fmt.Fprintln(w, "──\t────\t──────\t─────\t─────")
	for _, o := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", o.ID, orderDate(o), o.Status, len(o.OrderItems), money(o.TotalAmount))
	}
	w.Flush()

	printPageFooter(d, page)
}

func printOrder(d *Deps, o *models.Order) {
	fmt.Fprintf(d.out(), "Order #%d\n\n", o.ID)
	fmt.Fprintf(d.out(), "  Date:   %s\n", orderDate(*o))
	fmt.Fprintf(d.out(), "  Status: %s\n", o.Status)
	fmt.Fprintf(d.out(), "  Total:  %s\n", money(o.TotalAmount))

	if len(o.OrderItems) == 0 {
		return
	}
	fmt.Fprintln(d.out())

	w := d.table()
	fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE")
	for _, item := range o.OrderItems {
		fmt.Fprintf(w, "%d\t%d\t%s\n", item.ProductID, item.Quantity, money(item.Price))
	}
	w.Flush()
}

func orderDate(o models.Order) string {
	if o.OrderDate == nil {
		return "-"
	}
	return o.OrderDate.Format("2006-01-02 15:04")
}
