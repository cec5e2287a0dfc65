package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/paginate"
)

// NewAdminCmd creates the admin command group. Every subcommand requires an ADMIN account.
func NewAdminCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the marketplace (admins only)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Show platform totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAdminDashboard(cmd, d)
			},
		},
		newAdminUsersCmd(d),
		newAdminCategoriesCmd(d),
		newOrderManagementCmd(d, "All orders", (*client.Client).AdminOrders, (*client.Client).AdminUpdateOrderStatus),
	)

	return protect(d, guard.Role(models.RoleAdmin), cmd)
}

func runAdminDashboard(cmd *cobra.Command, d *Deps) error {
	stats, err := d.Client.AdminDashboard(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	fmt.Fprintln(d.out(), "Admin dashboard")
	fmt.Fprintln(d.out())
	fmt.Fprintf(d.out(), "  Users:    %d\n", stats.TotalUsers)
	fmt.Fprintf(d.out(), "  Products: %d\n", stats.TotalProducts)
	fmt.Fprintf(d.out(), "  Orders:   %d\n", stats.TotalOrders)
	fmt.Fprintf(d.out(), "  Revenue:  %s\n", money(stats.TotalRevenue))
	return nil
}

func newAdminUsersCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	var pages pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := d.Client.AdminUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load users: %w", err)
			}
			page := paginate.Page(users, pages.page, pages.size)
			if page.Total == 0 {
				fmt.Fprintln(d.out(), "No users found.")
				return nil
			}

			w := d.table()
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			fmt.Fprintln(w, "──\t────\t─────\t────")
			for _, u := range page.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
			}
			w.Flush()
			printPageFooter(d, page)
			return nil
		},
	}
	pages.register(list)

	cmd.AddCommand(list, &cobra.Command{
		Use:     "delete <user-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			if self := d.Session.State().Identity; self != nil && self.ID == id {
				return fmt.Errorf("you cannot delete your own account")
			}
			ok, err := d.Prompt.Confirm(fmt.Sprintf("Delete user #%d", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(d.out(), "Cancelled.")
				return nil
			}
			if err := d.Client.AdminDeleteUser(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ User #%d deleted\n", id)
			return nil
		},
	})

	return cmd
}

func newAdminCategoriesCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage product categories",
	}

	var description string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := d.Client.CreateCategory(cmd.Context(), models.Category{Name: args[0], Description: description})
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Category #%d '%s' added\n", created.ID, created.Name)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "Category description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesList(cmd, d)
			},
		},
		add,
		&cobra.Command{
			Use:     "delete <category-id>",
			Aliases: []string{"rm"},
			Short:   "Delete a category",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "category")
				if err != nil {
					return err
				}
				if err := d.Client.DeleteCategory(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to delete category: %w", err)
				}
				fmt.Fprintf(d.out(), "✓ Category #%d deleted\n", id)
				return nil
			},
		},
	)

	return cmd
}

type listOrdersFunc func(c *client.Client, ctx context.Context) ([]models.Order, error)
type updateStatusFunc func(c *client.Client, ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error)

// newOrderManagementCmd builds the orders group shared by sellers and admins.
// The endpoints are method expressions because d.Client is set after construction.
func newOrderManagementCmd(d *Deps, title string, list listOrdersFunc, update updateStatusFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}

	var pages pageFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := list(d.Client, cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load orders: %w", err)
			}
			fmt.Fprintf(d.out(), "%s:\n\n", title)
			printOrders(d, paginate.Page(orders, pages.page, pages.size))
			return nil
		},
	}
	pages.register(listCmd)

	cmd.AddCommand(listCmd, &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to PENDING, PROCESSING, SHIPPED, DELIVERED, PAID or CANCELLED",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			status, err := models.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			if _, err := update(d.Client, cmd.Context(), id, status); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Order #%d is now %s\n", id, status)
			return nil
		},
	})

	return cmd
}
