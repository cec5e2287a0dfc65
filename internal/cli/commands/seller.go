package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/paginate"
	"github.com/quitq-dev/quitq/internal/validate"
)

// NewSellerCmd creates the seller command group. Every subcommand requires a SELLER account.
func NewSellerCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seller",
		Short: "Run your shop (sellers only)",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dashboard",
			Short: "Show your sales totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSellerDashboard(cmd, d)
			},
		},
		newSellerProductsCmd(d),
		newOrderManagementCmd(d, "Orders containing your products", (*client.Client).SellerOrders, (*client.Client).SellerUpdateOrderStatus),
		newSellerProfileCmd(d),
	)

	return protect(d, guard.Role(models.RoleSeller), cmd)
}

func runSellerDashboard(cmd *cobra.Command, d *Deps) error {
	stats, err := d.Client.SellerDashboard(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	fmt.Fprintln(d.out(), "Seller dashboard")
	fmt.Fprintln(d.out())
	fmt.Fprintf(d.out(), "  Products: %d\n", stats.TotalProducts)
	fmt.Fprintf(d.out(), "  Orders:   %d\n", stats.TotalOrders)
	fmt.Fprintf(d.out(), "  Revenue:  %s\n", money(stats.TotalRevenue))
	fmt.Fprintln(d.out(), "\nManage products with: quitq seller products list")
	return nil
}

func newSellerProductsCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage your products",
	}

	var pages pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List your products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := d.Client.SellerProducts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load products: %w", err)
			}
			printProducts(d, paginate.Page(products, pages.page, pages.size))
			return nil
		},
	}
	pages.register(list)

	var addForm validate.ProductForm
	add := &cobra.Command{
		Use:   "add",
		Short: "List a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := d.Validator.Struct(addForm); err != nil {
				return err
			}
			created, err := d.Client.AddProduct(cmd.Context(), productFromForm(addForm))
			if err != nil {
				return fmt.Errorf("failed to add product: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Product #%d added\n", created.ID)
			return nil
		},
	}
	registerProductFlags(add, &addForm)

	var updateForm validate.ProductForm
	update := &cobra.Command{
		Use:   "update <product-id>",
		Short: "Edit a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			if err := d.Validator.Struct(updateForm); err != nil {
				return err
			}
			product := productFromForm(updateForm)
			product.ID = id
			if _, err := d.Client.UpdateProduct(cmd.Context(), product); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Product #%d updated\n", id)
			return nil
		},
	}
	registerProductFlags(update, &updateForm)

	cmd.AddCommand(list, add, update, &cobra.Command{
		Use:     "delete <product-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "product")
			if err != nil {
				return err
			}
			ok, err := d.Prompt.Confirm(fmt.Sprintf("Delete product #%d", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(d.out(), "Cancelled.")
				return nil
			}
			if err := d.Client.DeleteProduct(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
			fmt.Fprintf(d.out(), "✓ Product #%d deleted\n", id)
			return nil
		},
	})

	return cmd
}

func registerProductFlags(cmd *cobra.Command, f *validate.ProductForm) {
	cmd.Flags().StringVar(&f.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.Description, "description", "", "Description")
	cmd.Flags().Float64Var(&f.Price, "price", 0, "Unit price")
	cmd.Flags().IntVar(&f.Quantity, "quantity", 0, "Units in stock")
	cmd.Flags().Int64Var(&f.CategoryID, "category", 0, "Category ID")
	cmd.Flags().StringVar(&f.ImageURL, "image-url", "", "Image URL")
}

func productFromForm(f validate.ProductForm) models.Product {
	return models.Product{
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Quantity:    f.Quantity,
		ImageURL:    f.ImageURL,
		Category:    &models.Category{ID: f.CategoryID},
	}
}

func newSellerProfileCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your business profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := d.Client.SellerProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load business profile: %w", err)
			}
			printProfile(d, profile)
			return nil
		},
	}

	var form validate.SellerProfileForm
	update := &cobra.Command{
		Use:   "update",
		Short: "Update your business profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			profile, err := d.Client.SellerProfile(ctx)
			if err != nil {
				return fmt.Errorf("failed to load business profile: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("business-name") {
				profile.BusinessName = form.BusinessName
			}
			if flags.Changed("tax-id") {
				profile.TaxID = form.TaxID
			}
			if flags.Changed("business-address") {
				profile.BusinessAddress = form.BusinessAddress
			}
			if flags.Changed("contact") {
				profile.ContactNumber = form.ContactNumber
			}

			if err := d.Validator.Struct(validate.SellerProfileForm{
				BusinessName:    profile.BusinessName,
				TaxID:           profile.TaxID,
				BusinessAddress: profile.BusinessAddress,
				ContactNumber:   profile.ContactNumber,
			}); err != nil {
				return err
			}

			updated, err := d.Client.UpdateSellerProfile(ctx, *profile)
			if err != nil {
				return fmt.Errorf("failed to update business profile: %w", err)
			}
			fmt.Fprintln(d.out(), "✓ Business profile updated")
			printProfile(d, updated)
			return nil
		},
	}
	update.Flags().StringVar(&form.BusinessName, "business-name", "", "Business name")
	update.Flags().StringVar(&form.TaxID, "tax-id", "", "Tax ID")
	update.Flags().StringVar(&form.BusinessAddress, "business-address", "", "Business address")
	update.Flags().StringVar(&form.ContactNumber, "contact", "", "10-digit contact number")

	cmd.AddCommand(update)
	return cmd
}
