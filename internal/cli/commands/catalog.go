package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/paginate"
)

type pageFlags struct {
	page int
	size int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&p.size, "size", paginate.DefaultSize, "Items per page")
}

func printPageFooter[T any](d *Deps, r paginate.Result[T]) {
	if r.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(d.out(), "\nPage %d of %d (%d total)", r.Page, r.TotalPages, r.Total)
	if r.HasNext() {
		fmt.Fprintf(d.out(), " - next: --page %d", r.Page+1)
	}
	fmt.Fprintln(d.out())
}

// NewCategoriesCmd creates the categories command group
func NewCategoriesCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse product categories",
	}

	var pages pageFlags
	var filter client.ProductFilter
	show := &cobra.Command{
		Use:   "show <category-id>",
		Short: "List the products of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			filter.CategoryID = id
			return runProductsFilter(cmd, d, filter, pages)
		},
	}
	pages.register(show)
	show.Flags().StringVar(&filter.Name, "search", "", "Only products whose name contains this text")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all categories",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesList(cmd, d)
			},
		},
		show,
	)

	return protect(d, guard.Authenticated(), cmd)
}

func runCategoriesList(cmd *cobra.Command, d *Deps) error {
	categories, err := d.Client.ListCategories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	if len(categories) == 0 {
		fmt.Fprintln(d.out(), "No categories found.")
		return nil
	}

	fmt.Fprintln(d.out(), "Categories:")
	fmt.Fprintln(d.out())

	w := d.table()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	fmt.Fprintln(w, "──\t────\t───────────")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	w.Flush()

	fmt.Fprintln(d.out(), "\nBrowse a category with: quitq categories show <id>")
	return nil
}

// NewProductsCmd creates the products command group
func NewProductsCmd(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var pages pageFlags
	var filter client.ProductFilter
	var minPrice float64
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-price") {
				filter.MinPrice = &minPrice
			}
			if filter == (client.ProductFilter{}) {
				return runProductsList(cmd, d, pages)
			}
			return runProductsFilter(cmd, d, filter, pages)
		},
	}
	pages.register(list)
	list.Flags().Int64Var(&filter.CategoryID, "category", 0, "Only products in this category")
	list.Flags().Float64Var(&minPrice, "min-price", 0, "Only products at or above this price")
	list.Flags().StringVar(&filter.Name, "search", "", "Only products whose name contains this text")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "show <product-id>",
			Short: "Show product details",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0], "product")
				if err != nil {
					return err
				}
				return runProductShow(cmd, d, id)
			},
		},
	)

	return protect(d, guard.Authenticated(), cmd)
}

func runProductsList(cmd *cobra.Command, d *Deps, pages pageFlags) error {
	products, err := d.Client.ListProducts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	printProducts(d, paginate.Page(products, pages.page, pages.size))
	return nil
}

func runProductsFilter(cmd *cobra.Command, d *Deps, filter client.ProductFilter, pages pageFlags) error {
	products, err := d.Client.FilterProducts(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	printProducts(d, paginate.Page(products, pages.page, pages.size))
	return nil
}

func printProducts(d *Deps, page paginate.Result[models.Product]) {
	if page.Total == 0 {
		fmt.Fprintln(d.out(), "No products found.")
		return
	}

	w := d.table()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	fmt.Fprintln(w, "──\t────\t─────\t─────\t────────")
	for _, p := range page.Items {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, money(p.Price), p.Quantity, category)
	}
	w.Flush()

	printPageFooter(d, page)
}

func runProductShow(cmd *cobra.Command, d *Deps, id int64) error {
	p, err := d.Client.GetProduct(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load product: %w", err)
	}

	fmt.Fprintf(d.out(), "%s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(d.out(), "%s\n\n", p.Description)
	}
	fmt.Fprintf(d.out(), "  Price:    %s\n", money(p.Price))
	fmt.Fprintf(d.out(), "  In stock: %d\n", p.Quantity)
	if p.Category != nil {
		fmt.Fprintf(d.out(), "  Category: %s\n", p.Category.Name)
	}
	if p.Quantity > 0 {
		fmt.Fprintf(d.out(), "\nAdd to cart with: quitq cart add %d\n", p.ID)
	} else {
		fmt.Fprintln(d.out(), "\nOut of stock.")
	}
	return nil
}
