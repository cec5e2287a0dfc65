package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/session"
)

// NewHomeCmd creates the home command
func NewHomeCmd(d *Deps) *cobra.Command {
	return protect(d, guard.Authenticated(), &cobra.Command{
		Use:   "home",
		Short: "Show the home view for your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderHome(cmd, d, d.Session.State())
		},
	})
}

// renderHome shows the signed-in account's home view. The route guard also
// falls back to it when a role opens a view it may not see.
func renderHome(cmd *cobra.Command, d *Deps, st session.State) error {
	identity := st.Identity
	fmt.Fprintf(d.out(), "Welcome back, %s!\n\n", identity.Name)

	switch identity.Role {
	case models.RoleAdmin:
		return runAdminDashboard(cmd, d)
	case models.RoleSeller:
		return runSellerDashboard(cmd, d)
	default:
		return runCategoriesList(cmd, d)
	}
}

// NewAboutCmd creates the about command
func NewAboutCmd(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "About QuitQ",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(d.out(), "QuitQ is an online marketplace for shoppers and sellers.")
			fmt.Fprintln(d.out(), "\nShoppers browse categories, fill a cart and check out.")
			fmt.Fprintln(d.out(), "Sellers list products and fulfil orders. Admins run the platform.")
		},
	}
}
