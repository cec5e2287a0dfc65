package guard

import "github.com/quitq-dev/quitq/internal/models"

// Route is a view of the storefront and its CLI equivalent
type Route struct {
	Path        string
	Title       string
	Command     string
	Public      bool
	Requirement Requirement
}

// Routes lists every view. Public views are reachable while signed out.
var Routes = []Route{
	{Path: LoginPath, Title: "Login", Command: "quitq login", Public: true},
	{Path: "/register", Title: "Register", Command: "quitq register", Public: true},
	{Path: "/about", Title: "About", Command: "quitq about", Public: true},

	{Path: HomePath, Title: "Home", Command: "quitq home", Requirement: Authenticated()},
	{Path: "/home", Title: "Home", Command: "quitq home", Requirement: Authenticated()},
	{Path: "/profile", Title: "Profile", Command: "quitq profile", Requirement: Authenticated()},
	{Path: "/categories", Title: "Categories", Command: "quitq categories list", Requirement: Authenticated()},
	{Path: "/categories/:id", Title: "Category", Command: "quitq categories show", Requirement: Authenticated()},
	{Path: "/products", Title: "Products", Command: "quitq products list", Requirement: Authenticated()},
	{Path: "/products/:id", Title: "Product", Command: "quitq products show", Requirement: Authenticated()},
	{Path: "/cart", Title: "Cart", Command: "quitq cart", Requirement: Authenticated()},
	{Path: "/orders", Title: "Orders", Command: "quitq orders list", Requirement: Authenticated()},
	{Path: "/checkout", Title: "Checkout", Command: "quitq checkout", Requirement: Authenticated()},

	{Path: "/seller/dashboard", Title: "Seller Dashboard", Command: "quitq seller dashboard", Requirement: Role(models.RoleSeller)},
	{Path: "/seller/products", Title: "Manage Products", Command: "quitq seller products list", Requirement: Role(models.RoleSeller)},
	{Path: "/seller/profile", Title: "Business Profile", Command: "quitq seller profile", Requirement: Role(models.RoleSeller)},

	{Path: "/admin/dashboard", Title: "Admin Dashboard", Command: "quitq admin dashboard", Requirement: Role(models.RoleAdmin)},
	{Path: "/admin/categories", Title: "Category Management", Command: "quitq admin categories list", Requirement: Role(models.RoleAdmin)},
	{Path: "/admin/orders", Title: "Order Management", Command: "quitq admin orders list", Requirement: Role(models.RoleAdmin)},
}

// Lookup returns the route registered for path
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
