package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/models"
	"github.com/quitq-dev/quitq/internal/paginate"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

var errNotFound = errors.New("not found")

// badRequest is a form post the storefront refuses before calling the backend
type badRequest string

func (b badRequest) Error() string { return string(b) }

var templateFuncs = template.FuncMap{
	"fieldError": func(errs validate.Errors, field string) string {
		for _, fe := range errs {
			if fe.Field == field {
				return fe.Message
			}
		}
		return ""
	},
}

// cell is one table cell. Post renders the link as a form button.
type cell struct {
	Text string
	Href string
	Post bool
}

type fact struct {
	Label string
	Value string
}

type section struct {
	Heading string
	Facts   []fact
	Headers []string
	Rows    [][]cell
	Empty   string
}

type pager struct {
	Page       int
	TotalPages int
	Total      int
	PrevHref   string
	NextHref   string
}

type checkoutForm struct {
	Addresses []models.ShippingAddress
	Methods   []string
	Total     string
}

// pageView is what page.html renders
type pageView struct {
	Title     string
	Identity  *models.Identity
	Nav       []guard.Route
	Notice    string
	Error     string
	Sections  []section
	Pager     *pager
	AddToCart int64
	Checkout  *checkoutForm
}

type loader func(c *gin.Context, v *pageView) error

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func text(s string) cell {
	return cell{Text: s}
}

func link(s, href string) cell {
	return cell{Text: s, Href: href}
}

// navFor lists the views the signed-in role may open
func navFor(st session.State) []guard.Route {
	var nav []guard.Route
	for _, r := range guard.Routes {
		if r.Public || r.Path == guard.HomePath || strings.Contains(r.Path, ":") {
			continue
		}
		if guard.Decide(st, r.Requirement) == guard.Authorized {
			nav = append(nav, r)
		}
	}
	return nav
}

// page renders a protected view. The guard middleware has already run.
func (s *Server) page(route guard.Route) gin.HandlerFunc {
	load := s.loaderFor(route.Path)
	if load == nil {
		panic(fmt.Sprintf("server: no page for route %s", route.Path))
	}

	return func(c *gin.Context) {
		st, _ := GetState(c)
		view := &pageView{Title: route.Title, Identity: st.Identity, Nav: navFor(st)}

		if err := load(c, view); err != nil {
			s.renderError(c, view, err)
			return
		}
		c.HTML(http.StatusOK, "page.html", view)
	}
}

func (s *Server) renderError(c *gin.Context, view *pageView, err error) {
	status := http.StatusBadGateway
	var apiErr *client.APIError
	var invalid badRequest
	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
	case errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		status = http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		status = http.StatusBadRequest
	}

	s.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("Page failed")

	view.Error = errorMessage(err)
	view.Sections = nil
	view.Pager = nil
	view.AddToCart = 0
	view.Checkout = nil
	c.HTML(status, "page.html", view)
}

func (s *Server) loaderFor(path string) loader {
	switch path {
	case guard.HomePath, "/home":
		return s.homePage
	case "/profile":
		return s.profilePage
	case "/categories":
		return s.categoriesPage
	case "/categories/:id":
		return s.categoryPage
	case "/products":
		return s.productsPage
	case "/products/:id":
		return s.productPage
	case "/cart":
		return s.cartPage
	case "/orders":
		return s.ordersPage
	case "/checkout":
		return s.checkoutPage
	case "/seller/dashboard":
		return s.sellerDashboardPage
	case "/seller/products":
		return s.sellerProductsPage
	case "/seller/profile":
		return s.sellerProfilePage
	case "/admin/dashboard":
		return s.adminDashboardPage
	case "/admin/categories":
		return s.categoriesPage
	case "/admin/orders":
		return s.adminOrdersPage
	default:
		return nil
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errNotFound, c.Param("id"))
	}
	return id, nil
}

// pageOf slices a listing by the page and size query parameters
func pageOf[T any](c *gin.Context, v *pageView, items []T) []T {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	r := paginate.Page(items, page, size)

	if r.TotalPages > 1 {
		p := &pager{Page: r.Page, TotalPages: r.TotalPages, Total: r.Total}
		if r.HasPrev() {
			p.PrevHref = pageHref(c, r.Page-1)
		}
		if r.HasNext() {
			p.NextHref = pageHref(c, r.Page+1)
		}
		v.Pager = p
	}
	return r.Items
}

func pageHref(c *gin.Context, page int) string {
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	return c.Request.URL.Path + "?" + q.Encode()
}

func (s *Server) homePage(c *gin.Context, v *pageView) error {
	v.Notice = fmt.Sprintf("Welcome back, %s!", v.Identity.Name)

	switch v.Identity.Role {
	case models.RoleAdmin:
		return s.adminDashboardPage(c, v)
	case models.RoleSeller:
		return s.sellerDashboardPage(c, v)
	default:
		return s.categoriesPage(c, v)
	}
}

func (s *Server) profilePage(c *gin.Context, v *pageView) error {
	user, err := s.client.GetUser(c.Request.Context(), v.Identity.ID)
	if err != nil {
		return err
	}

	v.Sections = append(v.Sections, section{
		Heading: user.Name,
		Facts: []fact{
			{"Email", user.Email},
			{"Role", user.Role.String()},
			{"Contact", user.ContactNumber},
			{"Gender", user.Gender},
			{"Address", user.Address},
		},
	})
	return nil
}

func (s *Server) categoriesPage(c *gin.Context, v *pageView) error {
	categories, err := s.client.ListCategories(c.Request.Context())
	if err != nil {
		return err
	}

	sec := section{Heading: "Categories", Headers: []string{"Name", "Description"}, Empty: "No categories found."}
	for _, cat := range categories {
		sec.Rows = append(sec.Rows, []cell{
			link(cat.Name, fmt.Sprintf("/categories/%d", cat.ID)),
			text(cat.Description),
		})
	}
	v.Sections = append(v.Sections, sec)
	return nil
}

func (s *Server) categoryPage(c *gin.Context, v *pageView) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	products, err := s.client.FilterProducts(c.Request.Context(), client.ProductFilter{CategoryID: id, Name: c.Query("search")})
	if err != nil {
		return err
	}
	v.Sections = append(v.Sections, productsSection("Products", pageOf(c, v, products)))
	return nil
}

func (s *Server) productsPage(c *gin.Context, v *pageView) error {
	var filter client.ProductFilter
	filter.Name = strings.TrimSpace(c.Query("search"))
	if id, err := strconv.ParseInt(c.Query("categoryId"), 10, 64); err == nil {
		filter.CategoryID = id
	}
	if p, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &p
	}

	ctx := c.Request.Context()
	var products []models.Product
	var err error
	if filter == (client.ProductFilter{}) {
		products, err = s.client.ListProducts(ctx)
	} else {
		products, err = s.client.FilterProducts(ctx, filter)
	}
	if err != nil {
		return err
	}

	v.Sections = append(v.Sections, productsSection("Products", pageOf(c, v, products)))
	return nil
}

func productsSection(heading string, products []models.Product) section {
	sec := section{Heading: heading, Headers: []string{"Name", "Price", "Stock", "Category"}, Empty: "No products found."}
	for _, p := range products {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		sec.Rows = append(sec.Rows, []cell{
			link(p.Name, fmt.Sprintf("/products/%d", p.ID)),
			text(money(p.Price)),
			text(strconv.Itoa(p.Quantity)),
			text(category),
		})
	}
	return sec
}

func (s *Server) productPage(c *gin.Context, v *pageView) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := s.client.GetProduct(c.Request.Context(), id)
	if err != nil {
		return err
	}

	v.Title = p.Name
	sec := section{Heading: p.Name, Facts: []fact{
		{"Description", p.Description},
		{"Price", money(p.Price)},
		{"In stock", strconv.Itoa(p.Quantity)},
	}}
	if p.Category != nil {
		sec.Facts = append(sec.Facts, fact{"Category", p.Category.Name})
	}
	v.Sections = append(v.Sections, sec)

	if p.Quantity > 0 {
		v.AddToCart = p.ID
	}
	return nil
}

func (s *Server) cartPage(c *gin.Context, v *pageView) error {
	items, err := s.client.GetCart(c.Request.Context())
	if err != nil {
		return err
	}

	var total float64
	sec := section{Heading: "Your cart", Headers: []string{"Product", "Quantity", "Subtotal", ""}, Empty: "Your cart is empty."}
	for _, item := range items {
		name := "(removed product)"
		if item.Product != nil {
			name = item.Product.Name
		}
		total += item.Subtotal()
		sec.Rows = append(sec.Rows, []cell{
			text(name),
			text(strconv.Itoa(item.Quantity)),
			text(money(item.Subtotal())),
			{Text: "Remove", Href: fmt.Sprintf("/cart/%d/remove", item.ID), Post: true},
		})
	}
	if len(items) > 0 {
		sec.Facts = []fact{{"Total", money(total)}}
	}
	v.Sections = append(v.Sections, sec)
	return nil
}

func ordersSection(heading string, orders []models.Order) section {
	sec := section{Heading: heading, Headers: []string{"Order", "Date", "Status", "Total"}, Empty: "No orders yet."}
	for _, o := range orders {
		date := ""
		if o.OrderDate != nil {
			date = o.OrderDate.Format("2006-01-02")
		}
		sec.Rows = append(sec.Rows, []cell{
			text(fmt.Sprintf("#%d", o.ID)),
			text(date),
			text(string(o.Status)),
			text(money(o.TotalAmount)),
		})
	}
	return sec
}

func (s *Server) ordersPage(c *gin.Context, v *pageView) error {
	orders, err := s.client.ListOrders(c.Request.Context())
	if err != nil {
		return err
	}

	if placed := c.Query("placed"); placed != "" {
		v.Notice = fmt.Sprintf("Order #%s placed and paid.", placed)
	}
	v.Sections = append(v.Sections, ordersSection("Your orders", pageOf(c, v, orders)))
	return nil
}

func (s *Server) checkoutPage(c *gin.Context, v *pageView) error {
	ctx := c.Request.Context()

	items, err := s.client.GetCart(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		v.Sections = append(v.Sections, section{Heading: "Checkout", Empty: "Your cart is empty."})
		return nil
	}

	addresses, err := s.client.ListAddresses(ctx)
	if err != nil {
		return err
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	v.Checkout = &checkoutForm{
		Addresses: addresses,
		Methods:   []string{models.PaymentCreditCard, models.PaymentDebitCard, models.PaymentUPI},
		Total:     money(total),
	}
	return nil
}

func (s *Server) sellerDashboardPage(c *gin.Context, v *pageView) error {
	stats, err := s.client.SellerDashboard(c.Request.Context())
	if err != nil {
		return err
	}

	v.Sections = append(v.Sections, section{Heading: "Seller dashboard", Facts: []fact{
		{"Products", strconv.FormatInt(stats.TotalProducts, 10)},
		{"Orders", strconv.FormatInt(stats.TotalOrders, 10)},
		{"Revenue", money(stats.TotalRevenue)},
	}})
	return nil
}

func (s *Server) sellerProductsPage(c *gin.Context, v *pageView) error {
	products, err := s.client.SellerProducts(c.Request.Context())
	if err != nil {
		return err
	}
	v.Sections = append(v.Sections, productsSection("Your products", pageOf(c, v, products)))
	return nil
}

func (s *Server) sellerProfilePage(c *gin.Context, v *pageView) error {
	user, err := s.client.SellerProfile(c.Request.Context())
	if err != nil {
		return err
	}

	v.Sections = append(v.Sections, section{Heading: user.BusinessName, Facts: []fact{
		{"Owner", user.Name},
		{"Email", user.Email},
		{"Tax ID", user.TaxID},
		{"Business address", user.BusinessAddress},
		{"Contact", user.ContactNumber},
	}})
	return nil
}

func (s *Server) adminDashboardPage(c *gin.Context, v *pageView) error {
	stats, err := s.client.AdminDashboard(c.Request.Context())
	if err != nil {
		return err
	}

	v.Sections = append(v.Sections, section{Heading: "Admin dashboard", Facts: []fact{
		{"Users", strconv.FormatInt(stats.TotalUsers, 10)},
		{"Products", strconv.FormatInt(stats.TotalProducts, 10)},
		{"Orders", strconv.FormatInt(stats.TotalOrders, 10)},
		{"Revenue", money(stats.TotalRevenue)},
	}})
	return nil
}

func (s *Server) adminOrdersPage(c *gin.Context, v *pageView) error {
	orders, err := s.client.AdminOrders(c.Request.Context())
	if err != nil {
		return err
	}
	v.Sections = append(v.Sections, ordersSection("All orders", pageOf(c, v, orders)))
	return nil
}

// errorPage renders a failed form post on the page it came from
func (s *Server) errorPage(c *gin.Context, title string, err error) {
	st, _ := GetState(c)
	s.renderError(c, &pageView{Title: title, Identity: st.Identity, Nav: navFor(st)}, err)
}

func (s *Server) addToCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.PostForm("productId"), 10, 64)
	if err != nil || productID <= 0 {
		s.errorPage(c, "Cart", fmt.Errorf("%w: invalid product", errNotFound))
		return
	}
	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil || quantity <= 0 {
		quantity = 1
	}

	if err := s.client.AddToCart(c.Request.Context(), productID, quantity); err != nil {
		s.errorPage(c, "Cart", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) removeFromCart(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.errorPage(c, "Cart", err)
		return
	}

	if err := s.client.RemoveFromCart(c.Request.Context(), id); err != nil {
		s.errorPage(c, "Cart", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Server) checkout(c *gin.Context) {
	ctx := c.Request.Context()

	addressID, err := strconv.ParseInt(c.PostForm("addressId"), 10, 64)
	if err != nil || addressID <= 0 {
		s.errorPage(c, "Checkout", badRequest("Choose a shipping address."))
		return
	}
	method, err := models.ParsePaymentMethod(c.PostForm("paymentMethod"))
	if err != nil {
		s.errorPage(c, "Checkout", badRequest(err.Error()))
		return
	}

	items, err := s.client.GetCart(ctx)
	if err != nil {
		s.errorPage(c, "Checkout", err)
		return
	}
	if len(items) == 0 {
		s.errorPage(c, "Checkout", badRequest("Your cart is empty."))
		return
	}
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}

	order, err := s.client.PlaceOrder(ctx, addressID)
	if err != nil {
		s.errorPage(c, "Checkout", err)
		return
	}
	if order.TotalAmount > 0 {
		total = order.TotalAmount
	}

	payment, err := s.client.Pay(ctx, models.Payment{OrderID: order.ID, Amount: total, PaymentMethod: method})
	if err == nil && payment.Status != models.PaymentSucceeded {
		err = fmt.Errorf("payment status %s", payment.Status)
	}
	if err != nil {
		s.errorPage(c, "Checkout", fmt.Errorf("order #%d was placed but payment failed: %s", order.ID, errorMessage(err)))
		return
	}

	s.logger.Info().Int64("order_id", order.ID).Str("method", method).Msg("Order placed")
	c.Redirect(http.StatusSeeOther, "/orders?"+url.Values{"placed": {strconv.FormatInt(order.ID, 10)}}.Encode())
}
