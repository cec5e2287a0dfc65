package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quitq-dev/quitq/internal/models"
)

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// ProductFilter narrows a product listing. Zero values are omitted.
type ProductFilter struct {
	CategoryID int64
	MinPrice   *float64
	Name       string
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	return q
}

// ListProducts returns the whole catalog
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getCatalog(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FilterProducts returns the products matching f
func (c *Client) FilterProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var products []models.Product
	if err := c.getCatalog(ctx, "/products/filter", f.query(), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns one product
func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := c.getCatalog(ctx, pathf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories returns every category
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getCatalog(ctx, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category (admin only)
func (c *Client) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, category, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCategory removes a category (admin only)
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/categories/%d", id), nil, nil, nil)
}

func productQuantity(productID int64, quantity int) url.Values {
	return url.Values{
		"productId": {strconv.FormatInt(productID, 10)},
		"quantity":  {strconv.Itoa(quantity)},
	}
}

// GetCart returns the items in the signed-in user's cart
func (c *Client) GetCart(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.getJSON(ctx, "/cart", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart adds quantity units of a product to the cart
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", productQuantity(productID, quantity), nil, nil)
}

// UpdateCartQuantity sets the quantity of a product already in the cart
func (c *Client) UpdateCartQuantity(ctx context.Context, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPut, "/cart/update", productQuantity(productID, quantity), nil, nil)
}

// RemoveFromCart deletes a cart item
func (c *Client) RemoveFromCart(ctx context.Context, cartItemID int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/cart/%d", cartItemID), nil, nil, nil)
}

// ListOrders returns the signed-in user's orders
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getJSON(ctx, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns one order
func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := c.getJSON(ctx, pathf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// PlaceOrder checks out the cart to a shipping address
func (c *Client) PlaceOrder(ctx context.Context, shippingAddressID int64) (*models.Order, error) {
	q := url.Values{"shippingAddressId": {strconv.FormatInt(shippingAddressID, 10)}}
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", q, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListAddresses returns the signed-in user's shipping addresses
func (c *Client) ListAddresses(ctx context.Context) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	if err := c.getJSON(ctx, "/shipping-addresses", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// AddAddress saves a new shipping address
func (c *Client) AddAddress(ctx context.Context, address models.ShippingAddress) (*models.ShippingAddress, error) {
	address.ID = 0
	var created models.ShippingAddress
	if err := c.do(ctx, http.MethodPost, "/shipping-addresses", nil, address, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAddress removes a shipping address
func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/shipping-addresses/%d", id), nil, nil, nil)
}

// Pay records a payment against an order
func (c *Client) Pay(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	var recorded models.Payment
	if err := c.do(ctx, http.MethodPost, "/payments", nil, payment, &recorded); err != nil {
		return nil, err
	}
	return &recorded, nil
}
