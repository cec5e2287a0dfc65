package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/quitq-dev/quitq/internal/models"
)

func statusQuery(status models.OrderStatus) (url.Values, error) {
	parsed, err := models.ParseOrderStatus(string(status))
	if err != nil {
		return nil, err
	}
	return url.Values{"status": {string(parsed)}}, nil
}

// SellerDashboard returns the signed-in seller's totals
func (c *Client) SellerDashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.getJSON(ctx, "/seller/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SellerProducts returns the signed-in seller's catalog
func (c *Client) SellerProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/seller/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct lists a new product
func (c *Client) AddProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/seller/products", nil, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a product's details
func (c *Client) UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, pathf("/seller/products/%d", product.ID), nil, product, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product from the seller's catalog
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/seller/products/%d", id), nil, nil, nil)
}

// SellerOrders returns the orders containing the seller's products
func (c *Client) SellerOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getJSON(ctx, "/seller/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerUpdateOrderStatus moves one of the seller's orders to a new status
func (c *Client) SellerUpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	q, err := statusQuery(status)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, pathf("/seller/orders/%d/status", orderID), q, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SellerProfile returns the signed-in seller's business profile
func (c *Client) SellerProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/seller/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateSellerProfile saves the seller's business profile
func (c *Client) UpdateSellerProfile(ctx context.Context, profile models.User) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/seller/profile", nil, profile, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDashboard returns platform-wide totals
func (c *Client) AdminDashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.getJSON(ctx, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminUsers returns every registered account
func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getJSON(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminDeleteUser removes an account
func (c *Client) AdminDeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, pathf("/admin/users/%d", id), nil, nil, nil)
}

// AdminOrders returns every order on the platform
func (c *Client) AdminOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getJSON(ctx, "/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminUpdateOrderStatus moves any order to a new status
func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	q, err := statusQuery(status)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := c.do(ctx, http.MethodPut, pathf("/admin/orders/%d/status", orderID), q, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
