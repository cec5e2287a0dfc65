package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is one of the closed set of account roles known to the marketplace
type Role string

const (
	RoleUser   Role = "USER"   // shopper
	RoleSeller Role = "SELLER" // owns a catalog and fulfils orders
	RoleAdmin  Role = "ADMIN"  // manages users, categories and all orders
)

// Roles lists every role, lowest privilege first
func Roles() []Role {
	return []Role{RoleUser, RoleSeller, RoleAdmin}
}

// ParseRole converts a backend role string into a Role.
// Matching ignores case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleSeller:
		return RoleSeller, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// IsValid reports whether r is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown roles
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Identity is the profile of the signed-in account as returned by the backend
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks that the identity carries a known role
func (i *Identity) Validate() error {
	if !i.Role.IsValid() {
		return fmt.Errorf("identity %d has invalid role %q", i.ID, i.Role)
	}
	return nil
}

// User is the full account record used by the profile and admin views
type User struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Password        string     `json:"password,omitempty"`
	Role            Role       `json:"role"`
	ContactNumber   string     `json:"contactNumber,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	Address         string     `json:"address,omitempty"`
	BusinessName    string     `json:"businessName,omitempty"`
	TaxID           string     `json:"taxId,omitempty"`
	BusinessAddress string     `json:"businessAddress,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// Identity projects the account record onto the session identity
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Category groups products in the catalog
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is a catalog entry
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    *Category `json:"category,omitempty"`
}

// CartItem is a product line in the shopper's cart
type CartItem struct {
	ID       int64    `json:"id"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
}

// Subtotal returns price times quantity for the line
func (c *CartItem) Subtotal() float64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * float64(c.Quantity)
}

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderPaid       OrderStatus = "PAID"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts user input into an OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderPaid, OrderCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("invalid order status %q, must be one of: PENDING, PROCESSING, SHIPPED, DELIVERED, PAID, CANCELLED", s)
	}
}

// OrderItem is a product line of a placed order
type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a placed order
type Order struct {
	ID                int64       `json:"id"`
	UserID            int64       `json:"userId"`
	ShippingAddressID int64       `json:"shippingAddressId"`
	OrderDate         *time.Time  `json:"orderDate,omitempty"`
	TotalAmount       float64     `json:"totalAmount"`
	Status            OrderStatus `json:"status"`
	OrderItems        []OrderItem `json:"orderItems,omitempty"`
}

// ShippingAddress is a delivery address saved by a shopper
type ShippingAddress struct {
	ID           int64  `json:"id,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
}

// Payment is a payment submitted for an order
type Payment struct {
	ID              int64   `json:"id,omitempty"`
	OrderID         int64   `json:"orderId"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"paymentMethod"`
	Status          string  `json:"status,omitempty"`
	TransactionDate string  `json:"transactionDate,omitempty"`
}

// DashboardStats summarises orders and revenue for the seller and admin dashboards
type DashboardStats struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalUsers    int64   `json:"totalUsers,omitempty"`
	TotalProducts int64   `json:"totalProducts,omitempty"`
}

// Payment methods accepted at checkout
const (
	PaymentCreditCard = "CREDIT_CARD"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentUPI        = "UPI"

	// PaymentSucceeded is the status of an accepted payment
	PaymentSucceeded = "SUCCESS"
)

// ParsePaymentMethod converts user input into one of the accepted payment methods
func ParsePaymentMethod(s string) (string, error) {
	method := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch method {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI:
		return method, nil
	default:
		return "", fmt.Errorf("invalid payment method %q, must be one of: CREDIT_CARD, DEBIT_CARD, UPI", s)
	}
}
