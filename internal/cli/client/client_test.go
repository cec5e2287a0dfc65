package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quitq-dev/quitq/internal/models"
)

type staticCredential string

func (s staticCredential) Credential() string { return string(s) }

func TestClient_AttachesBearerCredential(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		wantHeader string
	}{
		{"plain token", "abc", "Bearer abc"},
		{"already prefixed", "Bearer abc", "Bearer abc"},
		{"lower case prefix", "bearer   abc", "Bearer abc"},
		{"signed out", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotRequestID string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotRequestID = r.Header.Get("X-Request-ID")
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			c := New(srv.URL+"/api", staticCredential(tt.credential))
			_, err := c.GetCart(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantHeader, gotAuth)
			assert.Len(t, gotRequestID, 26, "request id should be a ULID")
		})
	}
}

func TestClient_ReadsCredentialPerRequest(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cred := &mutableCredential{}
	c := New(srv.URL, cred)

	_, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	cred.value = "tok-2"
	_, err = c.ListOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok-2"}, seen)
}

type mutableCredential struct{ value string }

func (m *mutableCredential) Credential() string { return m.value }

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, "Secret1", req.Password)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"Bearer abc.def.ghi","user":{"id":7,"name":"Ada","email":"ada@example.com","role":"SELLER"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", nil)
	resp, err := c.Login(context.Background(), "ada@example.com", "Secret1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc.def.ghi", resp.Token)
	assert.Equal(t, models.Identity{ID: 7, Name: "Ada", Email: "ada@example.com", Role: models.RoleSeller}, resp.User.Identity())
}

func TestClient_APIError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		unauthorized bool
	}{
		{"json message", http.StatusBadRequest, `{"message":"Invalid credentials"}`, "Invalid credentials", false},
		{"plain text", http.StatusBadRequest, `Admin registration is not allowed`, "Admin registration is not allowed", false},
		{"empty body", http.StatusNotFound, ``, "Not Found", false},
		{"unauthorized", http.StatusUnauthorized, `{"error":"token expired"}`, "token expired", true},
		{"forbidden", http.StatusForbidden, ``, "Forbidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, nil)
			err := c.DeleteCategory(context.Background(), 3)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestClient_RetriesServerErrorsOnReads(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id":1,"name":"Mug","price":4.5,"quantity":3}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.GetProduct(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryDecodeErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.AddToCart(context.Background(), 1, 2)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CatalogCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Cache-Control", "max-age=60")
		w.Write([]byte(`[{"id":1,"name":"Kitchen"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, WithCache())
	for i := 0; i < 3; i++ {
		categories, err := c.ListCategories(context.Background())
		require.NoError(t, err)
		require.Len(t, categories, 1)
	}
	assert.Equal(t, int32(1), calls.Load())

	// Cart reads never go through the cache
	for i := 0; i < 2; i++ {
		_, err := c.GetCart(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_QueryParameters(t *testing.T) {
	var gotQuery string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if strings.HasPrefix(r.URL.Path, "/products") {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()

	minPrice := 9.5
	_, err := c.FilterProducts(ctx, ProductFilter{CategoryID: 2, MinPrice: &minPrice, Name: "mug"})
	require.NoError(t, err)
	assert.Equal(t, "/products/filter", gotPath)
	assert.Equal(t, "categoryId=2&minPrice=9.5&name=mug", gotQuery)

	require.NoError(t, c.UpdateCartQuantity(ctx, 5, 3))
	assert.Equal(t, "/cart/update", gotPath)
	assert.Equal(t, "productId=5&quantity=3", gotQuery)

	_, err = c.PlaceOrder(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "shippingAddressId=11", gotQuery)

	_, err = c.AdminUpdateOrderStatus(ctx, 4, "shipped")
	require.NoError(t, err)
	assert.Equal(t, "/admin/orders/4/status", gotPath)
	assert.Equal(t, "status=SHIPPED", gotQuery)
}

func TestClient_RejectsUnknownOrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.SellerUpdateOrderStatus(context.Background(), 1, "LOST")
	require.Error(t, err)
}

func TestClient_RegisterReturnsPlainMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
		assert.Equal(t, models.RoleUser, user.Role)
		w.Write([]byte("Registered Successfully"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	msg, err := c.Register(context.Background(), models.User{Name: "Ada", Email: "ada@example.com", Password: "Secret1", Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "Registered Successfully", msg)
}
