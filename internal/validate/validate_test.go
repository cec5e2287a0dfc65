package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationForm {
	return RegistrationForm{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "Secret1",
		Role:     "USER",
	}
}

func TestRegistrationForm(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *RegistrationForm)
		wantField string
		wantMsg   string
	}{
		{"valid", func(f *RegistrationForm) {}, "", ""},
		{"missing name", func(f *RegistrationForm) { f.Name = "" }, "Name", "Name is required."},
		{"name with digits", func(f *RegistrationForm) { f.Name = "R2D2" }, "Name", "Only letters, spaces, hyphens; min 2 chars."},
		{"short name", func(f *RegistrationForm) { f.Name = "A" }, "Name", "Only letters, spaces, hyphens; min 2 chars."},
		{"bad email", func(f *RegistrationForm) { f.Email = "not-an-email" }, "Email", "Invalid email format."},
		{"weak password", func(f *RegistrationForm) { f.Password = "secret" }, "Password", "Min 6 chars, 1 uppercase, 1 lowercase, 1 number."},
		{"admin role refused", func(f *RegistrationForm) { f.Role = "ADMIN" }, "Role", "Must be one of: USER, SELLER."},
		{"contact with letters", func(f *RegistrationForm) { f.ContactNumber = "12345abcde" }, "ContactNumber", "Must be exactly 10 digits."},
		{"contact too short", func(f *RegistrationForm) { f.ContactNumber = "12345" }, "ContactNumber", "Must be exactly 10 digits."},
		{"valid contact", func(f *RegistrationForm) { f.ContactNumber = "0123456789" }, "", ""},
		{"seller without business", func(f *RegistrationForm) { f.Role = "SELLER" }, "BusinessName", "BusinessName is required."},
		{"seller with business", func(f *RegistrationForm) { f.Role = "SELLER"; f.BusinessName = "Acme" }, "", ""},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)

			err := v.Struct(form)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verrs Errors
			require.True(t, errors.As(err, &verrs), "expected validate.Errors, got %T", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.Equal(t, tt.wantMsg, verrs[0].Message)
		})
	}
}

func TestLoginForm(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(LoginForm{Email: "a@example.com", Password: "x"}))

	err := v.Struct(LoginForm{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Email: Email is required."))
	assert.True(t, strings.Contains(err.Error(), "Password: Password is required."))
}

func TestProductForm(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(ProductForm{Name: "Mug", Price: 4.5, Quantity: 10, CategoryID: 1}))

	err := v.Struct(ProductForm{Name: "Mug", Price: 0, Quantity: -1, CategoryID: 1})
	var verrs Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "Price", verrs[0].Field)
	assert.Equal(t, "Quantity", verrs[1].Field)
}

func TestAddressForm(t *testing.T) {
	v := New()

	form := AddressForm{AddressLine1: "1 Main St", City: "Pune", State: "MH", PostalCode: "411001", Country: "IN"}
	require.NoError(t, v.Struct(form))

	form.PostalCode = "!!"
	require.Error(t, v.Struct(form))
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcde1"))
	assert.False(t, StrongPassword("Abc1"))
	assert.False(t, StrongPassword("abcdef1"))
	assert.False(t, StrongPassword("ABCDEF1"))
	assert.False(t, StrongPassword("Abcdefg"))
}
