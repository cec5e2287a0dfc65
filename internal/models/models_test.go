package models

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", "ADMIN", RoleAdmin, false},
		{"seller lowercase", "seller", RoleSeller, false},
		{"user with spaces", "  User ", RoleUser, false},
		{"empty", "", "", true},
		{"unknown", "SUPERUSER", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRole(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRole(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range Roles() {
		if !r.IsValid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "admin", "GUEST"} {
		if r.IsValid() {
			t.Errorf("%q should not be valid", r)
		}
	}
}

func TestIdentity_UnmarshalJSON(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"id":1,"role":"ADMIN","name":"A"}`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.ID != 1 || id.Name != "A" || id.Role != RoleAdmin {
		t.Errorf("unexpected identity: %+v", id)
	}
	if err := id.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestIdentity_UnmarshalJSON_InvalidRole(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"id":1,"role":"ROOT"}`), &id); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestIdentity_Validate_MissingRole(t *testing.T) {
	var id Identity
	if err := json.Unmarshal([]byte(`{"id":7,"name":"no role"}`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := id.Validate(); err == nil {
		t.Error("expected Validate() to reject identity without role")
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != OrderShipped {
		t.Errorf("got %q, want %q", got, OrderShipped)
	}

	if _, err := ParseOrderStatus("LOST"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{Product: &Product{Price: 2.5}, Quantity: 4}
	if got := item.Subtotal(); got != 10 {
		t.Errorf("Subtotal() = %v, want 10", got)
	}

	empty := CartItem{Quantity: 3}
	if got := empty.Subtotal(); got != 0 {
		t.Errorf("Subtotal() without product = %v, want 0", got)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"CREDIT_CARD", PaymentCreditCard, false},
		{"debit-card", PaymentDebitCard, false},
		{" upi ", PaymentUPI, false},
		{"cash", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePaymentMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePaymentMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePaymentMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
