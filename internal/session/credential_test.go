package session

import (
	"testing"
	"time"
)

func TestStripBearer(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc", "abc"},
		{"Bearer abc", "abc"},
		{"bearer   abc", "abc"},
		{"BEARER abc", "abc"},
		{"  Bearer abc  ", "abc"},
		{"Bearer", ""},
		{"Bearerabc", "Bearerabc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripBearer(tt.input); got != tt.want {
				t.Errorf("StripBearer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCredentialExpiry(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token := signedToken(t, expires)

	got, ok := CredentialExpiry("Bearer " + token)
	if !ok {
		t.Fatal("expected expiry for JWT credential")
	}
	if !got.Equal(expires) {
		t.Errorf("expiry = %v, want %v", got, expires)
	}

	if _, ok := CredentialExpiry("opaque-token"); ok {
		t.Error("opaque credentials have no expiry")
	}
}

func TestCredentialSubject(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))

	sub, ok := CredentialSubject(token)
	if !ok || sub != "a@example.com" {
		t.Errorf("CredentialSubject() = (%q, %v), want (%q, true)", sub, ok, "a@example.com")
	}
}
